package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification enumerations
var (
	NotificationChannels = []string{"sms", "email", "push"}
	NotificationStatuses = []string{"queued", "sent", "failed", "read"}
	NotificationRefTypes = []string{"appointment", "consultation", "prescription", "payment", "other"}
)

// NotificationSent is the status that stamps sent_at
const NotificationSent = "sent"

// Notification is an outbound message queue entry, expired entries are removed by the store
type Notification struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Channel     string              `json:"channel,omitempty" bson:"channel,omitempty"`
	Status      string              `json:"status,omitempty" bson:"status,omitempty"`
	Template    string              `json:"template,omitempty" bson:"template,omitempty"`
	Payload     bson.M              `json:"payload,omitempty" bson:"payload,omitempty"`
	RefType     string              `json:"ref_type,omitempty" bson:"ref_type,omitempty"`
	RefID       *primitive.ObjectID `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	ToPatientID *primitive.ObjectID `json:"to_patient_id,omitempty" bson:"to_patient_id,omitempty"`
	ToDoctorID  *primitive.ObjectID `json:"to_doctor_id,omitempty" bson:"to_doctor_id,omitempty"`
	SendAt      *time.Time          `json:"send_at,omitempty" bson:"send_at,omitempty"`
	SentAt      *time.Time          `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	Error       string              `json:"error,omitempty" bson:"error,omitempty"`
	Timestamps  `bson:",inline"`
}
