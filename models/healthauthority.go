package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Health-authority report enumerations
var (
	ReportTypes    = []string{"case_summary", "disease_reporting", "inventory", "other"}
	ReportStatuses = []string{"draft", "submitted", "accepted", "rejected"}
)

// HealthReport is a periodic compliance report sent to the health authority
type HealthReport struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	FacilityID  *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	ReportType  string              `json:"report_type,omitempty" bson:"report_type,omitempty"`
	PeriodStart *time.Time          `json:"period_start,omitempty" bson:"period_start,omitempty"`
	PeriodEnd   *time.Time          `json:"period_end,omitempty" bson:"period_end,omitempty"`
	Status      string              `json:"status,omitempty" bson:"status,omitempty"`
	Payload     bson.M              `json:"payload,omitempty" bson:"payload,omitempty"`
	ExternalRef string              `json:"external_ref,omitempty" bson:"external_ref,omitempty"`
	Notes       string              `json:"notes,omitempty" bson:"notes,omitempty"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	Timestamps  `bson:",inline"`
}
