package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Laboratory order statuses
const (
	LabOrdered    = "ordered"
	LabInProgress = "in_progress"
	LabCompleted  = "completed"
	LabCancelled  = "cancelled"
)

// LabStatuses lists every accepted laboratory order status
var LabStatuses = []string{LabOrdered, LabInProgress, LabCompleted, LabCancelled}

// LabOrder is a laboratory test panel
type LabOrder struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID     primitive.ObjectID  `json:"patient_id" bson:"patient_id,omitempty"`
	DoctorID      primitive.ObjectID  `json:"doctor_id" bson:"doctor_id,omitempty"`
	FacilityID    *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	AppointmentID *primitive.ObjectID `json:"appointment_id,omitempty" bson:"appointment_id,omitempty"`
	Status        string              `json:"status,omitempty" bson:"status,omitempty"`
	DateOrdered   *time.Time          `json:"date_ordered,omitempty" bson:"date_ordered,omitempty"`
	DateReported  *time.Time          `json:"date_reported,omitempty" bson:"date_reported,omitempty"`
	Tests         []LabTest           `json:"tests,omitempty" bson:"tests,omitempty"`
	Notes         string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamps    `bson:",inline"`
}

// LabTest is one analysis within an order, Result is a number or a string
type LabTest struct {
	Code     string      `json:"code" bson:"code"`
	Name     string      `json:"name" bson:"name"`
	Status   string      `json:"status" bson:"status"`
	Result   interface{} `json:"result,omitempty" bson:"result,omitempty"`
	Unit     string      `json:"unit,omitempty" bson:"unit,omitempty"`
	RefRange string      `json:"ref_range,omitempty" bson:"ref_range,omitempty"`
	Abnormal *bool       `json:"abnormal,omitempty" bson:"abnormal,omitempty"`
}
