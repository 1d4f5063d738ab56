package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses
const (
	AppointmentScheduled = "scheduled"
	AppointmentCheckedIn = "checked_in"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
	AppointmentCompleted = "completed"
)

// AppointmentStatuses lists every accepted appointment status
var AppointmentStatuses = []string{AppointmentScheduled, AppointmentCheckedIn, AppointmentCancelled, AppointmentNoShow, AppointmentCompleted}

// Appointment is a patient/doctor time slot
type Appointment struct {
	ID         primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID  primitive.ObjectID  `json:"patient_id" bson:"patient_id,omitempty"`
	DoctorID   primitive.ObjectID  `json:"doctor_id" bson:"doctor_id,omitempty"`
	FacilityID *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	DateTime   time.Time           `json:"date_time" bson:"date_time,omitempty"`
	Status     string              `json:"status,omitempty" bson:"status,omitempty"`
	Reason     string              `json:"reason,omitempty" bson:"reason,omitempty"`
	Notes      string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamps `bson:",inline"`
}

// AppointmentView is an appointment joined with its patient's display fields
type AppointmentView struct {
	Appointment       `bson:",inline"`
	PatientName       string `json:"patient_name" bson:"patient_name"`
	PatientIdentifier string `json:"patient_identifier" bson:"patient_identifier"`
}
