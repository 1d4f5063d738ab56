package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispensing statuses
const (
	DispensingRequested = "requested"
	DispensingPrepared  = "prepared"
	DispensingDispensed = "dispensed"
	DispensingCancelled = "cancelled"
)

// DispensingStatuses lists every accepted dispensing status
var DispensingStatuses = []string{DispensingRequested, DispensingPrepared, DispensingDispensed, DispensingCancelled}

// Dispensing is a pharmacy delivery of medications
type Dispensing struct {
	ID             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID      primitive.ObjectID  `json:"patient_id" bson:"patient_id,omitempty"`
	DoctorID       primitive.ObjectID  `json:"doctor_id" bson:"doctor_id,omitempty"`
	PrescriptionID *primitive.ObjectID `json:"prescription_id,omitempty" bson:"prescription_id,omitempty"`
	FacilityID     *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	Status         string              `json:"status,omitempty" bson:"status,omitempty"`
	Items          []DispensingItem    `json:"items,omitempty" bson:"items,omitempty"`
	DispensedAt    *time.Time          `json:"dispensed_at,omitempty" bson:"dispensed_at,omitempty"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamps     `bson:",inline"`
}

// DispensingItem is one dispensed medication
type DispensingItem struct {
	DCI    string  `json:"dci" bson:"dci"`
	Qty    float64 `json:"qty" bson:"qty"`
	Brand  string  `json:"brand,omitempty" bson:"brand,omitempty"`
	Form   string  `json:"forme,omitempty" bson:"forme,omitempty"`
	Dosage string  `json:"posologie,omitempty" bson:"posologie,omitempty"`
	Notes  string  `json:"notes,omitempty" bson:"notes,omitempty"`
}
