package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Consultation is a clinical encounter
type Consultation struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID     primitive.ObjectID  `json:"patient_id" bson:"patient_id,omitempty"`
	DoctorID      primitive.ObjectID  `json:"doctor_id" bson:"doctor_id,omitempty"`
	FacilityID    *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	AppointmentID *primitive.ObjectID `json:"appointment_id,omitempty" bson:"appointment_id,omitempty"`
	DateTime      time.Time           `json:"date_time" bson:"date_time,omitempty"`
	Symptoms      string              `json:"symptomes,omitempty" bson:"symptomes,omitempty"`
	Diagnosis     string              `json:"diagnostic,omitempty" bson:"diagnostic,omitempty"`
	Notes         string              `json:"notes,omitempty" bson:"notes,omitempty"`
	VitalSigns    *VitalSigns         `json:"vital_signs,omitempty" bson:"vital_signs,omitempty"`
	Attachments   []Attachment        `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Timestamps    `bson:",inline"`
}

// VitalSigns are the measurements taken during a consultation
type VitalSigns struct {
	Temperature     *float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	HeartRate       *float64 `json:"heart_rate,omitempty" bson:"heart_rate,omitempty"`
	RespiratoryRate *float64 `json:"respiratory_rate,omitempty" bson:"respiratory_rate,omitempty"`
	BloodPressure   string   `json:"blood_pressure,omitempty" bson:"blood_pressure,omitempty"`
	SpO2            *float64 `json:"spo2,omitempty" bson:"spo2,omitempty"`
	Weight          *float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Height          *float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// Attachment points at an uploaded file
type Attachment struct {
	URL         string `json:"url" bson:"url"`
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	ContentType string `json:"content_type,omitempty" bson:"content_type,omitempty"`
	PublicID    string `json:"public_id,omitempty" bson:"public_id,omitempty"`
}
