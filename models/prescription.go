package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Prescription lists the medications ordered at a consultation
type Prescription struct {
	ID             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID      primitive.ObjectID  `json:"patient_id" bson:"patient_id,omitempty"`
	DoctorID       primitive.ObjectID  `json:"doctor_id" bson:"doctor_id,omitempty"`
	ConsultationID primitive.ObjectID  `json:"consultation_id" bson:"consultation_id,omitempty"`
	FacilityID     *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	Items          []PrescriptionItem  `json:"items,omitempty" bson:"items,omitempty"`
	Renewals       *int                `json:"renouvellements,omitempty" bson:"renouvellements,omitempty"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamps     `bson:",inline"`
}

// PrescriptionItem is one medication line
type PrescriptionItem struct {
	DCI               string `json:"dci" bson:"dci"`
	Form              string `json:"forme,omitempty" bson:"forme,omitempty"`
	Dosage            string `json:"posologie" bson:"posologie"`
	DurationDays      *int   `json:"duree_j,omitempty" bson:"duree_j,omitempty"`
	Contraindications string `json:"contre_indications,omitempty" bson:"contre_indications,omitempty"`
}
