package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Patient holds the patient directory entry
type Patient struct {
	ID              primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Identifier      string              `json:"identifiant,omitempty" bson:"identifiant,omitempty"`
	Email           string              `json:"email,omitempty" bson:"email,omitempty"`
	Identity        *Identity           `json:"identite,omitempty" bson:"identite,omitempty"`
	Contacts        *Contacts           `json:"contacts,omitempty" bson:"contacts,omitempty"`
	Allergies       []string            `json:"allergies,omitempty" bson:"allergies,omitempty"`
	ChronicDiseases []string            `json:"chronic_diseases,omitempty" bson:"chronic_diseases,omitempty"`
	Notes           string              `json:"notes,omitempty" bson:"notes,omitempty"`
	FacilityID      *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	Timestamps      `bson:",inline"`
}

// Contacts holds the ways to reach a patient
type Contacts struct {
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
}
