package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Doctor holds the doctor directory entry
type Doctor struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Identity      *Identity           `json:"identite,omitempty" bson:"identite,omitempty"`
	Specialties   []string            `json:"specialites,omitempty" bson:"specialites,omitempty"`
	LicenseNumber string              `json:"license_number,omitempty" bson:"license_number,omitempty"`
	Email         string              `json:"email,omitempty" bson:"email,omitempty"`
	Phone         string              `json:"phone,omitempty" bson:"phone,omitempty"`
	FacilityID    *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	Timestamps    `bson:",inline"`
}
