package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Facility is a hospital site referenced by most other records
type Facility struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Code       string             `json:"code,omitempty" bson:"code,omitempty"`
	Name       string             `json:"name,omitempty" bson:"name,omitempty"`
	Type       string             `json:"type,omitempty" bson:"type,omitempty"`
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`
	City       string             `json:"city,omitempty" bson:"city,omitempty"`
	Country    string             `json:"country,omitempty" bson:"country,omitempty"`
	Phone      string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Timestamps `bson:",inline"`
}
