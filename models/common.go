package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Timestamps holds the fields every stored document carries
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	Deleted   bool      `json:"deleted" bson:"deleted"`
}

// NewTimestamps stamps both dates with now and clears the deleted flag
func NewTimestamps(now time.Time) Timestamps {
	now = now.UTC()
	return Timestamps{CreatedAt: now, UpdatedAt: now}
}

// Sexes lists the accepted values of identite.sexe
var Sexes = []string{"M", "F", "X"}

// Identity is the nested identity block shared by patients and doctors
type Identity struct {
	FirstName string     `json:"prenom,omitempty" bson:"prenom,omitempty"`
	LastName  string     `json:"nom,omitempty" bson:"nom,omitempty"`
	BirthDate *time.Time `json:"date_naissance,omitempty" bson:"date_naissance,omitempty"`
	Sex       string     `json:"sexe,omitempty" bson:"sexe,omitempty"`
}

// FullName is "prenom nom"
func (i Identity) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// InsertedResponse is returned by every create handler
type InsertedResponse struct {
	ID primitive.ObjectID `json:"_id"`
}
