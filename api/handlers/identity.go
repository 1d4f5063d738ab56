package handlers

import (
	"strings"

	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// patientIdentity requires every identity field
type patientIdentity struct {
	FirstName *string `json:"prenom" validate:"required,notblank"`
	LastName  *string `json:"nom" validate:"required,notblank"`
	BirthDate *string `json:"date_naissance" validate:"required,isodate"`
	Sex       *string `json:"sexe" validate:"required,oneof=M F X"`
}

// doctorIdentity only requires the names
type doctorIdentity struct {
	FirstName *string `json:"prenom" validate:"required,notblank"`
	LastName  *string `json:"nom" validate:"required,notblank"`
	BirthDate *string `json:"date_naissance" validate:"omitempty,isodate"`
	Sex       *string `json:"sexe" validate:"omitempty,oneof=M F X"`
}

func normalizeNames(first, last *string) {
	if first != nil {
		*first = validation.FirstName(*first)
	}
	if last != nil {
		*last = validation.LastName(*last)
	}
}

func normalizeSex(sex *string) *string {
	if sex == nil {
		return nil
	}
	s := validation.Sex(*sex)
	return &s
}

func (id *patientIdentity) normalize() {
	normalizeNames(id.FirstName, id.LastName)
	validation.Trim(id.BirthDate)
	id.Sex = normalizeSex(id.Sex)
}

func (id *doctorIdentity) normalize() {
	normalizeNames(id.FirstName, id.LastName)
	id.BirthDate = validation.Optional(id.BirthDate)
	id.Sex = validation.Optional(normalizeSex(id.Sex))
}

func identityModel(first, last, birth, sex *string) (*models.Identity, error) {
	birthDate, err := validation.ParseISOPtr("identite.date_naissance", birth)
	if err != nil {
		return nil, err
	}
	return &models.Identity{
		FirstName: validation.Value(first),
		LastName:  validation.Value(last),
		BirthDate: birthDate,
		Sex:       validation.Value(sex),
	}, nil
}

func (id *patientIdentity) identity() (*models.Identity, error) {
	if id == nil {
		return nil, nil
	}
	return identityModel(id.FirstName, id.LastName, id.BirthDate, id.Sex)
}

func (id *doctorIdentity) identity() (*models.Identity, error) {
	if id == nil {
		return nil, nil
	}
	return identityModel(id.FirstName, id.LastName, id.BirthDate, id.Sex)
}

// normalizeEmail trims and lower-cases an optional address
func normalizeEmail(p *string) *string {
	p = validation.Optional(p)
	if p != nil {
		*p = strings.ToLower(*p)
	}
	return p
}
