package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Doctor exported for testing purposes
type Doctor struct {
	DB    databases.DoctorDatabase
	RefDB databases.ReferenceDatabase
}

type doctorRequest struct {
	Identity      *doctorIdentity `json:"identite" validate:"required"`
	Specialties   []string        `json:"specialites" validate:"required,min=1"`
	LicenseNumber *string         `json:"license_number"`
	Email         *string         `json:"email" validate:"omitempty,email"`
	Phone         *string         `json:"phone"`
	FacilityID    *string         `json:"facility_id"`
}

func (req *doctorRequest) normalize() {
	if req.Identity != nil {
		req.Identity.normalize()
	}
	req.Specialties = validation.TrimAll(req.Specialties)
	req.LicenseNumber = validation.Optional(req.LicenseNumber)
	req.Email = normalizeEmail(req.Email)
	req.Phone = validation.Optional(req.Phone)
}

func (req *doctorRequest) doctor(rr *refResolver) (models.Doctor, error) {
	identity, err := req.Identity.identity()
	if err != nil {
		return models.Doctor{}, err
	}
	doc := models.Doctor{
		Identity:      identity,
		Specialties:   req.Specialties,
		LicenseNumber: validation.Value(req.LicenseNumber),
		Email:         validation.Value(req.Email),
		Phone:         validation.Value(req.Phone),
		FacilityID:    rr.facility(req.FacilityID),
	}
	return doc, rr.err
}

// CreateDoctorHandler stores a new doctor
func (d Doctor) CreateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	var req doctorRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.doctor(newRefResolver(ctx, d.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, d.DB, &doc)
}

// DoctorsHandler lists doctors, specialite matches any of their specialites
func (d Doctor) DoctorsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("facility_id").
		text("specialite", "specialites").
		text("license_number", "license_number")
	list(w, r, d.DB, q, "created_at", -1)
}

// DoctorByIDHandler returns a doctor by ID
func (d Doctor) DoctorByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, d.DB, "doctor_id", "doctor")
}

// UpdateDoctorHandler merges the body into a doctor
func (d Doctor) UpdateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "doctor_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req doctorRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.doctor(newRefResolver(ctx, d.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc, "identite")
	if err != nil {
		respondError(w, err)
		return
	}
	update(ctx, w, d.DB, id, "doctor", set)
}

// DeleteDoctorHandler soft-deletes a doctor
func (d Doctor) DeleteDoctorHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, d.DB, "doctor_id", "doctor")
}
