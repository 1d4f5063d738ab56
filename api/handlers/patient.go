package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Patient exported for testing purposes
type Patient struct {
	DB        databases.PatientDatabase
	RefDB     databases.ReferenceDatabase
	CounterDB databases.CounterDatabase
	// IDPrefix starts every generated identifiant
	IDPrefix string
}

type patientRequest struct {
	Identifier      *string          `json:"identifiant"`
	Email           *string          `json:"email" validate:"omitempty,email"`
	Identity        *patientIdentity `json:"identite" validate:"required"`
	Contacts        *models.Contacts `json:"contacts"`
	Allergies       []string         `json:"allergies"`
	ChronicDiseases []string         `json:"chronic_diseases"`
	Notes           *string          `json:"notes"`
	FacilityID      *string          `json:"facility_id"`
}

func (req *patientRequest) normalize() {
	req.Identifier = validation.Optional(req.Identifier)
	req.Email = normalizeEmail(req.Email)
	if req.Identity != nil {
		req.Identity.normalize()
	}
	if c := req.Contacts; c != nil {
		c.Phone = strings.TrimSpace(c.Phone)
		c.Address = strings.TrimSpace(c.Address)
		c.City = strings.TrimSpace(c.City)
	}
	req.Allergies = validation.TrimAll(req.Allergies)
	req.ChronicDiseases = validation.TrimAll(req.ChronicDiseases)
	req.Notes = validation.Optional(req.Notes)
}

func (req *patientRequest) patient(rr *refResolver) (models.Patient, error) {
	identity, err := req.Identity.identity()
	if err != nil {
		return models.Patient{}, err
	}
	doc := models.Patient{
		Identifier:      validation.Value(req.Identifier),
		Email:           validation.Value(req.Email),
		Identity:        identity,
		Contacts:        req.Contacts,
		Allergies:       req.Allergies,
		ChronicDiseases: req.ChronicDiseases,
		Notes:           validation.Value(req.Notes),
		FacilityID:      rr.facility(req.FacilityID),
	}
	return doc, rr.err
}

// CreatePatientHandler stores a new patient, generating its identifiant when the
// body has none
func (p Patient) CreatePatientHandler(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.patient(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.Identifier == "" {
		seq, err := p.CounterDB.Next(ctx, databases.PatientSequence)
		if err != nil {
			respondError(w, fmt.Errorf("failed to generate identifiant: %w", err))
			return
		}
		doc.Identifier = fmt.Sprintf("%s-%05d", p.IDPrefix, seq)
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, p.DB, &doc)
}

// PatientsHandler lists patients
func (p Patient) PatientsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("facility_id").
		text("identifiant", "identifiant").
		text("email", "email")
	list(w, r, p.DB, q, "created_at", -1)
}

// PatientByIDHandler returns a patient by ID
func (p Patient) PatientByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, p.DB, "patient_id", "patient")
}

// UpdatePatientHandler merges the body into a patient, identite and contacts are
// merged key by key
func (p Patient) UpdatePatientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "patient_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req patientRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.patient(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc, "identite", "contacts")
	if err != nil {
		respondError(w, err)
		return
	}
	update(ctx, w, p.DB, id, "patient", set)
}

// DeletePatientHandler soft-deletes a patient
func (p Patient) DeletePatientHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, p.DB, "patient_id", "patient")
}
