package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Prescription exported for testing purposes
type Prescription struct {
	DB    databases.PrescriptionDatabase
	RefDB databases.ReferenceDatabase
}

type prescriptionRequest struct {
	PatientID      *string                   `json:"patient_id" validate:"required,notblank"`
	DoctorID       *string                   `json:"doctor_id" validate:"required,notblank"`
	ConsultationID *string                   `json:"consultation_id" validate:"required,notblank"`
	FacilityID     *string                   `json:"facility_id"`
	Items          []prescriptionItemRequest `json:"items" validate:"required,min=1,dive"`
	Renewals       *int                      `json:"renouvellements" validate:"omitempty,gte=0"`
	Notes          *string                   `json:"notes"`
}

type prescriptionItemRequest struct {
	DCI               *string `json:"dci" validate:"required,notblank"`
	Form              *string `json:"forme"`
	Dosage            *string `json:"posologie" validate:"required,notblank"`
	DurationDays      *int    `json:"duree_j" validate:"omitempty,gte=0"`
	Contraindications *string `json:"contre_indications"`
}

func (req *prescriptionRequest) normalize() {
	for i := range req.Items {
		it := &req.Items[i]
		validation.Trim(it.DCI)
		validation.Trim(it.Dosage)
		it.Form = validation.Optional(it.Form)
		it.Contraindications = validation.Optional(it.Contraindications)
	}
	req.Notes = validation.Optional(req.Notes)
}

func (req *prescriptionRequest) prescription(rr *refResolver) (models.Prescription, error) {
	doc := models.Prescription{
		PatientID:      rr.patient(req.PatientID),
		DoctorID:       rr.doctor(req.DoctorID),
		ConsultationID: rr.required("consultation_id", databases.ConsultationCollection, "consultation", req.ConsultationID),
		FacilityID:     rr.facility(req.FacilityID),
		Renewals:       req.Renewals,
		Notes:          validation.Value(req.Notes),
	}
	if req.Items != nil {
		doc.Items = make([]models.PrescriptionItem, 0, len(req.Items))
		for _, it := range req.Items {
			doc.Items = append(doc.Items, models.PrescriptionItem{
				DCI:               validation.Value(it.DCI),
				Form:              validation.Value(it.Form),
				Dosage:            validation.Value(it.Dosage),
				DurationDays:      it.DurationDays,
				Contraindications: validation.Value(it.Contraindications),
			})
		}
	}
	return doc, rr.err
}

// CreatePrescriptionHandler stores the medications ordered at a consultation
func (p Prescription) CreatePrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	var req prescriptionRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.prescription(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.Renewals == nil {
		zero := 0
		doc.Renewals = &zero
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, p.DB, &doc)
}

// PrescriptionsHandler lists prescriptions
func (p Prescription) PrescriptionsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("patient_id").
		objectID("doctor_id").
		objectID("consultation_id").
		objectID("facility_id")
	list(w, r, p.DB, q, "created_at", -1)
}

// PrescriptionByIDHandler returns a prescription by ID
func (p Prescription) PrescriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, p.DB, "prescription_id", "prescription")
}

// UpdatePrescriptionHandler merges the body into a prescription, items are replaced
// as a whole
func (p Prescription) UpdatePrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "prescription_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req prescriptionRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.prescription(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	update(ctx, w, p.DB, id, "prescription", set)
}

// DeletePrescriptionHandler soft-deletes a prescription
func (p Prescription) DeletePrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, p.DB, "prescription_id", "prescription")
}
