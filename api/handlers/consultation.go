package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Consultation exported for testing purposes
type Consultation struct {
	DB    databases.ConsultationDatabase
	RefDB databases.ReferenceDatabase
}

type consultationRequest struct {
	PatientID     *string             `json:"patient_id" validate:"required,notblank"`
	DoctorID      *string             `json:"doctor_id" validate:"required,notblank"`
	FacilityID    *string             `json:"facility_id"`
	AppointmentID *string             `json:"appointment_id"`
	DateTime      *string             `json:"date_time" validate:"required,isodate"`
	Symptoms      *string             `json:"symptomes"`
	Diagnosis     *string             `json:"diagnostic"`
	Notes         *string             `json:"notes"`
	VitalSigns    *models.VitalSigns  `json:"vital_signs"`
	Attachments   []attachmentRequest `json:"attachments" validate:"omitempty,dive"`
}

type attachmentRequest struct {
	URL         *string `json:"url" validate:"required,url"`
	Name        *string `json:"name"`
	ContentType *string `json:"content_type"`
	PublicID    *string `json:"public_id"`
}

func (req *consultationRequest) normalize() {
	validation.Trim(req.DateTime)
	req.Symptoms = validation.Optional(req.Symptoms)
	req.Diagnosis = validation.Optional(req.Diagnosis)
	req.Notes = validation.Optional(req.Notes)
	for i := range req.Attachments {
		a := &req.Attachments[i]
		validation.Trim(a.URL)
		a.Name = validation.Optional(a.Name)
		a.ContentType = validation.Optional(a.ContentType)
		a.PublicID = validation.Optional(a.PublicID)
	}
}

func (req *consultationRequest) consultation(rr *refResolver) (models.Consultation, error) {
	doc := models.Consultation{
		PatientID:     rr.patient(req.PatientID),
		DoctorID:      rr.doctor(req.DoctorID),
		AppointmentID: rr.appointment(req.AppointmentID),
		FacilityID:    rr.facility(req.FacilityID),
		Symptoms:      validation.Value(req.Symptoms),
		Diagnosis:     validation.Value(req.Diagnosis),
		Notes:         validation.Value(req.Notes),
		VitalSigns:    req.VitalSigns,
	}
	if rr.err != nil {
		return doc, rr.err
	}
	if req.Attachments != nil {
		doc.Attachments = make([]models.Attachment, 0, len(req.Attachments))
		for _, a := range req.Attachments {
			doc.Attachments = append(doc.Attachments, models.Attachment{
				URL:         validation.Value(a.URL),
				Name:        validation.Value(a.Name),
				ContentType: validation.Value(a.ContentType),
				PublicID:    validation.Value(a.PublicID),
			})
		}
	}
	dt, err := validation.ParseISOPtr("date_time", req.DateTime)
	if err != nil {
		return doc, err
	}
	if dt != nil {
		doc.DateTime = *dt
	}
	return doc, nil
}

// CreateConsultationHandler records a consultation
func (c Consultation) CreateConsultationHandler(w http.ResponseWriter, r *http.Request) {
	var req consultationRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.consultation(newRefResolver(ctx, c.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, c.DB, &doc)
}

// ConsultationsHandler lists consultations, latest first
func (c Consultation) ConsultationsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("patient_id").
		objectID("doctor_id").
		objectID("facility_id").
		objectID("appointment_id").
		dateRange("date_time")
	list(w, r, c.DB, q, "date_time", -1)
}

// ConsultationByIDHandler returns a consultation by ID
func (c Consultation) ConsultationByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, c.DB, "consultation_id", "consultation")
}

// UpdateConsultationHandler merges the body into a consultation, attachments are
// replaced as a whole
func (c Consultation) UpdateConsultationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "consultation_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req consultationRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.consultation(newRefResolver(ctx, c.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc, "vital_signs")
	if err != nil {
		respondError(w, err)
		return
	}
	update(ctx, w, c.DB, id, "consultation", set)
}

// DeleteConsultationHandler soft-deletes a consultation
func (c Consultation) DeleteConsultationHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, c.DB, "consultation_id", "consultation")
}
