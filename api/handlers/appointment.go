package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Appointment exported for testing purposes
type Appointment struct {
	DB    databases.AppointmentDatabase
	RefDB databases.ReferenceDatabase
}

type appointmentRequest struct {
	PatientID  *string `json:"patient_id" validate:"required,notblank"`
	DoctorID   *string `json:"doctor_id" validate:"required,notblank"`
	FacilityID *string `json:"facility_id"`
	DateTime   *string `json:"date_time" validate:"required,isodate"`
	Status     *string `json:"status" validate:"omitempty,oneof=scheduled checked_in cancelled no_show completed"`
	Reason     *string `json:"reason"`
	Notes      *string `json:"notes"`
}

func (req *appointmentRequest) normalize() {
	validation.Trim(req.DateTime)
	req.Status = validation.Optional(req.Status)
	req.Reason = validation.Optional(req.Reason)
	req.Notes = validation.Optional(req.Notes)
}

func (req *appointmentRequest) appointment(rr *refResolver) (models.Appointment, error) {
	doc := models.Appointment{
		PatientID:  rr.patient(req.PatientID),
		DoctorID:   rr.doctor(req.DoctorID),
		FacilityID: rr.facility(req.FacilityID),
		Status:     validation.Value(req.Status),
		Reason:     validation.Value(req.Reason),
		Notes:      validation.Value(req.Notes),
	}
	if rr.err != nil {
		return doc, rr.err
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

// CreateAppointmentHandler books an appointment once the patient and doctor are known
func (a Appointment) CreateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.appointment(newRefResolver(ctx, a.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.Status == "" {
		doc.Status = models.AppointmentScheduled
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert[models.Appointment](ctx, w, a.DB, &doc)
}

// AppointmentsHandler lists appointments by ascending date_time with the patient's
// display name and identifiant
func (a Appointment) AppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("patient_id").
		objectID("doctor_id").
		objectID("facility_id").
		enum("status", models.AppointmentStatuses).
		dateRange("date_time")
	if q.err != nil {
		respondError(w, q.err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	views, err := a.DB.FindWithPatient(ctx, q.filter)
	if err != nil {
		respondError(w, err)
		return
	}
	if views == nil {
		views = []models.AppointmentView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// AppointmentByIDHandler returns an appointment by ID
func (a Appointment) AppointmentByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID[models.Appointment](w, r, a.DB, "appointment_id", "appointment")
}

// UpdateAppointmentHandler merges the body into an appointment. Any status may
// replace any other.
func (a Appointment) UpdateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "appointment_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req appointmentRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.appointment(newRefResolver(ctx, a.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	update[models.Appointment](ctx, w, a.DB, id, "appointment", set)
}

// DeleteAppointmentHandler soft-deletes an appointment
func (a Appointment) DeleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	softDelete[models.Appointment](w, r, a.DB, "appointment_id", "appointment")
}
