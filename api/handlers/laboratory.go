package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Laboratory exported for testing purposes
type Laboratory struct {
	DB    databases.LabOrderDatabase
	RefDB databases.ReferenceDatabase
}

type labOrderRequest struct {
	PatientID     *string          `json:"patient_id" validate:"required,notblank"`
	DoctorID      *string          `json:"doctor_id" validate:"required,notblank"`
	FacilityID    *string          `json:"facility_id"`
	AppointmentID *string          `json:"appointment_id"`
	Status        *string          `json:"status" validate:"required,oneof=ordered in_progress completed cancelled"`
	Tests         []labTestRequest `json:"tests" validate:"omitempty,dive"`
	DateReported  *string          `json:"date_reported" validate:"omitempty,isodate"`
	Notes         *string          `json:"notes"`
}

type labTestRequest struct {
	Code     *string     `json:"code" validate:"required,notblank"`
	Name     *string     `json:"name" validate:"required,notblank"`
	Status   *string     `json:"status" validate:"required,notblank"`
	Result   interface{} `json:"result"`
	Unit     *string     `json:"unit"`
	RefRange *string     `json:"ref_range"`
	Abnormal *bool       `json:"abnormal"`
}

func (req *labOrderRequest) normalize() {
	validation.Trim(req.Status)
	req.DateReported = validation.Optional(req.DateReported)
	req.Notes = validation.Optional(req.Notes)
	for i := range req.Tests {
		t := &req.Tests[i]
		validation.Trim(t.Code)
		validation.Trim(t.Name)
		validation.Trim(t.Status)
		t.Unit = validation.Optional(t.Unit)
		t.RefRange = validation.Optional(t.RefRange)
	}
}

func (req *labOrderRequest) labOrder(rr *refResolver) (models.LabOrder, error) {
	doc := models.LabOrder{
		PatientID:     rr.patient(req.PatientID),
		DoctorID:      rr.doctor(req.DoctorID),
		AppointmentID: rr.appointment(req.AppointmentID),
		FacilityID:    rr.facility(req.FacilityID),
		Status:        validation.Value(req.Status),
		Notes:         validation.Value(req.Notes),
	}
	if rr.err != nil {
		return doc, rr.err
	}
	if req.Tests != nil {
		doc.Tests = make([]models.LabTest, 0, len(req.Tests))
		for i, t := range req.Tests {
			switch t.Result.(type) {
			case nil, float64, string:
			default:
				field := fmt.Sprintf("tests[%d].result", i)
				return doc, validation.Errorf(field, "%s must be a number or a string", field)
			}
			doc.Tests = append(doc.Tests, models.LabTest{
				Code:     validation.Value(t.Code),
				Name:     validation.Value(t.Name),
				Status:   validation.Value(t.Status),
				Result:   t.Result,
				Unit:     validation.Value(t.Unit),
				RefRange: validation.Value(t.RefRange),
				Abnormal: t.Abnormal,
			})
		}
	}
	reported, err := validation.ParseISOPtr("date_reported", req.DateReported)
	if err != nil {
		return doc, err
	}
	doc.DateReported = reported
	return doc, nil
}

// CreateLabOrderHandler stores a laboratory order dated now
func (l Laboratory) CreateLabOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req labOrderRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.labOrder(newRefResolver(ctx, l.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.DateReported == nil && doc.Status == models.LabCompleted {
		doc.DateReported = nowUTC()
	}
	doc.DateOrdered = nowUTC()
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, l.DB, &doc)
}

// LabOrdersHandler lists laboratory orders, latest ordered first
func (l Laboratory) LabOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("patient_id").
		objectID("doctor_id").
		objectID("facility_id").
		objectID("appointment_id").
		enum("status", models.LabStatuses).
		dateRange("date_ordered")
	list(w, r, l.DB, q, "date_ordered", -1)
}

// LabOrderByIDHandler returns a laboratory order by ID
func (l Laboratory) LabOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, l.DB, "laboratory_id", "laboratory order")
}

// UpdateLabOrderHandler merges the body into a laboratory order, moving it to
// completed stamps date_reported unless the order already has one
func (l Laboratory) UpdateLabOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "laboratory_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req labOrderRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.labOrder(newRefResolver(ctx, l.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	saved, err := patch(ctx, l.DB, bson.M{"_id": id}, set)
	if err == nil && doc.DateReported == nil && doc.Status == models.LabCompleted && saved.DateReported == nil {
		saved, err = stampMissing(ctx, l.DB, id, "date_reported", saved)
	}
	respondPatched(w, saved, err, "laboratory order")
}

// DeleteLabOrderHandler soft-deletes a laboratory order
func (l Laboratory) DeleteLabOrderHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, l.DB, "laboratory_id", "laboratory order")
}
