package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// HealthAuthority exported for testing purposes
type HealthAuthority struct {
	DB    databases.HealthReportDatabase
	RefDB databases.ReferenceDatabase
}

type healthReportRequest struct {
	FacilityID  *string                `json:"facility_id" validate:"required,notblank"`
	ReportType  *string                `json:"report_type" validate:"required,oneof=case_summary disease_reporting inventory other"`
	PeriodStart *string                `json:"period_start" validate:"required,isodate"`
	PeriodEnd   *string                `json:"period_end" validate:"required,isodate"`
	Status      *string                `json:"status" validate:"required,oneof=draft submitted accepted rejected"`
	Payload     map[string]interface{} `json:"payload"`
	ExternalRef *string                `json:"external_ref"`
	Notes       *string                `json:"notes"`
	SubmittedAt *string                `json:"submitted_at" validate:"omitempty,isodate"`
}

func (req *healthReportRequest) normalize() {
	validation.Trim(req.ReportType)
	validation.Trim(req.PeriodStart)
	validation.Trim(req.PeriodEnd)
	validation.Trim(req.Status)
	req.ExternalRef = validation.Optional(req.ExternalRef)
	req.Notes = validation.Optional(req.Notes)
	req.SubmittedAt = validation.Optional(req.SubmittedAt)
}

func (req *healthReportRequest) report(rr *refResolver) (models.HealthReport, error) {
	var doc models.HealthReport
	start, err := validation.ParseISOPtr("period_start", req.PeriodStart)
	if err != nil {
		return doc, err
	}
	end, err := validation.ParseISOPtr("period_end", req.PeriodEnd)
	if err != nil {
		return doc, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return doc, periodOrderError()
	}
	submitted, err := validation.ParseISOPtr("submitted_at", req.SubmittedAt)
	if err != nil {
		return doc, err
	}

	doc = models.HealthReport{
		FacilityID:  rr.facility(req.FacilityID),
		ReportType:  validation.Value(req.ReportType),
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      validation.Value(req.Status),
		ExternalRef: validation.Value(req.ExternalRef),
		Notes:       validation.Value(req.Notes),
		SubmittedAt: submitted,
	}
	if req.Payload != nil {
		doc.Payload = bson.M(req.Payload)
	}
	return doc, rr.err
}

// CreateHealthReportHandler stores a report for an existing facility
func (h HealthAuthority) CreateHealthReportHandler(w http.ResponseWriter, r *http.Request) {
	var req healthReportRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.report(newRefResolver(ctx, h.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, h.DB, &doc)
}

// HealthReportsHandler lists health-authority reports
func (h HealthAuthority) HealthReportsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("facility_id").
		enum("report_type", models.ReportTypes).
		enum("status", models.ReportStatuses).
		dateRange("period_start")
	list(w, r, h.DB, q, "created_at", -1)
}

// HealthReportByIDHandler returns a report by ID
func (h HealthAuthority) HealthReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, h.DB, "report_id", "health report")
}

// UpdateHealthReportHandler merges the body into a report. A patch carrying one
// bound only applies when the stored other bound keeps the period in order.
func (h HealthAuthority) UpdateHealthReportHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "report_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req healthReportRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.report(newRefResolver(ctx, h.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	filter := periodGuard(id, doc.PeriodStart, doc.PeriodEnd)
	saved, err := patch(ctx, h.DB, filter, set)
	if databases.IsNotFound(err) && len(filter) > 1 {
		if _, ferr := h.DB.FindOne(ctx, bson.M{"_id": id}); ferr == nil {
			err = periodOrderError()
		} else if !databases.IsNotFound(ferr) {
			err = ferr
		}
	}
	respondPatched(w, saved, err, "health report")
}

// periodGuard matches the report only when the bound left untouched keeps
// period_start <= period_end
func periodGuard(id primitive.ObjectID, start, end *time.Time) bson.M {
	filter := bson.M{"_id": id}
	switch {
	case start == nil && end != nil:
		filter["period_start"] = bson.M{"$lte": *end}
	case start != nil && end == nil:
		filter["period_end"] = bson.M{"$gte": *start}
	}
	return filter
}

func periodOrderError() error {
	return validation.Errorf("period_end", "period_end must be >= period_start")
}

// DeleteHealthReportHandler soft-deletes a report
func (h HealthAuthority) DeleteHealthReportHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.DB, "report_id", "health report")
}
