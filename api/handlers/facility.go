package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Facility exported for testing purposes
type Facility struct {
	DB databases.FacilityDatabase
}

type facilityRequest struct {
	Code    *string `json:"code" validate:"required,notblank"`
	Name    *string `json:"name" validate:"required,notblank"`
	Type    *string `json:"type"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Phone   *string `json:"phone"`
}

func (req *facilityRequest) normalize() {
	validation.Upper(req.Code)
	validation.Trim(req.Name)
	req.Type = validation.Optional(req.Type)
	req.Address = validation.Optional(req.Address)
	req.City = validation.Optional(req.City)
	req.Country = validation.Optional(req.Country)
	req.Phone = validation.Optional(req.Phone)
}

func (req *facilityRequest) facility() models.Facility {
	return models.Facility{
		Code:    validation.Value(req.Code),
		Name:    validation.Value(req.Name),
		Type:    validation.Value(req.Type),
		Address: validation.Value(req.Address),
		City:    validation.Value(req.City),
		Country: validation.Value(req.Country),
		Phone:   validation.Value(req.Phone),
	}
}

// CreateFacilityHandler stores a new facility
func (f Facility) CreateFacilityHandler(w http.ResponseWriter, r *http.Request) {
	var req facilityRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc := req.facility()
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert[models.Facility](ctx, w, f.DB, &doc)
}

// FacilitiesHandler lists facilities, optionally by code or type
func (f Facility) FacilitiesHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).text("code", "code").text("type", "type")
	list[models.Facility](w, r, f.DB, q, "created_at", -1)
}

// FacilityByIDHandler returns a facility by ID
func (f Facility) FacilityByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID[models.Facility](w, r, f.DB, "facility_id", "facility")
}

// UpdateFacilityHandler merges the body into a facility
func (f Facility) UpdateFacilityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "facility_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req facilityRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(req.facility())
	if err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update[models.Facility](ctx, w, f.DB, id, "facility", set)
}

// DeleteFacilityHandler soft-deletes a facility
func (f Facility) DeleteFacilityHandler(w http.ResponseWriter, r *http.Request) {
	softDelete[models.Facility](w, r, f.DB, "facility_id", "facility")
}
