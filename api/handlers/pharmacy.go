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

// Pharmacy exported for testing purposes
type Pharmacy struct {
	DB    databases.DispensingDatabase
	RefDB databases.ReferenceDatabase
}

type dispensingRequest struct {
	PatientID      *string                 `json:"patient_id" validate:"required,notblank"`
	DoctorID       *string                 `json:"doctor_id" validate:"required,notblank"`
	PrescriptionID *string                 `json:"prescription_id"`
	FacilityID     *string                 `json:"facility_id"`
	Status         *string                 `json:"status" validate:"required,oneof=requested prepared dispensed cancelled"`
	Items          []dispensingItemRequest `json:"items" validate:"required,min=1,dive"`
	DispensedAt    *string                 `json:"dispensed_at" validate:"omitempty,isodate"`
	Notes          *string                 `json:"notes"`
}

// dispensingItemRequest takes the quantity as qty or quantity, a number or a
// numeric string
type dispensingItemRequest struct {
	DCI      *string     `json:"dci" validate:"required,notblank"`
	Qty      interface{} `json:"qty"`
	Quantity interface{} `json:"quantity"`
	Brand    *string     `json:"brand"`
	Form     *string     `json:"forme"`
	Dosage   *string     `json:"posologie"`
	Notes    *string     `json:"notes"`
}

func (req *dispensingRequest) normalize() {
	validation.Trim(req.Status)
	req.DispensedAt = validation.Optional(req.DispensedAt)
	req.Notes = validation.Optional(req.Notes)
	for i := range req.Items {
		it := &req.Items[i]
		validation.Trim(it.DCI)
		it.Brand = validation.Optional(it.Brand)
		it.Form = validation.Optional(it.Form)
		it.Dosage = validation.Optional(it.Dosage)
		it.Notes = validation.Optional(it.Notes)
	}
}

func (it dispensingItemRequest) quantity(i int) (float64, error) {
	field := fmt.Sprintf("items[%d].qty", i)
	v := it.Qty
	if v == nil {
		v = it.Quantity
	}
	qty, err := optionalNumber(field, v)
	switch {
	case err != nil:
		return 0, err
	case qty == nil:
		return 0, validation.Errorf(field, "%s is required", field)
	case *qty < 0:
		return 0, validation.Errorf(field, "%s must be >= 0", field)
	}
	return *qty, nil
}

func (req *dispensingRequest) dispensing(rr *refResolver) (models.Dispensing, error) {
	doc := models.Dispensing{
		Status: validation.Value(req.Status),
		Notes:  validation.Value(req.Notes),
	}
	if req.Items != nil {
		doc.Items = make([]models.DispensingItem, 0, len(req.Items))
		for i, it := range req.Items {
			qty, err := it.quantity(i)
			if err != nil {
				return doc, err
			}
			doc.Items = append(doc.Items, models.DispensingItem{
				DCI:    validation.Value(it.DCI),
				Qty:    qty,
				Brand:  validation.Value(it.Brand),
				Form:   validation.Value(it.Form),
				Dosage: validation.Value(it.Dosage),
				Notes:  validation.Value(it.Notes),
			})
		}
	}
	dispensedAt, err := validation.ParseISOPtr("dispensed_at", req.DispensedAt)
	if err != nil {
		return doc, err
	}
	doc.DispensedAt = dispensedAt

	doc.PatientID = rr.patient(req.PatientID)
	doc.DoctorID = rr.doctor(req.DoctorID)
	doc.PrescriptionID = rr.optional("prescription_id", databases.PrescriptionCollection, "prescription", req.PrescriptionID)
	doc.FacilityID = rr.facility(req.FacilityID)
	return doc, rr.err
}

// CreateDispensingHandler records medications delivered by the pharmacy
func (p Pharmacy) CreateDispensingHandler(w http.ResponseWriter, r *http.Request) {
	var req dispensingRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.dispensing(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.DispensedAt == nil && doc.Status == models.DispensingDispensed {
		doc.DispensedAt = nowUTC()
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, p.DB, &doc)
}

// DispensingsHandler lists pharmacy dispensings
func (p Pharmacy) DispensingsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("patient_id").
		objectID("doctor_id").
		objectID("prescription_id").
		objectID("facility_id").
		enum("status", models.DispensingStatuses).
		dateRange("dispensed_at")
	list(w, r, p.DB, q, "created_at", -1)
}

// DispensingByIDHandler returns a dispensing by ID
func (p Pharmacy) DispensingByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, p.DB, "pharmacy_id", "dispensing")
}

// UpdateDispensingHandler merges the body into a dispensing, moving it to dispensed
// stamps dispensed_at unless it already has one
func (p Pharmacy) UpdateDispensingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pharmacy_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req dispensingRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.dispensing(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	saved, err := patch(ctx, p.DB, bson.M{"_id": id}, set)
	if err == nil && doc.DispensedAt == nil && doc.Status == models.DispensingDispensed && saved.DispensedAt == nil {
		saved, err = stampMissing(ctx, p.DB, id, "dispensed_at", saved)
	}
	respondPatched(w, saved, err, "dispensing")
}

// DeleteDispensingHandler soft-deletes a dispensing
func (p Pharmacy) DeleteDispensingHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, p.DB, "pharmacy_id", "dispensing")
}
