package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// Payment exported for testing purposes
type Payment struct {
	DB    databases.PaymentDatabase
	RefDB databases.ReferenceDatabase
}

type paymentRequest struct {
	PatientID      *string              `json:"patient_id" validate:"required,notblank"`
	AppointmentID  *string              `json:"appointment_id"`
	ConsultationID *string              `json:"consultation_id"`
	FacilityID     *string              `json:"facility_id"`
	InvoiceNo      *string              `json:"invoice_no"`
	Amount         *float64             `json:"amount" validate:"required,gte=0"`
	Currency       *string              `json:"currency" validate:"required,oneof=XAF XOF EUR USD"`
	Method         *string              `json:"method" validate:"omitempty,oneof=cash card mobile insurance"`
	Status         *string              `json:"status" validate:"required,oneof=pending paid failed refunded cancelled"`
	Items          []paymentItemRequest `json:"items" validate:"omitempty,dive"`
	DueDate        *string              `json:"due_date" validate:"omitempty,isodate"`
	PaidAt         *string              `json:"paid_at" validate:"omitempty,isodate"`
}

type paymentItemRequest struct {
	RefType *string  `json:"ref_type" validate:"omitempty,oneof=appointment consultation laboratory pharmacy other"`
	RefID   *string  `json:"ref_id"`
	Label   *string  `json:"label"`
	Amount  *float64 `json:"amount" validate:"omitempty,gte=0"`
}

func (req *paymentRequest) normalize() {
	req.InvoiceNo = validation.Optional(req.InvoiceNo)
	validation.Upper(req.Currency)
	req.Method = validation.Optional(req.Method)
	validation.Trim(req.Status)
	req.DueDate = validation.Optional(req.DueDate)
	req.PaidAt = validation.Optional(req.PaidAt)
	for i := range req.Items {
		it := &req.Items[i]
		it.RefType = validation.Optional(it.RefType)
		it.RefID = validation.Optional(it.RefID)
		it.Label = validation.Optional(it.Label)
	}
}

func roundedAmount(field string, v *float64) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	rounded, err := validation.RoundAmount(*v)
	if err != nil {
		return nil, validation.Errorf(field, "%s must be a number", field)
	}
	return &rounded, nil
}

func (req *paymentRequest) items() ([]models.PaymentItem, error) {
	if req.Items == nil {
		return nil, nil
	}
	items := make([]models.PaymentItem, 0, len(req.Items))
	for i, it := range req.Items {
		item := models.PaymentItem{
			RefType: validation.Value(it.RefType),
			Label:   validation.Value(it.Label),
		}
		if it.RefID != nil {
			id, err := parseObjectID(fmt.Sprintf("items[%d].ref_id", i), *it.RefID)
			if err != nil {
				return nil, err
			}
			item.RefID = &id
		}
		amount, err := roundedAmount(fmt.Sprintf("items[%d].amount", i), it.Amount)
		if err != nil {
			return nil, err
		}
		item.Amount = amount
		items = append(items, item)
	}
	return items, nil
}

func (req *paymentRequest) payment(rr *refResolver) (models.Payment, error) {
	var doc models.Payment
	amount, err := roundedAmount("amount", req.Amount)
	if err != nil {
		return doc, err
	}
	items, err := req.items()
	if err != nil {
		return doc, err
	}
	dueDate, err := validation.ParseISOPtr("due_date", req.DueDate)
	if err != nil {
		return doc, err
	}
	paidAt, err := validation.ParseISOPtr("paid_at", req.PaidAt)
	if err != nil {
		return doc, err
	}

	doc = models.Payment{
		PatientID:      rr.patient(req.PatientID),
		AppointmentID:  rr.appointment(req.AppointmentID),
		ConsultationID: rr.optional("consultation_id", databases.ConsultationCollection, "consultation", req.ConsultationID),
		FacilityID:     rr.facility(req.FacilityID),
		InvoiceNo:      validation.Value(req.InvoiceNo),
		Amount:         amount,
		Currency:       validation.Value(req.Currency),
		Method:         validation.Value(req.Method),
		Status:         validation.Value(req.Status),
		Items:          items,
		DueDate:        dueDate,
		PaidAt:         paidAt,
	}
	return doc, rr.err
}

// CreatePaymentHandler stores a payment, amounts are rounded half-even to cents
func (p Payment) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.payment(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.Method == "" {
		doc.Method = models.DefaultPaymentMethod
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, p.DB, &doc)
}

// PaymentsHandler lists payments
func (p Payment) PaymentsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		objectID("patient_id").
		objectID("appointment_id").
		objectID("consultation_id").
		objectID("facility_id").
		enum("status", models.PaymentStatuses).
		enum("method", models.PaymentMethods).
		enum("currency", models.Currencies).
		dateRange("created_at")
	list(w, r, p.DB, q, "created_at", -1)
}

// PaymentByIDHandler returns a payment by ID
func (p Payment) PaymentByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, p.DB, "payment_id", "payment")
}

// UpdatePaymentHandler merges the body into a payment
func (p Payment) UpdatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "payment_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req paymentRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.payment(newRefResolver(ctx, p.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	update(ctx, w, p.DB, id, "payment", set)
}

// DeletePaymentHandler soft-deletes a payment
func (p Payment) DeletePaymentHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, p.DB, "payment_id", "payment")
}
