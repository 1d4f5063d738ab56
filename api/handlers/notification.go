package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// notificationRefs maps a ref_type to the collection its ref_id points into,
// "other" is not looked up
var notificationRefs = map[string]struct{ collection, entity string }{
	"appointment":  {databases.AppointmentCollection, "appointment"},
	"consultation": {databases.ConsultationCollection, "consultation"},
	"prescription": {databases.PrescriptionCollection, "prescription"},
	"payment":      {databases.PaymentCollection, "payment"},
}

// Notification exported for testing purposes
type Notification struct {
	DB    databases.NotificationDatabase
	RefDB databases.ReferenceDatabase
}

type notificationRequest struct {
	Channel     *string                `json:"channel" validate:"required,oneof=sms email push"`
	Status      *string                `json:"status" validate:"required,oneof=queued sent failed read"`
	Template    *string                `json:"template"`
	Payload     map[string]interface{} `json:"payload"`
	RefType     *string                `json:"ref_type" validate:"required_with=RefID,omitempty,oneof=appointment consultation prescription payment other"`
	RefID       *string                `json:"ref_id"`
	ToPatientID *string                `json:"to_patient_id"`
	ToDoctorID  *string                `json:"to_doctor_id"`
	SendAt      *string                `json:"send_at" validate:"omitempty,isodate"`
	SentAt      *string                `json:"sent_at" validate:"omitempty,isodate"`
	ExpiresAt   *string                `json:"expires_at" validate:"omitempty,isodate"`
	Error       *string                `json:"error"`
}

func (req *notificationRequest) normalize() {
	validation.Trim(req.Channel)
	validation.Trim(req.Status)
	req.Template = validation.Optional(req.Template)
	req.RefType = validation.Optional(req.RefType)
	req.RefID = validation.Optional(req.RefID)
	req.SendAt = validation.Optional(req.SendAt)
	req.SentAt = validation.Optional(req.SentAt)
	req.ExpiresAt = validation.Optional(req.ExpiresAt)
	req.Error = validation.Optional(req.Error)
}

func (req *notificationRequest) notification(rr *refResolver) (models.Notification, error) {
	var doc models.Notification
	if req.RefID != nil && req.RefType == nil {
		return doc, validation.Errorf("ref_type", "ref_type is required")
	}

	dates := []struct {
		field string
		in    *string
		out   **time.Time
	}{
		{"send_at", req.SendAt, &doc.SendAt},
		{"sent_at", req.SentAt, &doc.SentAt},
		{"expires_at", req.ExpiresAt, &doc.ExpiresAt},
	}
	for _, d := range dates {
		t, err := validation.ParseISOPtr(d.field, d.in)
		if err != nil {
			return doc, err
		}
		*d.out = t
	}

	doc.Channel = validation.Value(req.Channel)
	doc.Status = validation.Value(req.Status)
	doc.Template = validation.Value(req.Template)
	doc.RefType = validation.Value(req.RefType)
	doc.Error = validation.Value(req.Error)
	if req.Payload != nil {
		doc.Payload = bson.M(req.Payload)
	}

	if ref, ok := notificationRefs[doc.RefType]; ok {
		doc.RefID = rr.optional("ref_id", ref.collection, ref.entity, req.RefID)
	} else if req.RefID != nil {
		id, err := parseObjectID("ref_id", *req.RefID)
		if err != nil {
			return doc, err
		}
		doc.RefID = &id
	}
	doc.ToPatientID = rr.optional("to_patient_id", databases.PatientCollection, "patient", req.ToPatientID)
	doc.ToDoctorID = rr.optional("to_doctor_id", databases.DoctorCollection, "doctor", req.ToDoctorID)
	return doc, rr.err
}

// CreateNotificationHandler queues a notification, expires_at lets the store drop it
func (n Notification) CreateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := readRequest(r, &req, false); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.notification(newRefResolver(ctx, n.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	if doc.SentAt == nil && doc.Status == models.NotificationSent {
		doc.SentAt = nowUTC()
	}
	doc.Timestamps = models.NewTimestamps(time.Now())
	insert(ctx, w, n.DB, &doc)
}

// NotificationsHandler lists notifications
func (n Notification) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	q := newListQuery(r).
		enum("channel", models.NotificationChannels).
		enum("status", models.NotificationStatuses).
		enum("ref_type", models.NotificationRefTypes).
		objectID("ref_id").
		objectID("to_patient_id").
		objectID("to_doctor_id").
		dateRange("send_at")
	list(w, r, n.DB, q, "created_at", -1)
}

// NotificationByIDHandler returns a notification by ID
func (n Notification) NotificationByIDHandler(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, n.DB, "notification_id", "notification")
}

// UpdateNotificationHandler merges the body into a notification, payload is replaced
// as a whole. Moving it to sent stamps sent_at unless it already has one.
func (n Notification) UpdateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "notification_id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req notificationRequest
	if err := readRequest(r, &req, true); err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := req.notification(newRefResolver(ctx, n.RefDB))
	if err != nil {
		respondError(w, err)
		return
	}
	set, err := patchSet(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	saved, err := patch(ctx, n.DB, bson.M{"_id": id}, set)
	if err == nil && doc.SentAt == nil && doc.Status == models.NotificationSent && saved.SentAt == nil {
		saved, err = stampMissing(ctx, n.DB, id, "sent_at", saved)
	}
	respondPatched(w, saved, err, "notification")
}

// DeleteNotificationHandler soft-deletes a notification
func (n Notification) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, n.DB, "notification_id", "notification")
}
