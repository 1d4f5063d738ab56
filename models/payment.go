package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment enumerations
var (
	Currencies      = []string{"XAF", "XOF", "EUR", "USD"}
	PaymentMethods  = []string{"cash", "card", "mobile", "insurance"}
	PaymentStatuses = []string{"pending", "paid", "failed", "refunded", "cancelled"}
	PaymentRefTypes = []string{"appointment", "consultation", "laboratory", "pharmacy", "other"}
)

// DefaultPaymentMethod is used when a payment is created without a method
const DefaultPaymentMethod = "cash"

// Payment is an invoice or receipt for a patient
type Payment struct {
	ID             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID      primitive.ObjectID  `json:"patient_id" bson:"patient_id,omitempty"`
	AppointmentID  *primitive.ObjectID `json:"appointment_id,omitempty" bson:"appointment_id,omitempty"`
	ConsultationID *primitive.ObjectID `json:"consultation_id,omitempty" bson:"consultation_id,omitempty"`
	FacilityID     *primitive.ObjectID `json:"facility_id,omitempty" bson:"facility_id,omitempty"`
	InvoiceNo      string              `json:"invoice_no,omitempty" bson:"invoice_no,omitempty"`
	Amount         *float64            `json:"amount,omitempty" bson:"amount,omitempty"`
	Currency       string              `json:"currency,omitempty" bson:"currency,omitempty"`
	Method         string              `json:"method,omitempty" bson:"method,omitempty"`
	Status         string              `json:"status,omitempty" bson:"status,omitempty"`
	Items          []PaymentItem       `json:"items,omitempty" bson:"items,omitempty"`
	DueDate        *time.Time          `json:"due_date,omitempty" bson:"due_date,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	Timestamps     `bson:",inline"`
}

// PaymentItem is one invoice line
type PaymentItem struct {
	RefType string              `json:"ref_type,omitempty" bson:"ref_type,omitempty"`
	RefID   *primitive.ObjectID `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	Label   string              `json:"label,omitempty" bson:"label,omitempty"`
	Amount  *float64            `json:"amount,omitempty" bson:"amount,omitempty"`
}
