package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/api/handlers"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/databases/mocks"
	"github.com/linesmerrill/hospital-api/models"
)

func newPrescription(db databases.DatabaseHelper) handlers.Prescription {
	return handlers.Prescription{
		DB:    databases.NewPrescriptionDatabase(db),
		RefDB: databases.NewReferenceDatabase(db),
	}
}

func prescriptionBody(rest string) string {
	return fmt.Sprintf(`{"patient_id": %q, "doctor_id": %q, "consultation_id": %q%s}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), rest)
}

func TestPrescription_CreatePrescriptionHandlerDefaultsRenewals(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	var stored *models.Prescription
	db.On("Collection", databases.PatientCollection).Return(lookup(false))
	db.On("Collection", databases.DoctorCollection).Return(lookup(false))
	db.On("Collection", databases.ConsultationCollection).Return(lookup(false))
	db.On("Collection", databases.PrescriptionCollection).Return(inserting(&stored))

	p := newPrescription(db)
	body := prescriptionBody(`, "items": [{"dci": "Paracetamol", "posologie": "1g x3/j", "duree_j": 5}]`)
	rr := serve(p.CreatePrescriptionHandler, newRequest(t, "POST", "/api/prescriptions", body, nil))

	checkStatus(t, rr, http.StatusCreated)
	if assert.NotNil(t, stored) && assert.NotNil(t, stored.Renewals) {
		assert.Equal(t, 0, *stored.Renewals)
		assert.Equal(t, 5, *stored.Items[0].DurationDays)
	}
}

func TestPrescription_CreatePrescriptionHandlerConsultationNotFound(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	db.On("Collection", databases.PatientCollection).Return(lookup(false))
	db.On("Collection", databases.DoctorCollection).Return(lookup(false))
	db.On("Collection", databases.ConsultationCollection).Return(lookup(true))

	p := newPrescription(db)
	body := prescriptionBody(`, "items": [{"dci": "Paracetamol", "posologie": "1g"}]`)
	rr := serve(p.CreatePrescriptionHandler, newRequest(t, "POST", "/api/prescriptions", body, nil))

	checkStatus(t, rr, http.StatusNotFound)
	checkBody(t, rr, errorBody("consultation not found", nil))
}

func TestPrescription_CreatePrescriptionHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no items", prescriptionBody(`, "items": []`), "items must contain at least 1 item(s)"},
		{"missing dosage", prescriptionBody(`, "items": [{"dci": "Paracetamol"}]`), "items[0].posologie is required"},
		{"negative renewals", prescriptionBody(`, "items": [{"dci": "Paracetamol", "posologie": "1g"}], "renouvellements": -1`), "renouvellements must be >= 0"},
		{"missing consultation", `{"patient_id": "a", "doctor_id": "b", "items": [{"dci": "x", "posologie": "y"}]}`, "consultation_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkBadRequest(t, newPrescription(&mocks.DatabaseHelper{}).CreatePrescriptionHandler, tt.body, tt.want)
		})
	}
}

func TestPrescription_UpdatePrescriptionHandlerChecksItems(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing dosage", `{"items": [{"dci": "paracetamol"}]}`, "items[0].posologie is required"},
		{"missing drug", `{"items": [{"posologie": "1g"}]}`, "items[0].dci is required"},
		{"no items", `{"items": []}`, "items must contain at least 1 item(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPrescription(&mocks.DatabaseHelper{})
			checkPatchBadRequest(t, p.UpdatePrescriptionHandler, "prescription_id", tt.body, tt.want)
		})
	}
}
