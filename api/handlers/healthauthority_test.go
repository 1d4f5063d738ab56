package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/hospital-api/api/handlers"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/databases/mocks"
	"github.com/linesmerrill/hospital-api/models"
)

func newHealthAuthority(db databases.DatabaseHelper) handlers.HealthAuthority {
	return handlers.HealthAuthority{
		DB:    databases.NewHealthReportDatabase(db),
		RefDB: databases.NewReferenceDatabase(db),
	}
}

func TestHealthAuthority_CreateHealthReportHandler(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	facilityID := primitive.NewObjectID()
	var stored *models.HealthReport
	db.On("Collection", databases.FacilityCollection).Return(lookup(false))
	db.On("Collection", databases.HealthReportCollection).Return(inserting(&stored))

	h := newHealthAuthority(db)
	body := fmt.Sprintf(`{
		"facility_id": %q,
		"report_type": "disease_reporting",
		"period_start": "2025-01-01",
		"period_end": "2025-01-31",
		"status": "draft",
		"payload": {"cholera": 2}
	}`, facilityID.Hex())
	rr := serve(h.CreateHealthReportHandler, newRequest(t, "POST", "/api/health_authorities", body, nil))

	checkStatus(t, rr, http.StatusCreated)
	if assert.NotNil(t, stored) {
		assert.Equal(t, facilityID, *stored.FacilityID)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), *stored.PeriodStart)
		assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), *stored.PeriodEnd)
		assert.Equal(t, 2.0, stored.Payload["cholera"])
	}
}

func TestHealthAuthority_CreateHealthReportHandlerFacilityNotFound(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	db.On("Collection", databases.FacilityCollection).Return(lookup(true))

	h := newHealthAuthority(db)
	body := fmt.Sprintf(`{"facility_id": %q, "report_type": "other", "period_start": "2025-01-01", "period_end": "2025-01-31", "status": "draft"}`, primitive.NewObjectID().Hex())
	rr := serve(h.CreateHealthReportHandler, newRequest(t, "POST", "/api/health_authorities", body, nil))

	checkStatus(t, rr, http.StatusNotFound)
	checkBody(t, rr, errorBody("facility not found", nil))
}

func TestHealthAuthority_CreateHealthReportHandlerValidation(t *testing.T) {
	hex := primitive.NewObjectID().Hex()
	tests := []struct {
		name string
		body string
		want string
	}{
		{"period reversed", fmt.Sprintf(`{"facility_id": %q, "report_type": "other", "period_start": "2025-02-01", "period_end": "2025-01-31", "status": "draft"}`, hex), "period_end must be >= period_start"},
		{"missing facility", `{"report_type": "other", "period_start": "2025-01-01", "period_end": "2025-01-31", "status": "draft"}`, "facility_id is required"},
		{"bad report type", fmt.Sprintf(`{"facility_id": %q, "report_type": "census", "period_start": "2025-01-01", "period_end": "2025-01-31", "status": "draft"}`, hex), "report_type must be one of: case_summary, disease_reporting, inventory, other"},
		{"missing period end", fmt.Sprintf(`{"facility_id": %q, "report_type": "other", "period_start": "2025-01-01", "status": "draft"}`, hex), "period_end is required"},
		{"bad status", fmt.Sprintf(`{"facility_id": %q, "report_type": "other", "period_start": "2025-01-01", "period_end": "2025-01-31", "status": "sent"}`, hex), "status must be one of: draft, submitted, accepted, rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkBadRequest(t, newHealthAuthority(&mocks.DatabaseHelper{}).CreateHealthReportHandler, tt.body, tt.want)
		})
	}
}

// reportStore answers a guarded update as applied or not, and an id lookup as
// found or not
func reportStore(id primitive.ObjectID, applied, exists bool, filter *bson.M) *mocks.DatabaseHelper {
	db := &mocks.DatabaseHelper{}
	reports := &mocks.CollectionHelper{}
	result := func(found bool) *mocks.SingleResultHelper {
		sr := &mocks.SingleResultHelper{}
		if found {
			sr.On("Decode", mock.Anything).Return(nil)
		} else {
			sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
		}
		return sr
	}
	reports.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(result(applied)).Run(func(args mock.Arguments) {
		*filter = args.Get(1).(bson.M)
	})
	reports.On("FindOne", mock.Anything, bson.M{"_id": id}, mock.Anything).Return(result(exists))
	db.On("Collection", databases.HealthReportCollection).Return(reports)
	return db
}

func TestHealthAuthority_UpdateHealthReportHandlerEndBeforeStoredStart(t *testing.T) {
	id := primitive.NewObjectID()
	var filter bson.M
	h := newHealthAuthority(reportStore(id, false, true, &filter))

	req := newRequest(t, "PATCH", "/api/health_authorities/"+id.Hex(), `{"period_end": "1990-01-01"}`, map[string]string{"report_id": id.Hex()})
	rr := serve(h.UpdateHealthReportHandler, req)

	checkStatus(t, rr, http.StatusBadRequest)
	checkBody(t, rr, errorBody("period_end must be >= period_start", nil))
	end := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"_id": id, "period_start": bson.M{"$lte": end}}, filter)
}

func TestHealthAuthority_UpdateHealthReportHandlerStartAfterStoredEnd(t *testing.T) {
	id := primitive.NewObjectID()
	var filter bson.M
	h := newHealthAuthority(reportStore(id, false, true, &filter))

	req := newRequest(t, "PATCH", "/api/health_authorities/"+id.Hex(), `{"period_start": "2030-01-01"}`, map[string]string{"report_id": id.Hex()})
	rr := serve(h.UpdateHealthReportHandler, req)

	checkStatus(t, rr, http.StatusBadRequest)
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"_id": id, "period_end": bson.M{"$gte": start}}, filter)
}

func TestHealthAuthority_UpdateHealthReportHandlerSingleBoundInOrder(t *testing.T) {
	id := primitive.NewObjectID()
	var filter bson.M
	h := newHealthAuthority(reportStore(id, true, true, &filter))

	req := newRequest(t, "PATCH", "/api/health_authorities/"+id.Hex(), `{"period_end": "2025-12-31"}`, map[string]string{"report_id": id.Hex()})
	rr := serve(h.UpdateHealthReportHandler, req)

	checkStatus(t, rr, http.StatusOK)
	assert.Contains(t, filter, "period_start")
}

func TestHealthAuthority_UpdateHealthReportHandlerSingleBoundNotFound(t *testing.T) {
	id := primitive.NewObjectID()
	var filter bson.M
	h := newHealthAuthority(reportStore(id, false, false, &filter))

	req := newRequest(t, "PATCH", "/api/health_authorities/"+id.Hex(), `{"period_end": "2025-12-31"}`, map[string]string{"report_id": id.Hex()})
	rr := serve(h.UpdateHealthReportHandler, req)

	checkStatus(t, rr, http.StatusNotFound)
	checkBody(t, rr, errorBody("health report not found", nil))
}

func TestHealthAuthority_UpdateHealthReportHandlerBothBoundsUnguarded(t *testing.T) {
	id := primitive.NewObjectID()
	var filter bson.M
	h := newHealthAuthority(reportStore(id, true, true, &filter))

	req := newRequest(t, "PATCH", "/api/health_authorities/"+id.Hex(), `{"period_start": "2025-01-01", "period_end": "2025-01-31"}`, map[string]string{"report_id": id.Hex()})
	rr := serve(h.UpdateHealthReportHandler, req)

	checkStatus(t, rr, http.StatusOK)
	assert.Equal(t, bson.M{"_id": id}, filter)
}
