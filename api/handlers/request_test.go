package handlers

import (
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/models"
)

func TestPatchSetMergesNestedDocuments(t *testing.T) {
	doc := models.Patient{
		ID:       primitive.NewObjectID(),
		Identity: &models.Identity{LastName: "SOW"},
		Contacts: &models.Contacts{City: "Thies"},
		Notes:    "follow up",
		Timestamps: models.Timestamps{
			CreatedAt: time.Now(),
			Deleted:   true,
		},
	}

	set, err := patchSet(doc, "identite")

	assert.NoError(t, err)
	assert.Equal(t, "SOW", set["identite.nom"].(bson.RawValue).StringValue())
	assert.Equal(t, "follow up", set["notes"].(bson.RawValue).StringValue())
	assert.Contains(t, set, "contacts")
	for _, k := range []string{"_id", "created_at", "updated_at", "deleted", "identite", "email"} {
		assert.NotContains(t, set, k)
	}
}

func TestPatchSetEmpty(t *testing.T) {
	set, err := patchSet(models.Payment{})

	assert.NoError(t, err)
	assert.Empty(t, set)
}

func TestListQuery(t *testing.T) {
	id := primitive.NewObjectID()
	r := httptest.NewRequest("GET", "/api/payments?patient_id="+id.Hex()+"&status=paid&code=%20HOSP-001%20&date_to=2025-01-31&ignored=1", nil)

	q := newListQuery(r).
		objectID("patient_id").
		enum("status", models.PaymentStatuses).
		text("code", "code").
		dateRange("created_at")

	assert.NoError(t, q.err)
	assert.Equal(t, bson.M{
		"deleted":    bson.M{"$ne": true},
		"patient_id": id,
		"status":     "paid",
		"code":       "HOSP-001",
		"created_at": bson.M{"$lte": time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)},
	}, q.filter)
}

func TestListQueryKeepsFirstError(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/payments?patient_id=nope&status=lost", nil)

	q := newListQuery(r).objectID("patient_id").enum("status", models.PaymentStatuses)

	var idErr *invalidIDError
	assert.ErrorAs(t, q.err, &idErr)
	assert.Equal(t, "patient_id", idErr.field)
	assert.NotContains(t, q.filter, "status")
}

func TestOptionalNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want *float64
		err  string
	}{
		{"absent", nil, nil, ""},
		{"number", 2.5, float(2.5), ""},
		{"numeric string", " 3 ", float(3), ""},
		{"text", "three", nil, "qty must be a number"},
		{"boolean", true, nil, "qty must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := optionalNumber("qty", tt.in)
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeType(t *testing.T) {
	var s *string
	tests := map[string]reflect.Type{
		"a string":      reflect.TypeOf(s),
		"an integer":    reflect.TypeOf(0),
		"a number":      reflect.TypeOf(1.5),
		"a boolean":     reflect.TypeOf(true),
		"an array":      reflect.TypeOf([]string{}),
		"an object":     reflect.TypeOf(map[string]interface{}{}),
		"a valid value": reflect.TypeOf(make(chan int)),
	}
	for want, typ := range tests {
		assert.Equal(t, want, describeType(typ))
	}
}

func float(f float64) *float64 { return &f }
