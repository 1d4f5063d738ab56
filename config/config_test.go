package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("MONGO_DB", "test")
	defer os.Unsetenv("MONGO_URI")
	defer os.Unsetenv("MONGO_DB")

	conf, err := New()

	assert.NoError(t, err)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
}

func TestNewDefaults(t *testing.T) {
	conf, err := New()

	assert.NoError(t, err)
	assert.Equal(t, "hospital", conf.DatabaseName)
	assert.Equal(t, "5000", conf.Port)
	assert.Equal(t, "CHADH-PT", conf.PatientIDPrefix)
	assert.Equal(t, 5*time.Second, conf.DBTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, conf.CORSOrigins)
	assert.False(t, conf.ReadOnly)
	assert.False(t, conf.SeedOnStart)
}

func TestNewReadOnly(t *testing.T) {
	os.Setenv("READ_ONLY", "true")
	defer os.Unsetenv("READ_ONLY")

	conf, err := New()

	assert.NoError(t, err)
	assert.True(t, conf.ReadOnly)
}

func TestNewInvalidBool(t *testing.T) {
	os.Setenv("SEED_ON_START", "maybe")
	defer os.Unsetenv("SEED_ON_START")

	_, err := New()

	assert.Error(t, err)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()

	ErrorStatus("patient_id invalide", http.StatusBadRequest, rr, errors.New("the provided hex string is not a valid ObjectID"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"patient_id invalide","details":"the provided hex string is not a valid ObjectID"}`, rr.Body.String())
}

func TestErrorStatusHidesServerErrors(t *testing.T) {
	rr := httptest.NewRecorder()

	ErrorStatus("Internal Server Error", http.StatusInternalServerError, rr, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func TestWriteErrorKeepsComparisonOperators(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, http.StatusBadRequest, "amount must be >= 0", nil)

	assert.Equal(t, `{"error":"amount must be >= 0"}`, rr.Body.String())
}

func TestWriteErrorStructuredDetails(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, http.StatusBadRequest, "validation_mongo", map[string]interface{}{"operatorName": "$jsonSchema"})

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "validation_mongo", body["error"])
	assert.Equal(t, map[string]interface{}{"operatorName": "$jsonSchema"}, body["details"])
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
