package config

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/models"
)

// Config holds the project config values
type Config struct {
	URL          string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	DatabaseName string        `envconfig:"MONGO_DB" default:"hospital"`
	DBTimeout    time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
	BaseURL      string        `envconfig:"BASE_URL"`
	Port         string        `envconfig:"PORT" default:"5000"`
	Env          string        `envconfig:"ENV" default:"production"`
	Debug        bool          `envconfig:"DEBUG" default:"false"`

	ReadOnly       bool          `envconfig:"READ_ONLY" default:"false"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	SeedOnStart     bool   `envconfig:"SEED_ON_START" default:"false"`
	SeedFile        string `envconfig:"SEED_FILE" default:"seed_data.json"`
	PatientIDPrefix string `envconfig:"PATIENT_ID_PREFIX" default:"CHADH-PT"`

	// StatsSchedule is a cron spec, empty disables the collection stats job
	StatsSchedule string `envconfig:"STATS_SCHEDULE"`

	SendGridAPIKey   string `envconfig:"SENDGRID_API_KEY"`
	ContactForwardTo string `envconfig:"CONTACT_FORWARD_TO"`
	ContactFromEmail string `envconfig:"CONTACT_FROM_EMAIL" default:"no-reply@hospital.local"`

	CloudinaryURL          string `envconfig:"CLOUDINARY_URL"`
	CloudinaryUploadFolder string `envconfig:"CLOUDINARY_UPLOAD_FOLDER" default:"consultations"`
}

// New reads the environment into a Config and sets up the global zap logger
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}

	env := c.Env
	if c.Debug {
		env = "development"
	}
	logger, err := setLogger(env)
	if err != nil {
		return nil, err
	}
	_ = zap.ReplaceGlobals(logger)

	return &c, nil
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// given message, status code and err. Server errors never expose err to the caller.
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	var details interface{}
	if err != nil && httpStatusCode < http.StatusInternalServerError {
		details = err.Error()
	}
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().With(zap.Error(err)).Error(message)
	} else {
		zap.S().With(zap.Error(err)).Debug(message)
	}
	WriteError(w, httpStatusCode, message, details)
}

// WriteError writes the uniform error body with arbitrary details
func WriteError(w http.ResponseWriter, httpStatusCode int, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	b, err := MarshalError(message, details)
	if err != nil {
		b = []byte(`{"error": "Internal Server Error"}`)
	}
	_, _ = w.Write(b)
}

// MarshalError encodes the error body without HTML escaping so messages like
// "amount must be >= 0" reach the caller as written
func MarshalError(message string, details interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(models.ErrorResponse{Error: message, Details: details}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
