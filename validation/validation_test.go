package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type identity struct {
	FirstName *string `json:"prenom" validate:"required,notblank"`
	LastName  *string `json:"nom" validate:"required,notblank"`
	Sex       *string `json:"sexe" validate:"omitempty,oneof=M F X"`
}

type item struct {
	DCI    *string `json:"dci" validate:"required"`
	Dosage *string `json:"posologie" validate:"required"`
}

type request struct {
	Identity *identity `json:"identite" validate:"required"`
	Items    []item    `json:"items" validate:"required,min=1,dive"`
	Amount   *float64  `json:"amount" validate:"omitempty,gte=0"`
	Date     *string   `json:"date_time" validate:"omitempty,isodate"`
	Message  *string   `json:"message" validate:"omitempty,notblank"`
}

func str(s string) *string { return &s }

func validRequest() request {
	return request{
		Identity: &identity{FirstName: str("Ana"), LastName: str("DIALLO")},
		Items:    []item{{DCI: str("paracetamol"), Dosage: str("1g x3")}},
	}
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(validRequest()))
}

func TestStructFirstViolation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *request)
		field   string
		message string
	}{
		{"missing identity", func(r *request) { r.Identity = nil }, "identite", "identite is required"},
		{"missing nested", func(r *request) { r.Identity.FirstName = nil }, "identite.prenom", "identite.prenom is required"},
		{"blank nested", func(r *request) { r.Identity.LastName = str("") }, "identite.nom", "identite.nom must not be blank"},
		{"enum", func(r *request) { r.Identity.Sex = str("Q") }, "identite.sexe", "identite.sexe must be one of: M, F, X"},
		{"empty items", func(r *request) { r.Items = []item{} }, "items", "items must contain at least 1 item(s)"},
		{"item field", func(r *request) { r.Items[0].Dosage = nil }, "items[0].posologie", "items[0].posologie is required"},
		{"negative", func(r *request) { v := -5.0; r.Amount = &v }, "amount", "amount must be >= 0"},
		{"date", func(r *request) { r.Date = str("yesterday") }, "date_time", "date_time must be an ISO 8601 date"},
		{"blank", func(r *request) { r.Message = str("   ") }, "message", "message must not be blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)

			err := Struct(r)

			verr, ok := err.(*Error)
			if assert.True(t, ok, "expected *Error, got %v", err) {
				assert.Equal(t, tt.field, verr.Field)
				assert.Equal(t, tt.message, verr.Message)
			}
		})
	}
}

func TestStructShortCircuits(t *testing.T) {
	r := validRequest()
	r.Identity = nil
	r.Items = nil

	err := Struct(r)

	assert.EqualError(t, err, "identite is required")
}

func TestPartialIgnoresAbsentFields(t *testing.T) {
	assert.NoError(t, Partial(request{}))
	assert.NoError(t, Partial(request{Identity: &identity{FirstName: str("Ana")}}))
}

func TestPartialStillChecksPresentFields(t *testing.T) {
	v := -1.0
	assert.EqualError(t, Partial(request{Amount: &v}), "amount must be >= 0")
	assert.EqualError(t, Partial(request{Identity: &identity{FirstName: str("")}}), "identite.prenom must not be blank")
	assert.EqualError(t, Partial(request{Items: []item{}}), "items must contain at least 1 item(s)")
}

func TestPartialChecksArrayElements(t *testing.T) {
	err := Partial(request{Items: []item{{DCI: str("paracetamol")}}})

	verr, ok := err.(*Error)
	if assert.True(t, ok, "expected *Error, got %v", err) {
		assert.Equal(t, "items[0].posologie", verr.Field)
		assert.Equal(t, "items[0].posologie is required", verr.Message)
	}
}

func TestParseISO(t *testing.T) {
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05T14:30:00Z", want},
		{"2024-03-05T14:30:00", want},
		{"2024-03-05 14:30:00", want},
		{"2024-03-05T15:30:00+01:00", want},
		{"2024-03-05T14:30Z", want},
		{"2024-03-05T14:30", want},
		{"2024-03-05T14:30:00.250Z", want.Add(250 * time.Millisecond)},
		{"1990-05-01", time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseISO(tt.in)
		assert.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v want %v", tt.in, got, tt.want)
		assert.Equal(t, time.UTC, got.Location(), tt.in)
	}
}

func TestParseISORejects(t *testing.T) {
	for _, in := range []string{"", "05/03/2024", "2024-13-01", "tomorrow"} {
		_, err := ParseISO(in)
		assert.Error(t, err, in)
	}
}

func TestParseISOPtr(t *testing.T) {
	got, err := ParseISOPtr("send_at", nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseISOPtr("send_at", str("soon"))
	assert.EqualError(t, err, "send_at must be an ISO 8601 date")
}

func TestIdentityNormalizers(t *testing.T) {
	assert.Equal(t, "Ana", FirstName("  aNA "))
	assert.Equal(t, "Élodie", FirstName("élodie"))
	assert.Equal(t, "DIALLO", LastName(" Diallo "))
	assert.Equal(t, "F", Sex(" female"))
	assert.Equal(t, "", Sex("  "))
	assert.Equal(t, []string{"Cardiologie", "Pédiatrie"}, TrimAll([]string{" Cardiologie", "", "Pédiatrie "}))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))
	assert.Nil(t, Optional(str("   ")))
	assert.Equal(t, "HOSP-001", *Optional(str(" HOSP-001 ")))

	currency := str(" xaf")
	Upper(currency)
	assert.Equal(t, "XAF", *currency)
	Upper(nil)
}

func TestRoundAmount(t *testing.T) {
	tests := map[float64]float64{
		10:      10,
		10.125:  10.12,
		10.135:  10.14,
		10.126:  10.13,
		2500.5:  2500.5,
		0.005:   0,
		19.9999: 20,
	}
	for in, want := range tests {
		got, err := RoundAmount(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "%v", in)
	}
}

func TestOneOf(t *testing.T) {
	assert.True(t, OneOf("paid", []string{"pending", "paid"}))
	assert.False(t, OneOf("lost", []string{"pending", "paid"}))
}
