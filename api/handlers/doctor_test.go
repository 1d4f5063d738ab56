package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/api/handlers"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/databases/mocks"
	"github.com/linesmerrill/hospital-api/models"
)

func newDoctor(db databases.DatabaseHelper) handlers.Doctor {
	return handlers.Doctor{
		DB:    databases.NewDoctorDatabase(db),
		RefDB: databases.NewReferenceDatabase(db),
	}
}

func TestDoctor_CreateDoctorHandler(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	var stored *models.Doctor
	db.On("Collection", databases.DoctorCollection).Return(inserting(&stored))

	d := newDoctor(db)
	body := `{"identite": {"prenom": "moussa", "nom": "traore", "sexe": "m"}, "specialites": [" Cardiologie ", ""], "email": " Dr.Traore@Example.org "}`
	rr := serve(d.CreateDoctorHandler, newRequest(t, "POST", "/api/doctors", body, nil))

	checkStatus(t, rr, http.StatusCreated)
	if assert.NotNil(t, stored) {
		assert.Equal(t, "Moussa", stored.Identity.FirstName)
		assert.Equal(t, "TRAORE", stored.Identity.LastName)
		assert.Equal(t, "M", stored.Identity.Sex)
		assert.Nil(t, stored.Identity.BirthDate)
		assert.Equal(t, []string{"Cardiologie"}, stored.Specialties)
		assert.Equal(t, "dr.traore@example.org", stored.Email)
	}
}

func TestDoctor_CreateDoctorHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"blank specialties", `{"identite": {"prenom": "Awa", "nom": "Ba"}, "specialites": [" "]}`, "specialites must contain at least 1 item(s)"},
		{"missing specialties", `{"identite": {"prenom": "Awa", "nom": "Ba"}}`, "specialites is required"},
		{"missing identity", `{"specialites": ["Pediatrie"]}`, "identite is required"},
		{"missing last name", `{"identite": {"prenom": "Awa"}, "specialites": ["Pediatrie"]}`, "identite.nom is required"},
		{"bad email", `{"identite": {"prenom": "Awa", "nom": "Ba"}, "specialites": ["Pediatrie"], "email": "awa"}`, "email must be a valid email address"},
		{"specialties not a list", `{"identite": {"prenom": "Awa", "nom": "Ba"}, "specialites": "Pediatrie"}`, "specialites must be an array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkBadRequest(t, newDoctor(&mocks.DatabaseHelper{}).CreateDoctorHandler, tt.body, tt.want)
		})
	}
}

func TestDoctor_DoctorsHandlerSpecialtyFilter(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	doctors := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	var filter interface{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil)
	cursor.On("Close", mock.Anything).Return(nil)
	doctors.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil).Run(func(args mock.Arguments) {
		filter = args.Get(1)
	})
	db.On("Collection", databases.DoctorCollection).Return(doctors)

	d := newDoctor(db)
	rr := serve(d.DoctorsHandler, newRequest(t, "GET", "/api/doctors?specialite=Cardiologie", "", nil))

	checkStatus(t, rr, http.StatusOK)
	checkBody(t, rr, "[]")
	assert.Equal(t, bson.M{"deleted": bson.M{"$ne": true}, "specialites": "Cardiologie"}, filter)
}

func TestDoctor_UpdateDoctorHandlerMergesIdentity(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	doctors := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}
	id := primitive.NewObjectID()
	var update bson.M
	sr.On("Decode", mock.Anything).Return(nil)
	doctors.On("FindOneAndUpdate", mock.Anything, bson.M{"_id": id}, mock.Anything, mock.Anything).Return(sr).Run(func(args mock.Arguments) {
		update = args.Get(2).(bson.M)
	})
	db.On("Collection", databases.DoctorCollection).Return(doctors)

	d := newDoctor(db)
	req := newRequest(t, "PATCH", "/api/doctors/"+id.Hex(), `{"identite": {"prenom": "aminata"}}`, map[string]string{"doctor_id": id.Hex()})
	rr := serve(d.UpdateDoctorHandler, req)

	checkStatus(t, rr, http.StatusOK)
	set := update["$set"].(bson.M)
	assert.Equal(t, "Aminata", set["identite.prenom"].(bson.RawValue).StringValue())
	assert.NotContains(t, set, "identite")
	assert.NotContains(t, set, "specialites")
}
