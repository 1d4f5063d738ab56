package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/hospital-api/models"
)

// AppointmentDatabase contains the methods to use with the appointment collection
type AppointmentDatabase interface {
	EntityDatabase[models.Appointment]
	FindWithPatient(ctx context.Context, filter interface{}) ([]models.AppointmentView, error)
}

type appointmentDatabase struct {
	EntityDatabase[models.Appointment]
	db DatabaseHelper
}

// NewAppointmentDatabase initializes a new instance of appointment database with the provided db connection
func NewAppointmentDatabase(db DatabaseHelper) AppointmentDatabase {
	return &appointmentDatabase{
		EntityDatabase: NewEntityDatabase[models.Appointment](db, AppointmentCollection),
		db:             db,
	}
}

// FindWithPatient lists appointments ascending by date_time, each joined with the
// patient's display name and readable identifier.
func (c *appointmentDatabase) FindWithPatient(ctx context.Context, filter interface{}) ([]models.AppointmentView, error) {
	pipeline := AppointmentPatientPipeline(filter)

	curr, err := c.db.Collection(AppointmentCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)

	var views []models.AppointmentView
	if err := curr.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// AppointmentPatientPipeline builds the $lookup pipeline behind FindWithPatient
func AppointmentPatientPipeline(filter interface{}) bson.A {
	first := func(path string) bson.M {
		return bson.M{"$arrayElemAt": bson.A{path, 0}}
	}
	return bson.A{
		bson.M{"$match": filter},
		bson.M{"$sort": bson.D{{Key: "date_time", Value: 1}}},
		bson.M{"$limit": ListLimit},
		bson.M{"$lookup": bson.M{
			"from":         PatientCollection,
			"localField":   "patient_id",
			"foreignField": "_id",
			"as":           "p",
		}},
		bson.M{"$addFields": bson.M{
			"patient_name": bson.M{"$trim": bson.M{"input": bson.M{"$concat": bson.A{
				bson.M{"$ifNull": bson.A{first("$p.identite.prenom"), ""}},
				" ",
				bson.M{"$ifNull": bson.A{first("$p.identite.nom"), ""}},
			}}}},
			"patient_identifier": bson.M{"$ifNull": bson.A{first("$p.identifiant"), ""}},
		}},
		bson.M{"$project": bson.M{"p": 0}},
	}
}
