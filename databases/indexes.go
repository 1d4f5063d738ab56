package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func uniqueWhenString(field, name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
		Options: options.Index().
			SetName(name).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string"}}),
	}
}

func plain(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

// Indexes lists the indexes each collection needs before serving traffic
var Indexes = map[string][]mongo.IndexModel{
	FacilityCollection: {
		uniqueWhenString("code", "uniq_code_not_null"),
	},
	PatientCollection: {
		uniqueWhenString("email", "uniq_email_not_null"),
		uniqueWhenString("identifiant", "uniq_identifiant_not_null"),
		plain("created_at_desc", bson.D{{Key: "created_at", Value: -1}}),
	},
	DoctorCollection: {
		uniqueWhenString("license_number", "uniq_license_not_null"),
		plain("specialites", bson.D{{Key: "specialites", Value: 1}}),
	},
	AppointmentCollection: {
		{
			Keys:    bson.D{{Key: "patient_id", Value: 1}, {Key: "date_time", Value: 1}},
			Options: options.Index().SetName("uniq_patient_start").SetUnique(true),
		},
		plain("doctor_date_time", bson.D{{Key: "doctor_id", Value: 1}, {Key: "date_time", Value: 1}}),
	},
	ConsultationCollection: {
		plain("patient_date_time", bson.D{{Key: "patient_id", Value: 1}, {Key: "date_time", Value: -1}}),
	},
	PrescriptionCollection: {
		plain("patient_created_at", bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}),
	},
	LabOrderCollection: {
		plain("patient_date_ordered", bson.D{{Key: "patient_id", Value: 1}, {Key: "date_ordered", Value: -1}}),
	},
	DispensingCollection: {
		plain("patient_created_at", bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}),
	},
	PaymentCollection: {
		plain("patient_status", bson.D{{Key: "patient_id", Value: 1}, {Key: "status", Value: 1}}),
	},
	NotificationCollection: {
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
		plain("status_created_at", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
	},
	HealthReportCollection: {
		plain("facility_period", bson.D{{Key: "facility_id", Value: 1}, {Key: "period_start", Value: -1}}),
	},
}

// EnsureIndexes creates every index in Indexes, creation is idempotent on the store side
func EnsureIndexes(ctx context.Context, db DatabaseHelper) error {
	for _, name := range EntityCollections {
		models, ok := Indexes[name]
		if !ok {
			continue
		}
		created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		zap.S().Infow("indexes ensured", "collection", name, "indexes", created)
	}
	return nil
}
