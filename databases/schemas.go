package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/models"
)

var (
	objectID = bson.M{"bsonType": "objectId"}
	date     = bson.M{"bsonType": "date"}
	text     = bson.M{"bsonType": "string"}
	boolean  = bson.M{"bsonType": "bool"}
	number   = bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}}
	object   = bson.M{"bsonType": "object"}
)

func enum(values []string) bson.M {
	a := make(bson.A, 0, len(values))
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"bsonType": "string", "enum": a}
}

func nonNegative() bson.M {
	return bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0}
}

func arrayOf(items bson.M, minItems int) bson.M {
	s := bson.M{"bsonType": "array", "items": items}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	return s
}

func document(required []string, properties bson.M) bson.M {
	s := bson.M{"bsonType": "object", "properties": properties}
	if len(required) > 0 {
		r := make(bson.A, 0, len(required))
		for _, f := range required {
			r = append(r, f)
		}
		s["required"] = r
	}
	return s
}

func withTimestamps(p bson.M) bson.M {
	p["created_at"] = date
	p["updated_at"] = date
	p["deleted"] = boolean
	p["facility_id"] = objectID
	return p
}

var identitySchema = document([]string{"prenom", "nom"}, bson.M{
	"prenom":         text,
	"nom":            text,
	"date_naissance": date,
	"sexe":           enum(models.Sexes),
})

// Schemas holds the $jsonSchema validator of each collection
var Schemas = map[string]bson.M{
	FacilityCollection: document([]string{"code", "name"}, withTimestamps(bson.M{
		"code": text,
		"name": text,
	})),
	PatientCollection: document([]string{"identite", "created_at"}, withTimestamps(bson.M{
		"identifiant":      text,
		"email":            text,
		"identite":         identitySchema,
		"contacts":         object,
		"allergies":        arrayOf(text, 0),
		"chronic_diseases": arrayOf(text, 0),
		"notes":            text,
	})),
	DoctorCollection: document([]string{"identite", "specialites", "created_at"}, withTimestamps(bson.M{
		"identite":       identitySchema,
		"specialites":    arrayOf(text, 1),
		"license_number": text,
		"email":          text,
	})),
	AppointmentCollection: document([]string{"patient_id", "doctor_id", "date_time", "status"}, withTimestamps(bson.M{
		"patient_id": objectID,
		"doctor_id":  objectID,
		"date_time":  date,
		"status":     enum(models.AppointmentStatuses),
		"reason":     text,
		"notes":      text,
	})),
	ConsultationCollection: document([]string{"patient_id", "doctor_id", "date_time"}, withTimestamps(bson.M{
		"patient_id":     objectID,
		"doctor_id":      objectID,
		"appointment_id": objectID,
		"date_time":      date,
		"symptomes":      text,
		"diagnostic":     text,
		"notes":          text,
		"vital_signs":    object,
		"attachments":    arrayOf(object, 0),
	})),
	PrescriptionCollection: document([]string{"patient_id", "doctor_id", "consultation_id", "items"}, withTimestamps(bson.M{
		"patient_id":      objectID,
		"doctor_id":       objectID,
		"consultation_id": objectID,
		"items": arrayOf(document([]string{"dci", "posologie"}, bson.M{
			"dci":       text,
			"posologie": text,
			"duree_j":   nonNegative(),
		}), 1),
		"renouvellements": nonNegative(),
	})),
	LabOrderCollection: document([]string{"patient_id", "doctor_id", "status"}, withTimestamps(bson.M{
		"patient_id":     objectID,
		"doctor_id":      objectID,
		"appointment_id": objectID,
		"status":         enum(models.LabStatuses),
		"date_ordered":   date,
		"date_reported":  date,
		"tests":          arrayOf(document([]string{"code", "name", "status"}, bson.M{"code": text, "name": text, "status": text}), 0),
	})),
	DispensingCollection: document([]string{"patient_id", "doctor_id", "items", "status"}, withTimestamps(bson.M{
		"patient_id":      objectID,
		"doctor_id":       objectID,
		"prescription_id": objectID,
		"status":          enum(models.DispensingStatuses),
		"items":           arrayOf(document([]string{"dci", "qty"}, bson.M{"dci": text, "qty": number}), 1),
		"dispensed_at":    date,
	})),
	PaymentCollection: document([]string{"patient_id", "amount", "currency", "status"}, withTimestamps(bson.M{
		"patient_id":      objectID,
		"appointment_id":  objectID,
		"consultation_id": objectID,
		"amount":          nonNegative(),
		"currency":        enum(models.Currencies),
		"method":          enum(models.PaymentMethods),
		"status":          enum(models.PaymentStatuses),
		"due_date":        date,
		"paid_at":         date,
	})),
	NotificationCollection: document([]string{"channel", "status"}, withTimestamps(bson.M{
		"channel":       enum(models.NotificationChannels),
		"status":        enum(models.NotificationStatuses),
		"ref_type":      enum(models.NotificationRefTypes),
		"ref_id":        objectID,
		"to_patient_id": objectID,
		"to_doctor_id":  objectID,
		"payload":       object,
		"send_at":       date,
		"sent_at":       date,
		"expires_at":    date,
	})),
	HealthReportCollection: document([]string{"facility_id", "report_type", "period_start", "period_end", "status"}, withTimestamps(bson.M{
		"report_type":  enum(models.ReportTypes),
		"period_start": date,
		"period_end":   date,
		"status":       enum(models.ReportStatuses),
		"payload":      object,
		"submitted_at": date,
	})),
}

// EnsureValidators creates missing collections with their validator and updates the
// validator of existing ones.
func EnsureValidators(ctx context.Context, db DatabaseHelper) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	for _, name := range EntityCollections {
		schema, ok := Schemas[name]
		if !ok {
			continue
		}
		validator := bson.M{"$jsonSchema": schema}
		if !present[name] {
			opts := options.CreateCollection().
				SetValidator(validator).
				SetValidationLevel("moderate")
			if err := db.CreateCollection(ctx, name, opts); err != nil {
				return fmt.Errorf("failed to create %s: %w", name, err)
			}
			zap.S().Infow("collection created with validator", "collection", name)
			continue
		}
		cmd := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
			{Key: "validationLevel", Value: "moderate"},
		}
		var res bson.M
		if err := db.RunCommand(ctx, cmd).Decode(&res); err != nil {
			return fmt.Errorf("failed to update validator of %s: %w", name, err)
		}
		zap.S().Infow("validator updated", "collection", name)
	}
	return nil
}
