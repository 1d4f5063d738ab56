package databases

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/hospital-api/models"
)

// EntityDatabase contains the methods shared by every entity collection
type EntityDatabase[T any] interface {
	Name() string
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error)
	InsertOne(ctx context.Context, document interface{}) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*T, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type entityDatabase[T any] struct {
	db   DatabaseHelper
	name string
}

// NewEntityDatabase initializes a typed view over the named collection
func NewEntityDatabase[T any](db DatabaseHelper, name string) EntityDatabase[T] {
	return &entityDatabase[T]{
		db:   db,
		name: name,
	}
}

func (c *entityDatabase[T]) Name() string {
	return c.name
}

func (c *entityDatabase[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	err := c.db.Collection(c.name).FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *entityDatabase[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	var docs []T
	curr, err := c.db.Collection(c.name).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *entityDatabase[T]) InsertOne(ctx context.Context, document interface{}) (primitive.ObjectID, error) {
	res, err := c.db.Collection(c.name).InsertOne(ctx, document)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.Decode().(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id %v in %s", res.Decode(), c.name)
	}
	return id, nil
}

func (c *entityDatabase[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.db.Collection(c.name).UpdateOne(ctx, filter, update)
}

func (c *entityDatabase[T]) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*T, error) {
	var doc T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := c.db.Collection(c.name).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *entityDatabase[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(c.name).CountDocuments(ctx, filter)
}

// PatientDatabase contains the methods to use with the patient collection
type PatientDatabase = EntityDatabase[models.Patient]

// DoctorDatabase contains the methods to use with the doctor collection
type DoctorDatabase = EntityDatabase[models.Doctor]

// ConsultationDatabase contains the methods to use with the consultation collection
type ConsultationDatabase = EntityDatabase[models.Consultation]

// PrescriptionDatabase contains the methods to use with the prescription collection
type PrescriptionDatabase = EntityDatabase[models.Prescription]

// LabOrderDatabase contains the methods to use with the laboratory order collection
type LabOrderDatabase = EntityDatabase[models.LabOrder]

// DispensingDatabase contains the methods to use with the pharmacy dispensing collection
type DispensingDatabase = EntityDatabase[models.Dispensing]

// PaymentDatabase contains the methods to use with the payment collection
type PaymentDatabase = EntityDatabase[models.Payment]

// NotificationDatabase contains the methods to use with the notification collection
type NotificationDatabase = EntityDatabase[models.Notification]

// HealthReportDatabase contains the methods to use with the health-authority report collection
type HealthReportDatabase = EntityDatabase[models.HealthReport]

// NewPatientDatabase initializes a new instance of patient database with the provided db connection
func NewPatientDatabase(db DatabaseHelper) PatientDatabase {
	return NewEntityDatabase[models.Patient](db, PatientCollection)
}

// NewDoctorDatabase initializes a new instance of doctor database with the provided db connection
func NewDoctorDatabase(db DatabaseHelper) DoctorDatabase {
	return NewEntityDatabase[models.Doctor](db, DoctorCollection)
}

// NewConsultationDatabase initializes a new instance of consultation database with the provided db connection
func NewConsultationDatabase(db DatabaseHelper) ConsultationDatabase {
	return NewEntityDatabase[models.Consultation](db, ConsultationCollection)
}

// NewPrescriptionDatabase initializes a new instance of prescription database with the provided db connection
func NewPrescriptionDatabase(db DatabaseHelper) PrescriptionDatabase {
	return NewEntityDatabase[models.Prescription](db, PrescriptionCollection)
}

// NewLabOrderDatabase initializes a new instance of laboratory order database with the provided db connection
func NewLabOrderDatabase(db DatabaseHelper) LabOrderDatabase {
	return NewEntityDatabase[models.LabOrder](db, LabOrderCollection)
}

// NewDispensingDatabase initializes a new instance of dispensing database with the provided db connection
func NewDispensingDatabase(db DatabaseHelper) DispensingDatabase {
	return NewEntityDatabase[models.Dispensing](db, DispensingCollection)
}

// NewPaymentDatabase initializes a new instance of payment database with the provided db connection
func NewPaymentDatabase(db DatabaseHelper) PaymentDatabase {
	return NewEntityDatabase[models.Payment](db, PaymentCollection)
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return NewEntityDatabase[models.Notification](db, NotificationCollection)
}

// NewHealthReportDatabase initializes a new instance of health report database with the provided db connection
func NewHealthReportDatabase(db DatabaseHelper) HealthReportDatabase {
	return NewEntityDatabase[models.HealthReport](db, HealthReportCollection)
}
