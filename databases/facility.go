package databases

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/hospital-api/models"
)

// FacilityDatabase contains the methods to use with the facility collection
type FacilityDatabase interface {
	EntityDatabase[models.Facility]
	UpsertByCode(ctx context.Context, code string) (primitive.ObjectID, error)
}

type facilityDatabase struct {
	EntityDatabase[models.Facility]
	db DatabaseHelper
}

// NewFacilityDatabase initializes a new instance of facility database with the provided db connection
func NewFacilityDatabase(db DatabaseHelper) FacilityDatabase {
	return &facilityDatabase{
		EntityDatabase: NewEntityDatabase[models.Facility](db, FacilityCollection),
		db:             db,
	}
}

// UpsertByCode returns the id of the facility with code, creating a placeholder one when missing
func (c *facilityDatabase) UpsertByCode(ctx context.Context, code string) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"code":       code,
		"name":       fmt.Sprintf("Facility %s", code),
		"created_at": now,
		"updated_at": now,
		"deleted":    false,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var facility models.Facility
	err := c.db.Collection(FacilityCollection).
		FindOneAndUpdate(ctx, bson.M{"code": code}, update, opts).
		Decode(&facility)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return facility.ID, nil
}
