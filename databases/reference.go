package databases

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReferenceDatabase checks that a referenced document exists
type ReferenceDatabase interface {
	Exists(ctx context.Context, collection string, id primitive.ObjectID) (bool, error)
}

type referenceDatabase struct {
	db DatabaseHelper
}

// NewReferenceDatabase initializes a new instance of reference database with the provided db connection
func NewReferenceDatabase(db DatabaseHelper) ReferenceDatabase {
	return &referenceDatabase{
		db: db,
	}
}

// Exists does a point lookup projected on _id
func (c *referenceDatabase) Exists(ctx context.Context, collection string, id primitive.ObjectID) (bool, error) {
	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := c.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
