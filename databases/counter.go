package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/hospital-api/models"
)

// PatientSequence is the counter behind generated patient identifiers
const PatientSequence = "patient_ident"

// CounterDatabase hands out atomically incremented sequence values
type CounterDatabase interface {
	Next(ctx context.Context, name string) (int64, error)
}

type counterDatabase struct {
	db DatabaseHelper
}

// NewCounterDatabase initializes a new instance of counter database with the provided db connection
func NewCounterDatabase(db DatabaseHelper) CounterDatabase {
	return &counterDatabase{
		db: db,
	}
}

// Next increments the named counter, creating it on first use, and returns the new value
func (c *counterDatabase) Next(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := c.db.Collection(CounterCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
