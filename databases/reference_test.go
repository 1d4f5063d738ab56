package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/databases/mocks"
)

func TestReferenceDatabase_Exists(t *testing.T) {
	found := primitive.NewObjectID()
	missing := primitive.NewObjectID()
	broken := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srFound := &mocks.SingleResultHelper{}
	srMissing := &mocks.SingleResultHelper{}
	srBroken := &mocks.SingleResultHelper{}

	srFound.On("Decode", mock.Anything).Return(nil)
	srMissing.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	srBroken.On("Decode", mock.Anything).Return(errors.New("mocked-error"))

	collectionHelper.On("FindOne", mock.Anything, bson.M{"_id": found}, mock.Anything).Return(srFound)
	collectionHelper.On("FindOne", mock.Anything, bson.M{"_id": missing}, mock.Anything).Return(srMissing)
	collectionHelper.On("FindOne", mock.Anything, bson.M{"_id": broken}, mock.Anything).Return(srBroken)
	dbHelper.On("Collection", "doctors").Return(collectionHelper)

	refs := databases.NewReferenceDatabase(dbHelper)

	ok, err := refs.Exists(context.Background(), databases.DoctorCollection, found)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = refs.Exists(context.Background(), databases.DoctorCollection, missing)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = refs.Exists(context.Background(), databases.DoctorCollection, broken)
	assert.EqualError(t, err, "mocked-error")
	assert.False(t, ok)
}
