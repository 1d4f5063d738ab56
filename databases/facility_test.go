package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/databases/mocks"
	"github.com/linesmerrill/hospital-api/models"
)

func TestFacilityDatabase_UpsertByCode(t *testing.T) {
	id := primitive.NewObjectID()

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Facility)
		arg.ID = id
		arg.Code = "HOSP-001"
	})
	collectionHelper.On("FindOneAndUpdate", mock.Anything, bson.M{"code": "HOSP-001"}, mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "facilities").Return(collectionHelper)

	got, err := databases.NewFacilityDatabase(dbHelper).UpsertByCode(context.Background(), "HOSP-001")

	assert.NoError(t, err)
	assert.Equal(t, id, got)

	update := collectionHelper.Calls[0].Arguments.Get(2).(bson.M)
	onInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, "HOSP-001", onInsert["code"])
	assert.Equal(t, "Facility HOSP-001", onInsert["name"])
	assert.Equal(t, false, onInsert["deleted"])
}

func TestFacilityDatabase_UpsertByCodeError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	collectionHelper.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "facilities").Return(collectionHelper)

	got, err := databases.NewFacilityDatabase(dbHelper).UpsertByCode(context.Background(), "X")

	assert.EqualError(t, err, "mocked-error")
	assert.Equal(t, primitive.NilObjectID, got)
}
