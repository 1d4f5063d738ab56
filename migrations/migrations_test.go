package migrations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/databases/mocks"
	"github.com/linesmerrill/hospital-api/migrations"
)

func appliedCursor(records ...migrations.Record) *mocks.CursorHelper {
	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]migrations.Record)
		*arg = records
	})
	cursor.On("Close", mock.Anything).Return(nil)
	return cursor
}

func recorder(ran *[]int, version int) migrations.Migration {
	return migrations.Migration{
		Version:     version,
		Description: "step",
		Up: func(ctx context.Context, db databases.DatabaseHelper) error {
			*ran = append(*ran, version)
			return nil
		},
	}
}

func TestMigratorUpSkipsApplied(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}

	coll.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(appliedCursor(migrations.Record{Version: 1}), nil)
	coll.On("InsertOne", mock.Anything, mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db.On("Collection", databases.MigrationCollection).Return(coll)

	var ran []int
	m := migrations.New(db, recorder(&ran, 3), recorder(&ran, 1), recorder(&ran, 2))

	got, err := m.Up(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []int{2, 3}, got)
	assert.Equal(t, []int{2, 3}, ran)
	coll.AssertNumberOfCalls(t, "InsertOne", 2)
}

func TestMigratorUpStopsOnFailure(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}

	coll.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(appliedCursor(), nil)
	coll.On("InsertOne", mock.Anything, mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db.On("Collection", databases.MigrationCollection).Return(coll)

	var ran []int
	failing := migrations.Migration{
		Version:     2,
		Description: "broken",
		Up: func(ctx context.Context, db databases.DatabaseHelper) error {
			return errors.New("mocked-error")
		},
	}
	m := migrations.New(db, recorder(&ran, 1), failing, recorder(&ran, 3))

	got, err := m.Up(context.Background())

	assert.EqualError(t, err, "migration 2 (broken) failed: mocked-error")
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, []int{1}, ran)
	coll.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestMigratorAppliedFindError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}

	coll.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.On("Collection", databases.MigrationCollection).Return(coll)

	_, err := migrations.New(db).Applied(context.Background())

	assert.EqualError(t, err, "failed to read applied migrations: mocked-error")
}

func TestAllVersionsAreOrdered(t *testing.T) {
	for i, m := range migrations.All {
		assert.Equal(t, i+1, m.Version)
		assert.NotNil(t, m.Up)
	}
}

func TestLegacyIdentity(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	patients := &mocks.CollectionHelper{}
	doctors := &mocks.CollectionHelper{}

	patients.On("UpdateMany", mock.Anything, migrations.LegacyIdentityFilter(), migrations.LegacyIdentityPipeline(), mock.Anything).Return(&mongo.UpdateResult{ModifiedCount: 2}, nil)
	doctors.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)
	db.On("Collection", databases.PatientCollection).Return(patients)
	db.On("Collection", databases.DoctorCollection).Return(doctors)

	err := migrations.LegacyIdentity(context.Background(), db)

	assert.NoError(t, err)
	patients.AssertExpectations(t)
	doctors.AssertExpectations(t)
}

func TestLegacyIdentityError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	patients := &mocks.CollectionHelper{}

	patients.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.On("Collection", databases.PatientCollection).Return(patients)

	err := migrations.LegacyIdentity(context.Background(), db)

	assert.EqualError(t, err, "failed to migrate identity on patients: mocked-error")
}

func TestLegacyIdentityFilter(t *testing.T) {
	want := bson.M{"$or": bson.A{
		bson.M{"first_name": bson.M{"$exists": true}},
		bson.M{"last_name": bson.M{"$exists": true}},
		bson.M{"birth_date": bson.M{"$exists": true}},
	}}

	assert.Equal(t, want, migrations.LegacyIdentityFilter())
}
