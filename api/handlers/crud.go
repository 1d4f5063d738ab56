package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/config"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// insert stores doc and answers 201 with the new id
func insert[T any](ctx context.Context, w http.ResponseWriter, db databases.EntityDatabase[T], doc *T) {
	id, err := db.InsertOne(ctx, doc)
	if err != nil {
		respondError(w, err)
		return
	}
	zap.S().Debugw("document inserted", "collection", db.Name(), "_id", id.Hex())
	writeJSON(w, http.StatusCreated, models.InsertedResponse{ID: id})
}

// getByID answers the document addressed by the idVar path variable, soft-deleted
// documents included.
func getByID[T any](w http.ResponseWriter, r *http.Request, db databases.EntityDatabase[T], idVar, entity string) {
	id, err := pathID(r, idVar)
	if err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := db.FindOne(ctx, bson.M{"_id": id})
	if databases.IsNotFound(err) {
		respondError(w, &notFoundError{entity: entity})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// list answers the non-deleted documents matching q, capped and sorted
func list[T any](w http.ResponseWriter, r *http.Request, db databases.EntityDatabase[T], q *listQuery, sortField string, direction int) {
	if q.err != nil {
		respondError(w, q.err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	docs, err := db.Find(ctx, q.filter, databases.ListOptions(sortField, direction))
	if err != nil {
		respondError(w, err)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// update merges set into the document, stamps updated_at and answers the result
func update[T any](ctx context.Context, w http.ResponseWriter, db databases.EntityDatabase[T], id primitive.ObjectID, entity string, set bson.M) {
	doc, err := patch(ctx, db, bson.M{"_id": id}, set)
	respondPatched(w, doc, err, entity)
}

// patch merges set into the document matched by filter and returns it as stored
func patch[T any](ctx context.Context, db databases.EntityDatabase[T], filter bson.M, set bson.M) (*T, error) {
	if len(set) == 0 {
		return nil, validation.Errorf("", "no fields to update")
	}
	set["updated_at"] = time.Now().UTC()
	return db.FindOneAndUpdate(ctx, filter, bson.M{"$set": set})
}

// stampMissing sets field to now when the stored document has no value for it yet,
// doc is returned unchanged when another writer stamped it first
func stampMissing[T any](ctx context.Context, db databases.EntityDatabase[T], id primitive.ObjectID, field string, doc *T) (*T, error) {
	stamped, err := db.FindOneAndUpdate(ctx, bson.M{"_id": id, field: nil}, bson.M{"$set": bson.M{field: time.Now().UTC()}})
	if databases.IsNotFound(err) {
		return doc, nil
	}
	return stamped, err
}

func respondPatched[T any](w http.ResponseWriter, doc *T, err error, entity string) {
	if databases.IsNotFound(err) {
		respondError(w, &notFoundError{entity: entity})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// softDelete flags the document addressed by idVar as deleted
func softDelete[T any](w http.ResponseWriter, r *http.Request, db databases.EntityDatabase[T], idVar, entity string) {
	id, err := pathID(r, idVar)
	if err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := db.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		respondError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, &notFoundError{entity: entity})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
