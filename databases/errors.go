package databases

import (
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store error codes surfaced to API callers
const (
	CodeSchemaValidation = "validation_mongo"
	CodeDuplicateKey     = "duplicate_key"
)

const documentValidationFailure = 121

// WriteFailure is a write rejected by the store for a reason the caller can fix
type WriteFailure struct {
	Code    string
	Details interface{}
	err     error
}

func (f *WriteFailure) Error() string {
	return f.Code + ": " + f.err.Error()
}

func (f *WriteFailure) Unwrap() error {
	return f.err
}

// IsNotFound reports whether err means no document matched
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// ClassifyWriteError turns schema validation and unique index violations into a
// WriteFailure carrying the store's diagnostic, and returns nil otherwise.
func ClassifyWriteError(err error) *WriteFailure {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return &WriteFailure{Code: CodeDuplicateKey, Details: duplicateDetails(err), err: err}
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == documentValidationFailure {
				return &WriteFailure{Code: CodeSchemaValidation, Details: rawDetails(e.Details, e.Message), err: err}
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == documentValidationFailure {
		return &WriteFailure{Code: CodeSchemaValidation, Details: ce.Message, err: err}
	}
	return nil
}

func duplicateDetails(err error) interface{} {
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		return we.WriteErrors[0].Message
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// rawDetails renders the store's errInfo document as plain JSON values
func rawDetails(raw bson.Raw, fallback string) interface{} {
	if len(raw) == 0 {
		return fallback
	}
	b, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return fallback
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fallback
	}
	return out
}
