package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/hospital-api/config"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/validation"
)

// invalidIDError is an identifier that does not parse as an ObjectID
type invalidIDError struct {
	field string
	err   error
}

func (e *invalidIDError) Error() string {
	return "invalid " + e.field
}

func (e *invalidIDError) Unwrap() error {
	return e.err
}

// notFoundError is a missing entity, either the one addressed or a referenced one
type notFoundError struct {
	entity string
}

func (e *notFoundError) Error() string {
	return e.entity + " not found"
}

// respondError maps an error from the request pipeline to its status and body
func respondError(w http.ResponseWriter, err error) {
	var (
		verr  *validation.Error
		idErr *invalidIDError
		nfErr *notFoundError
	)
	switch {
	case errors.As(err, &verr):
		config.ErrorStatus(verr.Message, http.StatusBadRequest, w, nil)
	case errors.As(err, &idErr):
		config.ErrorStatus(idErr.Error(), http.StatusBadRequest, w, idErr.err)
	case errors.As(err, &nfErr):
		config.ErrorStatus(nfErr.Error(), http.StatusNotFound, w, nil)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		config.ErrorStatus("request timeout", http.StatusGatewayTimeout, w, err)
	default:
		if f := databases.ClassifyWriteError(err); f != nil {
			config.WriteError(w, http.StatusBadRequest, f.Code, f.Details)
			return
		}
		config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, err)
	}
}
