package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/hospital-api/config"
	"github.com/linesmerrill/hospital-api/databases/mocks"
)

func newRequest(t *testing.T, method, url, body string, vars map[string]string) *http.Request {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
	}
	if err != nil {
		t.Fatal(err)
	}
	if body == "" {
		req.Body = http.NoBody
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorBody(message string, details interface{}) string {
	b, _ := config.MarshalError(message, details)
	return string(b)
}

// lookup returns a collection whose FindOne finds a document, or none when missing is set
func lookup(missing bool) *mocks.CollectionHelper {
	conn := &mocks.CollectionHelper{}
	sr := &mocks.SingleResultHelper{}
	if missing {
		sr.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	} else {
		sr.On("Decode", mock.Anything).Return(nil)
	}
	conn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(sr)
	return conn
}

// inserting returns a collection that keeps the document passed to InsertOne in got
func inserting[T any](got **T) *mocks.CollectionHelper {
	conn := &mocks.CollectionHelper{}
	res := &mocks.InsertOneResultHelper{}
	res.On("Decode").Return(primitive.NewObjectID())
	conn.On("InsertOne", mock.Anything, mock.Anything, mock.Anything).Return(res, nil).Run(func(args mock.Arguments) {
		*got = args.Get(1).(*T)
	})
	return conn
}

func checkBadRequest(t *testing.T, h http.HandlerFunc, body, want string) {
	t.Helper()
	rr := serve(h, newRequest(t, "POST", "/", body, nil))
	checkStatus(t, rr, http.StatusBadRequest)
	checkBody(t, rr, errorBody(want, nil))
}

func checkPatchBadRequest(t *testing.T, h http.HandlerFunc, idVar, body, want string) {
	t.Helper()
	id := primitive.NewObjectID().Hex()
	rr := serve(h, newRequest(t, "PATCH", "/"+id, body, map[string]string{idVar: id}))
	checkStatus(t, rr, http.StatusBadRequest)
	checkBody(t, rr, errorBody(want, nil))
}

// updating returns a collection answering FindOneAndUpdate on filter with a stored
// document prepared by fill, the update sent is kept in got
func updating[T any](conn *mocks.CollectionHelper, filter bson.M, fill func(*T), got *bson.M) *mocks.CollectionHelper {
	sr := &mocks.SingleResultHelper{}
	sr.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		if fill != nil {
			fill(args.Get(0).(*T))
		}
	})
	conn.On("FindOneAndUpdate", mock.Anything, filter, mock.Anything, mock.Anything).Return(sr).Run(func(args mock.Arguments) {
		if got != nil {
			*got = args.Get(2).(bson.M)
		}
	})
	return conn
}

func checkStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if status := rr.Code; status != want {
		t.Errorf("handler returned wrong status code: got %v want %v, body %s", status, want, rr.Body.String())
	}
}

func checkBody(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rr.Body.String() != want {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), want)
	}
}
