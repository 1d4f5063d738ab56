package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/validation"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON object into v. Type mismatches on known fields are
// reported as validation errors naming the offending field.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return validation.Errorf("", "request body must be a JSON object")
		}
		return validation.Errorf(typeErr.Field, "%s must be %s", typeErr.Field, describeType(typeErr.Type))
	case errors.Is(err, io.EOF):
		return validation.Errorf("", "request body is required")
	}
	return validation.Errorf("", "invalid JSON body")
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	}
	return "a valid value"
}

func parseObjectID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, &invalidIDError{field: field, err: err}
	}
	return id, nil
}

// pathID parses the named mux variable
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	return parseObjectID(name, mux.Vars(r)[name])
}

// refResolver checks foreign keys one after the other and keeps the first failure
type refResolver struct {
	ctx  context.Context
	refs databases.ReferenceDatabase
	err  error
}

func newRefResolver(ctx context.Context, refs databases.ReferenceDatabase) *refResolver {
	return &refResolver{ctx: ctx, refs: refs}
}

// optional resolves hex when supplied and returns nil when it is absent or blank
func (rr *refResolver) optional(field, collection, entity string, hex *string) *primitive.ObjectID {
	if rr.err != nil || hex == nil || strings.TrimSpace(*hex) == "" {
		return nil
	}
	id, err := parseObjectID(field, *hex)
	if err != nil {
		rr.err = err
		return nil
	}
	ok, err := rr.refs.Exists(rr.ctx, collection, id)
	if err != nil {
		rr.err = fmt.Errorf("failed to look up %s: %w", field, err)
		return nil
	}
	if !ok {
		rr.err = &notFoundError{entity: entity}
		return nil
	}
	return &id
}

// required resolves a reference whose presence validation already enforced,
// it returns the zero id when absent so merge patches leave the field alone.
func (rr *refResolver) required(field, collection, entity string, hex *string) primitive.ObjectID {
	if id := rr.optional(field, collection, entity, hex); id != nil {
		return *id
	}
	return primitive.NilObjectID
}

func (rr *refResolver) patient(hex *string) primitive.ObjectID {
	return rr.required("patient_id", databases.PatientCollection, "patient", hex)
}

func (rr *refResolver) doctor(hex *string) primitive.ObjectID {
	return rr.required("doctor_id", databases.DoctorCollection, "doctor", hex)
}

// facility treats an omitted facility as unassigned
func (rr *refResolver) facility(hex *string) *primitive.ObjectID {
	return rr.optional("facility_id", databases.FacilityCollection, "facility", hex)
}

func (rr *refResolver) appointment(hex *string) *primitive.ObjectID {
	return rr.optional("appointment_id", databases.AppointmentCollection, "appointment", hex)
}

// fields never written through a merge patch
var immutableFields = map[string]bool{
	"_id":        true,
	"created_at": true,
	"updated_at": true,
	"deleted":    true,
}

// patchSet flattens a partially filled document into $set pairs. Sub-documents
// named in nested are merged key by key instead of being replaced whole.
func patchSet(doc interface{}, nested ...string) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	elems, err := bson.Raw(raw).Elements()
	if err != nil {
		return nil, err
	}

	merge := make(map[string]bool, len(nested))
	for _, n := range nested {
		merge[n] = true
	}

	set := bson.M{}
	for _, e := range elems {
		key, val := e.Key(), e.Value()
		if immutableFields[key] {
			continue
		}
		if merge[key] && val.Type == bson.TypeEmbeddedDocument {
			sub, err := val.Document().Elements()
			if err != nil {
				return nil, err
			}
			for _, se := range sub {
				set[key+"."+se.Key()] = se.Value()
			}
			continue
		}
		set[key] = val
	}
	return set, nil
}

// listQuery turns recognised query parameters into a store filter
type listQuery struct {
	values url.Values
	filter bson.M
	err    error
}

func newListQuery(r *http.Request) *listQuery {
	return &listQuery{values: r.URL.Query(), filter: databases.NotDeleted()}
}

func (q *listQuery) get(param string) (string, bool) {
	v := strings.TrimSpace(q.values.Get(param))
	return v, q.err == nil && v != ""
}

// objectID adds an equality filter on a reference field of the same name
func (q *listQuery) objectID(param string) *listQuery {
	if v, ok := q.get(param); ok {
		id, err := parseObjectID(param, v)
		if err != nil {
			q.err = err
			return q
		}
		q.filter[param] = id
	}
	return q
}

// enum adds an equality filter after checking the value is allowed
func (q *listQuery) enum(param string, allowed []string) *listQuery {
	if v, ok := q.get(param); ok {
		if !validation.OneOf(v, allowed) {
			q.err = validation.Errorf(param, "%s must be one of: %s", param, strings.Join(allowed, ", "))
			return q
		}
		q.filter[param] = v
	}
	return q
}

// text adds an equality filter on field
func (q *listQuery) text(param, field string) *listQuery {
	if v, ok := q.get(param); ok {
		q.filter[field] = v
	}
	return q
}

// dateRange filters field with date_from (inclusive) and date_to (inclusive)
func (q *listQuery) dateRange(field string) *listQuery {
	bounds := bson.M{}
	for _, b := range [...]struct{ param, op string }{{"date_from", "$gte"}, {"date_to", "$lte"}} {
		param := b.param
		v, ok := q.get(param)
		if !ok {
			continue
		}
		t, err := validation.ParseISO(v)
		if err != nil {
			q.err = validation.Errorf(param, "%s must be an ISO 8601 date", param)
			return q
		}
		bounds[b.op] = t
	}
	if q.err == nil && len(bounds) > 0 {
		q.filter[field] = bounds
	}
	return q
}

// optionalNumber accepts a JSON number or a numeric string
func optionalNumber(field string, v interface{}) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return &f, nil
		}
	}
	return nil, validation.Errorf(field, "%s must be a number", field)
}

// requestBody is a decoded create or patch body
type requestBody interface {
	normalize()
}

// readRequest decodes, normalizes and validates a body. Patch bodies are validated
// partially so absent fields keep their stored value.
func readRequest(r *http.Request, req requestBody, partial bool) error {
	if err := decodeBody(r, req); err != nil {
		return err
	}
	req.normalize()
	if partial {
		return validation.Partial(req)
	}
	return validation.Struct(req)
}

func nowUTC() *time.Time {
	t := time.Now().UTC()
	return &t
}
