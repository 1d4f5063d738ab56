package seed

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/hospital-api/models"
	"github.com/linesmerrill/hospital-api/validation"
)

// DefaultFacilityCode is used when a seeded document names no facility
const DefaultFacilityCode = "HOSP-001"

// DefaultSpecialty is given to doctors seeded without any specialty
const DefaultSpecialty = "General Medicine"

var (
	defaultBirthDate    = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	legacyIdentityKeys  = []string{"first_name", "last_name", "birth_date"}
	legacySpecialtyKeys = []string{"speciality", "specialty", "specialité", "spécialité"}
	legacyDoctorKeys    = []string{"first_name", "last_name", "gender", "speciality", "specialty", "specialité", "spécialité"}
)

// FacilityResolver returns the id of the facility with code, creating it if needed
type FacilityResolver interface {
	UpsertByCode(ctx context.Context, code string) (primitive.ObjectID, error)
}

// resolveFacility turns a facility reference into an ObjectID. 24 hex characters
// are taken as an id, anything else as a facility code.
func (s *Seeder) resolveFacility(ctx context.Context, v interface{}) (interface{}, error) {
	switch ref := v.(type) {
	case primitive.ObjectID:
		return ref, nil
	case nil:
		return s.facilities.UpsertByCode(ctx, DefaultFacilityCode)
	case string:
		ref = strings.TrimSpace(ref)
		if len(ref) == 24 {
			if id, err := primitive.ObjectIDFromHex(ref); err == nil {
				return id, nil
			}
		}
		if ref == "" {
			ref = DefaultFacilityCode
		}
		return s.facilities.UpsertByCode(ctx, ref)
	}
	return v, nil
}

// NormalizeFacility upper-cases the code and names unnamed facilities after it
func (s *Seeder) NormalizeFacility(d bson.M) bson.M {
	d = clone(d)
	if code := strings.ToUpper(str(d["code"])); code != "" {
		d["code"] = code
		if str(d["name"]) == "" {
			d["name"] = "Facility " + code
		}
	}
	d["created_at"] = dateOr(d["created_at"], s.now())
	return d
}

// NormalizeDirectoryEntry turns a pharmacy, laboratory or health authority
// listed by name into a facility of that type. A code is derived from the name
// when none is given.
func (s *Seeder) NormalizeDirectoryEntry(d bson.M, kind string) bson.M {
	d = clone(d)
	name := strings.TrimSpace(str(d["name"]))
	if name != "" {
		d["name"] = name
	}
	if str(d["type"]) == "" {
		d["type"] = kind
	}
	if code := strings.ToUpper(str(d["code"])); code != "" {
		d["code"] = code
	} else if name != "" {
		d["code"] = directoryCode(kind, name)
	}
	d["created_at"] = dateOr(d["created_at"], s.now())
	return d
}

// directoryCode builds KIND-NAME from runs of letters and digits, "Pharmacie du
// Centre" listed as a pharmacy gives PHARMACY-PHARMACIE-DU-CENTRE
func directoryCode(kind, name string) string {
	words := strings.FieldsFunc(strings.ToUpper(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToUpper(kind) + "-" + strings.Join(words, "-")
}

// NormalizePatient maps legacy first_name, last_name and birth_date, at the root
// or inside identite, onto the nested identity and fills the required defaults.
func (s *Seeder) NormalizePatient(ctx context.Context, d bson.M) (bson.M, error) {
	d = clone(d)
	d["created_at"] = dateOr(d["created_at"], s.now())
	facility, err := s.resolveFacility(ctx, d["facility_id"])
	if err != nil {
		return nil, err
	}
	d["facility_id"] = facility

	id := asDoc(d["identite"])
	mapName(id, d, "prenom", "first_name")
	mapName(id, d, "nom", "last_name")

	switch {
	case id["date_naissance"] != nil:
		id["date_naissance"] = toDate(id["date_naissance"])
	case id["birth_date"] != nil:
		id["date_naissance"] = toDate(id["birth_date"])
	default:
		id["date_naissance"] = dateOr(d["birth_date"], defaultBirthDate)
	}

	if !validation.OneOf(str(id["sexe"]), models.Sexes) {
		id["sexe"] = "X"
	}
	defaultName(id)

	for _, k := range legacyIdentityKeys {
		delete(id, k)
		delete(d, k)
	}
	d["identite"] = id
	return d, nil
}

// NormalizeDoctor maps legacy names, gender and specialty keys. A doctor always
// ends up with at least one specialty.
func (s *Seeder) NormalizeDoctor(ctx context.Context, d bson.M) (bson.M, error) {
	d = clone(d)
	d["created_at"] = dateOr(d["created_at"], s.now())
	facility, err := s.resolveFacility(ctx, d["facility_id"])
	if err != nil {
		return nil, err
	}
	d["facility_id"] = facility

	id := asDoc(d["identite"])
	mapName(id, d, "prenom", "first_name")
	mapName(id, d, "nom", "last_name")

	sex := str(id["sexe"])
	if sex == "" {
		sex = str(d["gender"])
	}
	if sex != "" {
		sex = validation.Sex(sex)
		if !validation.OneOf(sex, models.Sexes) {
			sex = "X"
		}
		id["sexe"] = sex
	}
	defaultName(id)
	d["identite"] = id

	specs := d["specialites"]
	if isEmpty(specs) {
		for _, k := range legacySpecialtyKeys {
			if !isEmpty(d[k]) {
				specs = d[k]
				break
			}
		}
	}
	d["specialites"] = specialties(specs)

	for _, k := range legacyDoctorKeys {
		delete(d, k)
	}
	return d, nil
}

// NormalizeNotification coerces legacy channel and status values into the
// accepted enums: system becomes push, pending becomes queued.
func (s *Seeder) NormalizeNotification(d bson.M) bson.M {
	d = clone(d)
	d["created_at"] = dateOr(d["created_at"], s.now())
	if v, ok := d["expires_at"]; ok {
		d["expires_at"] = toDate(v)
	}

	channel := strings.ToLower(str(d["channel"]))
	if channel == "system" {
		channel = "push"
	}
	if !validation.OneOf(channel, models.NotificationChannels) {
		channel = "email"
	}
	d["channel"] = channel

	status := strings.ToLower(str(d["status"]))
	if status == "pending" {
		status = "queued"
	}
	if !validation.OneOf(status, models.NotificationStatuses) {
		status = "queued"
	}
	d["status"] = status
	return d
}

func mapName(id, root bson.M, field, legacy string) {
	if str(id[field]) != "" {
		return
	}
	if v := str(root[legacy]); v != "" {
		id[field] = v
	} else if v := str(id[legacy]); v != "" {
		id[field] = v
	}
}

func defaultName(id bson.M) {
	for _, k := range []string{"prenom", "nom"} {
		if str(id[k]) == "" {
			id[k] = "N/A"
		}
	}
}

func specialties(v interface{}) []string {
	var out []string
	switch s := v.(type) {
	case string:
		out = validation.TrimAll([]string{s})
	case []string:
		out = validation.TrimAll(s)
	case bson.A:
		out = stringsOf(s)
	case []interface{}:
		out = stringsOf(s)
	}
	if len(out) == 0 {
		return []string{DefaultSpecialty}
	}
	return out
}

func stringsOf(a []interface{}) []string {
	ss := make([]string, 0, len(a))
	for _, v := range a {
		if s, ok := v.(string); ok {
			ss = append(ss, s)
		}
	}
	return validation.TrimAll(ss)
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case bson.A:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	}
	return false
}

func str(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// toDate parses ISO strings, anything else is returned unchanged
func toDate(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if parsed, err := validation.ParseISO(t); err == nil {
			return parsed
		}
	case primitive.DateTime:
		return t.Time().UTC()
	}
	return v
}

// dateOr returns v as a UTC time, or def when v is not a date
func dateOr(v interface{}, def time.Time) time.Time {
	if t, ok := toDate(v).(time.Time); ok {
		return t.UTC()
	}
	return def
}

func asDoc(v interface{}) bson.M {
	switch m := v.(type) {
	case bson.M:
		return clone(m)
	case map[string]interface{}:
		return clone(m)
	case bson.D:
		out := make(bson.M, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	}
	return bson.M{}
}

func clone(m map[string]interface{}) bson.M {
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
