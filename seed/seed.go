package seed

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/models"
)

// SeedKey is the natural key of seeded documents that have none of their own
const SeedKey = "_seed_id"

// dates parsed on every upserted document
var dateFields = []string{"start_at", "date_time", "expires_at", "due_date", "paid_at", "updated_at", "created_at"}

// references given as hex strings on every upserted document
var idFields = []string{"patient_id", "doctor_id", "appointment_id", "consultation_id"}

// Seeder writes fixtures idempotently, every document is upserted on a natural key
type Seeder struct {
	db         databases.DatabaseHelper
	facilities FacilityResolver
	now        func() time.Time
}

// NewSeeder returns a Seeder resolving facility codes through the facilities collection
func NewSeeder(db databases.DatabaseHelper) *Seeder {
	return &Seeder{
		db:         db,
		facilities: databases.NewFacilityDatabase(db),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run seeds f and returns how many documents were written per collection
func (s *Seeder) Run(ctx context.Context, f *Fixture) (map[string]int, error) {
	written := map[string]int{}
	step := func(coll string, docs []bson.M, key string) error {
		n, err := s.upsertMany(ctx, coll, docs, key)
		written[coll] += n
		return err
	}

	facilities := make([]bson.M, 0, len(f.Facilities))
	for _, d := range f.Facilities {
		facilities = append(facilities, s.NormalizeFacility(d))
	}
	if err := step(databases.FacilityCollection, facilities, "code"); err != nil {
		return written, err
	}

	directories := []struct {
		kind string
		docs []bson.M
	}{
		{"pharmacy", f.Pharmacies},
		{"laboratory", f.Laboratories},
		{"health_authority", f.HealthAuthorities},
	}
	for _, dir := range directories {
		entries := make([]bson.M, 0, len(dir.docs))
		for _, d := range dir.docs {
			entries = append(entries, s.NormalizeDirectoryEntry(d, dir.kind))
		}
		if err := step(databases.FacilityCollection, entries, "name"); err != nil {
			return written, err
		}
	}

	patients := make([]bson.M, 0, len(f.Patients))
	for _, d := range f.Patients {
		p, err := s.NormalizePatient(ctx, d)
		if err != nil {
			return written, fmt.Errorf("failed to normalize patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := step(databases.PatientCollection, patients, "email"); err != nil {
		return written, err
	}

	doctors := make([]bson.M, 0, len(f.Doctors))
	for _, d := range f.Doctors {
		doc, err := s.NormalizeDoctor(ctx, d)
		if err != nil {
			return written, fmt.Errorf("failed to normalize doctor: %w", err)
		}
		doctors = append(doctors, doc)
	}
	if err := step(databases.DoctorCollection, doctors, "license_number"); err != nil {
		return written, err
	}

	notifications := make([]bson.M, 0, len(f.Notifications))
	for _, d := range f.Notifications {
		notifications = append(notifications, s.NormalizeNotification(d))
	}
	if err := step(databases.NotificationCollection, notifications, SeedKey); err != nil {
		return written, err
	}

	appointments, err := s.ResolveAppointments(ctx, f.Appointments)
	if err != nil {
		return written, err
	}
	if err := step(databases.AppointmentCollection, appointments, SeedKey); err != nil {
		return written, err
	}

	if err := step(databases.PrescriptionCollection, f.Prescriptions, SeedKey); err != nil {
		return written, err
	}
	if err := step(databases.PaymentCollection, f.Payments, SeedKey); err != nil {
		return written, err
	}

	zap.S().Infow("seed done", "written", written)
	return written, nil
}

// ResolveAppointments looks up patient_email and doctor_license when no id is
// given and renames the legacy start_at to date_time.
func (s *Seeder) ResolveAppointments(ctx context.Context, docs []bson.M) ([]bson.M, error) {
	out := make([]bson.M, 0, len(docs))
	for _, raw := range docs {
		d := clone(raw)
		if v, ok := d["start_at"]; ok {
			if _, set := d["date_time"]; !set {
				d["date_time"] = toDate(v)
			}
			delete(d, "start_at")
		}
		if err := s.resolveRef(ctx, d, "patient_id", "patient_email", databases.PatientCollection, "email"); err != nil {
			return nil, err
		}
		if err := s.resolveRef(ctx, d, "doctor_id", "doctor_license", databases.DoctorCollection, "license_number"); err != nil {
			return nil, err
		}
		if str(d["status"]) == "" {
			d["status"] = models.AppointmentScheduled
		}
		out = append(out, d)
	}
	return out, nil
}

type idOnly struct {
	ID primitive.ObjectID `bson:"_id"`
}

func (s *Seeder) resolveRef(ctx context.Context, d bson.M, idField, byField, coll, field string) error {
	if _, ok := d[idField]; ok {
		return nil
	}
	v, ok := d[byField]
	if !ok {
		return nil
	}

	var ref idOnly
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := s.db.Collection(coll).FindOne(ctx, bson.M{field: v}, opts).Decode(&ref)
	switch {
	case databases.IsNotFound(err):
		zap.S().Warnw("seed reference not found", "collection", coll, field, v)
		return nil
	case err != nil:
		return fmt.Errorf("failed to resolve %s: %w", byField, err)
	}
	d[idField] = ref.ID
	return nil
}

// upsertMany writes docs keyed on key. created_at is only set on insert.
// Documents without the key are skipped.
func (s *Seeder) upsertMany(ctx context.Context, coll string, docs []bson.M, key string) (int, error) {
	n := 0
	now := s.now()
	for _, raw := range docs {
		d := clone(raw)
		for _, k := range dateFields {
			if v, ok := d[k]; ok {
				d[k] = toDate(v)
			}
		}
		for _, k := range idFields {
			if v, ok := d[k].(string); ok {
				if id, err := primitive.ObjectIDFromHex(v); err == nil {
					d[k] = id
				}
			}
		}
		if v, ok := d["facility_id"]; ok {
			facility, err := s.resolveFacility(ctx, v)
			if err != nil {
				return n, fmt.Errorf("failed to resolve facility on %s: %w", coll, err)
			}
			d["facility_id"] = facility
		}
		delete(d, "_id")

		kv := d[key]
		if isEmpty(kv) {
			zap.S().Warnw("seed document has no key, skipped", "collection", coll, "key", key)
			continue
		}

		created := dateOr(d["created_at"], now)
		delete(d, "created_at")
		if _, ok := d["updated_at"]; !ok {
			d["updated_at"] = now
		}
		if _, ok := d["deleted"]; !ok {
			d["deleted"] = false
		}

		update := bson.M{"$set": d, "$setOnInsert": bson.M{"created_at": created}}
		_, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{key: kv}, update, options.Update().SetUpsert(true))
		if err != nil {
			return n, fmt.Errorf("failed to upsert into %s: %w", coll, err)
		}
		n++
	}
	return n, nil
}
