package migrations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/databases"
)

// Migration is one versioned change to the stored schema
type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, db databases.DatabaseHelper) error
}

// Record is the schema_migrations document written once a migration has run
type Record struct {
	Version     int       `bson:"_id"`
	Description string    `bson:"description"`
	AppliedAt   time.Time `bson:"applied_at"`
}

// All lists the migrations in the order they are applied
var All = []Migration{
	{Version: 1, Description: "ensure indexes", Up: databases.EnsureIndexes},
	{Version: 2, Description: "collection validators", Up: databases.EnsureValidators},
	{Version: 3, Description: "legacy identity fields", Up: LegacyIdentity},
}

// Migrator applies pending migrations against one database
type Migrator struct {
	db         databases.DatabaseHelper
	migrations []Migration
}

// New returns a Migrator over ms, or over All when none are given
func New(db databases.DatabaseHelper, ms ...Migration) *Migrator {
	if len(ms) == 0 {
		ms = All
	}
	sorted := append([]Migration(nil), ms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Migrator{db: db, migrations: sorted}
}

// Applied returns the versions already recorded
func (m *Migrator) Applied(ctx context.Context) (map[int]bool, error) {
	cur, err := m.db.Collection(databases.MigrationCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(records))
	for _, r := range records {
		applied[r.Version] = true
	}
	return applied, nil
}

// Up runs every pending migration in version order and returns the versions it ran.
// It stops at the first failure, later migrations stay pending.
func (m *Migrator) Up(ctx context.Context) ([]int, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}

	var ran []int
	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}
		zap.S().Infow("applying migration", "version", mig.Version, "description", mig.Description)
		if err := mig.Up(ctx, m.db); err != nil {
			return ran, fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Description, err)
		}
		rec := Record{Version: mig.Version, Description: mig.Description, AppliedAt: time.Now().UTC()}
		if _, err := m.db.Collection(databases.MigrationCollection).InsertOne(ctx, rec); err != nil {
			return ran, fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
		}
		ran = append(ran, mig.Version)
	}
	return ran, nil
}
