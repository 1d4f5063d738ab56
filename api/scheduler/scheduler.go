package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/api"
	"github.com/linesmerrill/hospital-api/databases"
)

// Scheduler runs the periodic collection statistics job
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	DB       databases.DatabaseHelper
}

// NewScheduler creates a new scheduler instance for the given cron spec
func NewScheduler(db databases.DatabaseHelper, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		schedule: schedule,
		DB:       db,
	}
}

// Start registers the stats job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.collectStats); err != nil {
		zap.S().Errorw("failed to register collection stats job", "schedule", s.schedule, "error", err)
		return err
	}
	s.cron.Start()
	zap.S().Infow("collection stats scheduler started", "schedule", s.schedule)
	return nil
}

// Stop waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("collection stats scheduler stopped")
}

func (s *Scheduler) collectStats() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.CollectStats(ctx)
}

// CollectStats counts the live documents of every entity collection, logs them
// and exports them as a gauge. A failing collection does not stop the others.
func (s *Scheduler) CollectStats(ctx context.Context) map[string]int64 {
	counts := make(map[string]int64, len(databases.EntityCollections))
	for _, name := range databases.EntityCollections {
		n, err := s.DB.Collection(name).CountDocuments(ctx, databases.NotDeleted())
		if err != nil {
			zap.S().Errorw("failed to count documents", "collection", name, "error", err)
			continue
		}
		counts[name] = n
		api.CollectionDocuments.WithLabelValues(name).Set(float64(n))
	}
	zap.S().Infow("collection stats", "counts", counts)
	return counts
}
