package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/api/handlers"
	"github.com/linesmerrill/hospital-api/api/scheduler"
	"github.com/linesmerrill/hospital-api/config"
	"github.com/linesmerrill/hospital-api/databases"
	"github.com/linesmerrill/hospital-api/migrations"
	"github.com/linesmerrill/hospital-api/seed"
)

const shutdownTimeout = 15 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "hospital-api",
		Short:         "Hospital management REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "indexes",
		Short: "Create the collection indexes",
		RunE: withDatabase(func(ctx context.Context, conf *config.Config, db databases.DatabaseHelper) error {
			return databases.EnsureIndexes(ctx, db)
		}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: withDatabase(func(ctx context.Context, conf *config.Config, db databases.DatabaseHelper) error {
			ran, err := migrations.New(db).Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migration(s).\n", len(ran))
			return nil
		}),
	})

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a fixture file into the database",
	}
	seedCmd.Flags().String("file", "", "fixture file, defaults to SEED_FILE")
	seedCmd.RunE = withDatabase(func(ctx context.Context, conf *config.Config, db databases.DatabaseHelper) error {
		path, _ := seedCmd.Flags().GetString("file")
		if path == "" {
			path = conf.SeedFile
		}
		return loadSeed(ctx, db, path)
	})
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		zap.S().With(zap.Error(err)).Error("hospital-api failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withDatabase runs fn against a connected database and disconnects afterwards
func withDatabase(fn func(ctx context.Context, conf *config.Config, db databases.DatabaseHelper) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		conf, err := config.New()
		if err != nil {
			return err
		}
		a := handlers.App{Config: *conf}
		if err := a.Initialize(); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		defer closeApp(&a)
		return fn(ctx, conf, a.Database())
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := config.New()
	if err != nil {
		return err
	}

	a := handlers.App{Config: *conf}
	if err := a.Initialize(); err != nil { // initialize database and router
		return err
	}
	defer closeApp(&a)

	ctx := context.Background()
	if err := databases.EnsureIndexes(ctx, a.Database()); err != nil {
		return err
	}
	if conf.SeedOnStart {
		if err := loadSeed(ctx, a.Database(), conf.SeedFile); err != nil {
			return err
		}
	}

	if conf.StatsSchedule != "" {
		s := scheduler.NewScheduler(a.Database(), conf.StatsSchedule)
		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("hospital-api is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
			"read_only", conf.ReadOnly,
		)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-quit:
		zap.S().Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadSeed(ctx context.Context, db databases.DatabaseHelper, path string) error {
	fixture, err := seed.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.S().Infow("seed file not found, skipping", "file", path)
		return nil
	}
	if err != nil {
		return err
	}
	_, err = seed.NewSeeder(db).Run(ctx, fixture)
	return err
}

func closeApp(a *handlers.App) {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.DBTimeout)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		zap.S().With(zap.Error(err)).Warn("failed to disconnect from database")
	}
}
