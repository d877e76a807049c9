// Package container wires the engine together: config in, fully-connected
// service out. A database connection is opened only when the configuration
// carries a DATABASE_URL; without one, job records live in memory and are
// lost on restart.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"datascrub/adapters/postgres"
	"datascrub/app"
	"datascrub/internal"
	"datascrub/internal/batch"
	"datascrub/internal/clean"
	"datascrub/internal/config"
	"datascrub/internal/detect"
	"datascrub/internal/mlreport"
	"datascrub/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Infrastructure
	DB       *sqlx.DB
	JobStore ports.JobStore // nil when no database is configured

	// Engine components
	Detector    *detect.Detector
	Cleaner     *clean.Registry
	Reporter    *mlreport.Reporter
	Registry    *batch.Registry
	Coordinator *batch.Coordinator

	// Application facade
	Service *app.Service
}

// New creates a fully-wired container from the given configuration
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Log:    internal.DefaultLogger,
	}

	if cfg.Database.URL != "" {
		if err := c.initDatabase(ctx, cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	if err := c.initEngine(); err != nil {
		c.Shutdown()
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return c, nil
}

// initDatabase connects the job store and bootstraps its schema
func (c *Container) initDatabase(ctx context.Context, url string) error {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return err
	}
	c.DB = db
	c.JobStore = postgres.NewJobStore(db)
	c.Log.Info("job store connected")
	return nil
}

// initEngine builds the detection, cleaning, reporting, and batch
// components in dependency order
func (c *Container) initEngine() error {
	c.Detector = detect.NewDetector(detect.Options{
		LargeFileThreshold: c.Config.Engine.LargeFileThreshold,
		SampleSize:         c.Config.Engine.SampleSize,
	}, c.Log)

	cleaner, err := clean.NewRegistry(c.Log)
	if err != nil {
		return fmt.Errorf("failed to build cleaning registry: %w", err)
	}
	c.Cleaner = cleaner

	c.Reporter = mlreport.NewReporter(mlreport.Options{
		MaxRows: c.Config.Engine.LargeFileThreshold,
	}, c.Log)

	c.Registry = batch.NewRegistry(c.JobStore, c.Log)
	c.Coordinator = batch.NewCoordinator(c.Registry, c.Detector, c.Cleaner, batch.Options{
		ChunkSize:           c.Config.Batch.ChunkSize,
		MaxConcurrentChunks: c.Config.Batch.MaxConcurrentChunks,
	}, c.Log)

	c.Service = app.NewService(c.Detector, c.Cleaner, c.Reporter, c.Coordinator, c.Config.Limits.MaxInputBytes, c.Log)
	return nil
}

// Shutdown releases held resources
func (c *Container) Shutdown() error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.DB = nil
	}
	return nil
}
