package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"geoeconews/internal/config"
	"geoeconews/internal/infrastructure/parser"
	"geoeconews/internal/infrastructure/scheduler"
	"geoeconews/internal/infrastructure/storage"
	"geoeconews/internal/infrastructure/whatsapp"
	"geoeconews/internal/logging"
	"geoeconews/internal/scanner"
	"geoeconews/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	store     *storage.PostgresStore
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance: database handle, scanner
// strategies, pipeline and scheduler.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	extractor := parser.NewExtractor(nil, baseLogger.With("component", "extractor"))

	registry := scanner.NewRegistry()
	registry.Register(parser.NewHTMLScanner(nil, extractor, baseLogger.With("component", "scanner.html")))
	registry.Register(parser.NewRSSScanner(extractor, baseLogger.With("component", "scanner.rss")))

	source := parser.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))
	store := storage.NewPostgresStore(db)
	directory := storage.NewPostgresDirectory(db)
	notifier := whatsapp.NewNotifier(cfg.WhatsApp, baseLogger.With("component", "whatsapp"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		Store:     store,
		Directory: directory,
		Notifier:  notifier,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(
		cfg.Scheduler.Interval(),
		cfg.Scheduler.Grace(),
		cfg.Scheduler.RunOnStart,
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		store:     store,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline),
	}, nil
}

// Run starts the scheduled pipeline and blocks until the context is done.
func (a *Application) Run(ctx context.Context) error {
	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"interval", a.cfg.Scheduler.Interval(),
		"run_on_start", a.cfg.Scheduler.RunOnStart)

	<-ctx.Done()

	stopCtx := context.WithoutCancel(ctx)
	return a.scheduler.Stop(stopCtx)
}

// RunOnce executes a single pipeline cycle, used by the --once flag.
func (a *Application) RunOnce(ctx context.Context) error {
	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	a.pipeline.RunCycle(ctx)
	return nil
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
