package app

import (
	"context"
	"log"
	"os"
	"time"

	"jobpulse/internal/config"
	"jobpulse/internal/database"
	"jobpulse/internal/database/migration"
	dbpostgres "jobpulse/internal/database/postgres"
	"jobpulse/internal/infrastructure/cache"
	"jobpulse/internal/ingest"
	"jobpulse/internal/lifecycle"
	"jobpulse/internal/repository"
	"jobpulse/internal/scheduler"
	"jobpulse/internal/usecase"
	"jobpulse/internal/ws"
)

// Container holds every long-lived component and their wiring. One per
// process.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *cache.Redis

	Postings     repository.PostingStore
	Interactions repository.InteractionStore
	Runs         repository.RunStore

	Orchestrator    *ingest.Orchestrator
	Lifecycle       *lifecycle.Manager
	Scheduler       *scheduler.Scheduler
	Recommendations usecase.RecommendationUsecase

	Hub *ws.Hub
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: os.Getenv("MIGRATIONS_DIR"), Logger: logger}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	redis := cache.NewRedis(logger)

	postings := repository.NewPostgresPostingRepository(db)
	interactions := repository.NewPostgresInteractionRepository(db)
	runs := repository.NewPostgresRunRepository(db)

	hub := ws.NewHub(logger)
	go hub.Run()

	sources := buildSources(cfg.Ingest, logger)
	dedup := ingest.NewDeduplicator(postings)
	orchestrator := ingest.NewOrchestrator(sources, dedup, logger,
		ingest.WithSourceTimeout(cfg.Ingest.SourceTimeout),
		ingest.WithUpsertWorkers(cfg.Ingest.UpsertWorkers),
	)

	mgr := lifecycle.NewManager(postings, interactions, logger)

	sink := &runSink{hub: hub, redis: redis, logger: logger}
	sched := scheduler.New(orchestrator, mgr, runs, sink, logger, scheduler.Config{
		IngestSpec:     cfg.Scheduler.IngestSpec,
		CleanupSpec:    cfg.Scheduler.CleanupSpec,
		SyncSpec:       cfg.Scheduler.SyncSpec,
		LimitPerSource: cfg.Ingest.LimitPerSource,
		RunOnStart:     cfg.Scheduler.RunOnStart,
	}, scheduler.WithGuard(&runGuard{redis: redis}))

	return &Container{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Redis:           redis,
		Postings:        postings,
		Interactions:    interactions,
		Runs:            runs,
		Orchestrator:    orchestrator,
		Lifecycle:       mgr,
		Scheduler:       sched,
		Recommendations: usecase.NewRecommendationUsecase(postings, nil),
		Hub:             hub,
	}, nil
}

func buildSources(cfg config.IngestConfig, logger *log.Logger) []ingest.Source {
	return []ingest.Source{
		ingest.NewRemoteOKSource(),
		ingest.NewWeWorkRemotelySource(),
		ingest.NewIndeedSource(),
		ingest.NewWellfoundSource(logger, cfg.Headless),
		ingest.NewGitHubSource(),
		ingest.NewLinkedInSource(),
		ingest.NewStackOverflowSource(),
		ingest.NewGlassdoorSource(),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
