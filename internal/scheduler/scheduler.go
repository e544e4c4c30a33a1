// Package scheduler wires up the cron entries that drive ingestion, expiry
// cleanup and interaction-count resync, and exposes the same operations for
// on-demand triggering.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"jobpulse/internal/ingest"
	"jobpulse/internal/repository"

	"github.com/google/uuid"
)

// ErrRunInProgress rejects a trigger while the same kind of run is already
// executing. Different kinds run independently.
var ErrRunInProgress = errors.New("run already in progress")

const (
	defaultIngestSpec  = "@every 6h"
	defaultCleanupSpec = "0 2 * * *"
	defaultSyncSpec    = "@every 1h"
)

// Ingestor runs one full multi-source ingestion cycle.
type Ingestor interface {
	Run(ctx context.Context, limitPerSource int) (*ingest.Report, error)
}

// Maintainer covers the periodic housekeeping operations.
type Maintainer interface {
	Cleanup(ctx context.Context) (int64, error)
	SyncCounts(ctx context.Context) (int64, error)
}

// Sink receives the record of every finished run. Implementations fan out
// to the event hub and the report cache; a nil sink is valid.
type Sink interface {
	RunFinished(ctx context.Context, rec repository.RunRecord)
}

// Guard coordinates runs across instances sharing one store. Acquire
// returns false when another instance already holds a run of that kind.
type Guard interface {
	Acquire(ctx context.Context, kind string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, kind string)
}

// guardTTL bounds a crashed holder: the key expires even if Release never
// ran.
const guardTTL = 30 * time.Minute

type Config struct {
	IngestSpec     string
	CleanupSpec    string
	SyncSpec       string
	LimitPerSource int
	// RunOnStart fires one ingestion immediately so the corpus is populated
	// without waiting for the first tick.
	RunOnStart bool
}

// Scheduler owns the cron loop. Every run, scheduled or manual, goes
// through the same guarded execute path, so a manual trigger colliding with
// a tick is rejected instead of doubled.
type Scheduler struct {
	cron     *cron.Cron
	ingestor Ingestor
	maint    Maintainer
	runs     repository.RunStore
	sink     Sink
	guard    Guard
	logger   *log.Logger
	cfg      Config
	now      func() time.Time

	ingestBusy  atomic.Bool
	cleanupBusy atomic.Bool
	syncBusy    atomic.Bool
}

type Option func(*Scheduler)

// WithGuard enables cross-instance coordination on top of the local
// per-kind flags.
func WithGuard(g Guard) Option {
	return func(s *Scheduler) { s.guard = g }
}

func New(ingestor Ingestor, maint Maintainer, runs repository.RunStore, sink Sink, logger *log.Logger, cfg Config, opts ...Option) *Scheduler {
	if cfg.IngestSpec == "" {
		cfg.IngestSpec = defaultIngestSpec
	}
	if cfg.CleanupSpec == "" {
		cfg.CleanupSpec = defaultCleanupSpec
	}
	if cfg.SyncSpec == "" {
		cfg.SyncSpec = defaultSyncSpec
	}
	if cfg.LimitPerSource <= 0 {
		cfg.LimitPerSource = 50
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DiscardLogger)),
		ingestor: ingestor,
		maint:    maint,
		runs:     runs,
		sink:     sink,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the cron entries and launches the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.IngestSpec, func() {
		if _, err := s.runIngestion(ctx, repository.RunTriggerScheduled, 0); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.logf("[scheduler] scheduled ingestion: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("cron.AddFunc ingestion: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.CleanupSpec, func() {
		if _, err := s.runCleanup(ctx, repository.RunTriggerScheduled); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.logf("[scheduler] scheduled cleanup: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("cron.AddFunc cleanup: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.SyncSpec, func() {
		if _, err := s.runSync(ctx, repository.RunTriggerScheduled); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.logf("[scheduler] scheduled count sync: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("cron.AddFunc count sync: %w", err)
	}

	s.cron.Start()
	s.logf("[scheduler] started ingest=%q cleanup=%q sync=%q", s.cfg.IngestSpec, s.cfg.CleanupSpec, s.cfg.SyncSpec)

	if s.cfg.RunOnStart {
		go func() {
			if _, err := s.runIngestion(ctx, repository.RunTriggerScheduled, 0); err != nil && !errors.Is(err, ErrRunInProgress) {
				s.logf("[scheduler] startup ingestion: %v", err)
			}
		}()
	}
	return nil
}

// Stop halts the cron loop and waits for in-flight entries to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logf("[scheduler] stopped")
}

// RunIngestionNow triggers an ingestion cycle outside the schedule.
// limitPerSource overrides the configured default when positive.
func (s *Scheduler) RunIngestionNow(ctx context.Context, limitPerSource int) (repository.RunRecord, error) {
	return s.runIngestion(ctx, repository.RunTriggerManual, limitPerSource)
}

func (s *Scheduler) RunCleanupNow(ctx context.Context) (repository.RunRecord, error) {
	return s.runCleanup(ctx, repository.RunTriggerManual)
}

func (s *Scheduler) RunSyncNow(ctx context.Context) (repository.RunRecord, error) {
	return s.runSync(ctx, repository.RunTriggerManual)
}

func (s *Scheduler) runIngestion(ctx context.Context, trigger string, limitPerSource int) (repository.RunRecord, error) {
	if limitPerSource <= 0 {
		limitPerSource = s.cfg.LimitPerSource
	}
	if !s.ingestBusy.CompareAndSwap(false, true) {
		return repository.RunRecord{}, ErrRunInProgress
	}
	defer s.ingestBusy.Store(false)

	release, err := s.acquire(ctx, repository.RunKindIngestion)
	if err != nil {
		return repository.RunRecord{}, err
	}
	defer release()

	rec := repository.RunRecord{
		ID:        uuid.New(),
		Kind:      repository.RunKindIngestion,
		Trigger:   trigger,
		StartedAt: s.now().UTC(),
	}

	report, err := s.ingestor.Run(ctx, limitPerSource)
	rec.FinishedAt = s.now().UTC()
	if report != nil {
		rec.Fetched = report.Fetched
		rec.Inserted = report.Inserted
		rec.Refreshed = report.Refreshed
		rec.Unchanged = report.Unchanged
		rec.Rejected = report.Rejected
		rec.Malformed = report.Malformed
		rec.FailedSources = report.FailedSources()
	}
	if err != nil {
		rec.Status = "failed"
		s.finish(ctx, rec)
		return rec, err
	}
	rec.Status = "finished"
	s.finish(ctx, rec)
	return rec, nil
}

func (s *Scheduler) runCleanup(ctx context.Context, trigger string) (repository.RunRecord, error) {
	if !s.cleanupBusy.CompareAndSwap(false, true) {
		return repository.RunRecord{}, ErrRunInProgress
	}
	defer s.cleanupBusy.Store(false)

	release, err := s.acquire(ctx, repository.RunKindCleanup)
	if err != nil {
		return repository.RunRecord{}, err
	}
	defer release()

	rec := repository.RunRecord{
		ID:        uuid.New(),
		Kind:      repository.RunKindCleanup,
		Trigger:   trigger,
		StartedAt: s.now().UTC(),
	}

	deleted, err := s.maint.Cleanup(ctx)
	rec.FinishedAt = s.now().UTC()
	rec.Affected = deleted
	if err != nil {
		rec.Status = "failed"
		s.finish(ctx, rec)
		return rec, err
	}
	rec.Status = "finished"
	s.finish(ctx, rec)
	return rec, nil
}

func (s *Scheduler) runSync(ctx context.Context, trigger string) (repository.RunRecord, error) {
	if !s.syncBusy.CompareAndSwap(false, true) {
		return repository.RunRecord{}, ErrRunInProgress
	}
	defer s.syncBusy.Store(false)

	release, err := s.acquire(ctx, repository.RunKindCountSync)
	if err != nil {
		return repository.RunRecord{}, err
	}
	defer release()

	rec := repository.RunRecord{
		ID:        uuid.New(),
		Kind:      repository.RunKindCountSync,
		Trigger:   trigger,
		StartedAt: s.now().UTC(),
	}

	corrected, err := s.maint.SyncCounts(ctx)
	rec.FinishedAt = s.now().UTC()
	rec.Affected = corrected
	if err != nil {
		rec.Status = "failed"
		s.finish(ctx, rec)
		return rec, err
	}
	rec.Status = "finished"
	s.finish(ctx, rec)
	return rec, nil
}

// acquire takes the cross-instance guard for the kind. A guard backend
// error degrades to local-only guarding rather than blocking the run.
func (s *Scheduler) acquire(ctx context.Context, kind string) (func(), error) {
	if s.guard == nil {
		return func() {}, nil
	}
	ok, err := s.guard.Acquire(ctx, kind, guardTTL)
	if err != nil {
		s.logf("[scheduler] guard %s unavailable, running unguarded: %v", kind, err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() { s.guard.Release(ctx, kind) }, nil
}

// finish persists the run record and fans it out. Neither step may fail the
// run itself; the work already happened.
func (s *Scheduler) finish(ctx context.Context, rec repository.RunRecord) {
	if s.runs != nil {
		if err := s.runs.InsertRun(ctx, rec); err != nil {
			s.logf("[scheduler] insert run record: %v", err)
		}
	}
	if s.sink != nil {
		s.sink.RunFinished(ctx, rec)
	}
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
