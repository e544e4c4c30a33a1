package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"
)

const (
	defaultSourceTimeout = 45 * time.Second
	defaultMaxAttempts   = 3
	defaultBackoffBase   = 500 * time.Millisecond
	// Cap on concurrently fetching sources regardless of how many are
	// configured.
	maxConcurrentSources = 8
	defaultUpsertWorkers = 4
)

// SourceReport is the settled outcome of one collector within a run.
type SourceReport struct {
	Name      string
	Mode      job.SourceMode
	Fetched   int
	Malformed int
	Attempts  int
	Failed    bool
	Err       string
}

// Report aggregates one orchestrator run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Sources []SourceReport

	Fetched   int
	Inserted  int
	Refreshed int
	Unchanged int
	Rejected  int
	Malformed int
}

func (r *Report) FailedSources() []string {
	out := make([]string, 0)
	for _, s := range r.Sources {
		if s.Failed {
			out = append(out, s.Name)
		}
	}
	return out
}

func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Orchestrator runs every configured source concurrently, funnels the
// surviving raw records through normalize and the deduplicator, and reports
// per-source and aggregate counts. A failing source never aborts its
// siblings; a failing store aborts the whole run.
type Orchestrator struct {
	sources []Source
	dedup   *Deduplicator
	logger  *log.Logger

	sourceTimeout time.Duration
	maxAttempts   int
	backoffBase   time.Duration
	upsertWorkers int
	now           func() time.Time
}

type OrchestratorOption func(*Orchestrator)

func WithSourceTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.sourceTimeout = d
		}
	}
}

func WithMaxAttempts(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

func WithBackoffBase(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.backoffBase = d
		}
	}
}

func WithUpsertWorkers(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.upsertWorkers = n
		}
	}
}

func NewOrchestrator(sources []Source, dedup *Deduplicator, logger *log.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		sources:       sources,
		dedup:         dedup,
		logger:        logger,
		sourceTimeout: defaultSourceTimeout,
		maxAttempts:   defaultMaxAttempts,
		backoffBase:   defaultBackoffBase,
		upsertWorkers: defaultUpsertWorkers,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type sourceResult struct {
	report SourceReport
	batch  Batch
	source string
}

// Run executes one full ingestion cycle. The context has no overall
// deadline; the run is bounded by the slowest non-timed-out source.
func (o *Orchestrator) Run(ctx context.Context, limitPerSource int) (*Report, error) {
	if limitPerSource <= 0 {
		limitPerSource = 50
	}

	report := &Report{StartedAt: o.now().UTC()}

	results := o.collectAll(ctx, limitPerSource)

	raw := make([]struct {
		rec  RawJob
		name string
		mode job.SourceMode
	}, 0)
	for _, res := range results {
		report.Sources = append(report.Sources, res.report)
		report.Fetched += res.report.Fetched
		report.Malformed += res.report.Malformed
		for _, rec := range res.batch.Records {
			raw = append(raw, struct {
				rec  RawJob
				name string
				mode job.SourceMode
			}{rec, res.source, res.batch.Mode})
		}
	}

	if err := o.upsertAll(ctx, raw, report); err != nil {
		report.FinishedAt = o.now().UTC()
		return report, err
	}

	report.FinishedAt = o.now().UTC()
	if o.logger != nil {
		o.logger.Printf("[ingest] run complete fetched=%d inserted=%d refreshed=%d unchanged=%d rejected=%d malformed=%d failed_sources=%v duration=%s",
			report.Fetched, report.Inserted, report.Refreshed, report.Unchanged,
			report.Rejected, report.Malformed, report.FailedSources(), report.Duration().Round(time.Millisecond))
	}
	return report, nil
}

// collectAll fetches every source on the worker pool and waits for all of
// them to settle (success, failure, or timeout).
func (o *Orchestrator) collectAll(ctx context.Context, limit int) []sourceResult {
	workers := len(o.sources)
	if workers > maxConcurrentSources {
		workers = maxConcurrentSources
	}
	p := newPool(workers, len(o.sources))
	done := p.run(ctx)

	var mu sync.Mutex
	results := make([]sourceResult, 0, len(o.sources))

	for _, src := range o.sources {
		src := src
		p.submit(func(ctx context.Context) error {
			res := o.collectOne(ctx, src, limit)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	p.close()
	for range done {
	}

	return results
}

// collectOne retries a failing source with exponential backoff within the
// run. A source still failing after the final attempt is recorded and left
// for the next scheduled cycle; there is no cross-run backoff state.
func (o *Orchestrator) collectOne(ctx context.Context, src Source, limit int) sourceResult {
	name := src.Name()
	res := sourceResult{source: name, report: SourceReport{Name: name, Mode: job.SourceModeLive}}

	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		res.report.Attempts = attempt

		fetchCtx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
		batch, err := src.Fetch(fetchCtx, limit)
		cancel()

		if err == nil {
			res.batch = batch
			res.report.Mode = batch.Mode
			res.report.Fetched = len(batch.Records)
			res.report.Malformed = batch.Malformed
			return res
		}

		lastErr = newSourceError(name, err)
		if o.logger != nil {
			o.logger.Printf("[ingest] source %s attempt %d/%d failed: %v", name, attempt, o.maxAttempts, err)
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < o.maxAttempts {
			select {
			case <-ctx.Done():
			case <-time.After(o.backoffBase * (1 << (attempt - 1))):
			}
		}
	}

	res.report.Failed = true
	if lastErr != nil {
		res.report.Err = lastErr.Error()
	}
	return res
}

// upsertAll normalizes and deduplicates the fetched records on a bounded
// worker pool. Rejections are counted; any store error aborts the run.
func (o *Orchestrator) upsertAll(ctx context.Context, raw []struct {
	rec  RawJob
	name string
	mode job.SourceMode
}, report *Report) error {
	if len(raw) == 0 {
		return nil
	}

	upsertCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := newPool(o.upsertWorkers, o.upsertWorkers*2)
	done := p.run(upsertCtx)

	var mu sync.Mutex
	var storeErr error

	go func() {
		defer p.close()
		for _, item := range raw {
			item := item
			ok := p.submitCtx(upsertCtx, func(ctx context.Context) error {
				posting, err := Normalize(item.rec, item.name, item.mode)
				if err != nil {
					mu.Lock()
					report.Rejected++
					mu.Unlock()
					return nil
				}
				outcome, err := o.dedup.UpsertCandidate(ctx, posting)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if storeErr == nil {
						storeErr = err
					}
					cancel()
					return err
				}
				switch outcome {
				case repository.OutcomeInserted:
					report.Inserted++
				case repository.OutcomeRefreshed:
					report.Refreshed++
				default:
					report.Unchanged++
				}
				return nil
			})
			if !ok {
				return
			}
		}
	}()

	for range done {
	}

	mu.Lock()
	defer mu.Unlock()
	if storeErr != nil {
		if errors.Is(storeErr, repository.ErrStoreUnavailable) {
			return storeErr
		}
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, storeErr)
	}
	return ctx.Err()
}
