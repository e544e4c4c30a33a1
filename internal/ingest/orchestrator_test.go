package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"

	"github.com/google/uuid"
)

type fakePostingStore struct {
	mu       sync.Mutex
	byKey    map[string]job.Posting
	upserts  int
	failWith error
}

func newFakePostingStore() *fakePostingStore {
	return &fakePostingStore{byKey: map[string]job.Posting{}}
}

func (s *fakePostingStore) Upsert(ctx context.Context, p job.Posting) (repository.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.failWith != nil {
		return repository.OutcomeUnchanged, s.failWith
	}
	existing, ok := s.byKey[p.IdentityKey]
	if !ok {
		s.byKey[p.IdentityKey] = p
		return repository.OutcomeInserted, nil
	}
	if existing.Title == p.Title && existing.Description == p.Description && existing.Location == p.Location {
		return repository.OutcomeUnchanged, nil
	}
	// Refresh descriptive fields only; tier, expiry and counts survive.
	existing.Title = p.Title
	existing.Description = p.Description
	existing.Location = p.Location
	existing.Skills = p.Skills
	s.byKey[p.IdentityKey] = existing
	return repository.OutcomeRefreshed, nil
}

func (s *fakePostingStore) FindByID(ctx context.Context, id uuid.UUID) (*job.Posting, error) {
	return nil, repository.ErrPostingNotFound
}

func (s *fakePostingStore) FindByIdentityKey(ctx context.Context, key string) (*job.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byKey[key]
	if !ok {
		return nil, repository.ErrPostingNotFound
	}
	out := p
	return &out, nil
}

func (s *fakePostingStore) List(ctx context.Context, f repository.PostingFilter) ([]job.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]job.Posting, 0, len(s.byKey))
	for _, p := range s.byKey {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePostingStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *fakePostingStore) ApplySaveTransition(ctx context.Context, id uuid.UUID) error { return nil }
func (s *fakePostingStore) ApplyApplication(ctx context.Context, id uuid.UUID) error    { return nil }

func (s *fakePostingStore) ReverseSave(ctx context.Context, id uuid.UUID, graceExpiry time.Time) (bool, error) {
	return false, nil
}

func (s *fakePostingStore) ReverseApplication(ctx context.Context, id uuid.UUID) error { return nil }

func (s *fakePostingStore) AppendLifecycleEvent(ctx context.Context, id uuid.UUID, ev job.LifecycleEvent) error {
	return nil
}

func (s *fakePostingStore) SyncInteractionCounts(ctx context.Context) (int64, error) { return 0, nil }

func (s *fakePostingStore) LifecycleStats(ctx context.Context) (repository.LifecycleStats, error) {
	return repository.LifecycleStats{}, nil
}

type fakeSource struct {
	name      string
	batch     Batch
	err       error
	failTimes int
	delay     time.Duration

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, limit int) (Batch, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return Batch{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil && (f.failTimes == 0 || call <= f.failTimes) {
		return Batch{}, f.err
	}
	return f.batch, nil
}

func rawRecord(i int) RawJob {
	return RawJob{
		Title:   fmt.Sprintf("Engineer %d", i),
		Company: "Acme",
		URL:     fmt.Sprintf("https://example.com/jobs/%d", i),
	}
}

func liveBatch(n int) Batch {
	b := Batch{Mode: job.SourceModeLive}
	for i := 0; i < n; i++ {
		b.Records = append(b.Records, rawRecord(i))
	}
	return b
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRunAggregatesAllSources(t *testing.T) {
	store := newFakePostingStore()
	o := NewOrchestrator(
		[]Source{
			&fakeSource{name: "a", batch: liveBatch(3)},
			&fakeSource{name: "b", batch: Batch{Mode: job.SourceModeLive, Records: []RawJob{rawRecord(10), rawRecord(11)}, Malformed: 1}},
		},
		NewDeduplicator(store),
		testLogger(),
	)

	report, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Fetched != 5 {
		t.Fatalf("fetched = %d, want 5", report.Fetched)
	}
	if report.Inserted != 5 {
		t.Fatalf("inserted = %d, want 5", report.Inserted)
	}
	if report.Malformed != 1 {
		t.Fatalf("malformed = %d, want 1", report.Malformed)
	}
	if len(report.FailedSources()) != 0 {
		t.Fatalf("failed sources = %v", report.FailedSources())
	}
	if len(report.Sources) != 2 {
		t.Fatalf("source reports = %d, want 2", len(report.Sources))
	}
}

func TestRunIsolatesSourceFailure(t *testing.T) {
	store := newFakePostingStore()
	o := NewOrchestrator(
		[]Source{
			&fakeSource{name: "good", batch: liveBatch(2)},
			&fakeSource{name: "bad", err: errors.New("boom")},
		},
		NewDeduplicator(store),
		testLogger(),
		WithMaxAttempts(2),
		WithBackoffBase(time.Millisecond),
	)

	report, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("run should not fail on a broken source: %v", err)
	}
	failed := report.FailedSources()
	if len(failed) != 1 || failed[0] != "bad" {
		t.Fatalf("failed sources = %v, want [bad]", failed)
	}
	if report.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", report.Inserted)
	}
}

func TestRunRetriesTransientFailure(t *testing.T) {
	src := &fakeSource{name: "flaky", batch: liveBatch(1), err: errors.New("boom"), failTimes: 2}
	o := NewOrchestrator(
		[]Source{src},
		NewDeduplicator(newFakePostingStore()),
		testLogger(),
		WithMaxAttempts(3),
		WithBackoffBase(time.Millisecond),
	)

	report, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.FailedSources()) != 0 {
		t.Fatalf("source should have recovered, got %v", report.FailedSources())
	}
	if report.Sources[0].Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", report.Sources[0].Attempts)
	}
	if report.Inserted != 1 {
		t.Fatalf("inserted = %d, want 1", report.Inserted)
	}
}

func TestRunTimesOutSlowSource(t *testing.T) {
	o := NewOrchestrator(
		[]Source{
			&fakeSource{name: "slow", batch: liveBatch(1), delay: 200 * time.Millisecond},
			&fakeSource{name: "fast", batch: liveBatch(1)},
		},
		NewDeduplicator(newFakePostingStore()),
		testLogger(),
		WithSourceTimeout(20*time.Millisecond),
		WithMaxAttempts(1),
	)

	report, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	failed := report.FailedSources()
	if len(failed) != 1 || failed[0] != "slow" {
		t.Fatalf("failed sources = %v, want [slow]", failed)
	}
	if report.Inserted != 1 {
		t.Fatalf("inserted = %d, want 1", report.Inserted)
	}
}

func TestRunIsIdempotentAcrossCycles(t *testing.T) {
	store := newFakePostingStore()
	o := NewOrchestrator(
		[]Source{&fakeSource{name: "a", batch: liveBatch(4)}},
		NewDeduplicator(store),
		testLogger(),
	)

	first, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Inserted != 4 {
		t.Fatalf("first inserted = %d, want 4", first.Inserted)
	}
	if second.Inserted != 0 || second.Unchanged != 4 {
		t.Fatalf("second run inserted=%d unchanged=%d, want 0/4", second.Inserted, second.Unchanged)
	}
	if len(store.byKey) != 4 {
		t.Fatalf("store holds %d postings, want 4", len(store.byKey))
	}
}

func TestRunCountsRejectedRecords(t *testing.T) {
	batch := liveBatch(2)
	batch.Records = append(batch.Records, RawJob{Title: "", Company: "Acme"})
	o := NewOrchestrator(
		[]Source{&fakeSource{name: "a", batch: batch}},
		NewDeduplicator(newFakePostingStore()),
		testLogger(),
	)

	report, err := o.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Rejected != 1 {
		t.Fatalf("rejected = %d, want 1", report.Rejected)
	}
	if report.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", report.Inserted)
	}
}

func TestRunAbortsWhenStoreUnavailable(t *testing.T) {
	store := newFakePostingStore()
	store.failWith = repository.ErrStoreUnavailable
	o := NewOrchestrator(
		[]Source{&fakeSource{name: "a", batch: liveBatch(3)}},
		NewDeduplicator(store),
		testLogger(),
	)

	_, err := o.Run(context.Background(), 50)
	if !errors.Is(err, repository.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(
		[]Source{&fakeSource{name: "a", batch: liveBatch(2), delay: 50 * time.Millisecond}},
		NewDeduplicator(newFakePostingStore()),
		testLogger(),
		WithMaxAttempts(1),
	)

	report, err := o.Run(ctx, 50)
	if err == nil && report.Inserted > 0 {
		t.Fatalf("cancelled run should not insert, got %d", report.Inserted)
	}
}
