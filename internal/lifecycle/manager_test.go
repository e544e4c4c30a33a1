package lifecycle

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"

	"github.com/google/uuid"
)

type memPostingStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*job.Posting
	events map[uuid.UUID][]job.LifecycleEvent
}

func newMemPostingStore() *memPostingStore {
	return &memPostingStore{
		byID:   map[uuid.UUID]*job.Posting{},
		events: map[uuid.UUID][]job.LifecycleEvent{},
	}
}

func (s *memPostingStore) add(p job.Posting) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := p
	s.byID[p.ID] = &cp
	return p.ID
}

func (s *memPostingStore) Upsert(ctx context.Context, p job.Posting) (repository.UpsertOutcome, error) {
	s.add(p)
	return repository.OutcomeInserted, nil
}

func (s *memPostingStore) FindByID(ctx context.Context, id uuid.UUID) (*job.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrPostingNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memPostingStore) FindByIdentityKey(ctx context.Context, key string) (*job.Posting, error) {
	return nil, repository.ErrPostingNotFound
}

func (s *memPostingStore) List(ctx context.Context, f repository.PostingFilter) ([]job.Posting, error) {
	return nil, nil
}

func (s *memPostingStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.byID {
		if p.Tier != job.TierTemporary {
			continue
		}
		if p.ExpiresAt == nil || p.ExpiresAt.After(now) {
			continue
		}
		if p.SaveCount > 0 || p.ApplyCount > 0 {
			continue
		}
		delete(s.byID, id)
		n++
	}
	return n, nil
}

func (s *memPostingStore) ApplySaveTransition(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return repository.ErrPostingNotFound
	}
	p.SaveCount++
	if p.Tier.Rank() < job.TierSaved.Rank() {
		p.Tier = job.TierSaved
	}
	return nil
}

func (s *memPostingStore) ApplyApplication(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return repository.ErrPostingNotFound
	}
	p.ApplyCount++
	p.Tier = job.TierApplied
	return nil
}

func (s *memPostingStore) ReverseSave(ctx context.Context, id uuid.UUID, graceExpiry time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return false, repository.ErrPostingNotFound
	}
	if p.SaveCount > 0 {
		p.SaveCount--
	}
	if p.Tier == job.TierSaved && p.SaveCount == 0 && p.ApplyCount == 0 {
		p.Tier = job.TierTemporary
		g := graceExpiry
		p.ExpiresAt = &g
		return true, nil
	}
	return false, nil
}

func (s *memPostingStore) ReverseApplication(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return repository.ErrPostingNotFound
	}
	if p.ApplyCount > 0 {
		p.ApplyCount--
	}
	return nil
}

func (s *memPostingStore) AppendLifecycleEvent(ctx context.Context, id uuid.UUID, ev job.LifecycleEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[id] = append(s.events[id], ev)
	return nil
}

func (s *memPostingStore) SyncInteractionCounts(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *memPostingStore) LifecycleStats(ctx context.Context) (repository.LifecycleStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := repository.LifecycleStats{TotalPostings: int64(len(s.byID))}
	for _, p := range s.byID {
		switch p.Tier {
		case job.TierTemporary:
			stats.Temporary++
		case job.TierSaved:
			stats.Saved++
		case job.TierApplied:
			stats.Applied++
		}
	}
	return stats, nil
}

type memInteractionStore struct {
	mu      sync.Mutex
	saves   map[string]struct{}
	applies map[string]struct{}
}

func newMemInteractionStore() *memInteractionStore {
	return &memInteractionStore{saves: map[string]struct{}{}, applies: map[string]struct{}{}}
}

func key(jobID, userID uuid.UUID) string { return jobID.String() + "|" + userID.String() }

func (s *memInteractionStore) RecordSave(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(jobID, userID)
	if _, ok := s.saves[k]; ok {
		return false, nil
	}
	s.saves[k] = struct{}{}
	return true, nil
}

func (s *memInteractionStore) RemoveSave(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(jobID, userID)
	if _, ok := s.saves[k]; !ok {
		return false, nil
	}
	delete(s.saves, k)
	return true, nil
}

func (s *memInteractionStore) RecordApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(jobID, userID)
	if _, ok := s.applies[k]; ok {
		return false, nil
	}
	s.applies[k] = struct{}{}
	return true, nil
}

func (s *memInteractionStore) RemoveApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(jobID, userID)
	if _, ok := s.applies[k]; !ok {
		return false, nil
	}
	delete(s.applies, k)
	return true, nil
}

func temporaryPosting(expiresAt time.Time) job.Posting {
	e := expiresAt
	return job.Posting{
		IdentityKey: uuid.NewString(),
		Title:       "Engineer",
		Company:     "Acme",
		Tier:        job.TierTemporary,
		ExpiresAt:   &e,
	}
}

func newTestManager(store *memPostingStore) *Manager {
	return NewManager(store, newMemInteractionStore(), log.New(io.Discard, "", 0))
}

func TestSavePromotesTier(t *testing.T) {
	store := newMemPostingStore()
	expiry := time.Now().Add(time.Hour)
	id := store.add(temporaryPosting(expiry))
	m := newTestManager(store)
	userID := uuid.New()

	if err := m.Save(context.Background(), id, userID); err != nil {
		t.Fatalf("save: %v", err)
	}

	p, _ := store.FindByID(context.Background(), id)
	if p.Tier != job.TierSaved {
		t.Fatalf("tier = %s, want saved", p.Tier)
	}
	// The expiry stamp stays put; leaving the temporary tier is what shields
	// the posting from the sweep.
	if p.ExpiresAt == nil || !p.ExpiresAt.Equal(expiry) {
		t.Fatalf("expiry = %v, want untouched %v", p.ExpiresAt, expiry)
	}
	if p.SaveCount != 1 {
		t.Fatalf("save count = %d, want 1", p.SaveCount)
	}
	if len(store.events[id]) != 1 || store.events[id][0].Tier != job.TierSaved {
		t.Fatalf("lifecycle log = %+v", store.events[id])
	}
}

func TestSaveIsIdempotentPerUser(t *testing.T) {
	store := newMemPostingStore()
	id := store.add(temporaryPosting(time.Now().Add(time.Hour)))
	m := newTestManager(store)
	userID := uuid.New()

	if err := m.Save(context.Background(), id, userID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Save(context.Background(), id, userID); !errors.Is(err, ErrAlreadyRecorded) {
		t.Fatalf("second save err = %v, want ErrAlreadyRecorded", err)
	}
	p, _ := store.FindByID(context.Background(), id)
	if p.SaveCount != 1 {
		t.Fatalf("save count = %d, want 1", p.SaveCount)
	}
}

func TestSaveDoesNotDemoteApplied(t *testing.T) {
	store := newMemPostingStore()
	id := store.add(temporaryPosting(time.Now().Add(time.Hour)))
	m := newTestManager(store)

	if err := m.Apply(context.Background(), id, uuid.New()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := m.Save(context.Background(), id, uuid.New()); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, _ := store.FindByID(context.Background(), id)
	if p.Tier != job.TierApplied {
		t.Fatalf("tier = %s, want applied", p.Tier)
	}
	if p.SaveCount != 1 {
		t.Fatalf("save count = %d, want 1", p.SaveCount)
	}
}

func TestUnsaveLastSaveRevertsWithGrace(t *testing.T) {
	store := newMemPostingStore()
	id := store.add(temporaryPosting(time.Now().Add(time.Hour)))
	m := newTestManager(store)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	userID := uuid.New()

	if err := m.Save(context.Background(), id, userID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Unsave(context.Background(), id, userID); err != nil {
		t.Fatalf("unsave: %v", err)
	}

	p, _ := store.FindByID(context.Background(), id)
	if p.Tier != job.TierTemporary {
		t.Fatalf("tier = %s, want temporary", p.Tier)
	}
	if p.ExpiresAt == nil || !p.ExpiresAt.Equal(fixed.Add(ReverseGrace)) {
		t.Fatalf("grace expiry = %v, want %v", p.ExpiresAt, fixed.Add(ReverseGrace))
	}
}

func TestUnsaveWithRemainingSavesKeepsTier(t *testing.T) {
	store := newMemPostingStore()
	id := store.add(temporaryPosting(time.Now().Add(time.Hour)))
	m := newTestManager(store)
	alice, bob := uuid.New(), uuid.New()

	_ = m.Save(context.Background(), id, alice)
	_ = m.Save(context.Background(), id, bob)
	if err := m.Unsave(context.Background(), id, alice); err != nil {
		t.Fatalf("unsave: %v", err)
	}

	p, _ := store.FindByID(context.Background(), id)
	if p.Tier != job.TierSaved {
		t.Fatalf("tier = %s, want saved", p.Tier)
	}
	if p.SaveCount != 1 {
		t.Fatalf("save count = %d, want 1", p.SaveCount)
	}
}

func TestUnsaveWithoutSave(t *testing.T) {
	store := newMemPostingStore()
	id := store.add(temporaryPosting(time.Now().Add(time.Hour)))
	m := newTestManager(store)

	if err := m.Unsave(context.Background(), id, uuid.New()); !errors.Is(err, ErrNotRecorded) {
		t.Fatalf("err = %v, want ErrNotRecorded", err)
	}
}

func TestApplyIsTerminal(t *testing.T) {
	store := newMemPostingStore()
	id := store.add(temporaryPosting(time.Now().Add(time.Hour)))
	m := newTestManager(store)
	userID := uuid.New()

	if err := m.Apply(context.Background(), id, userID); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := m.Withdraw(context.Background(), id, userID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	p, _ := store.FindByID(context.Background(), id)
	if p.Tier != job.TierApplied {
		t.Fatalf("tier = %s, want applied even after withdrawal", p.Tier)
	}
	if p.ApplyCount != 0 {
		t.Fatalf("apply count = %d, want 0", p.ApplyCount)
	}
}

func TestOperationsOnMissingPosting(t *testing.T) {
	m := newTestManager(newMemPostingStore())
	id, userID := uuid.New(), uuid.New()
	ctx := context.Background()

	for name, err := range map[string]error{
		"save":     m.Save(ctx, id, userID),
		"unsave":   m.Unsave(ctx, id, userID),
		"apply":    m.Apply(ctx, id, userID),
		"withdraw": m.Withdraw(ctx, id, userID),
	} {
		if !errors.Is(err, ErrPostingNotFound) {
			t.Fatalf("%s err = %v, want ErrPostingNotFound", name, err)
		}
	}
}

func TestCleanupSweepsOnlyExpiredUntouched(t *testing.T) {
	store := newMemPostingStore()
	now := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)

	expired := store.add(temporaryPosting(now.Add(-time.Hour)))
	fresh := store.add(temporaryPosting(now.Add(time.Hour)))
	savedID := store.add(temporaryPosting(now.Add(-time.Hour)))

	m := newTestManager(store)
	m.now = func() time.Time { return now }

	// The expiry stamp stays in the past; the sweep must skip the posting on
	// tier alone.
	if err := m.Save(context.Background(), savedID, uuid.New()); err != nil {
		t.Fatalf("save: %v", err)
	}

	deleted, err := m.Cleanup(context.Background())
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := store.FindByID(context.Background(), expired); !errors.Is(err, repository.ErrPostingNotFound) {
		t.Fatalf("expired posting should be gone")
	}
	for _, id := range []uuid.UUID{fresh, savedID} {
		if _, err := store.FindByID(context.Background(), id); err != nil {
			t.Fatalf("posting %s should survive: %v", id, err)
		}
	}
}
