package ingest

import (
	"context"
	"testing"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"
)

func TestUpsertCandidateAssignsTemporaryExpiry(t *testing.T) {
	store := newFakePostingStore()
	d := NewDeduplicator(store)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	p, err := Normalize(rawRecord(1), "remoteok", job.SourceModeLive)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	outcome, err := d.UpsertCandidate(context.Background(), p)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if outcome != repository.OutcomeInserted {
		t.Fatalf("outcome = %s, want inserted", outcome)
	}

	stored := store.byKey[p.IdentityKey]
	if stored.Tier != job.TierTemporary {
		t.Fatalf("tier = %s, want temporary", stored.Tier)
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(fixed.Add(job.TemporaryTTL)) {
		t.Fatalf("expiry = %v, want now+%s", stored.ExpiresAt, job.TemporaryTTL)
	}
}

func TestUpsertCandidateOutcomes(t *testing.T) {
	store := newFakePostingStore()
	d := NewDeduplicator(store)
	ctx := context.Background()

	p, _ := Normalize(rawRecord(1), "remoteok", job.SourceModeLive)

	if outcome, _ := d.UpsertCandidate(ctx, p); outcome != repository.OutcomeInserted {
		t.Fatalf("first upsert = %s, want inserted", outcome)
	}
	if outcome, _ := d.UpsertCandidate(ctx, p); outcome != repository.OutcomeUnchanged {
		t.Fatalf("identical upsert = %s, want unchanged", outcome)
	}

	changed := p
	changed.Description = "updated description"
	if outcome, _ := d.UpsertCandidate(ctx, changed); outcome != repository.OutcomeRefreshed {
		t.Fatalf("changed upsert = %s, want refreshed", outcome)
	}
	if len(store.byKey) != 1 {
		t.Fatalf("store holds %d postings, want 1", len(store.byKey))
	}
}

func TestFallbackRecordsExpireLikeLiveOnes(t *testing.T) {
	store := newFakePostingStore()
	d := NewDeduplicator(store)

	p, err := Normalize(githubSampleJobs()[0], "github", job.SourceModeFallback)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, err := d.UpsertCandidate(context.Background(), p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stored := store.byKey[p.IdentityKey]
	if stored.SourceMode != job.SourceModeFallback {
		t.Fatalf("source mode = %s, want fallback", stored.SourceMode)
	}
	if stored.ExpiresAt == nil {
		t.Fatalf("fallback record must carry an expiry")
	}
}
