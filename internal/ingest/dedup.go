package ingest

import (
	"context"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"
)

// Deduplicator resolves identity-key collisions across sources and batches.
// The actual conflict resolution is a single conditional store upsert, so
// concurrent candidates for the same key cannot erase user-driven state.
type Deduplicator struct {
	store repository.PostingStore
	now   func() time.Time
}

func NewDeduplicator(store repository.PostingStore) *Deduplicator {
	return &Deduplicator{store: store, now: time.Now}
}

// UpsertCandidate inserts a new posting as temporary with a fresh 72h expiry,
// or refreshes the descriptive fields of the existing record under the same
// identity key. Tier, expiry of non-temporary records, counts and the
// lifecycle log are never modified by re-ingestion.
func (d *Deduplicator) UpsertCandidate(ctx context.Context, p job.Posting) (repository.UpsertOutcome, error) {
	now := d.now().UTC()
	p.Tier = job.TierTemporary
	p.CreatedAt = now
	expiry := now.Add(job.TemporaryTTL)
	p.ExpiresAt = &expiry
	return d.store.Upsert(ctx, p)
}
