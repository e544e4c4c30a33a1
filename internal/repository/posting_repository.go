package repository

import (
	"context"
	"errors"
	"time"

	"jobpulse/internal/domain/job"

	"github.com/google/uuid"
)

var (
	ErrPostingNotFound = errors.New("posting not found")
	// ErrStoreUnavailable marks persistence-layer failures; an ingestion run
	// that hits one aborts instead of committing a partial batch.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// UpsertOutcome is the deduplication decision for one candidate posting.
type UpsertOutcome int

const (
	OutcomeUnchanged UpsertOutcome = iota
	OutcomeInserted
	OutcomeRefreshed
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeRefreshed:
		return "refreshed"
	}
	return "unchanged"
}

// PostingFilter narrows List queries.
type PostingFilter struct {
	Tier       job.Tier
	Category   job.Category
	RemoteMode job.RemoteMode
	Limit      int
	Offset     int
}

// LifecycleStats summarizes the stored corpus for operators.
type LifecycleStats struct {
	TotalPostings int64
	Temporary     int64
	Saved         int64
	Applied       int64
	WithApplies   int64
	WithSaves     int64
	PendingExpiry int64
}

// PostingStore is the record-store contract the pipeline writes against.
// Every mutating operation is atomic per record; callers never do
// read-modify-write around it.
type PostingStore interface {
	// Upsert inserts a new posting under its identity key (tier temporary,
	// expiry assigned by the caller) or refreshes the mutable descriptive
	// fields of an existing one. It never downgrades tier, never resets a
	// non-temporary expiry, and never touches counts or the lifecycle log.
	Upsert(ctx context.Context, p job.Posting) (UpsertOutcome, error)

	FindByID(ctx context.Context, id uuid.UUID) (*job.Posting, error)
	FindByIdentityKey(ctx context.Context, key string) (*job.Posting, error)
	List(ctx context.Context, f PostingFilter) ([]job.Posting, error)

	// DeleteExpired removes every posting that is still temporary, past its
	// expiry, and untouched (both counts zero). The predicate is evaluated
	// at execution time so the sweep can race transitions safely.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Transition operations invoked by the lifecycle manager.
	ApplySaveTransition(ctx context.Context, id uuid.UUID) error
	ApplyApplication(ctx context.Context, id uuid.UUID) error
	ReverseSave(ctx context.Context, id uuid.UUID, graceExpiry time.Time) (reverted bool, err error)
	ReverseApplication(ctx context.Context, id uuid.UUID) error
	AppendLifecycleEvent(ctx context.Context, id uuid.UUID, ev job.LifecycleEvent) error

	// SyncInteractionCounts recomputes apply/save counts from the
	// authoritative join tables, correcting drift.
	SyncInteractionCounts(ctx context.Context) (int64, error)

	LifecycleStats(ctx context.Context) (LifecycleStats, error)
}

// InteractionStore tracks which distinct users saved/applied to a posting.
type InteractionStore interface {
	// RecordSave returns false when the user had already saved the posting.
	RecordSave(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	RemoveSave(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	RecordApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	RemoveApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
}
