package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrPostingNotFound = errors.New("posting not found")
	// ErrAlreadyRecorded reports a duplicate save or application by the same
	// user. The posting state is unchanged in that case.
	ErrAlreadyRecorded = errors.New("interaction already recorded")
	ErrNotRecorded     = errors.New("interaction not recorded")
)

// ReverseGrace is the expiry window granted to a posting that drops back to
// temporary after its last save is withdrawn. It matches the window a fresh
// ingest would get.
const ReverseGrace = job.TemporaryTTL

// Manager owns every tier transition. Transitions are delegated to atomic
// store operations, so two users acting on the same posting at once cannot
// produce a torn state.
type Manager struct {
	postings     repository.PostingStore
	interactions repository.InteractionStore
	logger       *log.Logger
	now          func() time.Time
}

func NewManager(postings repository.PostingStore, interactions repository.InteractionStore, logger *log.Logger) *Manager {
	return &Manager{
		postings:     postings,
		interactions: interactions,
		logger:       logger,
		now:          time.Now,
	}
}

// Save promotes the posting to the saved tier unless it already sits higher.
// The stored expiry is left as-is; the expiry sweep only considers temporary
// postings, so a saved posting never expires regardless of the stamp. Saving
// an applied posting records the interaction without demoting the tier.
func (m *Manager) Save(ctx context.Context, postingID, userID uuid.UUID) error {
	if _, err := m.mustFind(ctx, postingID); err != nil {
		return err
	}

	recorded, err := m.interactions.RecordSave(ctx, postingID, userID)
	if err != nil {
		return fmt.Errorf("record save: %w", err)
	}
	if !recorded {
		return ErrAlreadyRecorded
	}

	if err := m.postings.ApplySaveTransition(ctx, postingID); err != nil {
		return fmt.Errorf("save transition: %w", err)
	}
	m.appendEvent(ctx, postingID, job.TierSaved, &userID)
	return nil
}

// Unsave withdraws one user's save. When that was the last save on a
// still-saved posting, the posting reverts to temporary with a fresh grace
// expiry; an applied posting never reverts.
func (m *Manager) Unsave(ctx context.Context, postingID, userID uuid.UUID) error {
	if _, err := m.mustFind(ctx, postingID); err != nil {
		return err
	}

	removed, err := m.interactions.RemoveSave(ctx, postingID, userID)
	if err != nil {
		return fmt.Errorf("remove save: %w", err)
	}
	if !removed {
		return ErrNotRecorded
	}

	reverted, err := m.postings.ReverseSave(ctx, postingID, m.now().UTC().Add(ReverseGrace))
	if err != nil {
		return fmt.Errorf("reverse save: %w", err)
	}
	if reverted {
		m.appendEvent(ctx, postingID, job.TierTemporary, &userID)
	}
	return nil
}

// Apply moves the posting to the applied tier. Applied is terminal for
// expiry purposes: the record is retained indefinitely.
func (m *Manager) Apply(ctx context.Context, postingID, userID uuid.UUID) error {
	if _, err := m.mustFind(ctx, postingID); err != nil {
		return err
	}

	recorded, err := m.interactions.RecordApplication(ctx, postingID, userID)
	if err != nil {
		return fmt.Errorf("record application: %w", err)
	}
	if !recorded {
		return ErrAlreadyRecorded
	}

	if err := m.postings.ApplyApplication(ctx, postingID); err != nil {
		return fmt.Errorf("apply transition: %w", err)
	}
	m.appendEvent(ctx, postingID, job.TierApplied, &userID)
	return nil
}

// Withdraw removes one user's application record. The applied tier is kept
// even when the count reaches zero; an application happened and the posting
// stays part of the user-visible history.
func (m *Manager) Withdraw(ctx context.Context, postingID, userID uuid.UUID) error {
	if _, err := m.mustFind(ctx, postingID); err != nil {
		return err
	}

	removed, err := m.interactions.RemoveApplication(ctx, postingID, userID)
	if err != nil {
		return fmt.Errorf("remove application: %w", err)
	}
	if !removed {
		return ErrNotRecorded
	}

	if err := m.postings.ReverseApplication(ctx, postingID); err != nil {
		return fmt.Errorf("reverse application: %w", err)
	}
	return nil
}

// Cleanup deletes every temporary posting whose expiry has passed and that
// no user has touched. Saved and applied postings are never swept.
func (m *Manager) Cleanup(ctx context.Context) (int64, error) {
	now := m.now().UTC()
	deleted, err := m.postings.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	if m.logger != nil && deleted > 0 {
		m.logger.Printf("[lifecycle] cleanup removed %d expired postings", deleted)
	}
	return deleted, nil
}

// SyncCounts recomputes apply/save counters from the interaction tables and
// reports how many postings drifted.
func (m *Manager) SyncCounts(ctx context.Context) (int64, error) {
	corrected, err := m.postings.SyncInteractionCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync counts: %w", err)
	}
	if m.logger != nil && corrected > 0 {
		m.logger.Printf("[lifecycle] count sync corrected %d postings", corrected)
	}
	return corrected, nil
}

func (m *Manager) Stats(ctx context.Context) (repository.LifecycleStats, error) {
	stats, err := m.postings.LifecycleStats(ctx)
	if err != nil {
		return repository.LifecycleStats{}, fmt.Errorf("lifecycle stats: %w", err)
	}
	return stats, nil
}

func (m *Manager) mustFind(ctx context.Context, id uuid.UUID) (*job.Posting, error) {
	p, err := m.postings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostingNotFound) {
			return nil, ErrPostingNotFound
		}
		return nil, fmt.Errorf("find posting: %w", err)
	}
	return p, nil
}

// appendEvent records the transition in the lifecycle log. Log failures are
// reported, not propagated; the transition itself already committed.
func (m *Manager) appendEvent(ctx context.Context, id uuid.UUID, tier job.Tier, userID *uuid.UUID) {
	ev := job.LifecycleEvent{Tier: tier, UserID: userID, OccurredAt: m.now().UTC()}
	if err := m.postings.AppendLifecycleEvent(ctx, id, ev); err != nil && m.logger != nil {
		m.logger.Printf("[lifecycle] append event for %s failed: %v", id, err)
	}
}
