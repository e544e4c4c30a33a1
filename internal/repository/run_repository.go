package repository

import (
	"context"
	"time"

	"jobpulse/internal/database"

	"github.com/google/uuid"
)

// Run kinds and triggers recorded for operator visibility. A source that
// keeps failing shows up as repeated failed_sources entries across runs.
const (
	RunKindIngestion = "ingestion"
	RunKindCleanup   = "cleanup"
	RunKindCountSync = "count_sync"

	RunTriggerScheduled = "scheduled"
	RunTriggerManual    = "manual"
)

type RunRecord struct {
	ID         uuid.UUID
	Kind       string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time

	// Ingestion counters; zero for other kinds.
	Fetched   int
	Inserted  int
	Refreshed int
	Unchanged int
	Rejected  int
	Malformed int

	// Affected is deleted postings for cleanup, corrected rows for count sync.
	Affected      int64
	FailedSources []string
	Status        string
}

type RunStore interface {
	InsertRun(ctx context.Context, rec RunRecord) error
	RecentRuns(ctx context.Context, kind string, limit int) ([]RunRecord, error)
}

type PostgresRunRepository struct {
	db database.DB
}

func NewPostgresRunRepository(db database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) InsertRun(ctx context.Context, rec RunRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO ingestion_runs (
			id, kind, trigger_mode, started_at, finished_at,
			fetched, inserted, refreshed, unchanged, rejected, malformed,
			affected, failed_sources, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rec.ID, rec.Kind, rec.Trigger, rec.StartedAt.UTC(), rec.FinishedAt.UTC(),
		rec.Fetched, rec.Inserted, rec.Refreshed, rec.Unchanged, rec.Rejected, rec.Malformed,
		rec.Affected, rec.FailedSources, rec.Status,
	)
	return err
}

func (r *PostgresRunRepository) RecentRuns(ctx context.Context, kind string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, kind, trigger_mode, started_at, finished_at,
		       fetched, inserted, refreshed, unchanged, rejected, malformed,
		       affected, failed_sources, status
		FROM ingestion_runs
		WHERE kind = $1
		ORDER BY started_at DESC
		LIMIT $2`,
		kind, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunRecord, 0, limit)
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.Trigger, &rec.StartedAt, &rec.FinishedAt,
			&rec.Fetched, &rec.Inserted, &rec.Refreshed, &rec.Unchanged, &rec.Rejected, &rec.Malformed,
			&rec.Affected, &rec.FailedSources, &rec.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
