package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobpulse/internal/database"
	"jobpulse/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresPostingRepository struct {
	db database.DB
}

func NewPostgresPostingRepository(db database.DB) *PostgresPostingRepository {
	return &PostgresPostingRepository{db: db}
}

const postingColumns = `id, identity_key, title, company, location, remote_mode, job_type,
	experience, salary_text, salary_min, salary_max, salary_currency, description, skills,
	category, source_platform, source_mode, url, tier, created_at, expires_at, apply_count, save_count`

func (r *PostgresPostingRepository) Upsert(ctx context.Context, p job.Posting) (UpsertOutcome, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	var salaryMin, salaryMax *int
	var currency *string
	if p.SalaryBand != nil {
		salaryMin = &p.SalaryBand.Min
		salaryMax = &p.SalaryBand.Max
		if p.SalaryBand.Currency != "" {
			currency = &p.SalaryBand.Currency
		}
	}

	// The conditional DO UPDATE refreshes descriptive fields only: tier,
	// expiry, counts and created_at belong to the lifecycle side and are
	// deliberately absent from the SET list. The WHERE clause suppresses
	// no-op updates so re-ingesting identical input reports Unchanged.
	row := r.db.QueryRow(ctx, `
		INSERT INTO postings (
			id, identity_key, title, company, location, remote_mode, job_type,
			experience, salary_text, salary_min, salary_max, salary_currency,
			description, skills, category, source_platform, source_mode, url,
			tier, created_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (identity_key) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			remote_mode = EXCLUDED.remote_mode,
			job_type = EXCLUDED.job_type,
			experience = EXCLUDED.experience,
			salary_text = EXCLUDED.salary_text,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency,
			description = EXCLUDED.description,
			skills = EXCLUDED.skills,
			category = EXCLUDED.category,
			source_platform = EXCLUDED.source_platform,
			source_mode = EXCLUDED.source_mode,
			url = EXCLUDED.url
		WHERE (postings.title, postings.location, postings.salary_text, postings.salary_min,
		       postings.salary_max, postings.description, postings.skills)
		      IS DISTINCT FROM
		      (EXCLUDED.title, EXCLUDED.location, EXCLUDED.salary_text, EXCLUDED.salary_min,
		       EXCLUDED.salary_max, EXCLUDED.description, EXCLUDED.skills)
		RETURNING (xmax = 0)`,
		p.ID, p.IdentityKey, p.Title, p.Company, p.Location, string(p.RemoteMode), string(p.Type),
		string(p.Experience), p.SalaryText, salaryMin, salaryMax, currency,
		p.Description, p.Skills, string(p.Category), p.SourcePlatform, string(p.SourceMode), p.URL,
		string(p.Tier), p.CreatedAt, p.ExpiresAt,
	)

	var inserted bool
	if err := row.Scan(&inserted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OutcomeUnchanged, nil
		}
		return OutcomeUnchanged, fmt.Errorf("%w: upsert: %v", ErrStoreUnavailable, err)
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeRefreshed, nil
}

func (r *PostgresPostingRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Posting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postingColumns+` FROM postings WHERE id = $1`, id)
	p, err := scanPosting(row)
	if err != nil {
		return nil, err
	}
	p.LifecycleLog, err = r.lifecycleLog(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresPostingRepository) FindByIdentityKey(ctx context.Context, key string) (*job.Posting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postingColumns+` FROM postings WHERE identity_key = $1`, key)
	p, err := scanPosting(row)
	if err != nil {
		return nil, err
	}
	p.LifecycleLog, err = r.lifecycleLog(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresPostingRepository) List(ctx context.Context, f PostingFilter) ([]job.Posting, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + postingColumns + ` FROM postings WHERE 1=1`
	args := make([]any, 0, 5)
	if f.Tier != "" {
		args = append(args, string(f.Tier))
		query += fmt.Sprintf(" AND tier = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.RemoteMode != "" {
		args = append(args, string(f.RemoteMode))
		query += fmt.Sprintf(" AND remote_mode = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Posting, 0, limit)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresPostingRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Exec(ctx, `
		DELETE FROM postings
		WHERE tier = $1 AND expires_at IS NOT NULL AND expires_at < $2
		  AND apply_count = 0 AND save_count = 0`,
		string(job.TierTemporary), now.UTC(),
	)
}

func (r *PostgresPostingRepository) ApplySaveTransition(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `
		UPDATE postings SET
			save_count = save_count + 1,
			tier = CASE WHEN tier = $2 THEN tier ELSE $3 END
		WHERE id = $1`,
		id, string(job.TierApplied), string(job.TierSaved),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostingNotFound
	}
	return nil
}

func (r *PostgresPostingRepository) ApplyApplication(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `
		UPDATE postings SET apply_count = apply_count + 1, tier = $2 WHERE id = $1`,
		id, string(job.TierApplied),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostingNotFound
	}
	return nil
}

func (r *PostgresPostingRepository) ReverseSave(ctx context.Context, id uuid.UUID, graceExpiry time.Time) (bool, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE postings SET save_count = GREATEST(save_count - 1, 0) WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrPostingNotFound
	}

	// Grace period: a saved posting whose last save was withdrawn becomes
	// temporary again with a fresh expiry rather than being deleted outright.
	reverted, err := r.db.Exec(ctx, `
		UPDATE postings SET tier = $2, expires_at = $3
		WHERE id = $1 AND tier = $4 AND save_count = 0 AND apply_count = 0`,
		id, string(job.TierTemporary), graceExpiry.UTC(), string(job.TierSaved),
	)
	if err != nil {
		return false, err
	}
	return reverted > 0, nil
}

func (r *PostgresPostingRepository) ReverseApplication(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE postings SET apply_count = GREATEST(apply_count - 1, 0) WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostingNotFound
	}
	return nil
}

func (r *PostgresPostingRepository) AppendLifecycleEvent(ctx context.Context, id uuid.UUID, ev job.LifecycleEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO lifecycle_events (id, posting_id, tier, user_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), id, string(ev.Tier), ev.UserID, ev.OccurredAt.UTC(),
	)
	return err
}

func (r *PostgresPostingRepository) SyncInteractionCounts(ctx context.Context) (int64, error) {
	return r.db.Exec(ctx, `
		UPDATE postings p SET
			save_count = s.cnt,
			apply_count = a.cnt
		FROM (SELECT p2.id,
		             (SELECT COUNT(*) FROM posting_saves ps WHERE ps.posting_id = p2.id) AS cnt
		      FROM postings p2) s,
		     (SELECT p3.id,
		             (SELECT COUNT(*) FROM posting_applications pa WHERE pa.posting_id = p3.id) AS cnt
		      FROM postings p3) a
		WHERE s.id = p.id AND a.id = p.id
		  AND (p.save_count, p.apply_count) IS DISTINCT FROM (s.cnt, a.cnt)`)
}

func (r *PostgresPostingRepository) LifecycleStats(ctx context.Context) (LifecycleStats, error) {
	var st LifecycleStats
	row := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE tier = $1),
		       COUNT(*) FILTER (WHERE tier = $2),
		       COUNT(*) FILTER (WHERE tier = $3),
		       COUNT(*) FILTER (WHERE apply_count > 0),
		       COUNT(*) FILTER (WHERE save_count > 0),
		       COUNT(*) FILTER (WHERE tier = $1 AND expires_at IS NOT NULL)
		FROM postings`,
		string(job.TierTemporary), string(job.TierSaved), string(job.TierApplied),
	)
	err := row.Scan(&st.TotalPostings, &st.Temporary, &st.Saved, &st.Applied,
		&st.WithApplies, &st.WithSaves, &st.PendingExpiry)
	if err != nil {
		return LifecycleStats{}, err
	}
	return st, nil
}

func (r *PostgresPostingRepository) lifecycleLog(ctx context.Context, id uuid.UUID) ([]job.LifecycleEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT tier, user_id, occurred_at FROM lifecycle_events
		WHERE posting_id = $1 ORDER BY occurred_at ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.LifecycleEvent, 0)
	for rows.Next() {
		var ev job.LifecycleEvent
		var tier string
		if err := rows.Scan(&tier, &ev.UserID, &ev.OccurredAt); err != nil {
			return nil, err
		}
		ev.Tier = job.Tier(tier)
		out = append(out, ev)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPosting(row scannable) (*job.Posting, error) {
	var p job.Posting
	var remoteMode, jobType, experience, category, sourceMode, tier string
	var salaryMin, salaryMax *int
	var currency *string

	err := row.Scan(
		&p.ID, &p.IdentityKey, &p.Title, &p.Company, &p.Location, &remoteMode, &jobType,
		&experience, &p.SalaryText, &salaryMin, &salaryMax, &currency, &p.Description, &p.Skills,
		&category, &p.SourcePlatform, &sourceMode, &p.URL, &tier, &p.CreatedAt, &p.ExpiresAt,
		&p.ApplyCount, &p.SaveCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostingNotFound
		}
		return nil, err
	}

	p.RemoteMode = job.RemoteMode(remoteMode)
	p.Type = job.Type(jobType)
	p.Experience = job.ExperienceLevel(experience)
	p.Category = job.Category(category)
	p.SourceMode = job.SourceMode(sourceMode)
	p.Tier = job.Tier(tier)
	if salaryMin != nil || salaryMax != nil {
		band := job.SalaryBand{}
		if salaryMin != nil {
			band.Min = *salaryMin
		}
		if salaryMax != nil {
			band.Max = *salaryMax
		}
		if currency != nil {
			band.Currency = *currency
		}
		p.SalaryBand = &band
	}
	return &p, nil
}
