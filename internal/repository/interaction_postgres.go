package repository

import (
	"context"

	"jobpulse/internal/database"

	"github.com/google/uuid"
)

type PostgresInteractionRepository struct {
	db database.DB
}

func NewPostgresInteractionRepository(db database.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

func (r *PostgresInteractionRepository) RecordSave(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx, `
		INSERT INTO posting_saves (posting_id, user_id) VALUES ($1, $2)
		ON CONFLICT (posting_id, user_id) DO NOTHING`,
		jobID, userID,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresInteractionRepository) RemoveSave(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx,
		`DELETE FROM posting_saves WHERE posting_id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresInteractionRepository) RecordApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx, `
		INSERT INTO posting_applications (posting_id, user_id) VALUES ($1, $2)
		ON CONFLICT (posting_id, user_id) DO NOTHING`,
		jobID, userID,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresInteractionRepository) RemoveApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx,
		`DELETE FROM posting_applications WHERE posting_id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
