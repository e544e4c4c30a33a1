package dto

import (
	"time"

	"jobpulse/internal/repository"

	"github.com/google/uuid"
)

type RunResponse struct {
	ID            uuid.UUID `json:"id"`
	Kind          string    `json:"kind"`
	Trigger       string    `json:"trigger"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Fetched       int       `json:"fetched,omitempty"`
	Inserted      int       `json:"inserted,omitempty"`
	Refreshed     int       `json:"refreshed,omitempty"`
	Unchanged     int       `json:"unchanged,omitempty"`
	Rejected      int       `json:"rejected,omitempty"`
	Malformed     int       `json:"malformed,omitempty"`
	Affected      int64     `json:"affected,omitempty"`
	FailedSources []string  `json:"failed_sources,omitempty"`
	Status        string    `json:"status"`
}

func FromRun(rec repository.RunRecord) RunResponse {
	return RunResponse{
		ID:            rec.ID,
		Kind:          rec.Kind,
		Trigger:       rec.Trigger,
		StartedAt:     rec.StartedAt,
		FinishedAt:    rec.FinishedAt,
		Fetched:       rec.Fetched,
		Inserted:      rec.Inserted,
		Refreshed:     rec.Refreshed,
		Unchanged:     rec.Unchanged,
		Rejected:      rec.Rejected,
		Malformed:     rec.Malformed,
		Affected:      rec.Affected,
		FailedSources: rec.FailedSources,
		Status:        rec.Status,
	}
}

func FromRuns(in []repository.RunRecord) []RunResponse {
	out := make([]RunResponse, 0, len(in))
	for _, rec := range in {
		out = append(out, FromRun(rec))
	}
	return out
}

type StatsResponse struct {
	TotalPostings int64 `json:"total_postings"`
	Temporary     int64 `json:"temporary"`
	Saved         int64 `json:"saved"`
	Applied       int64 `json:"applied"`
	WithSaves     int64 `json:"with_saves"`
	WithApplies   int64 `json:"with_applies"`
	PendingExpiry int64 `json:"pending_expiry"`
}
