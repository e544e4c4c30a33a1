package ingest

import (
	"context"
	"fmt"
	"time"

	"jobpulse/internal/domain/job"
)

// RawJob is one record as delivered by a source, before normalization.
// Fields other than Title and Company are best-effort.
type RawJob struct {
	ExternalID     string
	Title          string
	Company        string
	Location       string
	RemoteHint     string
	TypeHint       string
	ExperienceHint string
	SalaryText     string
	SalaryMin      int
	SalaryMax      int
	Currency       string
	SkillTags      []string
	Description    string
	URL            string
	PostedAt       *time.Time
}

// Batch is the settled result of one source fetch. Malformed counts items
// the source skipped because they could not be parsed; they never fail the
// fetch as a whole.
type Batch struct {
	Records   []RawJob
	Mode      job.SourceMode
	Malformed int
}

// Source is the single capability every collector implements. Variants
// differ only in transport and parsing; all of them honor ctx cancellation
// and return at most limit records.
type Source interface {
	Name() string
	Fetch(ctx context.Context, limit int) (Batch, error)
}

// SourceError scopes a failure to one source so the orchestrator can record
// it without aborting sibling collectors.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func newSourceError(source string, err error) *SourceError {
	return &SourceError{Source: source, Err: err}
}
