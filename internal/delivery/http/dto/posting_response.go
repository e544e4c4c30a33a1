package dto

import (
	"time"

	"jobpulse/internal/domain/job"

	"github.com/google/uuid"
)

type SalaryBandResponse struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency,omitempty"`
}

type PostingResponse struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Company        string              `json:"company"`
	Location       string              `json:"location,omitempty"`
	RemoteMode     string              `json:"remote_mode"`
	Type           string              `json:"type"`
	Experience     string              `json:"experience,omitempty"`
	SalaryText     string              `json:"salary_text,omitempty"`
	Salary         *SalaryBandResponse `json:"salary,omitempty"`
	Skills         []string            `json:"skills,omitempty"`
	Category       string              `json:"category"`
	SourcePlatform string              `json:"source_platform"`
	SourceMode     string              `json:"source_mode"`
	URL            string              `json:"url,omitempty"`
	Tier           string              `json:"tier"`
	CreatedAt      time.Time           `json:"created_at"`
	ExpiresAt      *time.Time          `json:"expires_at,omitempty"`
	ApplyCount     int                 `json:"apply_count"`
	SaveCount      int                 `json:"save_count"`
}

func FromPosting(p job.Posting) PostingResponse {
	out := PostingResponse{
		ID:             p.ID,
		Title:          p.Title,
		Company:        p.Company,
		Location:       p.Location,
		RemoteMode:     string(p.RemoteMode),
		Type:           string(p.Type),
		Experience:     string(p.Experience),
		SalaryText:     p.SalaryText,
		Skills:         p.Skills,
		Category:       string(p.Category),
		SourcePlatform: p.SourcePlatform,
		SourceMode:     string(p.SourceMode),
		URL:            p.URL,
		Tier:           string(p.Tier),
		CreatedAt:      p.CreatedAt,
		ExpiresAt:      p.ExpiresAt,
		ApplyCount:     p.ApplyCount,
		SaveCount:      p.SaveCount,
	}
	if p.SalaryBand != nil {
		out.Salary = &SalaryBandResponse{
			Min:      p.SalaryBand.Min,
			Max:      p.SalaryBand.Max,
			Currency: p.SalaryBand.Currency,
		}
	}
	return out
}

func FromPostings(in []job.Posting) []PostingResponse {
	out := make([]PostingResponse, 0, len(in))
	for _, p := range in {
		out = append(out, FromPosting(p))
	}
	return out
}
