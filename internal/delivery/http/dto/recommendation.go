package dto

import (
	"strings"

	"jobpulse/internal/domain/job"
)

// ProfileRequest is the matching input posted by the caller. The resume and
// preference data lives outside this service, so the profile travels with
// the request.
type ProfileRequest struct {
	Skills              []string `json:"skills"`
	PreferredLocations  []string `json:"preferred_locations,omitempty"`
	RemotePreference    string   `json:"remote_preference,omitempty"`
	SalaryFloor         int      `json:"salary_floor,omitempty"`
	Experience          string   `json:"experience,omitempty"`
	PreferredTypes      []string `json:"preferred_types,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
}

func (r ProfileRequest) ToProfile() job.UserProfile {
	p := job.UserProfile{
		PreferredLocations: trimAll(r.PreferredLocations),
		RemotePreference:   job.RemoteMode(strings.TrimSpace(r.RemotePreference)),
		SalaryFloor:        r.SalaryFloor,
		Experience:         job.ExperienceLevel(strings.TrimSpace(r.Experience)),
		Skills:             trimAll(r.Skills),
	}
	for _, t := range r.PreferredTypes {
		t = strings.TrimSpace(t)
		if t != "" {
			p.PreferredTypes = append(p.PreferredTypes, job.Type(t))
		}
	}
	for _, c := range r.PreferredCategories {
		c = strings.TrimSpace(c)
		if c != "" {
			p.PreferredCategories = append(p.PreferredCategories, job.Category(c))
		}
	}
	return p
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

type RecommendationResponse struct {
	Posting       PostingResponse `json:"posting"`
	Score         int             `json:"score"`
	MatchedSkills []string        `json:"matched_skills,omitempty"`
	MissingSkills []string        `json:"missing_skills,omitempty"`
}
