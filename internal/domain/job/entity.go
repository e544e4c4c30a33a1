package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TemporaryTTL is how long an untouched temporary posting survives before
// the cleanup sweep may delete it.
const TemporaryTTL = 72 * time.Hour

// Tier is the lifecycle stage of a posting. Ordering: temporary < saved < applied.
type Tier string

const (
	TierTemporary Tier = "temporary"
	TierSaved     Tier = "saved"
	TierApplied   Tier = "applied"
)

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	switch t {
	case TierTemporary, TierSaved, TierApplied:
		return t, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Rank maps a tier onto its ordinal so transitions can be compared.
// Unknown tiers rank below temporary.
func (t Tier) Rank() int {
	switch t {
	case TierTemporary:
		return 1
	case TierSaved:
		return 2
	case TierApplied:
		return 3
	}
	return 0
}

// MaxTier returns the higher-ranked of two tiers.
func MaxTier(a, b Tier) Tier {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

type RemoteMode string

const (
	RemoteModeRemote RemoteMode = "remote"
	RemoteModeHybrid RemoteMode = "hybrid"
	RemoteModeOnsite RemoteMode = "onsite"
	// RemoteModeAny is only meaningful as a profile preference.
	RemoteModeAny RemoteMode = "any"
)

type Type string

const (
	TypeFullTime   Type = "full_time"
	TypePartTime   Type = "part_time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

// Ordinal returns the position of the level in entry<mid<senior<lead,
// or 0 when the level is unknown/unset.
func (e ExperienceLevel) Ordinal() int {
	switch e {
	case ExperienceEntry:
		return 1
	case ExperienceMid:
		return 2
	case ExperienceSenior:
		return 3
	case ExperienceLead:
		return 4
	}
	return 0
}

type Category string

const (
	CategoryMachineLearning Category = "machine_learning"
	CategoryDataScience     Category = "data_science"
	CategoryFrontend        Category = "frontend"
	CategoryBackend         Category = "backend"
	CategoryFullStack       Category = "full_stack"
	CategoryMobile          Category = "mobile"
	CategoryDevOps          Category = "devops"
	CategoryOther           Category = "other"
)

// SourceMode records whether a posting came from a live fetch or a static
// fallback set.
type SourceMode string

const (
	SourceModeLive     SourceMode = "live"
	SourceModeFallback SourceMode = "fallback"
)

// SalaryBand is the best-effort numeric band parsed out of free-text salary.
// Min and Max are annual amounts in whole currency units.
type SalaryBand struct {
	Min      int
	Max      int
	Currency string
}

// LifecycleEvent is one entry of a posting's ordered lifecycle log.
type LifecycleEvent struct {
	Tier       Tier
	UserID     *uuid.UUID
	OccurredAt time.Time
}

// Posting is a normalized external job opportunity. The ingestion pipeline
// exclusively creates and mutates postings; callers outside the pipeline may
// only request tier transitions.
type Posting struct {
	ID          uuid.UUID
	IdentityKey string

	Title       string
	Company     string
	Location    string
	RemoteMode  RemoteMode
	Type        Type
	Experience  ExperienceLevel
	SalaryText  string
	SalaryBand  *SalaryBand
	Description string
	Skills      []string
	Category    Category

	SourcePlatform string
	SourceMode     SourceMode
	URL            string

	Tier       Tier
	CreatedAt  time.Time
	ExpiresAt  *time.Time
	ApplyCount int
	SaveCount  int

	LifecycleLog []LifecycleEvent
}

// UserProfile is the read-only matching input supplied by the external
// resume/preferences component.
type UserProfile struct {
	Skills              []string
	PreferredLocations  []string
	RemotePreference    RemoteMode
	SalaryFloor         int
	Experience          ExperienceLevel
	PreferredTypes      []Type
	PreferredCategories []Category
}
