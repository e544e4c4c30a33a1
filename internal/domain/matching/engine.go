package matching

import (
	"math"
	"strings"

	"jobpulse/internal/domain/job"
)

// Criterion weights. They sum to 1.0.
const (
	weightSkills     = 0.40
	weightExperience = 0.25
	weightLocation   = 0.15
	weightSalary     = 0.10
	weightJobType    = 0.05
	weightCategory   = 0.05
)

// Subscores holds the per-criterion components of a match, each in [0,1].
type Subscores struct {
	Skills     float64
	Experience float64
	Location   float64
	Salary     float64
	JobType    float64
	Category   float64
}

// MatchScore is the transient result of scoring one (posting, profile) pair.
// It is computed on demand and never persisted.
type MatchScore struct {
	Score         int
	MatchedSkills []string
	MissingSkills []string
	Sub           Subscores
}

// Engine scores postings against a profile. It performs no I/O and holds no
// mutable state; identical inputs always produce identical results.
type Engine struct {
	skills SkillMatcher
}

func NewEngine(m SkillMatcher) *Engine {
	if m == nil {
		m = FuzzyMatcher{}
	}
	return &Engine{skills: m}
}

// Score returns the 0-100 weighted match for one posting/profile pair using
// the default fuzzy skill matcher.
func Score(p job.Posting, profile job.UserProfile) MatchScore {
	return NewEngine(nil).Score(p, profile)
}

func (e *Engine) Score(p job.Posting, profile job.UserProfile) MatchScore {
	matched, missing := SplitSkills(e.skills, p.Skills, profile.Skills)

	sub := Subscores{
		Skills:     float64(len(matched)) / math.Max(float64(len(p.Skills)), 1),
		Experience: experienceScore(p.Experience, profile.Experience),
		Location:   locationScore(p, profile),
		Salary:     salaryScore(p.SalaryBand, profile.SalaryFloor),
		JobType:    membershipScore(string(p.Type), typeStrings(profile.PreferredTypes)),
		Category:   membershipScore(string(p.Category), categoryStrings(profile.PreferredCategories)),
	}

	weighted := sub.Skills*weightSkills +
		sub.Experience*weightExperience +
		sub.Location*weightLocation +
		sub.Salary*weightSalary +
		sub.JobType*weightJobType +
		sub.Category*weightCategory

	score := int(math.Round(100 * weighted))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return MatchScore{
		Score:         score,
		MatchedSkills: matched,
		MissingSkills: missing,
		Sub:           sub,
	}
}

// experienceScore compares ordinal levels: exact match 1.0, one level off
// 0.5, otherwise 0. A posting without a level is not penalized; a profile
// without a level is treated as mid.
func experienceScore(jobLevel, profileLevel job.ExperienceLevel) float64 {
	jl := jobLevel.Ordinal()
	if jl == 0 {
		return 1
	}
	pl := profileLevel.Ordinal()
	if pl == 0 {
		pl = job.ExperienceMid.Ordinal()
	}
	switch diff := jl - pl; {
	case diff == 0:
		return 1
	case diff == 1 || diff == -1:
		return 0.5
	}
	return 0
}

func locationScore(p job.Posting, profile job.UserProfile) float64 {
	pref := profile.RemotePreference
	if pref == "" || pref == job.RemoteModeAny {
		return 1
	}
	if p.RemoteMode == pref {
		if p.RemoteMode == job.RemoteModeOnsite {
			return onsiteLocationScore(p.Location, profile.PreferredLocations)
		}
		return 1
	}
	if p.RemoteMode == job.RemoteModeHybrid || pref == job.RemoteModeHybrid {
		return 0.5
	}
	return 0
}

// onsiteLocationScore requires the posting location to appear in the
// preference list when one exists; an empty list accepts any location.
func onsiteLocationScore(location string, preferred []string) float64 {
	if len(preferred) == 0 {
		return 1
	}
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return 0
	}
	for _, want := range preferred {
		w := strings.ToLower(strings.TrimSpace(want))
		if w == "" {
			continue
		}
		if strings.Contains(loc, w) || strings.Contains(w, loc) {
			return 1
		}
	}
	return 0
}

// salaryScore is 1.0 when the band's lower bound meets the floor, decaying
// linearly to 0 at half the floor. Missing band or floor means no evidence
// of a mismatch and scores full.
func salaryScore(band *job.SalaryBand, floor int) float64 {
	if band == nil || floor <= 0 {
		return 1
	}
	lower := float64(band.Min)
	f := float64(floor)
	if lower >= f {
		return 1
	}
	half := f / 2
	if lower <= half {
		return 0
	}
	return (lower - half) / half
}

func membershipScore(value string, preferred []string) float64 {
	if len(preferred) == 0 {
		return 1
	}
	for _, p := range preferred {
		if p == value {
			return 1
		}
	}
	return 0
}

func typeStrings(in []job.Type) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}

func categoryStrings(in []job.Category) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		out = append(out, string(c))
	}
	return out
}
