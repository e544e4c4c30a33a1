package matching

import "strings"

// SkillMatcher decides whether a required skill is satisfied by a profile
// skill. Kept behind an interface so stricter matching can replace the
// default without touching the engine.
type SkillMatcher interface {
	Matches(required, candidate string) bool
}

// FuzzyMatcher matches via case-insensitive substring containment in either
// direction, so "postgres" satisfies "PostgreSQL" and vice versa.
type FuzzyMatcher struct{}

func (FuzzyMatcher) Matches(required, candidate string) bool {
	r := strings.ToLower(strings.TrimSpace(required))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if r == "" || c == "" {
		return false
	}
	return strings.Contains(r, c) || strings.Contains(c, r)
}

// SplitSkills partitions required skills into matched and missing against the
// profile skills using the given matcher. Every required skill lands in
// exactly one of the two slices, preserving input order.
func SplitSkills(m SkillMatcher, required, profile []string) (matched, missing []string) {
	matched = make([]string, 0, len(required))
	missing = make([]string, 0)
	for _, req := range required {
		found := false
		for _, have := range profile {
			if m.Matches(req, have) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}
