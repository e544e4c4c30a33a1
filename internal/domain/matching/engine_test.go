package matching

import (
	"testing"

	"jobpulse/internal/domain/job"
)

func band(min, max int) *job.SalaryBand {
	return &job.SalaryBand{Min: min, Max: max, Currency: "USD"}
}

func TestScore_SkillsSubScoreTwoOfThree(t *testing.T) {
	p := job.Posting{
		Skills:     []string{"python", "docker", "sql"},
		RemoteMode: job.RemoteModeRemote,
	}
	profile := job.UserProfile{
		Skills:           []string{"python", "sql"},
		RemotePreference: job.RemoteModeAny,
	}

	res := Score(p, profile)

	if got, want := res.Sub.Skills, 2.0/3.0; got != want {
		t.Fatalf("skills sub-score = %v, want %v", got, want)
	}
	if len(res.MatchedSkills) != 2 {
		t.Fatalf("matched = %v, want [python sql]", res.MatchedSkills)
	}
	if len(res.MissingSkills) != 1 || res.MissingSkills[0] != "docker" {
		t.Fatalf("missing = %v, want [docker]", res.MissingSkills)
	}
}

func TestScore_SkillPartitionCoversRequired(t *testing.T) {
	p := job.Posting{Skills: []string{"Go", "Kubernetes", "PostgreSQL", "Terraform"}}
	profile := job.UserProfile{Skills: []string{"golang", "postgres"}}

	res := Score(p, profile)

	if len(res.MatchedSkills)+len(res.MissingSkills) != len(p.Skills) {
		t.Fatalf("matched %v + missing %v do not cover required %v",
			res.MatchedSkills, res.MissingSkills, p.Skills)
	}
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, res.MatchedSkills...), res.MissingSkills...) {
		if seen[s] {
			t.Fatalf("skill %q appears in both matched and missing", s)
		}
		seen[s] = true
	}
}

func TestScore_FuzzySubstringBothDirections(t *testing.T) {
	m := FuzzyMatcher{}
	cases := []struct {
		required, candidate string
		want                bool
	}{
		{"PostgreSQL", "postgres", true},
		{"sql", "PostgreSQL", true},
		{"Go", "Django", true}, // substring matching is deliberately loose
		{"python", "java", false},
		{"", "python", false},
	}
	for _, c := range cases {
		if got := m.Matches(c.required, c.candidate); got != c.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", c.required, c.candidate, got, c.want)
		}
	}
}

func TestScore_BoundsAndDeterminism(t *testing.T) {
	postings := []job.Posting{
		{},
		{Skills: []string{"go"}, RemoteMode: job.RemoteModeOnsite, Experience: job.ExperienceLead},
		{Skills: []string{"go", "sql"}, RemoteMode: job.RemoteModeRemote, SalaryBand: band(10_000, 20_000)},
		{Skills: []string{"a", "b", "c", "d"}, RemoteMode: job.RemoteModeHybrid, Type: job.TypeContract},
	}
	profiles := []job.UserProfile{
		{},
		{Skills: []string{"go"}, RemotePreference: job.RemoteModeRemote, SalaryFloor: 150_000},
		{Skills: []string{"x"}, RemotePreference: job.RemoteModeOnsite, Experience: job.ExperienceEntry},
	}

	for _, p := range postings {
		for _, prof := range profiles {
			first := Score(p, prof)
			if first.Score < 0 || first.Score > 100 {
				t.Fatalf("score %d out of [0,100] for %+v / %+v", first.Score, p, prof)
			}
			second := Score(p, prof)
			if first.Score != second.Score {
				t.Fatalf("non-deterministic score: %d then %d", first.Score, second.Score)
			}
		}
	}
}

func TestScore_ExperienceOrdinal(t *testing.T) {
	cases := []struct {
		jobLevel, profLevel job.ExperienceLevel
		want                float64
	}{
		{job.ExperienceSenior, job.ExperienceSenior, 1},
		{job.ExperienceSenior, job.ExperienceMid, 0.5},
		{job.ExperienceLead, job.ExperienceEntry, 0},
		{job.ExperienceEntry, job.ExperienceLead, 0},
		{"", job.ExperienceEntry, 1},             // posting silent on level
		{job.ExperienceSenior, "", 0.5},          // profile defaults to mid
	}
	for _, c := range cases {
		got := experienceScore(c.jobLevel, c.profLevel)
		if got != c.want {
			t.Errorf("experienceScore(%q, %q) = %v, want %v", c.jobLevel, c.profLevel, got, c.want)
		}
	}
}

func TestScore_LocationRemoteModes(t *testing.T) {
	remoteJob := job.Posting{RemoteMode: job.RemoteModeRemote}
	hybridJob := job.Posting{RemoteMode: job.RemoteModeHybrid}
	onsiteJob := job.Posting{RemoteMode: job.RemoteModeOnsite, Location: "Berlin, Germany"}

	if got := locationScore(remoteJob, job.UserProfile{RemotePreference: job.RemoteModeAny}); got != 1 {
		t.Errorf("any preference = %v, want 1", got)
	}
	if got := locationScore(remoteJob, job.UserProfile{RemotePreference: job.RemoteModeRemote}); got != 1 {
		t.Errorf("exact remote match = %v, want 1", got)
	}
	if got := locationScore(hybridJob, job.UserProfile{RemotePreference: job.RemoteModeRemote}); got != 0.5 {
		t.Errorf("hybrid partial credit = %v, want 0.5", got)
	}
	if got := locationScore(onsiteJob, job.UserProfile{RemotePreference: job.RemoteModeRemote}); got != 0 {
		t.Errorf("onsite vs remote preference = %v, want 0", got)
	}
	if got := locationScore(onsiteJob, job.UserProfile{
		RemotePreference:   job.RemoteModeOnsite,
		PreferredLocations: []string{"berlin"},
	}); got != 1 {
		t.Errorf("onsite with matching location = %v, want 1", got)
	}
	if got := locationScore(onsiteJob, job.UserProfile{
		RemotePreference:   job.RemoteModeOnsite,
		PreferredLocations: []string{"Paris"},
	}); got != 0 {
		t.Errorf("onsite with non-matching location = %v, want 0", got)
	}
}

func TestScore_SalaryLinearDecay(t *testing.T) {
	cases := []struct {
		band  *job.SalaryBand
		floor int
		want  float64
	}{
		{band(120_000, 150_000), 100_000, 1},  // lower bound above floor
		{band(100_000, 120_000), 100_000, 1},  // exactly at floor
		{band(75_000, 90_000), 100_000, 0.5},  // midway between half and full floor
		{band(50_000, 60_000), 100_000, 0},    // at half the floor
		{band(30_000, 40_000), 100_000, 0},    // below half the floor
		{nil, 100_000, 1},                     // unparsed band
		{band(10_000, 20_000), 0, 1},          // no floor
	}
	for _, c := range cases {
		got := salaryScore(c.band, c.floor)
		if got != c.want {
			t.Errorf("salaryScore(%+v, %d) = %v, want %v", c.band, c.floor, got, c.want)
		}
	}
}

func TestScore_FullWeightedExample(t *testing.T) {
	p := job.Posting{
		Skills:     []string{"python", "docker", "sql"},
		RemoteMode: job.RemoteModeRemote,
		Experience: job.ExperienceMid,
		Type:       job.TypeFullTime,
		Category:   job.CategoryBackend,
		SalaryBand: band(120_000, 150_000),
	}
	profile := job.UserProfile{
		Skills:              []string{"python", "sql"},
		RemotePreference:    job.RemoteModeRemote,
		Experience:          job.ExperienceMid,
		SalaryFloor:         100_000,
		PreferredTypes:      []job.Type{job.TypeFullTime},
		PreferredCategories: []job.Category{job.CategoryBackend},
	}

	res := Score(p, profile)

	// 2/3*0.40 + 1*0.25 + 1*0.15 + 1*0.10 + 1*0.05 + 1*0.05 = 0.8667 -> 87
	if res.Score != 87 {
		t.Fatalf("score = %d, want 87 (sub %+v)", res.Score, res.Sub)
	}
}
