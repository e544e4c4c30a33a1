package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"jobpulse/internal/domain/job"
)

// ErrMissingRequiredFields rejects a raw record that has no usable title or
// company. Rejections are counted by the orchestrator, never fatal.
var ErrMissingRequiredFields = errors.New("missing required fields")

// Normalize maps a raw record into the canonical posting shape and computes
// its identity key. It is pure: identical input always yields an identical
// posting and key. ID, tier, timestamps and counts are assigned at upsert.
func Normalize(raw RawJob, platform string, mode job.SourceMode) (job.Posting, error) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.Company)
	if title == "" || company == "" {
		return job.Posting{}, ErrMissingRequiredFields
	}

	location := strings.TrimSpace(raw.Location)
	description := strings.TrimSpace(raw.Description)
	canonical := canonicalURL(raw.URL)

	p := job.Posting{
		IdentityKey:    identityKey(canonical, title, company, location),
		Title:          title,
		Company:        company,
		Location:       location,
		RemoteMode:     normalizeRemoteMode(raw.RemoteHint, location),
		Type:           normalizeType(raw.TypeHint),
		Experience:     normalizeExperience(raw.ExperienceHint, title),
		SalaryText:     strings.TrimSpace(raw.SalaryText),
		SalaryBand:     salaryBand(raw),
		Description:    description,
		Skills:         normalizeSkills(raw.SkillTags),
		Category:       categorize(title, description),
		SourcePlatform: platform,
		SourceMode:     mode,
		URL:            canonical,
	}
	return p, nil
}

// identityKey hashes the canonical URL, falling back to
// title+company+location when the record carries no URL. Stable across
// re-ingestion regardless of which source delivered the posting.
func identityKey(canonical, title, company, location string) string {
	if canonical != "" {
		return sha1Hex(canonical)
	}
	return sha1Hex(strings.ToLower(title) + "|" + strings.ToLower(company) + "|" + strings.ToLower(location))
}

func sha1Hex(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// canonicalURL strips the source-dependent parts of a posting URL: query,
// fragment, trailing slash, and a leading www. Host and scheme are
// lowercased. Unparsable input canonicalizes to "".
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimRight(u.Path, "/")
	return scheme + "://" + host + path
}

func normalizeSkills(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeRemoteMode(hint, location string) job.RemoteMode {
	s := strings.ToLower(hint + " " + location)
	switch {
	case containsAny(s, "hybrid", "flexible"):
		return job.RemoteModeHybrid
	case containsAny(s, "remote", "work from home", "wfh", "anywhere"):
		return job.RemoteModeRemote
	}
	return job.RemoteModeOnsite
}

func normalizeType(hint string) job.Type {
	s := strings.ToLower(hint)
	switch {
	case strings.Contains(s, "part"):
		return job.TypePartTime
	case strings.Contains(s, "contract"), strings.Contains(s, "freelance"):
		return job.TypeContract
	case strings.Contains(s, "intern"):
		return job.TypeInternship
	}
	return job.TypeFullTime
}

func normalizeExperience(hint, title string) job.ExperienceLevel {
	s := strings.ToLower(hint + " " + title)
	switch {
	case containsAny(s, "lead", "principal", "staff", "architect"):
		return job.ExperienceLead
	case containsAny(s, "senior", "sr.", "5+", "7+"):
		return job.ExperienceSenior
	case containsAny(s, "junior", "entry", "graduate", "intern"):
		return job.ExperienceEntry
	case containsAny(s, "mid", "intermediate"):
		return job.ExperienceMid
	}
	return ""
}

// categorize assigns one fixed category by keyword matching over
// title+description. First rule wins.
func categorize(title, description string) job.Category {
	s := strings.ToLower(title + " " + description)
	switch {
	case containsAny(s, "machine learning", "ml engineer", "ai engineer", "deep learning", "data scientist"):
		return job.CategoryMachineLearning
	case containsAny(s, "data analyst", "data engineer", "analytics"):
		return job.CategoryDataScience
	case containsAny(s, "full stack", "fullstack", "full-stack"):
		return job.CategoryFullStack
	case containsAny(s, "frontend", "front-end", "react", "vue", "angular"):
		return job.CategoryFrontend
	case containsAny(s, "mobile", "ios", "android", "react native", "flutter"):
		return job.CategoryMobile
	case containsAny(s, "devops", "sre", "site reliability", "infrastructure", "kubernetes"):
		return job.CategoryDevOps
	case containsAny(s, "backend", "back-end", "api", "server"):
		return job.CategoryBackend
	}
	return job.CategoryOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var salaryAmountRe = regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d{3})+|\d+(?:\.\d+)?)\s*(k)?`)

// salaryBand builds a numeric band from explicit source numbers when
// present, otherwise parses the free-text salary. Unparsable input leaves
// the band nil; it never fails.
func salaryBand(raw RawJob) *job.SalaryBand {
	currency := strings.TrimSpace(raw.Currency)
	if currency == "" {
		currency = detectCurrency(raw.SalaryText)
	}

	if raw.SalaryMin > 0 || raw.SalaryMax > 0 {
		min, max := raw.SalaryMin, raw.SalaryMax
		if min <= 0 {
			min = max
		}
		if max < min {
			max = min
		}
		return &job.SalaryBand{Min: min, Max: max, Currency: currency}
	}

	text := strings.TrimSpace(raw.SalaryText)
	if text == "" {
		return nil
	}

	amounts := make([]int, 0, 2)
	for _, m := range salaryAmountRe.FindAllStringSubmatch(text, 4) {
		n := parseAmount(m[1], m[2] != "")
		if n > 0 {
			amounts = append(amounts, n)
		}
		if len(amounts) == 2 {
			break
		}
	}

	// Amounts under 1000 with no k suffix are hourly/daily noise, not an
	// annual band.
	filtered := amounts[:0]
	for _, a := range amounts {
		if a >= 1000 {
			filtered = append(filtered, a)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return &job.SalaryBand{Min: filtered[0], Max: filtered[0], Currency: currency}
	}
	min, max := filtered[0], filtered[1]
	if max < min {
		min, max = max, min
	}
	return &job.SalaryBand{Min: min, Max: max, Currency: currency}
}

var dotGroupedRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)

func parseAmount(num string, kiloSuffix bool) int {
	clean := strings.ReplaceAll(num, ",", "")
	// a dot only separates thousands when it groups triples ("120.000");
	// otherwise it is a decimal point ("1.5k")
	if dotGroupedRe.MatchString(num) {
		clean = strings.ReplaceAll(clean, ".", "")
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || f <= 0 {
		return 0
	}
	if kiloSuffix {
		f *= 1000
	}
	return int(f)
}

func detectCurrency(text string) string {
	switch {
	case strings.Contains(text, "€"), strings.Contains(strings.ToUpper(text), "EUR"):
		return "EUR"
	case strings.Contains(text, "£"), strings.Contains(strings.ToUpper(text), "GBP"):
		return "GBP"
	case strings.Contains(text, "$"), strings.Contains(strings.ToUpper(text), "USD"):
		return "USD"
	}
	return ""
}
