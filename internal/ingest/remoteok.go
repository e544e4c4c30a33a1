package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobpulse/internal/domain/job"
)

const remoteokPlatform = "remoteok"

// RemoteOKSource pulls the public RemoteOK JSON feed. The first element of
// the feed is a legal notice object, not a listing; it is skipped by the
// missing-ID check.
type RemoteOKSource struct {
	client  *http.Client
	apiBase string
}

func NewRemoteOKSource() *RemoteOKSource {
	return &RemoteOKSource{
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
		apiBase: "https://remoteok.com",
	}
}

type remoteokListing struct {
	ID        json.Number `json:"id"`
	Slug      string      `json:"slug"`
	Position  string      `json:"position"`
	Company   string      `json:"company"`
	Location  string      `json:"location"`
	Tags      []string    `json:"tags"`
	Desc      string      `json:"description"`
	URL       string      `json:"url"`
	ApplyURL  string      `json:"apply_url"`
	SalaryMin float64     `json:"salary_min"`
	SalaryMax float64     `json:"salary_max"`
	Date      string      `json:"date"`
}

func (s *RemoteOKSource) Name() string { return remoteokPlatform }

func (s *RemoteOKSource) Fetch(ctx context.Context, limit int) (Batch, error) {
	if s == nil || s.client == nil {
		return Batch{}, fmt.Errorf("nil source")
	}
	if limit <= 0 {
		limit = 50
	}

	url := strings.TrimRight(s.apiBase, "/") + "/api"
	body, err := httpGetWithRetry(ctx, s.client, url, 3)
	if err != nil {
		return Batch{}, err
	}

	var listings []remoteokListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return Batch{}, fmt.Errorf("decode feed: %w", err)
	}

	batch := Batch{Mode: job.SourceModeLive}
	for _, it := range listings {
		if len(batch.Records) >= limit {
			break
		}
		id := strings.TrimSpace(it.ID.String())
		if id == "" || id == "0" {
			batch.Malformed++
			continue
		}
		rec := RawJob{
			ExternalID:  id,
			Title:       it.Position,
			Company:     it.Company,
			Location:    it.Location,
			RemoteHint:  "remote",
			SkillTags:   it.Tags,
			Description: it.Desc,
			URL:         pickNonEmpty(it.URL, it.ApplyURL),
			PostedAt:    parseFeedTime(it.Date),
		}
		if it.SalaryMin > 0 {
			rec.SalaryMin = int(it.SalaryMin)
		}
		if it.SalaryMax > 0 {
			rec.SalaryMax = int(it.SalaryMax)
		}
		if rec.SalaryMin > 0 || rec.SalaryMax > 0 {
			rec.Currency = "USD"
		}
		batch.Records = append(batch.Records, rec)
	}

	return batch, nil
}

func httpGetWithRetry(ctx context.Context, client *http.Client, url string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var body []byte
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "JobPulseIngest/0.1")
		req.Header.Set("Accept", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			b, err := readAllLimit(resp.Body, 5<<20)
			if err != nil {
				lastErr = err
				return
			}
			lastErr = nil
			body = b
		}()
		if lastErr == nil {
			return body, nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return nil, lastErr
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, max))
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

// parseFeedTime accepts the handful of timestamp shapes the feeds emit.
func parseFeedTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if tm, err := time.Parse(layout, s); err == nil {
			tm = tm.UTC()
			return &tm
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		tm := time.Unix(n, 0).UTC()
		return &tm
	}
	return nil
}
