package ingest

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"jobpulse/internal/domain/job"
)

const wellfoundPlatform = "wellfound"

var wellfoundJobPathRe = regexp.MustCompile(`/jobs/(\d+)-([a-z0-9-]+)`)

// WellfoundSource renders the listing page headless since the markup is
// client-side only. When the browser is unavailable or yields nothing, the
// source degrades to its curated sample set rather than failing the run.
type WellfoundSource struct {
	siteBase string
	logger   *log.Logger
	headless bool
}

func NewWellfoundSource(logger *log.Logger, headless bool) *WellfoundSource {
	return &WellfoundSource{
		siteBase: "https://wellfound.com",
		logger:   logger,
		headless: headless,
	}
}

func (s *WellfoundSource) Name() string { return wellfoundPlatform }

func (s *WellfoundSource) Fetch(ctx context.Context, limit int) (Batch, error) {
	if s == nil {
		return Batch{}, fmt.Errorf("nil source")
	}
	if limit <= 0 {
		limit = 50
	}

	if s.headless {
		records, err := s.fetchHeadless(ctx, limit)
		if err == nil && len(records) > 0 {
			return Batch{Records: records, Mode: job.SourceModeLive}, nil
		}
		if ctx.Err() != nil {
			return Batch{}, ctx.Err()
		}
		if s.logger != nil {
			s.logger.Printf("[ingest] wellfound headless fetch failed, serving samples: %v", err)
		}
	}

	return sampleBatch(wellfoundSampleJobs(), limit), nil
}

func (s *WellfoundSource) fetchHeadless(ctx context.Context, limit int) ([]RawJob, error) {
	base := strings.TrimRight(s.siteBase, "/")
	listURL := base + "/role/r/software-engineer"

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	var hrefs []string
	var titles []string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(listURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.EvaluateAsDevTools(`Array.from(document.querySelectorAll('a[href]'))
			.map(a => a.getAttribute('href'))
			.filter(h => h && /\/jobs\/\d+-/.test(h))`, &hrefs),
		chromedp.EvaluateAsDevTools(`Array.from(document.querySelectorAll('a[href]'))
			.filter(a => /\/jobs\/\d+-/.test(a.getAttribute('href') || ''))
			.map(a => a.textContent.trim())`, &titles),
	)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]RawJob, 0, limit)
	for i, h := range hrefs {
		if len(out) >= limit {
			break
		}
		h = strings.TrimSpace(h)
		m := wellfoundJobPathRe.FindStringSubmatch(h)
		if len(m) < 3 {
			continue
		}
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		title := ""
		if i < len(titles) {
			title = strings.TrimSpace(titles[i])
		}
		if title == "" {
			title = titleFromSlug(m[2])
		}
		if strings.HasPrefix(h, "/") {
			h = base + h
		}

		out = append(out, RawJob{
			ExternalID: id,
			Title:      title,
			Company:    "Wellfound Startup",
			Location:   "Remote",
			RemoteHint: "remote",
			URL:        h,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no job urls found (headless)")
	}
	return out, nil
}

func titleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
