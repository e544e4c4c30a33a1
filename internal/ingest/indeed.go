package ingest

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"jobpulse/internal/domain/job"
)

const indeedPlatform = "indeed"

// IndeedSource parses the public search results markup with colly. Indeed
// blocks most unauthenticated crawlers and reshuffles its selectors often,
// so a fetch that fails or parses nothing falls back to the curated sample
// set instead of failing the cycle.
type IndeedSource struct {
	searchURL string
}

func NewIndeedSource() *IndeedSource {
	return &IndeedSource{
		searchURL: "https://www.indeed.com/jobs?q=software+developer&l=Remote",
	}
}

func (s *IndeedSource) Name() string { return indeedPlatform }

func (s *IndeedSource) Fetch(ctx context.Context, limit int) (Batch, error) {
	if limit <= 0 {
		limit = 50
	}
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	records, malformed, err := s.crawlSearch(ctx, limit)
	if err != nil || len(records) == 0 {
		if ctx.Err() != nil {
			return Batch{}, ctx.Err()
		}
		return sampleBatch(indeedSampleJobs(), limit), nil
	}
	return Batch{Records: records, Mode: job.SourceModeLive, Malformed: malformed}, nil
}

func (s *IndeedSource) crawlSearch(ctx context.Context, limit int) ([]RawJob, int, error) {
	allowed := hostOf(s.searchURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	// Indeed rate-limits hard; keep the crawl slow and single-threaded.
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 2 * time.Second, RandomDelay: time.Second})

	records := make([]RawJob, 0, limit)
	malformed := 0
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML("div.job_seen_beacon", func(e *colly.HTMLElement) {
		if len(records) >= limit {
			return
		}
		title := strings.TrimSpace(e.ChildText("h2.jobTitle"))
		if title == "" {
			title = strings.TrimSpace(e.ChildAttr("a.jcs-JobTitle span", "title"))
		}
		company := strings.TrimSpace(e.ChildText("span.companyName"))
		if title == "" || company == "" {
			malformed++
			return
		}

		href := strings.TrimSpace(e.ChildAttr("a", "href"))
		abs := e.Request.AbsoluteURL(href)
		location := strings.TrimSpace(e.ChildText("div.companyLocation"))

		records = append(records, RawJob{
			ExternalID: indeedExternalID(abs, title, company),
			Title:      title,
			Company:    company,
			Location:   pickNonEmpty(location, "Remote"),
			RemoteHint: location,
			TypeHint:   "full-time",
			SalaryText: strings.TrimSpace(e.ChildText("div.salary-snippet")),
			Currency:   "USD",
			URL:        abs,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, 0, ctx.Err()
	}
	if err := c.Visit(s.searchURL); err != nil {
		return nil, 0, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, 0, reqErr
	}
	return records, malformed, nil
}

// indeedExternalID prefers the jk query parameter carried by every result
// link; parsing failures fall back to the title and company pair.
func indeedExternalID(rawURL, title, company string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if jk := u.Query().Get("jk"); jk != "" {
			return jk
		}
	}
	return strings.ToLower(title + "@" + company)
}
