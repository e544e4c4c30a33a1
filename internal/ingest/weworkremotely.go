package ingest

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"jobpulse/internal/domain/job"
)

const weworkremotelyPlatform = "weworkremotely"

// WeWorkRemotelySource crawls the public listing pages with colly. Every
// board job is remote, so the remote hint is fixed.
type WeWorkRemotelySource struct {
	siteBase   string
	categories []string
}

func NewWeWorkRemotelySource() *WeWorkRemotelySource {
	return &WeWorkRemotelySource{
		siteBase: "https://weworkremotely.com",
		categories: []string{
			"/categories/remote-programming-jobs",
			"/categories/remote-devops-sysadmin-jobs",
		},
	}
}

func (s *WeWorkRemotelySource) Name() string { return weworkremotelyPlatform }

func (s *WeWorkRemotelySource) Fetch(ctx context.Context, limit int) (Batch, error) {
	if s == nil {
		return Batch{}, fmt.Errorf("nil source")
	}
	if limit <= 0 {
		limit = 50
	}

	batch := Batch{Mode: job.SourceModeLive}
	seen := map[string]struct{}{}

	for _, category := range s.categories {
		if len(batch.Records) >= limit {
			break
		}
		if ctx.Err() != nil {
			return Batch{}, ctx.Err()
		}
		items, malformed, err := s.crawlCategory(ctx, s.siteBase+category, limit-len(batch.Records), seen)
		if err != nil {
			if len(batch.Records) > 0 {
				// Partial result; the remaining categories failed.
				batch.Malformed += malformed
				break
			}
			return Batch{}, err
		}
		batch.Records = append(batch.Records, items...)
		batch.Malformed += malformed
	}

	if len(batch.Records) == 0 {
		return Batch{}, fmt.Errorf("no listings parsed")
	}
	return batch, nil
}

func (s *WeWorkRemotelySource) crawlCategory(ctx context.Context, listURL string, limit int, seen map[string]struct{}) ([]RawJob, int, error) {
	allowed := hostOf(listURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 800 * time.Millisecond, Delay: 400 * time.Millisecond})

	records := make([]RawJob, 0, limit)
	malformed := 0
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "JobPulseIngest/0.1")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML("section.jobs li", func(e *colly.HTMLElement) {
		if len(records) >= limit {
			return
		}
		href := strings.TrimSpace(e.ChildAttr("a", "href"))
		if href == "" || !strings.Contains(href, "/remote-jobs/") {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}

		title := strings.TrimSpace(e.ChildText("span.title"))
		company := strings.TrimSpace(e.ChildText("span.company"))
		if title == "" || company == "" {
			malformed++
			return
		}
		region := strings.TrimSpace(e.ChildText("span.region"))

		records = append(records, RawJob{
			ExternalID: strings.Trim(href, "/"),
			Title:      title,
			Company:    company,
			Location:   pickNonEmpty(region, "Remote"),
			RemoteHint: "remote",
			TypeHint:   strings.TrimSpace(e.ChildText("span.company--contract")),
			URL:        abs,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, 0, ctx.Err()
	}
	if err := c.Visit(listURL); err != nil {
		return nil, 0, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, 0, reqErr
	}
	return records, malformed, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
