package ingest

import "context"

// StaticSource serves a curated record set for boards that cannot be fetched
// live: LinkedIn and Glassdoor sit behind authentication and aggressive bot
// blocking, and the Stack Overflow job board was shut down. The records still
// run through the full normalize and upsert path.
type StaticSource struct {
	platform string
	records  func() []RawJob
}

func NewLinkedInSource() *StaticSource {
	return &StaticSource{platform: "linkedin", records: linkedinSampleJobs}
}

func NewStackOverflowSource() *StaticSource {
	return &StaticSource{platform: "stackoverflow", records: stackoverflowSampleJobs}
}

func NewGlassdoorSource() *StaticSource {
	return &StaticSource{platform: "glassdoor", records: glassdoorSampleJobs}
}

func (s *StaticSource) Name() string { return s.platform }

func (s *StaticSource) Fetch(ctx context.Context, limit int) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	return sampleBatch(s.records(), limit), nil
}
