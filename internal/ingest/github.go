package ingest

import (
	"context"
)

const githubPlatform = "github"

// GitHubSource has no live endpoint (the job board was retired) and always
// serves the curated sample set in fallback mode.
type GitHubSource struct{}

func NewGitHubSource() *GitHubSource { return &GitHubSource{} }

func (s *GitHubSource) Name() string { return githubPlatform }

func (s *GitHubSource) Fetch(ctx context.Context, limit int) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	return sampleBatch(githubSampleJobs(), limit), nil
}
