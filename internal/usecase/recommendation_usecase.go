package usecase

import (
	"context"
	"errors"
	"sort"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/domain/matching"
	"jobpulse/internal/repository"
)

var (
	ErrNoPostingsFound = errors.New("no postings found")
	ErrEmptyProfile    = errors.New("profile has no skills")
	ErrInternal        = errors.New("internal error")
)

// scanPageSize matches the posting store's per-query row cap.
const scanPageSize = 500

type RecommendationParams struct {
	Limit    int
	Offset   int
	MinScore int
	Category job.Category
}

type RecommendationItem struct {
	Posting       job.Posting
	Score         int
	MatchedSkills []string
	MissingSkills []string
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, profile job.UserProfile, params RecommendationParams) ([]RecommendationItem, error)
}

type Recommendation struct {
	postings repository.PostingStore
	engine   *matching.Engine
}

func NewRecommendationUsecase(postings repository.PostingStore, engine *matching.Engine) *Recommendation {
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	return &Recommendation{postings: postings, engine: engine}
}

// Recommend scores the stored corpus against the profile and returns the
// postings ranked by score, ties broken by most recent ingestion. Scoring
// reads nothing but the profile and the postings, so the same corpus and
// profile always rank identically.
func (u *Recommendation) Recommend(ctx context.Context, profile job.UserProfile, params RecommendationParams) ([]RecommendationItem, error) {
	if len(profile.Skills) == 0 {
		return nil, ErrEmptyProfile
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	minScore := params.MinScore
	if minScore < 0 {
		minScore = 0
	}

	// The store caps a single List at scanPageSize rows, so walk the corpus
	// page by page; ranking has to see every posting, not just the newest.
	var (
		out     []RecommendationItem
		scanned int
	)
	for pageOffset := 0; ; pageOffset += scanPageSize {
		page, err := u.postings.List(ctx, repository.PostingFilter{
			Category: params.Category,
			Limit:    scanPageSize,
			Offset:   pageOffset,
		})
		if err != nil {
			return nil, ErrInternal
		}
		scanned += len(page)
		for _, p := range page {
			res := u.engine.Score(p, profile)
			if res.Score < minScore {
				continue
			}
			out = append(out, RecommendationItem{
				Posting:       p,
				Score:         res.Score,
				MatchedSkills: res.MatchedSkills,
				MissingSkills: res.MissingSkills,
			})
		}
		if len(page) < scanPageSize {
			break
		}
	}
	if scanned == 0 {
		return nil, ErrNoPostingsFound
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Posting.CreatedAt.After(out[j].Posting.CreatedAt)
	})

	if offset >= len(out) {
		return nil, ErrNoPostingsFound
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
