package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/repository"

	"github.com/google/uuid"
)

type stubPostingLister struct {
	postings []job.Posting
	err      error
	lastF    repository.PostingFilter
}

// List slices postings with the same limit clamps as the postgres store, so
// tests exercise the same window the real store would hand back.
func (s *stubPostingLister) List(ctx context.Context, f repository.PostingFilter) ([]job.Posting, error) {
	s.lastF = f
	if s.err != nil {
		return nil, s.err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if f.Offset >= len(s.postings) {
		return nil, nil
	}
	page := s.postings[f.Offset:]
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

func (s *stubPostingLister) Upsert(ctx context.Context, p job.Posting) (repository.UpsertOutcome, error) {
	return repository.OutcomeUnchanged, nil
}

func (s *stubPostingLister) FindByID(ctx context.Context, id uuid.UUID) (*job.Posting, error) {
	return nil, repository.ErrPostingNotFound
}

func (s *stubPostingLister) FindByIdentityKey(ctx context.Context, key string) (*job.Posting, error) {
	return nil, repository.ErrPostingNotFound
}

func (s *stubPostingLister) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *stubPostingLister) ApplySaveTransition(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubPostingLister) ApplyApplication(ctx context.Context, id uuid.UUID) error    { return nil }

func (s *stubPostingLister) ReverseSave(ctx context.Context, id uuid.UUID, graceExpiry time.Time) (bool, error) {
	return false, nil
}

func (s *stubPostingLister) ReverseApplication(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubPostingLister) AppendLifecycleEvent(ctx context.Context, id uuid.UUID, ev job.LifecycleEvent) error {
	return nil
}

func (s *stubPostingLister) SyncInteractionCounts(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubPostingLister) LifecycleStats(ctx context.Context) (repository.LifecycleStats, error) {
	return repository.LifecycleStats{}, nil
}

func posting(title string, skills []string, createdAt time.Time) job.Posting {
	return job.Posting{
		ID:        uuid.New(),
		Title:     title,
		Company:   "Acme",
		Skills:    skills,
		CreatedAt: createdAt,
	}
}

func profileWith(skills ...string) job.UserProfile {
	return job.UserProfile{Skills: skills}
}

func TestRecommendRanksByScore(t *testing.T) {
	now := time.Now()
	store := &stubPostingLister{postings: []job.Posting{
		posting("Partial", []string{"python", "rust", "haskell"}, now),
		posting("Exact", []string{"python", "sql"}, now),
	}}
	u := NewRecommendationUsecase(store, nil)

	items, err := u.Recommend(context.Background(), profileWith("python", "sql"), RecommendationParams{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Posting.Title != "Exact" {
		t.Fatalf("first item = %s, want Exact", items[0].Posting.Title)
	}
	if items[0].Score < items[1].Score {
		t.Fatalf("ranking not descending: %d < %d", items[0].Score, items[1].Score)
	}
}

func TestRecommendBreaksTiesByRecency(t *testing.T) {
	now := time.Now()
	store := &stubPostingLister{postings: []job.Posting{
		posting("Older", []string{"go"}, now.Add(-time.Hour)),
		posting("Newer", []string{"go"}, now),
	}}
	u := NewRecommendationUsecase(store, nil)

	items, err := u.Recommend(context.Background(), profileWith("go"), RecommendationParams{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if items[0].Posting.Title != "Newer" {
		t.Fatalf("tie should prefer newer posting, got %s", items[0].Posting.Title)
	}
}

func TestRecommendFiltersByMinScore(t *testing.T) {
	now := time.Now()
	store := &stubPostingLister{postings: []job.Posting{
		posting("Match", []string{"go"}, now),
		posting("NoMatch", []string{"cobol"}, now),
	}}
	u := NewRecommendationUsecase(store, nil)

	items, err := u.Recommend(context.Background(), profileWith("go"), RecommendationParams{MinScore: 80})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	for _, it := range items {
		if it.Score < 80 {
			t.Fatalf("item below min score: %d", it.Score)
		}
		if it.Posting.Title == "NoMatch" {
			t.Fatalf("NoMatch should have been filtered")
		}
	}
}

func TestRecommendEmptyProfile(t *testing.T) {
	u := NewRecommendationUsecase(&stubPostingLister{}, nil)
	if _, err := u.Recommend(context.Background(), job.UserProfile{}, RecommendationParams{}); !errors.Is(err, ErrEmptyProfile) {
		t.Fatalf("err = %v, want ErrEmptyProfile", err)
	}
}

func TestRecommendNoPostings(t *testing.T) {
	u := NewRecommendationUsecase(&stubPostingLister{}, nil)
	if _, err := u.Recommend(context.Background(), profileWith("go"), RecommendationParams{}); !errors.Is(err, ErrNoPostingsFound) {
		t.Fatalf("err = %v, want ErrNoPostingsFound", err)
	}
}

func TestRecommendPassesCategoryFilter(t *testing.T) {
	store := &stubPostingLister{postings: []job.Posting{posting("A", []string{"go"}, time.Now())}}
	u := NewRecommendationUsecase(store, nil)

	_, err := u.Recommend(context.Background(), profileWith("go"), RecommendationParams{Category: job.CategoryBackend})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if store.lastF.Category != job.CategoryBackend {
		t.Fatalf("filter category = %s", store.lastF.Category)
	}
}

func TestRecommendScansWholeCorpus(t *testing.T) {
	// The best match sits past the store's first page; ranking must still
	// surface it.
	now := time.Now()
	corpus := make([]job.Posting, 0, 501)
	for i := 0; i < 500; i++ {
		corpus = append(corpus, posting("Filler", []string{"cobol"}, now))
	}
	corpus = append(corpus, posting("DeepMatch", []string{"go", "sql"}, now.Add(-time.Hour)))
	store := &stubPostingLister{postings: corpus}
	u := NewRecommendationUsecase(store, nil)

	items, err := u.Recommend(context.Background(), profileWith("go", "sql"), RecommendationParams{Limit: 1})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Posting.Title != "DeepMatch" {
		t.Fatalf("top item = %s, want DeepMatch", items[0].Posting.Title)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	now := time.Now()
	store := &stubPostingLister{postings: []job.Posting{
		posting("A", []string{"go", "sql"}, now),
		posting("B", []string{"go"}, now.Add(-time.Minute)),
		posting("C", []string{"python"}, now.Add(-2 * time.Minute)),
	}}
	u := NewRecommendationUsecase(store, nil)
	profile := profileWith("go", "sql")

	first, err := u.Recommend(context.Background(), profile, RecommendationParams{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	second, err := u.Recommend(context.Background(), profile, RecommendationParams{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Posting.ID != second[i].Posting.ID || first[i].Score != second[i].Score {
			t.Fatalf("ordering not deterministic at %d", i)
		}
	}
}
