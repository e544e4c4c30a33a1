package handler

import (
	"errors"
	"strings"

	"jobpulse/internal/delivery/http/dto"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/domain/job"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/recommendations", h.Recommend)
}

// Recommend scores the corpus against the posted profile. POST rather than
// GET because the profile payload travels in the body.
func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	params := usecase.RecommendationParams{
		Limit:    parseQueryInt(c, "limit", 20),
		Offset:   parseQueryInt(c, "offset", 0),
		MinScore: parseQueryInt(c, "min_score", 0),
		Category: job.Category(strings.TrimSpace(c.Query("category"))),
	}

	items, err := h.uc.Recommend(c.Context(), req.ToProfile(), params)
	if err != nil {
		return mapRecommendationError(err)
	}

	out := make([]dto.RecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RecommendationResponse{
			Posting:       dto.FromPosting(it.Posting),
			Score:         it.Score,
			MatchedSkills: it.MatchedSkills,
			MissingSkills: it.MissingSkills,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapRecommendationError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrEmptyProfile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Profile has no skills", nil, err)
	case errors.Is(err, usecase.ErrNoPostingsFound):
		return middleware.NewAppError(fiber.StatusNotFound, "No postings found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
