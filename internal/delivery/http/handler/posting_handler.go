package handler

import (
	"errors"
	"strconv"
	"strings"

	"jobpulse/internal/delivery/http/dto"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/domain/job"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PostingHandler struct {
	postings repository.PostingStore
}

func NewPostingHandler(postings repository.PostingStore) *PostingHandler {
	return &PostingHandler{postings: postings}
}

func (h *PostingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/postings")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
}

func (h *PostingHandler) List(c fiber.Ctx) error {
	f := repository.PostingFilter{
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	if tier := strings.TrimSpace(c.Query("tier")); tier != "" {
		t, err := job.ParseTier(tier)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid tier", nil, err)
		}
		f.Tier = t
	}
	f.Category = job.Category(strings.TrimSpace(c.Query("category")))
	f.RemoteMode = job.RemoteMode(strings.TrimSpace(c.Query("remote_mode")))

	postings, err := h.postings.List(c.Context(), f)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromPostings(postings))
}

func (h *PostingHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid posting id", nil, err)
	}

	p, err := h.postings.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPostingNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Posting not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromPosting(*p))
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
