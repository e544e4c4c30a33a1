package handler

import (
	"errors"

	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/lifecycle"
	"jobpulse/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// InteractionHandler exposes the user-driven tier transitions. All routes
// require an authenticated user.
type InteractionHandler struct {
	lifecycle *lifecycle.Manager
}

func NewInteractionHandler(mgr *lifecycle.Manager) *InteractionHandler {
	return &InteractionHandler{lifecycle: mgr}
}

func (h *InteractionHandler) RegisterRoutes(r fiber.Router, auth *middleware.AuthMiddleware) {
	if r == nil || auth == nil {
		return
	}
	grp := r.Group("/postings/:id", auth.Middleware())
	grp.Post("/save", h.Save)
	grp.Delete("/save", h.Unsave)
	grp.Post("/apply", h.Apply)
	grp.Delete("/apply", h.Withdraw)
}

func (h *InteractionHandler) Save(c fiber.Ctx) error {
	postingID, userID, err := h.ids(c)
	if err != nil {
		return err
	}
	if err := h.lifecycle.Save(c.Context(), postingID, userID); err != nil {
		return mapLifecycleError(err)
	}
	return response.Success(c, fiber.StatusOK, "saved", nil)
}

func (h *InteractionHandler) Unsave(c fiber.Ctx) error {
	postingID, userID, err := h.ids(c)
	if err != nil {
		return err
	}
	if err := h.lifecycle.Unsave(c.Context(), postingID, userID); err != nil {
		return mapLifecycleError(err)
	}
	return response.Success(c, fiber.StatusOK, "save removed", nil)
}

func (h *InteractionHandler) Apply(c fiber.Ctx) error {
	postingID, userID, err := h.ids(c)
	if err != nil {
		return err
	}
	if err := h.lifecycle.Apply(c.Context(), postingID, userID); err != nil {
		return mapLifecycleError(err)
	}
	return response.Success(c, fiber.StatusOK, "application recorded", nil)
}

func (h *InteractionHandler) Withdraw(c fiber.Ctx) error {
	postingID, userID, err := h.ids(c)
	if err != nil {
		return err
	}
	if err := h.lifecycle.Withdraw(c.Context(), postingID, userID); err != nil {
		return mapLifecycleError(err)
	}
	return response.Success(c, fiber.StatusOK, "application withdrawn", nil)
}

func (h *InteractionHandler) ids(c fiber.Ctx) (postingID, userID uuid.UUID, err error) {
	postingID, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid posting id", nil, perr)
	}
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return postingID, userID, nil
}

func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrPostingNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Posting not found", nil, err)
	case errors.Is(err, lifecycle.ErrAlreadyRecorded):
		return middleware.NewAppError(fiber.StatusConflict, "Already recorded", nil, err)
	case errors.Is(err, lifecycle.ErrNotRecorded):
		return middleware.NewAppError(fiber.StatusConflict, "Not recorded", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
