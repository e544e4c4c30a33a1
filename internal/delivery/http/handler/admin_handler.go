package handler

import (
	"errors"
	"strings"

	"jobpulse/internal/delivery/http/dto"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/lifecycle"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/repository"
	"jobpulse/internal/scheduler"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler exposes the on-demand triggers and operator reports.
type AdminHandler struct {
	sched *scheduler.Scheduler
	mgr   *lifecycle.Manager
	runs  repository.RunStore
}

func NewAdminHandler(sched *scheduler.Scheduler, mgr *lifecycle.Manager, runs repository.RunStore) *AdminHandler {
	return &AdminHandler{sched: sched, mgr: mgr, runs: runs}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/admin")
	grp.Post("/ingest", h.TriggerIngestion)
	grp.Post("/cleanup", h.TriggerCleanup)
	grp.Post("/sync-counts", h.TriggerCountSync)
	grp.Get("/runs", h.RecentRuns)
	grp.Get("/stats", h.Stats)
}

// TriggerIngestion starts one cycle immediately. limit_per_source caps each
// collector for this run only; omitted or non-positive uses the configured
// default.
func (h *AdminHandler) TriggerIngestion(c fiber.Ctx) error {
	limit := parseQueryInt(c, "limit_per_source", 0)
	rec, err := h.sched.RunIngestionNow(c.Context(), limit)
	return h.triggerResult(c, rec, err)
}

func (h *AdminHandler) TriggerCleanup(c fiber.Ctx) error {
	rec, err := h.sched.RunCleanupNow(c.Context())
	return h.triggerResult(c, rec, err)
}

func (h *AdminHandler) TriggerCountSync(c fiber.Ctx) error {
	rec, err := h.sched.RunSyncNow(c.Context())
	return h.triggerResult(c, rec, err)
}

func (h *AdminHandler) triggerResult(c fiber.Ctx, rec repository.RunRecord, err error) error {
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			return middleware.NewAppError(fiber.StatusConflict, "Run already in progress", nil, err)
		}
		// The run record still carries partial counters for diagnosis.
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromRun(rec))
}

func (h *AdminHandler) RecentRuns(c fiber.Ctx) error {
	kind := strings.TrimSpace(c.Query("kind"))
	if kind == "" {
		kind = repository.RunKindIngestion
	}
	switch kind {
	case repository.RunKindIngestion, repository.RunKindCleanup, repository.RunKindCountSync:
	default:
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid run kind", nil, nil)
	}

	limit := parseQueryInt(c, "limit", 10)
	runs, err := h.runs.RecentRuns(c.Context(), kind, limit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromRuns(runs))
}

func (h *AdminHandler) Stats(c fiber.Ctx) error {
	stats, err := h.mgr.Stats(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.StatsResponse{
		TotalPostings: stats.TotalPostings,
		Temporary:     stats.Temporary,
		Saved:         stats.Saved,
		Applied:       stats.Applied,
		WithSaves:     stats.WithSaves,
		WithApplies:   stats.WithApplies,
		PendingExpiry: stats.PendingExpiry,
	})
}
