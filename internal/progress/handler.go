// AngelaMos | 2026
// handler.go

package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/leaderboard/{tier}", h.Leaderboard)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/progress", h.Record)
		r.Get("/users/me/progress", h.ListMine)
		r.Get("/users/me/stats", h.MyStats)
		r.Get("/users/{userID}/stats", h.UserStats)
		r.Get("/dashboard", h.Dashboard)
	})
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Record(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err, "course")
		return
	}

	core.OK(w, ToProgressResponse(p))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ps, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProgressResponseList(ps))
}

func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, middleware.GetUserID(r.Context()))
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request, userID string) {
	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err, "user")
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	level, err := agetier.Parse(chi.URLParam(r, "tier"))
	if err != nil {
		writeError(w, err, "")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.Leaderboard(r.Context(), level, limit)
	if err != nil {
		writeError(w, err, "")
		return
	}

	core.OK(w, LeaderboardResponse{AgeLevel: level, Entries: entries})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err, "user")
		return
	}

	core.OK(w, ToDashboardResponse(d))
}

func writeError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, agetier.ErrUnknownTier):
		core.JSONError(w, core.NewAppError(
			err, "unknown age tier", http.StatusNotFound, "UNKNOWN_TIER"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	default:
		core.InternalServerError(w, err)
	}
}
