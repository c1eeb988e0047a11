// AngelaMos | 2026
// handler.go

package tutor

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

// RegisterRoutes mounts the tutor. limiter guards asking only; reading
// history is not counted.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(limiter).Post("/ai-tutor", h.Ask)
		r.Get("/ai-tutor/history", h.History)
	})
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reply, err := h.service.Ask(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrTutorUnavailable):
			core.JSONError(w, core.NewAppError(
				err,
				"TecAI is having trouble right now. Please try again!",
				http.StatusBadGateway,
				"TUTOR_UNAVAILABLE",
			))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "context_type must be general, lesson, coding or quiz")
		case errors.Is(err, agetier.ErrUnknownTier):
			core.JSONError(w, core.NewAppError(
				err,
				"account has no valid age level",
				http.StatusBadRequest,
				"UNKNOWN_TIER",
			))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, toAskResponse(reply))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	msgs, err := h.service.History(
		r.Context(),
		middleware.GetUserID(r.Context()),
		optional(q.Get("lesson_id")),
		optional(q.Get("course_id")),
		limit,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMessageResponseList(msgs))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
