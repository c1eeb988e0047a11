// AngelaMos | 2026
// handler.go

package quiz

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

const (
	defaultAttemptLimit = 20
	maxAttemptLimit     = 100
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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/quiz-attempts", h.Submit)
		r.Get("/users/me/quiz-attempts", h.ListMine)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	out, err := h.service.Submit(r.Context(), learnerFrom(r), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuiz):
			core.JSONError(w, core.NewAppError(
				err,
				"quiz has no questions",
				http.StatusUnprocessableEntity,
				"INVALID_QUIZ",
			))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "quiz")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ResultResponse{
		Attempt:              ToAttemptResponse(out.Attempt),
		CorrectAnswers:       out.Result.CorrectCount,
		TotalQuestions:       out.Result.TotalQuestions,
		TimeTaken:            FormatDuration(out.Attempt.TimeTakenSeconds),
		AchievementsUnlocked: out.Achievements,
	})
}

func learnerFrom(r *http.Request) Learner {
	ctx := r.Context()
	//nolint:errcheck // an unreadable tier matches no quiz
	level, _ := agetier.FromStored(string(middleware.GetUserAgeLevel(ctx)))
	return Learner{
		ID:       middleware.GetUserID(ctx),
		AgeLevel: level,
		Admin:    middleware.IsAdmin(ctx),
	}
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	limit := defaultAttemptLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxAttemptLimit)
	}

	attempts, err := h.service.ListAttempts(
		r.Context(),
		middleware.GetUserID(r.Context()),
		limit,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAttemptResponseList(attempts))
}
