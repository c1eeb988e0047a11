// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

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
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/age-levels", h.ListAgeLevels)
		r.Get("/categories", h.ListCategories)
		r.Get("/pricing", h.ListPricing)
		r.Get("/pricing/{tier}", h.GetPricing)
		r.Get("/content/{tier}", h.GetContent)

		r.Get("/courses", h.ListCourses)
		r.Get("/courses/{courseID}", h.GetCourse)
		r.Get("/quizzes", h.ListQuizzes)
		r.Get("/quizzes/{quizID}", h.GetQuiz)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/admin/courses", h.CreateCourse)
		r.Patch("/admin/courses/{courseID}", h.UpdateCourse)
		r.Post("/admin/quizzes", h.CreateQuiz)
		r.Post("/admin/activities", h.CreateActivity)
	})
}

func (h *Handler) ListAgeLevels(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, agetier.DescribeAll())
}

func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, Categories())
}

func (h *Handler) ListPricing(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, agetier.Plans())
}

func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	level, err := agetier.Parse(chi.URLParam(r, "tier"))
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := agetier.PlanFor(level)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, plan)
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	level, err := agetier.Parse(chi.URLParam(r, "tier"))
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := h.service.VisibleContent(
		r.Context(),
		level,
		Category(r.URL.Query().Get("category")),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToContentResponse(content))
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	courses, err := h.service.ListCourses(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCourseResponseList(courses))
}

// GetCourse shows drafts to admins only.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	get := h.service.GetCourse
	if middleware.IsAdmin(r.Context()) {
		get = h.service.GetAnyCourse
	}

	course, err := get(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCourseResponse(course))
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	quizzes, err := h.service.ListQuizzes(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToQuizResponseList(quizzes))
}

// GetQuiz hides answers and drafts unless the caller is an admin.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	admin := middleware.IsAdmin(r.Context())
	get := h.service.GetQuiz
	if admin {
		get = h.service.GetAnyQuiz
	}

	quiz, err := get(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToQuizResponse(quiz, admin))
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if !h.decode(w, r, &req) {
		return
	}

	course, err := h.service.CreateCourse(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToCourseResponse(course))
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req UpdateCourseRequest
	if !h.decode(w, r, &req) {
		return
	}

	course, err := h.service.UpdateCourse(
		r.Context(),
		chi.URLParam(r, "courseID"),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCourseResponse(course))
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if !h.decode(w, r, &req) {
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToQuizResponse(quiz, true))
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if !h.decode(w, r, &req) {
		return
	}

	activity, err := h.service.CreateActivity(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToActivityResponse(activity))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var f Filter

	if v := r.URL.Query().Get("age_level"); v != "" {
		level, err := agetier.Parse(v)
		if err != nil {
			return f, err
		}
		f.AgeLevel = level
	}

	if v := r.URL.Query().Get("category"); v != "" {
		f.Category = Category(v)
		if !f.Category.Valid() {
			return f, core.ValidationError("unknown category: " + v)
		}
	}

	return f, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, agetier.ErrUnknownTier):
		core.JSONError(w, core.NewAppError(
			err, "unknown age tier", http.StatusNotFound, "UNKNOWN_TIER"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "content")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid content filter")
	default:
		core.JSONError(w, err)
	}
}
