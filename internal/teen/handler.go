// AngelaMos | 2026
// handler.go

package teen

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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

// RegisterRoutes mounts the teen platform. Every route needs a teen tier;
// authoring routes additionally need adminOnly.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireTeen)

		r.Post("/teen/projects", h.CreateProject)
		r.Get("/teen/projects/me", h.MyProjects)
		r.Get("/teen/projects/showcase", h.Showcase)
		r.With(adminOnly).Post("/teen/projects/{projectID}/review", h.ReviewProject)

		r.Get("/teen/challenges", h.ListChallenges)
		r.Get("/teen/challenges/{challengeID}", h.GetChallenge)
		r.With(adminOnly).Post("/teen/challenges", h.CreateChallenge)
		r.Post("/teen/challenges/{challengeID}/submissions", h.Submit)

		r.Get("/teen/mentors", h.ListMentors)
		r.With(adminOnly).Post("/teen/mentors", h.CreateMentor)
		r.Post("/teen/mentorship-sessions", h.BookSession)
		r.Get("/teen/mentorship-sessions/me", h.MySessions)

		r.Put("/teen/portfolio", h.SavePortfolio)
		r.Get("/teen/portfolio/{studentID}", h.GetPortfolio)

		r.Get("/teen/competitions", h.ListCompetitions)
		r.With(adminOnly).Post("/teen/competitions", h.CreateCompetition)
		r.Post("/teen/competitions/{competitionID}/teams", h.RegisterTeam)
	})
}

// decode reads and validates the body into dst, answering 400 itself.
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

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.CreateProject(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err, "project")
		return
	}

	core.Created(w, ToProjectResponse(p))
}

func (h *Handler) MyProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.MyProjects(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err, "project")
		return
	}

	core.OK(w, toList(projects, ToProjectResponse))
}

func (h *Handler) Showcase(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.Showcase(r.Context())
	if err != nil {
		writeError(w, err, "project")
		return
	}

	core.OK(w, toList(projects, ToProjectResponse))
}

func (h *Handler) ReviewProject(w http.ResponseWriter, r *http.Request) {
	var req ReviewProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.ReviewProject(r.Context(), chi.URLParam(r, "projectID"), req)
	if err != nil {
		writeError(w, err, "project")
		return
	}

	core.OK(w, ToProjectResponse(p))
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.service.ListChallenges(r.Context(), r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, err, "challenge")
		return
	}

	core.OK(w, toList(challenges, ToChallengeResponse))
}

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetChallenge(r.Context(), chi.URLParam(r, "challengeID"))
	if err != nil {
		writeError(w, err, "challenge")
		return
	}

	core.OK(w, ToChallengeResponse(c))
}

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req CreateChallengeRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.CreateChallenge(r.Context(), req)
	if err != nil {
		writeError(w, err, "challenge")
		return
	}

	core.Created(w, ToChallengeResponse(c))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitSolutionRequest
	if !h.decode(w, r, &req) {
		return
	}

	sub, err := h.service.Submit(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "challengeID"),
		req,
	)
	if err != nil {
		writeError(w, err, "challenge")
		return
	}

	core.Created(w, ToSubmissionResponse(sub))
}

func (h *Handler) ListMentors(w http.ResponseWriter, r *http.Request) {
	mentors, err := h.service.ListMentors(r.Context())
	if err != nil {
		writeError(w, err, "mentor")
		return
	}

	core.OK(w, toList(mentors, ToMentorResponse))
}

func (h *Handler) CreateMentor(w http.ResponseWriter, r *http.Request) {
	var req CreateMentorRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.service.CreateMentor(r.Context(), req)
	if err != nil {
		writeError(w, err, "mentor")
		return
	}

	core.Created(w, ToMentorResponse(m))
}

func (h *Handler) BookSession(w http.ResponseWriter, r *http.Request) {
	var req BookSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess, err := h.service.BookSession(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err, "mentor")
		return
	}

	core.Created(w, ToSessionResponse(sess))
}

func (h *Handler) MySessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.MySessions(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err, "session")
		return
	}

	core.OK(w, toList(sessions, ToSessionResponse))
}

func (h *Handler) SavePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.SavePortfolio(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err, "portfolio")
		return
	}

	core.OK(w, ToPortfolioResponse(p))
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Portfolio(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "studentID"),
	)
	if err != nil {
		writeError(w, err, "portfolio")
		return
	}

	core.OK(w, ToPortfolioResponse(p))
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.service.ListCompetitions(r.Context())
	if err != nil {
		writeError(w, err, "competition")
		return
	}

	core.OK(w, toList(competitions, ToCompetitionResponse))
}

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	var req CreateCompetitionRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.CreateCompetition(r.Context(), req)
	if err != nil {
		writeError(w, err, "competition")
		return
	}

	core.Created(w, ToCompetitionResponse(c))
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req RegisterTeamRequest
	if !h.decode(w, r, &req) {
		return
	}

	team, err := h.service.RegisterTeam(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "competitionID"),
		req,
	)
	if err != nil {
		writeError(w, err, "competition")
		return
	}

	core.Created(w, ToTeamResponse(team))
}

var unprocessable = []error{
	ErrTeamTooLarge,
	ErrIneligibleMember,
	ErrUnsupportedLanguage,
	ErrSessionInPast,
}

func writeError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
		return
	case errors.Is(err, ErrCompetitionFull):
		core.JSONError(w, core.ConflictError("competition is full", "COMPETITION_FULL"))
		return
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.ConflictError("team name already taken", "TEAM_NAME_TAKEN"))
		return
	case errors.Is(err, ErrRegistrationClosed):
		core.JSONError(w, core.ConflictError("registration is closed", "REGISTRATION_CLOSED"))
		return
	}

	for _, target := range unprocessable {
		if errors.Is(err, target) {
			core.JSONError(w, core.NewAppError(
				err,
				target.Error(),
				http.StatusUnprocessableEntity,
				"UNPROCESSABLE",
			))
			return
		}
	}

	core.InternalServerError(w, err)
}
