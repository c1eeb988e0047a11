// AngelaMos | 2026
// service.go

package teen

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/tecai-kids/internal/core"
)

const (
	defaultShowcaseLimit  = 20
	defaultSessionMinutes = 60
	defaultTimeLimit      = 30
	defaultMaxTeamSize    = 4
)

type Service struct {
	repo   Repository
	tx     core.Transactor
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, tx core.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) CreateProject(
	ctx context.Context,
	studentID string,
	req CreateProjectRequest,
) (*Project, error) {
	p := &Project{
		ID:           uuid.New().String(),
		StudentID:    studentID,
		Title:        req.Title,
		Description:  req.Description,
		ProjectType:  req.ProjectType,
		Technologies: core.TextArray(req.Technologies),
		GithubURL:    req.GithubURL,
		DemoURL:      req.DemoURL,
		Status:       ProjectInProgress,
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) MyProjects(ctx context.Context, studentID string) ([]Project, error) {
	return s.repo.ListProjectsByStudent(ctx, studentID)
}

func (s *Service) Showcase(ctx context.Context) ([]Project, error) {
	return s.repo.ListShowcase(ctx, defaultShowcaseLimit)
}

func (s *Service) ReviewProject(
	ctx context.Context,
	projectID string,
	req ReviewProjectRequest,
) (*Project, error) {
	p, err := s.repo.ReviewProject(ctx, projectID, Review{
		Score:    req.Score,
		Feedback: req.Feedback,
		Status:   ProjectStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project reviewed",
		"project_id", p.ID,
		"score", req.Score,
		"status", req.Status,
	)
	return p, nil
}

func (s *Service) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*Challenge, error) {
	c := &Challenge{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Difficulty:       req.Difficulty,
		ProblemStatement: req.ProblemStatement,
		SampleInput:      req.SampleInput,
		ExpectedOutput:   req.ExpectedOutput,
		Languages:        core.TextArray(req.Languages),
		TimeLimitMinutes: cmpOr(req.TimeLimitMinutes, defaultTimeLimit),
		Points:           req.Points,
	}

	if err := s.repo.CreateChallenge(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetChallenge(ctx context.Context, id string) (*Challenge, error) {
	return s.repo.GetChallenge(ctx, id)
}

func (s *Service) ListChallenges(ctx context.Context, difficulty string) ([]Challenge, error) {
	return s.repo.ListChallenges(ctx, difficulty)
}

// Submit judges a solution by its output. The first accepted submission per
// challenge earns the points; the award and the point credit commit together.
func (s *Service) Submit(
	ctx context.Context,
	studentID, challengeID string,
	req SubmitSolutionRequest,
) (*Submission, error) {
	ctx, span := core.StartSpan(ctx, "teen.submit",
		attribute.String("challenge.id", challengeID),
	)
	defer span.End()

	c, err := s.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	if !c.AllowsLanguage(req.Language) {
		return nil, fmt.Errorf("submit %s: %w", req.Language, ErrUnsupportedLanguage)
	}

	sub := &Submission{
		ID:          uuid.New().String(),
		ChallengeID: c.ID,
		StudentID:   studentID,
		Language:    req.Language,
		Code:        req.Code,
		Output:      req.Output,
		Status:      SubmissionWrongAnswer,
	}
	if c.Accepts(req.Output) {
		sub.Status = SubmissionAccepted
		sub.PointsAwarded = c.Points
	}

	err = s.tx.RunInTx(ctx, func(db core.DBTX) error {
		repo := s.repo.WithTx(db)

		awarded, err := repo.CreateSubmission(ctx, sub)
		if err != nil {
			return err
		}
		if !awarded {
			return nil
		}
		return repo.AddPoints(ctx, studentID, sub.PointsAwarded)
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	core.AddSpanEvent(ctx, "teen.submission_judged",
		attribute.String("status", string(sub.Status)),
		attribute.Int("points", sub.PointsAwarded),
	)
	s.logger.Info("challenge submission judged",
		"challenge_id", c.ID,
		"student_id", studentID,
		"status", sub.Status,
		"points", sub.PointsAwarded,
	)

	return sub, nil
}

func (s *Service) CreateMentor(ctx context.Context, req CreateMentorRequest) (*Mentor, error) {
	m := &Mentor{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Title:           req.Title,
		Company:         req.Company,
		Expertise:       core.TextArray(req.Expertise),
		Bio:             req.Bio,
		LinkedinURL:     req.LinkedinURL,
		YearsExperience: req.YearsExperience,
	}

	if err := s.repo.CreateMentor(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMentors(ctx context.Context) ([]Mentor, error) {
	return s.repo.ListMentors(ctx)
}

func (s *Service) BookSession(
	ctx context.Context,
	studentID string,
	req BookSessionRequest,
) (*Session, error) {
	if !req.ScheduledDate.After(s.now()) {
		return nil, fmt.Errorf("book session: %w", ErrSessionInPast)
	}

	if _, err := s.repo.GetMentor(ctx, req.MentorID); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:              uuid.New().String(),
		StudentID:       studentID,
		MentorID:        req.MentorID,
		SessionType:     req.SessionType,
		Topic:           req.Topic,
		ScheduledDate:   req.ScheduledDate.UTC(),
		DurationMinutes: cmpOr(req.DurationMinutes, defaultSessionMinutes),
		Status:          SessionScheduled,
	}

	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) MySessions(ctx context.Context, studentID string) ([]Session, error) {
	return s.repo.ListSessionsByStudent(ctx, studentID)
}

func (s *Service) SavePortfolio(
	ctx context.Context,
	studentID string,
	req PortfolioRequest,
) (*Portfolio, error) {
	p := &Portfolio{
		StudentID:       studentID,
		AboutMe:         req.AboutMe,
		Skills:          core.TextArray(req.Skills),
		CareerInterests: core.TextArray(req.CareerInterests),
		GithubUsername:  req.GithubUsername,
		LinkedinProfile: req.LinkedinProfile,
		PersonalWebsite: req.PersonalWebsite,
		IsPublic:        req.IsPublic == nil || *req.IsPublic,
	}

	if err := s.repo.UpsertPortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Portfolio returns studentID's portfolio as seen by viewerID. Owners see it
// regardless of visibility and are not counted as a view.
func (s *Service) Portfolio(ctx context.Context, viewerID, studentID string) (*Portfolio, error) {
	if viewerID == studentID {
		return s.repo.GetPortfolio(ctx, studentID)
	}
	return s.repo.ViewPublicPortfolio(ctx, studentID)
}

func (s *Service) CreateCompetition(
	ctx context.Context,
	req CreateCompetitionRequest,
) (*Competition, error) {
	c := &Competition{
		ID:                   uuid.New().String(),
		Title:                req.Title,
		Description:          req.Description,
		CompetitionType:      req.CompetitionType,
		StartDate:            req.StartDate.UTC(),
		EndDate:              req.EndDate.UTC(),
		RegistrationDeadline: req.RegistrationDeadline.UTC(),
		MaxParticipants:      req.MaxParticipants,
		MaxTeamSize:          cmpOr(req.MaxTeamSize, defaultMaxTeamSize),
	}

	if err := s.repo.CreateCompetition(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCompetitions(ctx context.Context) ([]Competition, error) {
	return s.repo.ListCompetitions(ctx)
}

// RegisterTeam enters a team led by leaderID. Every member takes one seat;
// the seats and the team are committed together or not at all.
func (s *Service) RegisterTeam(
	ctx context.Context,
	leaderID, competitionID string,
	req RegisterTeamRequest,
) (*Team, error) {
	members := teamMembers(leaderID, req.MemberIDs)
	now := s.now()

	c, err := s.repo.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !c.RegistrationOpen(now) {
		return nil, fmt.Errorf("register team: %w", ErrRegistrationClosed)
	}
	if len(members) > c.MaxTeamSize {
		return nil, fmt.Errorf("register team of %d: %w", len(members), ErrTeamTooLarge)
	}

	teens, err := s.repo.CountTeenUsers(ctx, members)
	if err != nil {
		return nil, err
	}
	if teens != len(members) {
		return nil, fmt.Errorf("register team: %w", ErrIneligibleMember)
	}

	team := &Team{
		ID:            uuid.New().String(),
		CompetitionID: c.ID,
		TeamName:      req.TeamName,
		LeaderID:      leaderID,
		MemberIDs:     core.TextArray(members),
	}

	err = s.tx.RunInTx(ctx, func(db core.DBTX) error {
		repo := s.repo.WithTx(db)

		if err := repo.ReserveSeats(ctx, c.ID, len(members), now); err != nil {
			return err
		}
		return repo.CreateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("competition team registered",
		"competition_id", c.ID,
		"team_id", team.ID,
		"members", len(members),
	)

	return team, nil
}

// teamMembers puts the leader first and drops repeats.
func teamMembers(leaderID string, ids []string) []string {
	out := []string{leaderID}
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func cmpOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
