// AngelaMos | 2026
// repository.go

package teen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	WithTx(db core.DBTX) Repository

	CreateProject(ctx context.Context, p *Project) error
	ListProjectsByStudent(ctx context.Context, studentID string) ([]Project, error)
	ListShowcase(ctx context.Context, limit int) ([]Project, error)
	ReviewProject(ctx context.Context, id string, r Review) (*Project, error)

	CreateChallenge(ctx context.Context, c *Challenge) error
	GetChallenge(ctx context.Context, id string) (*Challenge, error)
	ListChallenges(ctx context.Context, difficulty string) ([]Challenge, error)
	CreateSubmission(ctx context.Context, s *Submission) (bool, error)
	AddPoints(ctx context.Context, userID string, points int) error

	CreateMentor(ctx context.Context, m *Mentor) error
	GetMentor(ctx context.Context, id string) (*Mentor, error)
	ListMentors(ctx context.Context) ([]Mentor, error)
	CreateSession(ctx context.Context, s *Session) error
	ListSessionsByStudent(ctx context.Context, studentID string) ([]Session, error)

	UpsertPortfolio(ctx context.Context, p *Portfolio) error
	GetPortfolio(ctx context.Context, studentID string) (*Portfolio, error)
	ViewPublicPortfolio(ctx context.Context, studentID string) (*Portfolio, error)

	CreateCompetition(ctx context.Context, c *Competition) error
	GetCompetition(ctx context.Context, id string) (*Competition, error)
	ListCompetitions(ctx context.Context) ([]Competition, error)
	ReserveSeats(ctx context.Context, competitionID string, seats int, now time.Time) error
	CreateTeam(ctx context.Context, t *Team) error
	CountTeenUsers(ctx context.Context, ids []string) (int, error)
}

type Review struct {
	Score    int
	Feedback string
	Status   ProjectStatus
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(db core.DBTX) Repository {
	return &repository{db: db}
}

func getOne[T any](ctx context.Context, db core.DBTX, op, query string, args ...any) (*T, error) {
	var v T
	err := db.GetContext(ctx, &v, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

func selectAll[T any](ctx context.Context, db core.DBTX, op, query string, args ...any) ([]T, error) {
	out := []T{}
	if err := db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

const projectColumns = `id, student_id, title, description, project_type, technologies,
	github_url, demo_url, status, score, mentor_feedback, created_at, updated_at`

func (r *repository) CreateProject(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO teen_projects (id, student_id, title, description, project_type,
			technologies, github_url, demo_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.StudentID,
		p.Title,
		p.Description,
		p.ProjectType,
		p.Technologies,
		p.GithubURL,
		p.DemoURL,
		p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

func (r *repository) ListProjectsByStudent(ctx context.Context, studentID string) ([]Project, error) {
	return selectAll[Project](ctx, r.db, "list projects",
		`SELECT `+projectColumns+` FROM teen_projects
		 WHERE student_id = $1
		 ORDER BY created_at DESC`, studentID)
}

func (r *repository) ListShowcase(ctx context.Context, limit int) ([]Project, error) {
	return selectAll[Project](ctx, r.db, "list showcase",
		`SELECT `+projectColumns+` FROM teen_projects
		 WHERE status = $1
		 ORDER BY score DESC NULLS LAST, updated_at DESC
		 LIMIT $2`, ProjectShowcase, limit)
}

func (r *repository) ReviewProject(ctx context.Context, id string, rv Review) (*Project, error) {
	return getOne[Project](ctx, r.db, "review project",
		`UPDATE teen_projects
		 SET score = $2, mentor_feedback = $3, status = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+projectColumns, id, rv.Score, rv.Feedback, rv.Status)
}

const challengeColumns = `id, title, description, difficulty, problem_statement, sample_input,
	expected_output, languages, time_limit_minutes, points, created_at`

func (r *repository) CreateChallenge(ctx context.Context, c *Challenge) error {
	query := `
		INSERT INTO coding_challenges (id, title, description, difficulty, problem_statement,
			sample_input, expected_output, languages, time_limit_minutes, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.Title,
		c.Description,
		c.Difficulty,
		c.ProblemStatement,
		c.SampleInput,
		c.ExpectedOutput,
		c.Languages,
		c.TimeLimitMinutes,
		c.Points,
	)
	if err != nil {
		return fmt.Errorf("create challenge: %w", err)
	}

	return nil
}

func (r *repository) GetChallenge(ctx context.Context, id string) (*Challenge, error) {
	return getOne[Challenge](ctx, r.db, "get challenge",
		`SELECT `+challengeColumns+` FROM coding_challenges WHERE id = $1`, id)
}

func (r *repository) ListChallenges(ctx context.Context, difficulty string) ([]Challenge, error) {
	return selectAll[Challenge](ctx, r.db, "list challenges",
		`SELECT `+challengeColumns+` FROM coding_challenges
		 WHERE $1 = '' OR difficulty = $1
		 ORDER BY points, created_at`, difficulty)
}

// CreateSubmission stores s and reports whether it carried the award. Only
// one awarded submission can exist per (challenge, student); a later accepted
// submission is stored with zero points instead.
func (r *repository) CreateSubmission(ctx context.Context, s *Submission) (bool, error) {
	query := `
		INSERT INTO challenge_submissions (id, challenge_id, student_id, language, code,
			output, status, points_awarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (challenge_id, student_id) WHERE points_awarded > 0 DO NOTHING
		RETURNING submitted_at`

	insert := func() error {
		return r.db.GetContext(ctx, &s.SubmittedAt, query,
			s.ID,
			s.ChallengeID,
			s.StudentID,
			s.Language,
			s.Code,
			s.Output,
			s.Status,
			s.PointsAwarded,
		)
	}

	err := insert()
	if err == nil {
		return s.PointsAwarded > 0, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("create submission: %w", err)
	}

	s.PointsAwarded = 0
	if err := insert(); err != nil {
		return false, fmt.Errorf("create submission: %w", err)
	}

	return false, nil
}

func (r *repository) AddPoints(ctx context.Context, userID string, points int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET total_points = total_points + $2, last_activity = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, userID, points)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("add points: %w", core.ErrNotFound)
	}

	return nil
}

const mentorColumns = `id, name, title, company, expertise, bio, linkedin_url,
	years_experience, rating, total_sessions, created_at`

func (r *repository) CreateMentor(ctx context.Context, m *Mentor) error {
	query := `
		INSERT INTO mentors (id, name, title, company, expertise, bio, linkedin_url,
			years_experience)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &m.CreatedAt, query,
		m.ID,
		m.Name,
		m.Title,
		m.Company,
		m.Expertise,
		m.Bio,
		m.LinkedinURL,
		m.YearsExperience,
	)
	if err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}

	return nil
}

func (r *repository) GetMentor(ctx context.Context, id string) (*Mentor, error) {
	return getOne[Mentor](ctx, r.db, "get mentor",
		`SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, id)
}

func (r *repository) ListMentors(ctx context.Context) ([]Mentor, error) {
	return selectAll[Mentor](ctx, r.db, "list mentors",
		`SELECT `+mentorColumns+` FROM mentors ORDER BY rating DESC, name`)
}

func (r *repository) CreateSession(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO mentorship_sessions (id, student_id, mentor_id, session_type, topic,
			scheduled_date, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &s.CreatedAt, query,
		s.ID,
		s.StudentID,
		s.MentorID,
		s.SessionType,
		s.Topic,
		s.ScheduledDate,
		s.DurationMinutes,
		s.Status,
	)
	if err != nil {
		return fmt.Errorf("create mentorship session: %w", err)
	}

	return nil
}

func (r *repository) ListSessionsByStudent(ctx context.Context, studentID string) ([]Session, error) {
	return selectAll[Session](ctx, r.db, "list mentorship sessions",
		`SELECT id, student_id, mentor_id, session_type, topic, scheduled_date,
		        duration_minutes, status, created_at
		 FROM mentorship_sessions
		 WHERE student_id = $1
		 ORDER BY scheduled_date`, studentID)
}

const portfolioColumns = `student_id, about_me, skills, career_interests, github_username,
	linkedin_profile, personal_website, is_public, views, updated_at`

func (r *repository) UpsertPortfolio(ctx context.Context, p *Portfolio) error {
	query := `
		INSERT INTO portfolios (student_id, about_me, skills, career_interests,
			github_username, linkedin_profile, personal_website, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id) DO UPDATE SET
			about_me = EXCLUDED.about_me,
			skills = EXCLUDED.skills,
			career_interests = EXCLUDED.career_interests,
			github_username = EXCLUDED.github_username,
			linkedin_profile = EXCLUDED.linkedin_profile,
			personal_website = EXCLUDED.personal_website,
			is_public = EXCLUDED.is_public,
			updated_at = NOW()
		RETURNING views, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.StudentID,
		p.AboutMe,
		p.Skills,
		p.CareerInterests,
		p.GithubUsername,
		p.LinkedinProfile,
		p.PersonalWebsite,
		p.IsPublic,
	).Scan(&p.Views, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert portfolio: %w", err)
	}

	return nil
}

func (r *repository) GetPortfolio(ctx context.Context, studentID string) (*Portfolio, error) {
	return getOne[Portfolio](ctx, r.db, "get portfolio",
		`SELECT `+portfolioColumns+` FROM portfolios WHERE student_id = $1`, studentID)
}

// ViewPublicPortfolio counts a view and returns the portfolio in one
// statement. Private portfolios read as not found.
func (r *repository) ViewPublicPortfolio(ctx context.Context, studentID string) (*Portfolio, error) {
	return getOne[Portfolio](ctx, r.db, "view portfolio",
		`UPDATE portfolios SET views = views + 1
		 WHERE student_id = $1 AND is_public
		 RETURNING `+portfolioColumns, studentID)
}

const competitionColumns = `id, title, description, competition_type, start_date, end_date,
	registration_deadline, max_participants, current_participants, max_team_size, created_at`

func (r *repository) CreateCompetition(ctx context.Context, c *Competition) error {
	query := `
		INSERT INTO competitions (id, title, description, competition_type, start_date,
			end_date, registration_deadline, max_participants, max_team_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.Title,
		c.Description,
		c.CompetitionType,
		c.StartDate,
		c.EndDate,
		c.RegistrationDeadline,
		c.MaxParticipants,
		c.MaxTeamSize,
	)
	if err != nil {
		return fmt.Errorf("create competition: %w", err)
	}

	return nil
}

func (r *repository) GetCompetition(ctx context.Context, id string) (*Competition, error) {
	return getOne[Competition](ctx, r.db, "get competition",
		`SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id)
}

func (r *repository) ListCompetitions(ctx context.Context) ([]Competition, error) {
	return selectAll[Competition](ctx, r.db, "list competitions",
		`SELECT `+competitionColumns+` FROM competitions
		 ORDER BY start_date DESC`)
}

// ReserveSeats adds seats to the participant count only while registration
// is open and the total stays within max_participants.
func (r *repository) ReserveSeats(
	ctx context.Context,
	competitionID string,
	seats int,
	now time.Time,
) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE competitions
		SET current_participants = current_participants + $2
		WHERE id = $1
		  AND registration_deadline > $3
		  AND current_participants + $2 <= max_participants`,
		competitionID, seats, now)
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	if rows == 1 {
		return nil
	}

	c, err := r.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if !c.RegistrationOpen(now) {
		return fmt.Errorf("reserve seats: %w", ErrRegistrationClosed)
	}
	return fmt.Errorf("reserve seats: %w", ErrCompetitionFull)
}

func (r *repository) CreateTeam(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO competition_teams (id, competition_id, team_name, leader_id, member_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING registered_at`

	err := r.db.GetContext(ctx, &t.RegisteredAt, query,
		t.ID,
		t.CompetitionID,
		t.TeamName,
		t.LeaderID,
		t.MemberIDs,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create team: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create team: %w", err)
	}

	return nil
}

func (r *repository) CountTeenUsers(ctx context.Context, ids []string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM users
		WHERE id::text = ANY($1)
		  AND deleted_at IS NULL
		  AND age_level IN ('13-15', '16-18')`, core.TextArray(ids))
	if err != nil {
		return 0, fmt.Errorf("count teen users: %w", err)
	}
	return n, nil
}
