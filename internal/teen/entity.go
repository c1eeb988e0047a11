// AngelaMos | 2026
// entity.go

package teen

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	ErrRegistrationClosed  = errors.New("competition registration closed")
	ErrCompetitionFull     = errors.New("competition full")
	ErrTeamTooLarge        = errors.New("team exceeds maximum size")
	ErrIneligibleMember    = errors.New("team member is not a teen learner")
	ErrUnsupportedLanguage = errors.New("language not accepted for this challenge")
	ErrSessionInPast       = errors.New("session must be scheduled in the future")
)

type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectReviewed   ProjectStatus = "reviewed"
	ProjectShowcase   ProjectStatus = "showcase"
)

type Project struct {
	ID             string         `db:"id"`
	StudentID      string         `db:"student_id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	ProjectType    string         `db:"project_type"`
	Technologies   pq.StringArray `db:"technologies"`
	GithubURL      *string        `db:"github_url"`
	DemoURL        *string        `db:"demo_url"`
	Status         ProjectStatus  `db:"status"`
	Score          *int           `db:"score"`
	MentorFeedback *string        `db:"mentor_feedback"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type Challenge struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Difficulty       string         `db:"difficulty"`
	ProblemStatement string         `db:"problem_statement"`
	SampleInput      string         `db:"sample_input"`
	ExpectedOutput   string         `db:"expected_output"`
	Languages        pq.StringArray `db:"languages"`
	TimeLimitMinutes int            `db:"time_limit_minutes"`
	Points           int            `db:"points"`
	CreatedAt        time.Time      `db:"created_at"`
}

// Accepts reports whether output matches the expected output, ignoring
// trailing whitespace on each line and blank lines at the end.
func (c *Challenge) Accepts(output string) bool {
	return normalizeOutput(output) == normalizeOutput(c.ExpectedOutput)
}

func (c *Challenge) AllowsLanguage(lang string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

func normalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

type SubmissionStatus string

const (
	SubmissionAccepted    SubmissionStatus = "accepted"
	SubmissionWrongAnswer SubmissionStatus = "wrong_answer"
)

type Submission struct {
	ID            string           `db:"id"`
	ChallengeID   string           `db:"challenge_id"`
	StudentID     string           `db:"student_id"`
	Language      string           `db:"language"`
	Code          string           `db:"code"`
	Output        string           `db:"output"`
	Status        SubmissionStatus `db:"status"`
	PointsAwarded int              `db:"points_awarded"`
	SubmittedAt   time.Time        `db:"submitted_at"`
}

type Mentor struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Title           string         `db:"title"`
	Company         string         `db:"company"`
	Expertise       pq.StringArray `db:"expertise"`
	Bio             string         `db:"bio"`
	LinkedinURL     *string        `db:"linkedin_url"`
	YearsExperience int            `db:"years_experience"`
	Rating          float64        `db:"rating"`
	TotalSessions   int            `db:"total_sessions"`
	CreatedAt       time.Time      `db:"created_at"`
}

const SessionScheduled = "scheduled"

type Session struct {
	ID              string    `db:"id"`
	StudentID       string    `db:"student_id"`
	MentorID        string    `db:"mentor_id"`
	SessionType     string    `db:"session_type"`
	Topic           string    `db:"topic"`
	ScheduledDate   time.Time `db:"scheduled_date"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

type Portfolio struct {
	StudentID       string         `db:"student_id"`
	AboutMe         string         `db:"about_me"`
	Skills          pq.StringArray `db:"skills"`
	CareerInterests pq.StringArray `db:"career_interests"`
	GithubUsername  *string        `db:"github_username"`
	LinkedinProfile *string        `db:"linkedin_profile"`
	PersonalWebsite *string        `db:"personal_website"`
	IsPublic        bool           `db:"is_public"`
	Views           int            `db:"views"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type Competition struct {
	ID                   string    `db:"id"`
	Title                string    `db:"title"`
	Description          string    `db:"description"`
	CompetitionType      string    `db:"competition_type"`
	StartDate            time.Time `db:"start_date"`
	EndDate              time.Time `db:"end_date"`
	RegistrationDeadline time.Time `db:"registration_deadline"`
	MaxParticipants      int       `db:"max_participants"`
	CurrentParticipants  int       `db:"current_participants"`
	MaxTeamSize          int       `db:"max_team_size"`
	CreatedAt            time.Time `db:"created_at"`
}

func (c *Competition) RegistrationOpen(now time.Time) bool {
	return now.Before(c.RegistrationDeadline)
}

type Team struct {
	ID            string         `db:"id"`
	CompetitionID string         `db:"competition_id"`
	TeamName      string         `db:"team_name"`
	LeaderID      string         `db:"leader_id"`
	MemberIDs     pq.StringArray `db:"member_ids"`
	RegisteredAt  time.Time      `db:"registered_at"`
}
