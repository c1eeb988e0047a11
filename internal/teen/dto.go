// AngelaMos | 2026
// dto.go

package teen

import (
	"time"
)

type CreateProjectRequest struct {
	Title        string   `json:"title"              validate:"required,min=3,max=200"`
	Description  string   `json:"description"        validate:"required,max=5000"`
	ProjectType  string   `json:"project_type"       validate:"required,oneof=coding_project robotics_build app_creation web_application research_project startup_pitch"`
	Technologies []string `json:"technologies"       validate:"max=20,dive,min=1,max=50"`
	GithubURL    *string  `json:"github_url,omitempty" validate:"omitempty,url,max=500"`
	DemoURL      *string  `json:"demo_url,omitempty"   validate:"omitempty,url,max=500"`
}

type ReviewProjectRequest struct {
	Score    int    `json:"score"    validate:"min=0,max=100"`
	Feedback string `json:"feedback" validate:"required,max=5000"`
	Status   string `json:"status"   validate:"required,oneof=completed reviewed showcase"`
}

type CreateChallengeRequest struct {
	Title            string   `json:"title"              validate:"required,min=3,max=200"`
	Description      string   `json:"description"        validate:"required,max=2000"`
	Difficulty       string   `json:"difficulty"         validate:"required,oneof=intermediate advanced expert"`
	ProblemStatement string   `json:"problem_statement"  validate:"required,max=10000"`
	SampleInput      string   `json:"sample_input"       validate:"max=10000"`
	ExpectedOutput   string   `json:"expected_output"    validate:"required,max=10000"`
	Languages        []string `json:"languages"          validate:"max=10,dive,min=1,max=30"`
	TimeLimitMinutes int      `json:"time_limit_minutes" validate:"omitempty,min=1,max=480"`
	Points           int      `json:"points"             validate:"required,min=1,max=10000"`
}

type SubmitSolutionRequest struct {
	Language string `json:"language" validate:"required,max=30"`
	Code     string `json:"code"     validate:"required,max=50000"`
	Output   string `json:"output"   validate:"max=10000"`
}

type CreateMentorRequest struct {
	Name            string   `json:"name"                   validate:"required,min=2,max=100"`
	Title           string   `json:"title"                  validate:"required,max=100"`
	Company         string   `json:"company"                validate:"max=100"`
	Expertise       []string `json:"expertise"              validate:"max=20,dive,min=1,max=50"`
	Bio             string   `json:"bio"                    validate:"max=2000"`
	LinkedinURL     *string  `json:"linkedin_url,omitempty" validate:"omitempty,url,max=500"`
	YearsExperience int      `json:"years_experience"       validate:"min=0,max=60"`
}

type BookSessionRequest struct {
	MentorID        string    `json:"mentor_id"        validate:"required,uuid"`
	SessionType     string    `json:"session_type"     validate:"required,oneof=career_guidance technical_review project_help"`
	Topic           string    `json:"topic"            validate:"required,max=200"`
	ScheduledDate   time.Time `json:"scheduled_date"   validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=15,max=180"`
}

type PortfolioRequest struct {
	AboutMe         string   `json:"about_me"                   validate:"max=5000"`
	Skills          []string `json:"skills"                     validate:"max=50,dive,min=1,max=50"`
	CareerInterests []string `json:"career_interests"           validate:"max=20,dive,min=1,max=100"`
	GithubUsername  *string  `json:"github_username,omitempty"  validate:"omitempty,max=100"`
	LinkedinProfile *string  `json:"linkedin_profile,omitempty" validate:"omitempty,url,max=500"`
	PersonalWebsite *string  `json:"personal_website,omitempty" validate:"omitempty,url,max=500"`
	IsPublic        *bool    `json:"is_public,omitempty"`
}

type CreateCompetitionRequest struct {
	Title                string    `json:"title"                 validate:"required,min=3,max=200"`
	Description          string    `json:"description"           validate:"required,max=5000"`
	CompetitionType      string    `json:"competition_type"      validate:"required,oneof=hackathon coding_contest innovation_challenge"`
	StartDate            time.Time `json:"start_date"            validate:"required"`
	EndDate              time.Time `json:"end_date"              validate:"required,gtfield=StartDate"`
	RegistrationDeadline time.Time `json:"registration_deadline" validate:"required,ltefield=StartDate"`
	MaxParticipants      int       `json:"max_participants"      validate:"required,min=1,max=10000"`
	MaxTeamSize          int       `json:"max_team_size"         validate:"omitempty,min=1,max=10"`
}

type RegisterTeamRequest struct {
	TeamName  string   `json:"team_name"  validate:"required,min=2,max=100"`
	MemberIDs []string `json:"member_ids" validate:"max=10,dive,uuid"`
}

type ProjectResponse struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ProjectType    string    `json:"project_type"`
	Technologies   []string  `json:"technologies"`
	GithubURL      *string   `json:"github_url,omitempty"`
	DemoURL        *string   `json:"demo_url,omitempty"`
	Status         string    `json:"status"`
	Score          *int      `json:"score,omitempty"`
	MentorFeedback *string   `json:"mentor_feedback,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ChallengeResponse leaves out the expected output.
type ChallengeResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Difficulty       string    `json:"difficulty"`
	ProblemStatement string    `json:"problem_statement"`
	SampleInput      string    `json:"sample_input"`
	Languages        []string  `json:"languages"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	Points           int       `json:"points"`
	CreatedAt        time.Time `json:"created_at"`
}

type SubmissionResponse struct {
	ID            string    `json:"id"`
	ChallengeID   string    `json:"challenge_id"`
	Language      string    `json:"language"`
	Status        string    `json:"status"`
	PointsAwarded int       `json:"points_awarded"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type MentorResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Expertise       []string  `json:"expertise"`
	Bio             string    `json:"bio"`
	LinkedinURL     *string   `json:"linkedin_url,omitempty"`
	YearsExperience int       `json:"years_experience"`
	Rating          float64   `json:"rating"`
	TotalSessions   int       `json:"total_sessions"`
	CreatedAt       time.Time `json:"created_at"`
}

type SessionResponse struct {
	ID              string    `json:"id"`
	MentorID        string    `json:"mentor_id"`
	SessionType     string    `json:"session_type"`
	Topic           string    `json:"topic"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
}

type PortfolioResponse struct {
	StudentID       string    `json:"student_id"`
	AboutMe         string    `json:"about_me"`
	Skills          []string  `json:"skills"`
	CareerInterests []string  `json:"career_interests"`
	GithubUsername  *string   `json:"github_username,omitempty"`
	LinkedinProfile *string   `json:"linkedin_profile,omitempty"`
	PersonalWebsite *string   `json:"personal_website,omitempty"`
	IsPublic        bool      `json:"is_public"`
	Views           int       `json:"views"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CompetitionResponse struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	CompetitionType      string    `json:"competition_type"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	MaxParticipants      int       `json:"max_participants"`
	CurrentParticipants  int       `json:"current_participants"`
	MaxTeamSize          int       `json:"max_team_size"`
}

type TeamResponse struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	TeamName      string    `json:"team_name"`
	LeaderID      string    `json:"leader_id"`
	MemberIDs     []string  `json:"member_ids"`
	RegisteredAt  time.Time `json:"registered_at"`
}

func strs(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}

func toList[T, R any](items []T, conv func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, conv(&items[i]))
	}
	return out
}

func ToProjectResponse(p *Project) ProjectResponse {
	return ProjectResponse{
		ID:             p.ID,
		StudentID:      p.StudentID,
		Title:          p.Title,
		Description:    p.Description,
		ProjectType:    p.ProjectType,
		Technologies:   strs(p.Technologies),
		GithubURL:      p.GithubURL,
		DemoURL:        p.DemoURL,
		Status:         string(p.Status),
		Score:          p.Score,
		MentorFeedback: p.MentorFeedback,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func ToChallengeResponse(c *Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Difficulty:       c.Difficulty,
		ProblemStatement: c.ProblemStatement,
		SampleInput:      c.SampleInput,
		Languages:        strs(c.Languages),
		TimeLimitMinutes: c.TimeLimitMinutes,
		Points:           c.Points,
		CreatedAt:        c.CreatedAt,
	}
}

func ToSubmissionResponse(s *Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            s.ID,
		ChallengeID:   s.ChallengeID,
		Language:      s.Language,
		Status:        string(s.Status),
		PointsAwarded: s.PointsAwarded,
		SubmittedAt:   s.SubmittedAt,
	}
}

func ToMentorResponse(m *Mentor) MentorResponse {
	return MentorResponse{
		ID:              m.ID,
		Name:            m.Name,
		Title:           m.Title,
		Company:         m.Company,
		Expertise:       strs(m.Expertise),
		Bio:             m.Bio,
		LinkedinURL:     m.LinkedinURL,
		YearsExperience: m.YearsExperience,
		Rating:          m.Rating,
		TotalSessions:   m.TotalSessions,
		CreatedAt:       m.CreatedAt,
	}
}

func ToSessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		MentorID:        s.MentorID,
		SessionType:     s.SessionType,
		Topic:           s.Topic,
		ScheduledDate:   s.ScheduledDate,
		DurationMinutes: s.DurationMinutes,
		Status:          s.Status,
	}
}

func ToPortfolioResponse(p *Portfolio) PortfolioResponse {
	return PortfolioResponse{
		StudentID:       p.StudentID,
		AboutMe:         p.AboutMe,
		Skills:          strs(p.Skills),
		CareerInterests: strs(p.CareerInterests),
		GithubUsername:  p.GithubUsername,
		LinkedinProfile: p.LinkedinProfile,
		PersonalWebsite: p.PersonalWebsite,
		IsPublic:        p.IsPublic,
		Views:           p.Views,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToCompetitionResponse(c *Competition) CompetitionResponse {
	return CompetitionResponse{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		CompetitionType:      c.CompetitionType,
		StartDate:            c.StartDate,
		EndDate:              c.EndDate,
		RegistrationDeadline: c.RegistrationDeadline,
		MaxParticipants:      c.MaxParticipants,
		CurrentParticipants:  c.CurrentParticipants,
		MaxTeamSize:          c.MaxTeamSize,
	}
}

func ToTeamResponse(t *Team) TeamResponse {
	return TeamResponse{
		ID:            t.ID,
		CompetitionID: t.CompetitionID,
		TeamName:      t.TeamName,
		LeaderID:      t.LeaderID,
		MemberIDs:     strs(t.MemberIDs),
		RegisteredAt:  t.RegisteredAt,
	}
}
