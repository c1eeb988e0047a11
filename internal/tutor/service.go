// AngelaMos | 2026
// service.go

package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/user"
)

var ErrTutorUnavailable = errors.New("tutor unavailable")

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

type Accounts interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type Service struct {
	repo        Repository
	llm         LLM
	accounts    Accounts
	historySize int
	logger      *slog.Logger
}

// NewService builds the tutor. A nil llm makes every question fail with
// ErrTutorUnavailable.
func NewService(
	repo Repository,
	llm LLM,
	accounts Accounts,
	historySize int,
	logger *slog.Logger,
) *Service {
	if historySize <= 0 {
		historySize = defaultHistoryLimit
	}
	return &Service{
		repo:        repo,
		llm:         llm,
		accounts:    accounts,
		historySize: historySize,
		logger:      logger,
	}
}

type Reply struct {
	Message   *Message
	Resources []Resource
}

func (s *Service) Ask(ctx context.Context, userID string, req AskRequest) (*Reply, error) {
	ct, err := ParseContextType(req.ContextType)
	if err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "tutor.ask",
		attribute.String("tutor.context_type", string(ct)),
	)
	defer span.End()

	u, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	level, err := agetier.FromStored(string(u.AgeLevel))
	if err != nil {
		return nil, err
	}

	history, err := s.repo.History(ctx, HistoryFilter{
		UserID:      userID,
		ContextType: ct,
		LessonID:    req.LessonID,
		CourseID:    req.CourseID,
		Limit:       s.historySize,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, ChatMessage{
		Role:    RoleSystem,
		Content: systemPrompt(level, u.Name, ct, req.CodeContext),
	})
	// History comes back newest first; the model wants it in order.
	for _, h := range slices.Backward(history) {
		messages = append(messages,
			ChatMessage{Role: RoleUser, Content: h.Question},
			ChatMessage{Role: RoleAssistant, Content: h.Answer},
		)
	}
	messages = append(messages, ChatMessage{Role: RoleUser, Content: req.Message})

	if s.llm == nil {
		return nil, fmt.Errorf("ask tutor: %w", ErrTutorUnavailable)
	}

	raw, err := s.llm.Complete(ctx, messages)
	if err != nil {
		core.SetSpanError(ctx, err)
		s.logger.ErrorContext(ctx, "tutor completion failed",
			"user_id", userID,
			"error", err,
		)
		return nil, fmt.Errorf("ask tutor: %w: %w", ErrTutorUnavailable, err)
	}

	answer, suggestions := parseReply(raw)

	msg := &Message{
		ID:          uuid.New().String(),
		UserID:      userID,
		ContextType: ct,
		LessonID:    req.LessonID,
		CourseID:    req.CourseID,
		Question:    req.Message,
		Answer:      answer,
		Suggestions: suggestionsOrDefault(suggestions, ct),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tutor answered",
		"user_id", userID,
		"context_type", ct,
		"history", len(history),
	)

	return &Reply{
		Message:   msg,
		Resources: helpfulResources(level, ct),
	}, nil
}

func (s *Service) History(
	ctx context.Context,
	userID string,
	lessonID, courseID *string,
	limit int,
) ([]Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	return s.repo.History(ctx, HistoryFilter{
		UserID:   userID,
		LessonID: lessonID,
		CourseID: courseID,
		Limit:    min(limit, maxHistoryLimit),
	})
}
