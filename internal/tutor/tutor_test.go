// AngelaMos | 2026
// tutor_test.go

package tutor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
	"github.com/angelamos/tecai-kids/internal/user"
)

const (
	kidID  = "kid-1"
	teenID = "teen-1"
)

type memRepo struct {
	msgs      []Message
	lastQuery HistoryFilter
}

func (m *memRepo) Create(_ context.Context, msg *Message) error {
	msg.CreatedAt = time.Now()
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memRepo) History(_ context.Context, f HistoryFilter) ([]Message, error) {
	m.lastQuery = f
	out := []Message{}
	for i := len(m.msgs) - 1; i >= 0 && len(out) < f.Limit; i-- {
		msg := m.msgs[i]
		if msg.UserID != f.UserID {
			continue
		}
		if f.ContextType != "" && msg.ContextType != f.ContextType {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

type scriptedLLM struct {
	reply string
	err   error
	seen  [][]ChatMessage
}

func (s *scriptedLLM) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	s.seen = append(s.seen, messages)
	return s.reply, s.err
}

type accounts map[string]*user.User

func (a accounts) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := a[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func newTestService(repo Repository, llm LLM) *Service {
	return NewService(repo, llm, accounts{
		kidID:  {ID: kidID, Name: "Amaya", AgeLevel: agetier.YoungExplorers},
		teenID: {ID: teenID, Name: "Dinuk", AgeLevel: agetier.TechTeens},
	}, 10, slog.New(slog.DiscardHandler))
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		answer      string
		suggestions []string
	}{
		{
			name:   "no marker",
			raw:    "  Plants make food from sunlight.  ",
			answer: "Plants make food from sunlight.",
		},
		{
			name:        "dashes",
			raw:         "A loop repeats code.\nSUGGESTIONS:\n- What is a while loop?\n- Can I loop forever?\n",
			answer:      "A loop repeats code.",
			suggestions: []string{"What is a while loop?", "Can I loop forever?"},
		},
		{
			name:        "numbered and capped",
			raw:         "Answer\nSUGGESTIONS:\n1. One?\n2) Two?\n\n3. Three?\n4. Four?",
			answer:      "Answer",
			suggestions: []string{"One?", "Two?", "Three?"},
		},
		{
			name:        "leading digits kept",
			raw:         "Answer\nSUGGESTIONS:\n- 3D shapes around me?",
			answer:      "Answer",
			suggestions: []string{"3D shapes around me?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, suggestions := parseReply(tt.raw)
			assert.Equal(t, tt.answer, answer)
			if tt.suggestions == nil {
				assert.Empty(t, suggestions)
			} else {
				assert.Equal(t, tt.suggestions, suggestions)
			}
		})
	}
}

func TestParseContextType(t *testing.T) {
	for in, want := range map[string]ContextType{
		"":          ContextGeneral,
		"lesson":    ContextLesson,
		"code_help": ContextCoding,
		"quiz_help": ContextQuiz,
	} {
		got, err := ParseContextType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseContextType("homework")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSystemPromptFollowsTier(t *testing.T) {
	kid := systemPrompt(agetier.LittleLearners, "Amaya", ContextGeneral, "")
	teen := systemPrompt(agetier.FutureLeaders, "Dinuk", ContextCoding, "print('hi')")

	assert.Contains(t, kid, "Little Learners")
	assert.Contains(t, kid, "very short sentences")
	assert.NotContains(t, kid, "learner's code")

	assert.Contains(t, teen, "Future Leaders")
	assert.Contains(t, teen, "trade-offs")
	assert.Contains(t, teen, "print('hi')")
	assert.Contains(t, teen, suggestionsMarker)
}

func TestAskReplaysHistoryInOrder(t *testing.T) {
	repo := &memRepo{}
	llm := &scriptedLLM{reply: "Answer\nSUGGESTIONS:\n- Next?"}
	svc := newTestService(repo, llm)
	ctx := context.Background()

	for i := range 3 {
		_, err := svc.Ask(ctx, kidID, AskRequest{Message: fmt.Sprintf("q%d", i)})
		require.NoError(t, err)
	}

	msgs := llm.seen[2]
	require.Len(t, msgs, 6)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "q0", msgs[1].Content)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
	assert.Equal(t, "q1", msgs[3].Content)
	assert.Equal(t, "q2", msgs[5].Content)

	require.Len(t, repo.msgs, 3)
	assert.Equal(t, "Answer", repo.msgs[2].Answer)
	assert.Equal(t, []string{"Next?"}, []string(repo.msgs[2].Suggestions))
	assert.Equal(t, 10, repo.lastQuery.Limit)
}

func TestAskHistoryIsPerContext(t *testing.T) {
	repo := &memRepo{}
	llm := &scriptedLLM{reply: "ok"}
	svc := newTestService(repo, llm)
	ctx := context.Background()

	_, err := svc.Ask(ctx, kidID, AskRequest{Message: "general question"})
	require.NoError(t, err)

	reply, err := svc.Ask(ctx, kidID, AskRequest{Message: "quiz question", ContextType: "quiz_help"})
	require.NoError(t, err)

	assert.Len(t, llm.seen[1], 2)
	assert.Equal(t, ContextQuiz, reply.Message.ContextType)
	assert.Equal(t, defaultSuggestions[ContextQuiz], []string(reply.Message.Suggestions))
}

func TestAskResourcesByTier(t *testing.T) {
	svc := newTestService(&memRepo{}, &scriptedLLM{reply: "ok"})
	ctx := context.Background()

	kid, err := svc.Ask(ctx, kidID, AskRequest{Message: "help", ContextType: "coding"})
	require.NoError(t, err)
	teen, err := svc.Ask(ctx, teenID, AskRequest{Message: "help", ContextType: "coding"})
	require.NoError(t, err)

	assert.Equal(t, "Scratch", kid.Resources[1].Title)
	assert.Equal(t, "Python Tutorial", teen.Resources[1].Title)
	assert.Equal(t, "Scratch", resourcesByContext[ContextCoding][1].Title)
}

func TestAskLLMFailure(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo, &scriptedLLM{err: errors.New("upstream 500")})

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(kidID), passThrough)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ai-tutor",
		bytes.NewBufferString(`{"message":"why is the sky blue?"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "TUTOR_UNAVAILABLE")
	assert.Empty(t, repo.msgs)
}

func TestAskWithoutModelConfigured(t *testing.T) {
	svc := newTestService(&memRepo{}, nil)

	_, err := svc.Ask(context.Background(), kidID, AskRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrTutorUnavailable)
}

func TestAskRejectsBadRequests(t *testing.T) {
	svc := newTestService(&memRepo{}, &scriptedLLM{reply: "ok"})

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(kidID), passThrough)

	for _, body := range []string{
		`{"message":""}`,
		`{"message":"hi","context_type":"homework"}`,
		`{"message":"` + strings.Repeat("a", 2001) + `"}`,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ai-tutor", bytes.NewBufferString(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestAskIsRateLimitedPerUser(t *testing.T) {
	svc := newTestService(&memRepo{}, &scriptedLLM{reply: "ok"})

	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{
		Limit:   middleware.PerHour(30, 30),
		KeyFunc: middleware.KeyByUser,
		Prefix:  "tutor",
	})

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(kidID), limiter.Handler)

	ask := func() int {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ai-tutor",
			bytes.NewBufferString(`{"message":"hi"}`)))
		return rec.Code
	}

	for i := range 30 {
		require.Equal(t, http.StatusOK, ask(), "question %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, ask())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ai-tutor/history", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHistoryLimits(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.History(ctx, kidID, nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastQuery.Limit)

	_, err = svc.History(ctx, kidID, nil, nil, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastQuery.Limit)

	lesson := "lesson-3"
	_, err = svc.History(ctx, kidID, &lesson, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastQuery.Limit)
	assert.Equal(t, &lesson, repo.lastQuery.LessonID)
}

func passThrough(next http.Handler) http.Handler { return next }

func withUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
