package chat

import (
	"bytes"
	"context"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/muhammadolammi/resumematcher/internal/apperr"
	"github.com/muhammadolammi/resumematcher/internal/logger"
	"github.com/muhammadolammi/resumematcher/internal/metrics"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	MaxMessageLength = 2000

	EmptyReply   = "I'm sorry, I couldn't come up with a response."
	FailureReply = "An unexpected error occurred with the chatbot. Please try again later."
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Agent answers a single rendered prompt on behalf of a user.
type Agent interface {
	Ask(ctx context.Context, userID, prompt string) (string, error)
}

var turnTemplate = template.Must(template.New("chat").Parse(`Here is the conversation history so far:
{{range .History}}{{.Role}}: {{.Content}}
{{end}}
Here is the user's latest message:
user: {{.Message}}

Your response:
`))

func ValidateMessage(message string) error {
	if message == "" {
		return apperr.Validation("Message cannot be empty.")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return apperr.Validation("Message cannot exceed 2000 characters.")
	}
	return nil
}

type Service struct {
	agent Agent
	log   logger.Logger
}

func NewService(agent Agent, log logger.Logger) *Service {
	return &Service{agent: agent, log: log.With(map[string]interface{}{"component": "chat"})}
}

// Reply sends the history and the new message to the agent. History is
// supplied by the caller on every turn and never stored.
func (s *Service) Reply(ctx context.Context, userID string, history []Message, message string) (string, error) {
	if err := ValidateMessage(message); err != nil {
		metrics.ChatMessagesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return "", err
	}

	var buf bytes.Buffer
	err := turnTemplate.Execute(&buf, struct {
		History []Message
		Message string
	}{History: normalize(history), Message: message})
	if err != nil {
		return "", apperr.Internal(FailureReply, err)
	}

	reply, err := s.agent.Ask(ctx, userID, buf.String())
	if err != nil {
		metrics.ChatMessagesTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.WithError(err).Error("chat agent failed", map[string]interface{}{"user_id": userID})
		return "", apperr.Upstream(FailureReply, err)
	}
	metrics.ChatMessagesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	if strings.TrimSpace(reply) == "" {
		return EmptyReply, nil
	}
	return reply, nil
}

// normalize drops blank turns and coerces unknown roles to user.
func normalize(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role != RoleModel {
			m.Role = RoleUser
		}
		out = append(out, m)
	}
	return out
}

// MockAgent answers without a model, for local runs with AI_PROVIDER=mock.
type MockAgent struct{}

func (MockAgent) Ask(ctx context.Context, _ string, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "I'm Resume Bot running in offline mode. Try tailoring your summary to the role and quantifying your impact.", nil
}
