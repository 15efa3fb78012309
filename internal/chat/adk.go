package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/resumematcher/internal/logger"
)

// RunnerAgent drives an ADK runner with a throwaway session per message.
type RunnerAgent struct {
	appName  string
	runner   *runner.Runner
	sessions session.Service
	log      logger.Logger
}

func NewRunnerAgent(appName string, r *runner.Runner, sessions session.Service, log logger.Logger) *RunnerAgent {
	return &RunnerAgent{
		appName:  appName,
		runner:   r,
		sessions: sessions,
		log:      log.With(map[string]interface{}{"component": "chat_agent"}),
	}
}

type sessionDeleter interface {
	Delete(ctx context.Context, req *session.DeleteRequest) error
}

// deleteSession removes an agent session; failures leave it in memory, so
// they are logged.
func deleteSession(ctx context.Context, sessions sessionDeleter, req *session.DeleteRequest, log logger.Logger) {
	if err := sessions.Delete(ctx, req); err != nil {
		log.WithError(err).Warn("failed to delete agent session", map[string]interface{}{
			"session_id": req.SessionID,
			"user_id":    req.UserID,
		})
	}
}

func (a *RunnerAgent) Ask(ctx context.Context, userID, prompt string) (string, error) {
	created, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    userID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	sess := created.Session
	defer deleteSession(context.WithoutCancel(ctx), a.sessions, &session.DeleteRequest{
		AppName:   sess.AppName(),
		UserID:    sess.UserID(),
		SessionID: sess.ID(),
	}, a.log)

	stream := a.runner.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	return output, nil
}
