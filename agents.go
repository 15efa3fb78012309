package main

import (
	"context"
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/resumematcher/internal/chat"
)

const chatAgentName = "resume_bot"

func GetAgent(ctx context.Context, apiKey, modelName, agentName string) (agent.Agent, error) {
	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	customAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Career assistant that answers resume and job search questions",
		Instruction: chatInstruction(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	return customAgent, nil
}

// newChatAgent wires the ADK agent to a runner backed by an in-memory session
// service. Sessions are created and deleted per message.
func newChatAgent(ctx context.Context, app *AppConfig) (chat.Agent, error) {
	if app.Config.Gemini.Provider == providerMock {
		return chat.MockAgent{}, nil
	}

	bot, err := GetAgent(ctx, app.Config.Gemini.APIKey, app.Config.Gemini.ChatModel, chatAgentName)
	if err != nil {
		return nil, err
	}
	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        bot.Name(),
		Agent:          bot,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	return chat.NewRunnerAgent(bot.Name(), r, sessions, app.Log), nil
}
