package services

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// Generator produces the next assistant utterance from a system prompt,
// the conversation so far and the incoming user message.
type Generator interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Turn, message string) (string, error)
}

// OpenAIGenerator wraps a langchaingo OpenAI chat model.
type OpenAIGenerator struct {
	llm llms.Model
}

// NewOpenAIGenerator creates a generator from OPENAI_API_KEY and
// OPENAI_MODEL (default "gpt-4").
func NewOpenAIGenerator() (*OpenAIGenerator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY in environment variables")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4"
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}

	return &OpenAIGenerator{llm: llm}, nil
}

// Complete runs one chat completion over system prompt + history + the
// new user message.
func (g *OpenAIGenerator) Complete(ctx context.Context, systemPrompt string, history []models.Turn, message string) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))

	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := g.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", apperrors.NewGenerationError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewGenerationError(fmt.Errorf("no response choices"))
	}
	return resp.Choices[0].Content, nil
}
