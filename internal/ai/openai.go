package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT3Dot5Turbo

type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(credential, model, baseURL string) *openAIBackend {
	cfg := openai.DefaultConfig(credential)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &openAIBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

func (b *openAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: 1000,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (b *openAIBackend) Close() error { return nil }
