package ai

import (
	"context"
	"fmt"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// NewBackendFactory returns the factory for a provider name. An empty
// model selects the provider default; baseURL only applies to OpenAI.
func NewBackendFactory(provider, model, baseURL string) (BackendFactory, error) {
	switch provider {
	case ProviderOpenAI:
		return func(_ context.Context, credential string) (Backend, error) {
			return newOpenAIBackend(credential, model, baseURL), nil
		}, nil
	case ProviderGemini:
		return func(ctx context.Context, credential string) (Backend, error) {
			return newGeminiBackend(ctx, credential, model)
		}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}
}
