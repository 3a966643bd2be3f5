// Package ai translates headlines and summarizes articles through an
// external language model. Without a credential it answers in demo mode,
// and every backend failure is returned as display text.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/newsnow/internal/cache"
	"github.com/deusflow/newsnow/internal/logger"
	"github.com/deusflow/newsnow/internal/metrics"
	"github.com/deusflow/newsnow/internal/ratelimit"
)

type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeSummarize Mode = "summarize"
)

// ParseMode parses user input into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTranslate, ModeSummarize:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported mode %q", s)
	}
}

// Result is the text shown to the user.
type Result struct {
	Text   string `json:"text"`
	IsDemo bool   `json:"is_demo"`
}

// Backend is one language model provider bound to a credential.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// BackendFactory creates a Backend for the given credential.
type BackendFactory func(ctx context.Context, credential string) (Backend, error)

type Options struct {
	Language         string
	SummarySentences int
	Timeout          time.Duration
	CacheTTL         time.Duration
}

type Service struct {
	opts       Options
	newBackend BackendFactory
	limiter    *ratelimit.AIRateLimiter
	cache      *cache.Cache
	metrics    *metrics.Metrics
}

// NewService builds the text transform service. limiter and results may be nil.
func NewService(newBackend BackendFactory, opts Options, limiter *ratelimit.AIRateLimiter, results *cache.Cache) *Service {
	if opts.Language == "" {
		opts.Language = "Hungarian"
	}
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = 2
	}
	return &Service{
		opts:       opts,
		newBackend: newBackend,
		limiter:    limiter,
		cache:      results,
		metrics:    metrics.Global,
	}
}

// TransformText runs text through the model in the given mode. It never
// fails: a missing credential yields a demo result and any backend error
// is returned as "Error: ..." text.
func (s *Service) TransformText(ctx context.Context, text string, mode Mode, credential string) Result {
	if strings.TrimSpace(credential) == "" {
		s.metrics.IncrementDemoTransforms()
		return Result{Text: DemoText(text), IsDemo: true}
	}

	out, err := s.transform(ctx, text, mode, credential)
	if err != nil {
		logger.Warn("AI transform failed", "mode", mode, "error", err)
		s.metrics.IncrementFailedTransforms()
		return Result{Text: "Error: " + err.Error()}
	}
	return Result{Text: out}
}

func (s *Service) transform(ctx context.Context, text string, mode Mode, credential string) (string, error) {
	prompt, err := BuildPrompt(mode, text, s.opts.Language, s.opts.SummarySentences)
	if err != nil {
		return "", err
	}

	key := cache.GenerateKey(string(mode), s.opts.Language, text)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			s.metrics.IncrementAICacheHits()
			if s.limiter != nil {
				s.limiter.RecordCacheHit()
			}
			logger.Debug("AI cache hit", "mode", mode)
			return v.(string), nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Use(); err != nil {
			return "", err
		}
	}

	if s.newBackend == nil {
		return "", errors.New("no AI backend configured")
	}
	backend, err := s.newBackend(ctx, credential)
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			logger.Warn("failed to close AI client", "error", cerr)
		}
	}()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	s.metrics.IncrementAITransforms()
	started := time.Now()
	raw, err := backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	out := SanitizeAIText(raw)
	if out == "" {
		return "", errors.New("empty response from AI service")
	}
	logger.Debug("AI transform done", "mode", mode, "duration", time.Since(started), "chars", len(out))

	if s.cache != nil {
		s.cache.Set(key, out, s.opts.CacheTTL)
	}
	return out, nil
}

// DemoText is shown instead of a model answer when no credential is set.
func DemoText(text string) string {
	const msg = "⚠️ Demo mode: no AI API key is configured, showing the original text."
	if strings.TrimSpace(text) == "" {
		return msg
	}
	return msg + "\n\n" + text
}
