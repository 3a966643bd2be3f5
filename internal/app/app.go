// Package app wires configuration, feed fetching, the AI service and the
// web server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsnow/internal/ai"
	"github.com/deusflow/newsnow/internal/cache"
	"github.com/deusflow/newsnow/internal/config"
	"github.com/deusflow/newsnow/internal/logger"
	"github.com/deusflow/newsnow/internal/ratelimit"
	"github.com/deusflow/newsnow/internal/rss"
	"github.com/deusflow/newsnow/internal/scraper"
	"github.com/deusflow/newsnow/internal/web"
)

const shutdownTimeout = 10 * time.Second

// App is a configured, not yet started, news server.
type App struct {
	cfg    *config.Config
	server *http.Server
	cache  *cache.Cache
}

// Run loads configuration from args and the environment and serves until
// ctx is cancelled.
func Run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger.Init(cfg.Debug, cfg.LogFormat)

	a, err := New(cfg)
	if err != nil {
		return err
	}
	return a.Serve(ctx)
}

// New builds every component from cfg.
func New(cfg *config.Config) (*App, error) {
	sources, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	factory, err := ai.NewBackendFactory(cfg.AIProvider, cfg.AIModel, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewAIRateLimiter(cfg.AIProvider, cfg.MaxAIRequests, 24*time.Hour)
	results := cache.New(10 * time.Minute)

	service := ai.NewService(factory, ai.Options{
		Language:         cfg.TargetLanguage,
		SummarySentences: cfg.SummarySentences,
		Timeout:          cfg.RequestTimeout,
		CacheTTL:         cfg.AICacheTTL,
	}, limiter, results)

	fetcher := rss.NewFetcher(cfg.RequestTimeout, cfg.UserAgent, cfg.FetchAttempts, cfg.FetchRetryDelay)

	var extractor web.ArticleExtractor
	if cfg.ScrapeArticles {
		extractor = scraper.NewExtractor(cfg.RequestTimeout, cfg.UserAgent)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := web.NewHandler(sources, fetcher, service, extractor, web.Options{
		ItemLimit:     cfg.ItemLimit,
		SnippetLength: cfg.DateSnippetLength,
		Credential:    cfg.Credential(),
		Language:      cfg.TargetLanguage,
		AIStats:       limiter.GetStats,
	})

	if cfg.Credential() == "" {
		logger.Warn("No AI API key configured, AI features run in demo mode", "provider", cfg.AIProvider)
	}
	logger.Info("Application configured",
		"sources", sources.Names(),
		"item_limit", cfg.ItemLimit,
		"ai_provider", cfg.AIProvider,
		"scrape_articles", cfg.ScrapeArticles,
	)

	return &App{
		cfg: cfg,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      web.NewServer(handler),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2*cfg.RequestTimeout + 30*time.Second,
			IdleTimeout:  120 * time.Second,
		},
		cache: results,
	}, nil
}

// Handler exposes the HTTP handler of the app.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Serve listens on the configured address and shuts down gracefully once
// ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	defer a.cache.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", a.cfg.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}
