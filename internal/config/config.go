package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// ErrHelp is returned by Load after usage was printed for --help.
var ErrHelp = errors.New("help requested")

type rawConfig struct {
	// Server
	Addr        string `long:"addr" env:"ADDR" default:":8080" description:"HTTP listen address"`
	SourcesPath string `long:"sources" env:"SOURCES_CONFIG" default:"configs/sources.yaml" description:"Path to the news sources YAML file"`

	// Rendering
	ItemLimit         int `long:"item-limit" env:"ITEM_LIMIT" default:"6" description:"Articles shown per source"`
	DateSnippetLength int `long:"date-snippet-length" env:"DATE_SNIPPET_LENGTH" default:"16" description:"Characters of the published date shown on a card"`

	// AI settings
	AIProvider       string        `long:"ai-provider" env:"AI_PROVIDER" default:"openai" choice:"openai" choice:"gemini" description:"Language model provider"`
	AIModel          string        `long:"ai-model" env:"AI_MODEL" description:"Model name (provider default when empty)"`
	OpenAIBaseURL    string        `long:"openai-base-url" env:"OPENAI_BASE_URL" description:"Override the OpenAI API base URL"`
	OpenAIAPIKey     string        `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key (demo mode when empty)"`
	GeminiAPIKey     string        `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key (demo mode when empty)"`
	TargetLanguage   string        `long:"language" env:"TARGET_LANGUAGE" default:"Hungarian" description:"Language of translations and summaries"`
	SummarySentences int           `long:"summary-sentences" env:"SUMMARY_SENTENCES" default:"2" description:"Maximum sentences in a summary"`
	MaxAIRequests    int           `long:"max-ai-requests" env:"MAX_AI_REQUESTS" default:"0" description:"AI requests allowed per day (0 = unlimited)"`
	AICacheTTL       time.Duration `long:"ai-cache-ttl" env:"AI_CACHE_TTL" default:"1h" description:"How long AI answers are reused (0 disables)"`

	// HTTP client settings
	RequestTimeout  time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30s" description:"Timeout for feed, article and AI requests"`
	FetchAttempts   int           `long:"fetch-attempts" env:"FETCH_ATTEMPTS" default:"1" description:"Attempts per feed download"`
	FetchRetryDelay time.Duration `long:"fetch-retry-delay" env:"FETCH_RETRY_DELAY" default:"2s" description:"Delay between feed download attempts"`
	UserAgent       string        `long:"user-agent" env:"USER_AGENT" default:"NewsNow/1.0" description:"User agent for outgoing requests"`
	ScrapeArticles  bool          `long:"scrape-articles" env:"SCRAPE_ARTICLES" description:"Fetch full article text for short summaries"`

	// Logging
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" description:"Log format: text or json"`
}

type Config struct {
	Addr        string
	SourcesPath string

	ItemLimit         int
	DateSnippetLength int

	AIProvider       string
	AIModel          string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	GeminiAPIKey     string
	TargetLanguage   string
	SummarySentences int
	MaxAIRequests    int
	AICacheTTL       time.Duration

	RequestTimeout  time.Duration
	FetchAttempts   int
	FetchRetryDelay time.Duration
	UserAgent       string
	ScrapeArticles  bool

	Debug     bool
	LogFormat string
}

// Load reads the optional .env file (ENV_FILE, default ".env"), then
// parses flags with environment fallbacks.
func Load(args []string) (*Config, error) {
	if err := loadEnvFile(getEnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	var raw rawConfig
	parser := flags.NewParser(&raw, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "newsnow"

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Config{
		Addr:              raw.Addr,
		SourcesPath:       raw.SourcesPath,
		ItemLimit:         raw.ItemLimit,
		DateSnippetLength: raw.DateSnippetLength,
		AIProvider:        strings.ToLower(raw.AIProvider),
		AIModel:           raw.AIModel,
		OpenAIBaseURL:     raw.OpenAIBaseURL,
		OpenAIAPIKey:      strings.TrimSpace(raw.OpenAIAPIKey),
		GeminiAPIKey:      strings.TrimSpace(raw.GeminiAPIKey),
		TargetLanguage:    raw.TargetLanguage,
		SummarySentences:  raw.SummarySentences,
		MaxAIRequests:     raw.MaxAIRequests,
		AICacheTTL:        raw.AICacheTTL,
		RequestTimeout:    raw.RequestTimeout,
		FetchAttempts:     raw.FetchAttempts,
		FetchRetryDelay:   raw.FetchRetryDelay,
		UserAgent:         raw.UserAgent,
		ScrapeArticles:    raw.ScrapeArticles,
		Debug:             raw.Debug,
		LogFormat:         strings.ToLower(raw.LogFormat),
	}

	return cfg, cfg.Validate()
}

// Credential returns the API key of the selected provider. An empty
// credential is valid and switches the AI features to demo mode.
func (c *Config) Credential() string {
	switch c.AIProvider {
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

func (c *Config) Validate() error {
	if c.AIProvider != "openai" && c.AIProvider != "gemini" {
		return fmt.Errorf("AI_PROVIDER must be 'openai' or 'gemini'")
	}
	if c.ItemLimit <= 0 {
		return fmt.Errorf("ITEM_LIMIT must be positive")
	}
	if c.DateSnippetLength <= 0 {
		return fmt.Errorf("DATE_SNIPPET_LENGTH must be positive")
	}
	if c.SummarySentences <= 0 {
		return fmt.Errorf("SUMMARY_SENTENCES must be positive")
	}
	if c.MaxAIRequests < 0 {
		return fmt.Errorf("MAX_AI_REQUESTS must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json'")
	}
	if c.SourcesPath == "" {
		return fmt.Errorf("SOURCES_CONFIG is required")
	}
	return nil
}

// loadEnvFile exports variables from a dotenv file without overriding the
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
