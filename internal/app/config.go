package app

import (
	"strings"
	"time"

	"github.com/hyperifyio/newslens/internal/analyze"
	"github.com/hyperifyio/newslens/internal/extract"
	"github.com/hyperifyio/newslens/internal/fetch"
	"github.com/hyperifyio/newslens/internal/llm"
)

// Defaults applied by DefaultConfig.
const (
	DefaultAddr           = ":8080"
	DefaultConcurrency    = 3
	DefaultRequestTimeout = 2 * time.Minute
	DefaultUserAgent      = "newslens/1.0 (+https://github.com/hyperifyio/newslens)"
)

// Config holds runtime configuration for the application.
type Config struct {
	// LLM
	LLMProvider string
	LLMBaseURL  string
	LLMModel    string
	LLMAPIKey   string
	Temperature float32
	MaxTokens   int

	// Fetch / extract
	FetchTimeout    time.Duration
	UserAgent       string
	ExtractStrategy string

	// Pipeline
	Concurrency       int
	FailFast          bool
	AllowEmptyArticle bool

	// Server
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigins []string

	// Logging
	Verbose bool
	LogJSON bool
}

// DefaultConfig returns the configuration used when nothing else is set.
// LLMModel stays empty until ApplyProviderDefaults knows the provider.
func DefaultConfig() Config {
	return Config{
		LLMProvider:     llm.ProviderOpenAI,
		Temperature:     analyze.DefaultTemperature,
		FetchTimeout:    fetch.DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		ExtractStrategy: extract.StrategyParagraphs,
		Concurrency:     DefaultConcurrency,
		Addr:            DefaultAddr,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// ApplyProviderDefaults fills settings whose default depends on the selected
// provider. It runs after every override layer so an explicit model wins.
func ApplyProviderDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		cfg.LLMModel = llm.DefaultModel(cfg.LLMProvider)
	}
}
