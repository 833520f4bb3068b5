package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/newslens/internal/analyze"
	"github.com/hyperifyio/newslens/internal/article"
	"github.com/hyperifyio/newslens/internal/extract"
	"github.com/hyperifyio/newslens/internal/fetch"
	"github.com/hyperifyio/newslens/internal/llm"
	"github.com/hyperifyio/newslens/internal/pipeline"
	"github.com/hyperifyio/newslens/internal/web"
)

// App owns the long-lived pieces shared by every run: the completion client,
// its HTTP transport and the assembled pipeline.
type App struct {
	cfg      Config
	client   llm.Client
	pipeline *pipeline.Pipeline
	// HTTP clients whose idle connections Close releases.
	httpClients []*http.Client
}

// New validates cfg and wires fetcher, extractor, completion backend and
// pipeline. A quick model listing checks connectivity when the backend
// supports it; failure only warns.
func New(ctx context.Context, cfg Config) (*App, error) {
	ApplyProviderDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	strategy, err := extract.New(cfg.ExtractStrategy)
	if err != nil {
		return nil, err
	}
	llmHTTP := newHighThroughputHTTPClient(0)
	client, err := llm.New(ctx, llm.Options{
		Provider:   cfg.LLMProvider,
		BaseURL:    cfg.LLMBaseURL,
		APIKey:     cfg.LLMAPIKey,
		Model:      cfg.LLMModel,
		HTTPClient: llmHTTP,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}
	a := newWithClient(ctx, cfg, client, strategy)
	a.httpClients = append(a.httpClients, llmHTTP)
	return a, nil
}

func newWithClient(ctx context.Context, cfg Config, client llm.Client, strategy extract.Extractor) *App {
	ApplyProviderDefaults(&cfg)
	fetchHTTP := newHighThroughputHTTPClient(cfg.FetchTimeout)
	fetcher := &fetch.Client{
		HTTPClient:        fetchHTTP,
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.FetchTimeout,
	}
	p := &pipeline.Pipeline{
		Extractor: &article.Extractor{Fetcher: fetcher, Strategy: strategy},
		Analyzer: &analyze.Analyzer{
			Client:      client,
			Model:       cfg.LLMModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		Tasks:             analyze.DefaultTasks(),
		Concurrency:       cfg.Concurrency,
		FailFast:          cfg.FailFast,
		AllowEmptyArticle: cfg.AllowEmptyArticle,
	}
	a := &App{cfg: cfg, client: client, pipeline: p, httpClients: []*http.Client{fetchHTTP}}
	a.preflight(ctx)
	return a
}

func (a *App) preflight(ctx context.Context) {
	lister, ok := a.client.(llm.ModelLister)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		// Best-effort only: auth or connectivity problems surface per task.
		log.Warn().Err(err).Str("provider", a.cfg.LLMProvider).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) > 0 {
		log.Info().Int("count", len(models.Models)).Str("model", a.cfg.LLMModel).Msg("LLM models available")
	} else {
		log.Warn().Msg("LLM returned zero models")
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// Run analyzes one URL.
func (a *App) Run(ctx context.Context, url string) (pipeline.Report, error) {
	return a.pipeline.Run(ctx, url)
}

// Tasks returns the task catalog in display order.
func (a *App) Tasks() []analyze.Task {
	return append([]analyze.Task(nil), a.pipeline.Tasks...)
}

// Server returns the web surface bound to this App.
func (a *App) Server() *web.Server {
	return &web.Server{
		Runner:         a,
		Tasks:          a.Tasks(),
		RequestTimeout: a.cfg.RequestTimeout,
		AllowedOrigins: a.cfg.AllowedOrigins,
	}
}

// Close drops idle keep-alive connections held by the App's HTTP clients.
// In-flight requests are not interrupted. Safe to call more than once.
func (a *App) Close() {
	for _, c := range a.httpClients {
		c.CloseIdleConnections()
	}
}
