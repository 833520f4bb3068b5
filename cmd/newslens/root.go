package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/newslens/internal/app"
	"github.com/hyperifyio/newslens/internal/pipeline"
)

var (
	configPath  string
	envFile     string
	verbose     bool
	logJSON     bool
	llmProvider string
	llmModel    string
	llmBase     string
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:   "newslens",
	Short: "Analyze news articles for bias, framing and missing context",
	Long: "Fetches a news article, extracts its paragraph text and asks a language model " +
		"a fixed set of questions about it: bias, political leaning, alternative sources, " +
		"summary, narrative, tone, missing facts, alternative viewpoints and misinterpretation risk.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", os.Getenv("NEWSLENS_CONFIG"), "Path to YAML or JSON config file")
	pf.StringVar(&envFile, "env-file", app.DefaultEnvFile, "Comma-separated dotenv files to load")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	pf.BoolVar(&logJSON, "log.json", false, "Log JSON lines instead of console output")
	pf.StringVar(&llmProvider, "llm.provider", "", "Completion backend: openai, eino or anthropic")
	pf.StringVar(&llmModel, "llm.model", "", "Model name")
	pf.StringVar(&llmBase, "llm.base", "", "OpenAI-compatible base URL")
	pf.IntVar(&concurrency, "concurrency", 0, "Maximum simultaneous completion calls (1 = sequential)")
}

// loadConfig resolves configuration with precedence flags > env > file > defaults
// and configures logging.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	var files []string
	for _, p := range strings.Split(envFile, ",") {
		if s := strings.TrimSpace(p); s != "" {
			files = append(files, s)
		}
	}
	if err := app.LoadEnvFiles(false, files...); err != nil {
		return app.Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := app.DefaultConfig()
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	flags := cmd.Flags()
	if flags.Changed("llm.provider") { cfg.LLMProvider = strings.ToLower(strings.TrimSpace(llmProvider)) }
	if flags.Changed("llm.model") { cfg.LLMModel = llmModel }
	if flags.Changed("llm.base") { cfg.LLMBaseURL = llmBase }
	if flags.Changed("concurrency") { cfg.Concurrency = concurrency }
	if flags.Changed("verbose") { cfg.Verbose = verbose }
	if flags.Changed("log.json") { cfg.LogJSON = logJSON }
	app.ApplyProviderDefaults(&cfg)

	app.SetupLogging(os.Stderr, cfg.Verbose, cfg.LogJSON)
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// exitCode maps run errors to process exit codes: 2 when the article could
// not be extracted, 1 for anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pipeline.ErrExtraction):
		return 2
	default:
		return 1
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("newslens failed")
	}
	os.Exit(exitCode(err))
}
