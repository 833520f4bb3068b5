package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding env vars are set. Env takes precedence over values coming from
// a config file; flags are applied afterwards and stay highest precedence.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv("LLM_PROVIDER"); v != "" { cfg.LLMProvider = strings.ToLower(strings.TrimSpace(v)) }
    if v := os.Getenv("LLM_BASE_URL"); v != "" { cfg.LLMBaseURL = v }
    if v := os.Getenv("LLM_MODEL"); v != "" { cfg.LLMModel = v }

    // OPENAI_API_KEY is the conventional name; LLM_API_KEY wins when both are set.
    if v := os.Getenv("OPENAI_API_KEY"); v != "" { cfg.LLMAPIKey = v }
    if v := os.Getenv("LLM_API_KEY"); v != "" { cfg.LLMAPIKey = v }
    if cfg.LLMProvider == "anthropic" && os.Getenv("LLM_API_KEY") == "" {
        if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" { cfg.LLMAPIKey = v }
    }

    if v := os.Getenv("EXTRACT_STRATEGY"); v != "" { cfg.ExtractStrategy = strings.ToLower(strings.TrimSpace(v)) }
    if v := os.Getenv("NEWSLENS_ADDR"); v != "" { cfg.Addr = v }

    if s := os.Getenv("FETCH_TIMEOUT"); s != "" {
        if d, err := time.ParseDuration(s); err == nil {
            cfg.FetchTimeout = d
        }
    }
    if s := strings.TrimSpace(os.Getenv("PIPELINE_CONCURRENCY")); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            cfg.Concurrency = n
        }
    }

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.FailFast, "PIPELINE_FAIL_FAST")
    setBool(&cfg.AllowEmptyArticle, "ALLOW_EMPTY_ARTICLE")
    setBool(&cfg.Verbose, "VERBOSE")
}
