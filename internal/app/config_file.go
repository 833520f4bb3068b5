package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/newslens/internal/extract"
    "github.com/hyperifyio/newslens/internal/llm"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    LLM struct {
        Provider    string   `yaml:"provider" json:"provider"`
        BaseURL     string   `yaml:"base" json:"base"`
        Model       string   `yaml:"model" json:"model"`
        APIKey      string   `yaml:"key" json:"key"`
        Temperature *float32 `yaml:"temperature" json:"temperature"`
        MaxTokens   int      `yaml:"maxTokens" json:"maxTokens"`
    } `yaml:"llm" json:"llm"`

    Fetch struct {
        Timeout   Duration `yaml:"timeout" json:"timeout"`
        UserAgent string   `yaml:"userAgent" json:"userAgent"`
    } `yaml:"fetch" json:"fetch"`

    Extract struct {
        Strategy string `yaml:"strategy" json:"strategy"`
    } `yaml:"extract" json:"extract"`

    Pipeline struct {
        Concurrency       *int  `yaml:"concurrency" json:"concurrency"`
        FailFast          *bool `yaml:"failFast" json:"failFast"`
        AllowEmptyArticle *bool `yaml:"allowEmptyArticle" json:"allowEmptyArticle"`
    } `yaml:"pipeline" json:"pipeline"`

    Server struct {
        Addr           string   `yaml:"addr" json:"addr"`
        RequestTimeout Duration `yaml:"requestTimeout" json:"requestTimeout"`
        AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`
    } `yaml:"server" json:"server"`

    Log struct {
        Verbose bool `yaml:"verbose" json:"verbose"`
        JSON    bool `yaml:"json" json:"json"`
    } `yaml:"log" json:"log"`
}

// Duration accepts Go duration strings ("10s", "2m") in YAML and JSON.
type Duration time.Duration

func (d *Duration) set(s string) error {
    s = strings.TrimSpace(s)
    if s == "" {
        *d = 0
        return nil
    }
    v, err := time.ParseDuration(s)
    if err != nil {
        return err
    }
    *d = Duration(v)
    return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
    return d.set(node.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return fmt.Errorf("duration must be a string: %w", err)
    }
    return d.set(s)
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays every value present in fc onto cfg. It runs before
// env and flag overrides, so the file only replaces built-in defaults.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if fc.LLM.Provider != "" { cfg.LLMProvider = strings.ToLower(strings.TrimSpace(fc.LLM.Provider)) }
    if fc.LLM.BaseURL != "" { cfg.LLMBaseURL = fc.LLM.BaseURL }
    if fc.LLM.Model != "" { cfg.LLMModel = fc.LLM.Model }
    if fc.LLM.APIKey != "" { cfg.LLMAPIKey = fc.LLM.APIKey }
    if fc.LLM.Temperature != nil { cfg.Temperature = *fc.LLM.Temperature }
    if fc.LLM.MaxTokens > 0 { cfg.MaxTokens = fc.LLM.MaxTokens }

    if fc.Fetch.Timeout > 0 { cfg.FetchTimeout = time.Duration(fc.Fetch.Timeout) }
    if fc.Fetch.UserAgent != "" { cfg.UserAgent = fc.Fetch.UserAgent }
    if fc.Extract.Strategy != "" { cfg.ExtractStrategy = strings.ToLower(strings.TrimSpace(fc.Extract.Strategy)) }

    if fc.Pipeline.Concurrency != nil { cfg.Concurrency = *fc.Pipeline.Concurrency }
    if fc.Pipeline.FailFast != nil { cfg.FailFast = *fc.Pipeline.FailFast }
    if fc.Pipeline.AllowEmptyArticle != nil { cfg.AllowEmptyArticle = *fc.Pipeline.AllowEmptyArticle }

    if fc.Server.Addr != "" { cfg.Addr = fc.Server.Addr }
    if fc.Server.RequestTimeout > 0 { cfg.RequestTimeout = time.Duration(fc.Server.RequestTimeout) }
    if len(fc.Server.AllowedOrigins) > 0 { cfg.AllowedOrigins = append([]string{}, fc.Server.AllowedOrigins...) }

    if fc.Log.Verbose { cfg.Verbose = true }
    if fc.Log.JSON { cfg.LogJSON = true }
}

// ValidateConfig performs minimal schema validation. The API key is not
// checked; a missing key surfaces as an error from the first completion.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.LLMModel) == "" {
        return errors.New("config: llm.model is required (or set LLM_MODEL)")
    }
    maxTemp := float32(2)
    if cfg.LLMProvider == llm.ProviderAnthropic {
        maxTemp = llm.MaxAnthropicTemperature
    }
    if cfg.Temperature < 0 || cfg.Temperature > maxTemp {
        return fmt.Errorf("config: llm.temperature %.2f out of range [0,%g] for provider %q", cfg.Temperature, maxTemp, cfg.LLMProvider)
    }
    if cfg.Concurrency < 0 {
        return errors.New("config: pipeline.concurrency must not be negative")
    }
    if cfg.FetchTimeout <= 0 {
        return errors.New("config: fetch.timeout must be positive")
    }
    switch cfg.LLMProvider {
    case "", llm.ProviderOpenAI, llm.ProviderEino, llm.ProviderAnthropic:
    default:
        return fmt.Errorf("config: unknown llm.provider %q", cfg.LLMProvider)
    }
    switch cfg.ExtractStrategy {
    case "", extract.StrategyParagraphs, extract.StrategyReadability:
    default:
        return fmt.Errorf("config: unknown extract.strategy %q", cfg.ExtractStrategy)
    }
    return nil
}
