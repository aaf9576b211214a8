package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Jina     JinaConfig     `yaml:"jina" mapstructure:"jina"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SearchConfig configures the web search backend.
type SearchConfig struct {
	Provider           string `yaml:"provider" mapstructure:"provider"`
	MaxResultsPerQuery int    `yaml:"max_results_per_query" mapstructure:"max_results_per_query"`
	QueryDelayMs       int    `yaml:"query_delay_ms" mapstructure:"query_delay_ms"`
	TimeoutSecs        int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig configures page fetching for the page phase.
type FetchConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxChars     int    `yaml:"max_chars" mapstructure:"max_chars"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	JinaFallback bool   `yaml:"jina_fallback" mapstructure:"jina_fallback"`
}

// JinaConfig holds Jina AI Reader and Search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// LLMConfig selects and tunes the completion backend.
type LLMConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	Key          string `yaml:"key" mapstructure:"key"`
	Model        string `yaml:"model" mapstructure:"model"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	MaxTextChars int    `yaml:"max_text_chars" mapstructure:"max_text_chars"`
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	// RequestsPerMinute caps calls to the provider across all runs in the
	// process. Zero leaves calls unthrottled.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ResolverConfig configures candidate harvesting and aggregation.
type ResolverConfig struct {
	Mode              string   `yaml:"mode" mapstructure:"mode"`
	Budget            int      `yaml:"budget" mapstructure:"budget"`
	SnippetDelayMs    int      `yaml:"snippet_delay_ms" mapstructure:"snippet_delay_ms"`
	PageDelayMs       int      `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	ReexamineWithPage bool     `yaml:"reexamine_with_page" mapstructure:"reexamine_with_page"`
	AliasesFile       string   `yaml:"aliases_file" mapstructure:"aliases_file"`
	CredibleDomains   []string `yaml:"credible_domains" mapstructure:"credible_domains"`
	TopCredibility    int      `yaml:"top_credibility" mapstructure:"top_credibility"`
	AgreementBase     float64  `yaml:"agreement_base" mapstructure:"agreement_base"`
	AgreementStep     float64  `yaml:"agreement_step" mapstructure:"agreement_step"`
	MaxConfidence     float64  `yaml:"max_confidence" mapstructure:"max_confidence"`
	SingleConfidence  float64  `yaml:"single_confidence" mapstructure:"single_confidence"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// providerKeyEnv maps an LLM provider to its conventional key variable.
var providerKeyEnv = map[string]string{
	"groq":      "GROQ_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// Load reads configuration from .env, an optional ./config.yaml and the
// environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path falls back to
// ./config.yaml when present; a named file must exist.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("batch.concurrency", 2)
	v.SetDefault("search.provider", "duckduckgo")
	v.SetDefault("search.max_results_per_query", 8)
	v.SetDefault("search.query_delay_ms", 1000)
	v.SetDefault("search.timeout_secs", 15)
	v.SetDefault("search.base_url", "https://html.duckduckgo.com/html/")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.max_chars", 12000)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:91.0) Gecko/20100101 Firefox/91.0")
	v.SetDefault("fetch.jina_fallback", true)
	v.SetDefault("jina.key", "")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_text_chars", 8000)
	v.SetDefault("llm.max_tokens", 50)
	v.SetDefault("llm.requests_per_minute", 0)
	v.SetDefault("resolver.mode", "pipeline")
	v.SetDefault("resolver.budget", 3)
	v.SetDefault("resolver.snippet_delay_ms", 500)
	v.SetDefault("resolver.page_delay_ms", 1000)
	v.SetDefault("resolver.reexamine_with_page", false)
	v.SetDefault("resolver.aliases_file", "")
	v.SetDefault("resolver.credible_domains", []string{
		"linkedin.com", "wikipedia.org", "crunchbase.com", "bloomberg.com", "reuters.com", "forbes.com",
	})
	v.SetDefault("resolver.top_credibility", 10)
	v.SetDefault("resolver.agreement_base", 0.6)
	v.SetDefault("resolver.agreement_step", 0.15)
	v.SetDefault("resolver.max_confidence", 0.95)
	v.SetDefault("resolver.single_confidence", 0.5)

	// Read config file (optional unless named)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	cfg.applyKeyFallbacks()
	return &cfg, nil
}

// applyKeyFallbacks fills empty credentials from the provider's
// conventional environment variable.
func (c *Config) applyKeyFallbacks() {
	if c.LLM.Key == "" {
		if name, ok := providerKeyEnv[strings.ToLower(c.LLM.Provider)]; ok {
			c.LLM.Key = os.Getenv(name)
		}
	}
	if c.Jina.Key == "" {
		c.Jina.Key = os.Getenv("JINA_API_KEY")
	}
}

// Validate checks the fields required by a command mode ("resolve",
// "batch" or "serve").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch strings.ToLower(c.Search.Provider) {
	case "duckduckgo", "jina":
	default:
		errs = append(errs, "search.provider must be duckduckgo or jina")
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "groq", "anthropic", "gemini":
	default:
		errs = append(errs, "llm.provider must be groq, anthropic or gemini")
	}
	switch strings.ToLower(c.Resolver.Mode) {
	case "pipeline", "agentic":
	default:
		errs = append(errs, "resolver.mode must be pipeline or agentic")
	}
	if c.Resolver.Budget < 1 {
		errs = append(errs, "resolver.budget must be at least 1")
	}
	if c.Search.MaxResultsPerQuery < 1 {
		errs = append(errs, "search.max_results_per_query must be at least 1")
	}
	if c.Resolver.MaxConfidence < 0 || c.Resolver.MaxConfidence > 1 {
		errs = append(errs, "resolver.max_confidence must be between 0 and 1")
	}
	if c.Resolver.SingleConfidence < 0 || c.Resolver.SingleConfidence > 1 {
		errs = append(errs, "resolver.single_confidence must be between 0 and 1")
	}

	switch mode {
	case "resolve":
	case "batch":
		if c.Batch.Concurrency < 1 {
			errs = append(errs, "batch.concurrency must be at least 1")
		}
	case "serve":
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
