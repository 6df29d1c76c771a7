package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Report    ReportConfig    `mapstructure:"report"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig describes the single chat model shared by every stage of a run.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Provider) == "" {
		return fmt.Errorf("llm.provider required")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model required")
	}
	if l.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must be >= 0")
	}
	return nil
}

// SearchConfig contains web search settings
type SearchConfig struct {
	Provider         string        `mapstructure:"provider"` // tavily, serper, brave
	TavilyAPIKey     string        `mapstructure:"tavily_api_key"`
	SerperAPIKey     string        `mapstructure:"serper_api_key"`
	BraveAPIKey      string        `mapstructure:"brave_api_key"`
	Depth            string        `mapstructure:"depth"`
	MaxRetries       int           `mapstructure:"max_retries"`
	Timeout          time.Duration `mapstructure:"timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	FetchConcurrency int           `mapstructure:"fetch_concurrency"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
}

func (s SearchConfig) Validate() error {
	switch s.Provider {
	case "tavily", "serper", "brave":
	default:
		return fmt.Errorf("search.provider must be one of tavily, serper, brave (got %q)", s.Provider)
	}
	if s.FetchConcurrency < 0 {
		return fmt.Errorf("search.fetch_concurrency must be >= 0")
	}
	return nil
}

// ReportConfig holds the knobs of the report workflow.
type ReportConfig struct {
	RecursionLimit         int    `mapstructure:"recursion_limit"`
	PlanDepth              int    `mapstructure:"plan_depth"`
	PlanResultsPerQuery    int    `mapstructure:"plan_results_per_query"`
	SectionQueries         int    `mapstructure:"section_queries"`
	SectionResultsPerQuery int    `mapstructure:"section_results_per_query"`
	SectionMaxTokens       int    `mapstructure:"section_max_tokens"`
	TokenizerModel         string `mapstructure:"tokenizer_model"`
}

func (r ReportConfig) Validate() error {
	if r.RecursionLimit <= 0 {
		return fmt.Errorf("report.recursion_limit must be > 0")
	}
	if r.PlanDepth <= 0 {
		return fmt.Errorf("report.plan_depth must be > 0")
	}
	if r.SectionMaxTokens <= 0 {
		return fmt.Errorf("report.section_max_tokens must be > 0")
	}
	return nil
}

// AgentsConfig contains branch execution settings
type AgentsConfig struct {
	// MaxConcurrentBranches bounds each fan-out; 0 means unbounded.
	MaxConcurrentBranches int `mapstructure:"max_concurrent_branches"`
}

// StorageConfig contains storage settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings for the search cache
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// TelemetryConfig contains tracing settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// LoadConfig loads configuration from file and environment variables. A
// missing config file is not an error; defaults and env cover everything.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("DEEPRESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// Validate runs every section validator.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.LLM.Validate,
		c.Search.Validate,
		c.Report.Validate,
		c.Storage.Redis.Validate,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")

	v.SetDefault("server.address", ":10001")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.timeout", "120s")

	v.SetDefault("search.provider", "tavily")
	v.SetDefault("search.depth", "advanced")
	v.SetDefault("search.max_retries", 1)
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.cache_ttl", "1h")
	v.SetDefault("search.fetch_concurrency", 4)
	v.SetDefault("search.fetch_timeout", "15s")

	v.SetDefault("report.recursion_limit", 50)
	v.SetDefault("report.plan_depth", 8)
	v.SetDefault("report.plan_results_per_query", 5)
	v.SetDefault("report.section_queries", 5)
	v.SetDefault("report.section_results_per_query", 6)
	v.SetDefault("report.section_max_tokens", 4000)
	v.SetDefault("report.tokenizer_model", "gpt-4")

	v.SetDefault("agents.max_concurrent_branches", 0)

	v.SetDefault("storage.redis.enabled", false)
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", "5s")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "deepresearch")
}

// overrideFromEnv maps the conventional provider variables onto config keys
func overrideFromEnv(v *viper.Viper) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		v.Set("llm.api_key", apiKey)
	}
	if apiKey := os.Getenv("TAVILY_API_KEY"); apiKey != "" {
		v.Set("search.tavily_api_key", apiKey)
	}
	if apiKey := os.Getenv("SERPER_API_KEY"); apiKey != "" {
		v.Set("search.serper_api_key", apiKey)
	}
	if apiKey := os.Getenv("BRAVE_SEARCH_KEY"); apiKey != "" {
		v.Set("search.brave_api_key", apiKey)
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		v.Set("storage.redis.host", host)
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		v.Set("storage.redis.port", port)
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		v.Set("storage.redis.password", password)
	}
}
