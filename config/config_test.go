package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Report.RecursionLimit != 50 {
		t.Fatalf("expected recursion limit 50, got %d", cfg.Report.RecursionLimit)
	}
	if cfg.Report.PlanDepth != 8 {
		t.Fatalf("expected plan depth 8, got %d", cfg.Report.PlanDepth)
	}
	if cfg.Report.SectionMaxTokens != 4000 {
		t.Fatalf("expected section max tokens 4000, got %d", cfg.Report.SectionMaxTokens)
	}
	if cfg.Search.Provider != "tavily" {
		t.Fatalf("expected tavily provider, got %q", cfg.Search.Provider)
	}
	if cfg.LLM.Timeout != 120*time.Second {
		t.Fatalf("expected llm timeout 120s, got %v", cfg.LLM.Timeout)
	}
	if cfg.Server.Address != ":10001" {
		t.Fatalf("expected default address, got %q", cfg.Server.Address)
	}
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TAVILY_API_KEY", "tvly-test")
	t.Setenv("REDIS_HOST", "cache.internal")
	path := writeConfig(t, `{
		"llm": {"model": "gpt-4o-mini"},
		"search": {"provider": "serper"},
		"storage": {"redis": {"enabled": true, "port": "6380"}}
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("expected model from file, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Fatalf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Search.TavilyAPIKey != "tvly-test" {
		t.Fatalf("expected tavily key from env, got %q", cfg.Search.TavilyAPIKey)
	}
	if cfg.Storage.Redis.Addr() != "cache.internal:6380" {
		t.Fatalf("unexpected redis addr %q", cfg.Storage.Redis.Addr())
	}
}

func TestLoadConfigRejectsUnknownSearchProvider(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, `{"search": {"provider": "bing"}}`)); err == nil {
		t.Fatalf("expected validation error for unknown provider")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestRedisValidateOnlyWhenEnabled(t *testing.T) {
	if err := (RedisConfig{}).Validate(); err != nil {
		t.Fatalf("disabled redis should validate, got %v", err)
	}
	if err := (RedisConfig{Enabled: true}).Validate(); err == nil {
		t.Fatalf("expected host validation error")
	}
}
