package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mohammad-safakhou/deepresearch/config"
	openai_provider "github.com/mohammad-safakhou/deepresearch/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
)

var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// LLM is the chat model shared by every stage of a report run.
type LLM interface {
	// Invoke returns the free-text completion for a system/user prompt pair.
	Invoke(ctx context.Context, system, user string) (string, error)
	// InvokeJSON asks the model for output conforming to schema and returns the raw JSON.
	InvokeJSON(ctx context.Context, system, user, name string, schema *jsonschema.Schema) (json.RawMessage, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (LLM, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		return openai_provider.NewOpenAIClient(openai_provider.Options{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			MaxRetries:  cfg.MaxRetries,
			Timeout:     cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// Structured asks llm for a T. The schema is inferred from T, the reply is
// validated against it and then decoded.
func Structured[T any](ctx context.Context, llm LLM, system, user, name string) (T, error) {
	var out T
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return out, fmt.Errorf("infer %s schema: %w", name, err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return out, fmt.Errorf("resolve %s schema: %w", name, err)
	}

	raw, err := llm.InvokeJSON(ctx, system, user, name, schema)
	if err != nil {
		return out, err
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return out, fmt.Errorf("parse %s output: %w", name, err)
	}
	if err := resolved.Validate(instance); err != nil {
		return out, fmt.Errorf("%s output does not match schema: %w", name, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s output: %w", name, err)
	}
	return out, nil
}
