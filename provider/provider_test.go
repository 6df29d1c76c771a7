package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	raw    string
	err    error
	schema *jsonschema.Schema
	name   string
}

func (f *fakeLLM) Invoke(ctx context.Context, system, user string) (string, error) {
	return f.raw, f.err
}

func (f *fakeLLM) InvokeJSON(ctx context.Context, system, user, name string, schema *jsonschema.Schema) (json.RawMessage, error) {
	f.schema = schema
	f.name = name
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

type queries struct {
	Queries []string `json:"queries"`
}

func TestStructuredDecodesValidOutput(t *testing.T) {
	llm := &fakeLLM{raw: `{"queries":["go errgroup","go generics"]}`}
	out, err := Structured[queries](context.Background(), llm, "sys", "user", "Queries")
	require.NoError(t, err)
	assert.Equal(t, []string{"go errgroup", "go generics"}, out.Queries)
	assert.Equal(t, "Queries", llm.name)
	require.NotNil(t, llm.schema)
	assert.Contains(t, llm.schema.Properties, "queries")
}

func TestStructuredRejectsSchemaViolation(t *testing.T) {
	llm := &fakeLLM{raw: `{"queries":"not a list"}`}
	_, err := Structured[queries](context.Background(), llm, "sys", "user", "Queries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestStructuredPropagatesLLMError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Structured[queries](context.Background(), &fakeLLM{err: boom}, "sys", "user", "Queries")
	assert.ErrorIs(t, err, boom)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(config.LLMConfig{Provider: "gemini", Model: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = NewProvider(config.LLMConfig{Provider: "openai", Model: "gpt-4o"})
	require.Error(t, err)

	llm, err := NewProvider(config.LLMConfig{Provider: "openai", Model: "gpt-4o", APIKey: "sk"})
	require.NoError(t, err)
	assert.NotNil(t, llm)
}
