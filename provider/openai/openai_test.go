package openai_provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(Options{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/",
		Model:   "gpt-4o",
		Timeout: time.Second,
	})
}

func reply(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	})
}

func TestInvokeSendsPrompts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be brief", req.Messages[0].Content)
		assert.Equal(t, "hello", req.Messages[1].Content)
		assert.Nil(t, req.ResponseFormat)
		reply(w, "hi there")
	})

	out, err := c.Invoke(context.Background(), "be brief", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestInvokeJSONUsesSchemaFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		format, ok := req["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_schema", format["type"])
		js := format["json_schema"].(map[string]any)
		assert.Equal(t, "Queries", js["name"])
		assert.Equal(t, "object", js["schema"].(map[string]any)["type"])
		reply(w, ` {"queries":["a"]} `)
	})

	schema := &jsonschema.Schema{Type: "object"}
	raw, err := c.InvokeJSON(context.Background(), "sys", "user", "Queries", schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"queries":["a"]}`, string(raw))
}

func TestInvokeJSONRejectsProse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, "sorry, no JSON today")
	})
	_, err := c.InvokeJSON(context.Background(), "sys", "user", "Queries", &jsonschema.Schema{Type: "object"})
	require.Error(t, err)
}

func TestInvokeNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Invoke(context.Background(), "sys", "user")
	require.Error(t, err)
}
