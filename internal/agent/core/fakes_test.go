package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
)

// fakeLLM answers structured calls by schema name and prose calls by the
// section named in the system prompt.
type fakeLLM struct {
	mu sync.Mutex

	plan        []Section
	queriesErr  error
	sectionsRaw string
	content     map[string]string
	delay       map[string]time.Duration
	failWrite   map[string]error

	systems      []string
	finalContext map[string]string
}

func newFakeLLM(plan []Section, content map[string]string) *fakeLLM {
	return &fakeLLM{plan: plan, content: content, finalContext: map[string]string{}}
}

func (f *fakeLLM) InvokeJSON(ctx context.Context, system, user, name string, schema *jsonschema.Schema) (json.RawMessage, error) {
	f.mu.Lock()
	f.systems = append(f.systems, system)
	f.mu.Unlock()

	switch name {
	case "Queries":
		if f.queriesErr != nil {
			return nil, f.queriesErr
		}
		return json.RawMessage(`{"queries":[{"search_query":"q1"},{"search_query":"q2"}]}`), nil
	case "Sections":
		if f.sectionsRaw != "" {
			return json.RawMessage(f.sectionsRaw), nil
		}
		b, _ := json.Marshal(Sections{Sections: f.plan})
		return b, nil
	}
	return nil, fmt.Errorf("unexpected schema %s", name)
}

func (f *fakeLLM) Invoke(ctx context.Context, system, user string) (string, error) {
	name, final := sectionFromPrompt(system)

	f.mu.Lock()
	f.systems = append(f.systems, system)
	if final {
		f.finalContext[name] = system
	}
	delay := f.delay[name]
	err := f.failWrite[name]
	content, ok := f.content[name]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no content for %q", name)
	}
	return content, nil
}

func sectionFromPrompt(system string) (string, bool) {
	for _, marker := range []string{"Title for the section:\n", "Section to write:\n"} {
		if i := strings.Index(system, marker); i >= 0 {
			rest := system[i+len(marker):]
			return rest[:strings.Index(rest, "\n")], marker == "Section to write:\n"
		}
	}
	return "", false
}

type searchCall struct {
	queries    []string
	numResults int
	includeRaw bool
}

type formatCall struct {
	maxTokens  int
	includeRaw bool
}

// fakeGateway returns one document per query.
type fakeGateway struct {
	mu      sync.Mutex
	empty   bool
	calls   []searchCall
	formats []formatCall
}

func (g *fakeGateway) RunSearchQueries(ctx context.Context, queries []string, numResults int, includeRaw bool) []models.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, searchCall{queries, numResults, includeRaw})
	if g.empty {
		return nil
	}
	out := make([]models.Document, len(queries))
	for i, q := range queries {
		out[i] = models.Document{"url": "https://example.com/" + q, "content": q}
	}
	return out
}

func (g *fakeGateway) FormatSearchQueryResults(docs any, maxTokens int, includeRaw bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.formats = append(g.formats, formatCall{maxTokens, includeRaw})
	return fmt.Sprintf("formatted %d docs", len(docs.([]models.Document)))
}

var errLLMDown = errors.New("llm down")
