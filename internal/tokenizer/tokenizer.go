// Package tokenizer wraps tiktoken for token-accurate truncation of search
// context.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Tokenizer converts text to model tokens and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

var loaderOnce sync.Once

// Tiktoken is a Tokenizer backed by the BPE ranks of an OpenAI model.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// New returns the encoding used by model (e.g. "gpt-4" → cl100k_base). The
// ranks are embedded, so no network access is needed.
func New(model string) (*Tiktoken, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tokenizer for %q: %w", model, err)
	}
	return &Tiktoken{enc: enc}, nil
}

func (t *Tiktoken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *Tiktoken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Truncate keeps the first maxTokens tokens of text.
func Truncate(tok Tokenizer, text string, maxTokens int) string {
	tokens := tok.Encode(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return tok.Decode(tokens[:maxTokens])
}
