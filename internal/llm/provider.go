package llm

import (
	"context"
	"errors"
)

// ErrModelNotFound is returned by Load when the backend does not serve the configured model.
var ErrModelNotFound = errors.New("llm: model not found")

// Provider is a text-to-text generation backend serving one fine-tuned model.
type Provider interface {
	// Name identifies the served model.
	Name() string
	// Load makes the model ready to serve. It is called once before the first
	// generation and again only if a previous attempt failed.
	Load(ctx context.Context) error
	// Generate returns the raw decoded text for a single prompt.
	Generate(ctx context.Context, prompt string, opts DecodingOptions) (string, error)
}

// DecodingOptions are the fixed generation knobs. Decoding is always greedy.
type DecodingOptions struct {
	MaxTokens         int
	RepetitionPenalty float64
	NoRepeatNgramSize int
}

// greedySeed pins backends that sample even at temperature zero.
const greedySeed = 42
