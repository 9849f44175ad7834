package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over LLM backends used for local question
// generation. numsense only ever does single-turn structured generation,
// so the surface is one prompt in, validated JSON out.
type Provider interface {
	// Complete sends the prompt and returns the model's output. When the
	// prompt carries a Schema, the returned JSON has been validated
	// against it.
	Complete(ctx context.Context, p Prompt) (json.RawMessage, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Prompt describes one generation request.
type Prompt struct {
	// System sets the model's role and constraints.
	System string

	// User is the single user message.
	User string

	// Schema, when set, requests structured JSON output conforming to it.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls randomness in [0, 1]. Zero means deterministic.
	Temperature float64
}

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "question-set").
	Name string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}
