// Package gateway is the boundary to the external language model: the
// analysis and rewrite gateways, and the provider clients behind them.
package gateway

import (
	"context"
	"fmt"
)

// Request is one generation call.
type Request struct {
	Model  string
	Prompt string
	// Schema, when set, asks the provider for a JSON document matching it.
	Schema *Schema
}

// Generator is an external text-generation capability.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
	Close() error
}

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewGenerator builds the client for the named provider.
func NewGenerator(ctx context.Context, provider, apiKey string) (Generator, error) {
	switch provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, apiKey, "")
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, ""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// DefaultModels returns the analysis and rewrite models used when the
// configuration leaves them blank.
func DefaultModels(provider string) (analysis, rewrite string) {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o", "gpt-4o-mini"
	default:
		return "gemini-3-pro-preview", "gemini-3-flash-preview"
	}
}
