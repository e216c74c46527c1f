// Package genai provides pluggable clients for text-generation providers.
package genai

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Result is the provider's answer to one generation request. Token counts
// are always captured: every call consumes provider-side quota and the
// manifest must account for it.
type Result struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Generator sends a composed prompt to a text-generation provider.
type Generator interface {
	Generate(ctx context.Context, system, user string) (*Result, error)
	Model() string
}

var (
	// ErrUnavailable covers transport, auth, and timeout failures. Calls are
	// never retried here; each provider call maps to exactly one explicit
	// invocation so cost stays attributable.
	ErrUnavailable = errors.New("generation unavailable")

	// ErrRejected means the provider declined to produce usable output
	// (policy refusal, empty completion). Distinct from ErrUnavailable so
	// tooling does not conflate "model said no" with "network said no".
	ErrRejected = errors.New("generation rejected")
)

const maxTokens = 4096

// NewFromEnv selects a provider from environment variables.
//
//	VARIANTGEN_PROVIDER: "anthropic" (default) | "openai"
//	VARIANTGEN_MODEL:    model override
//	VARIANTGEN_BASE_URL: base URL override (testing, proxies)
//	ANTHROPIC_API_KEY / OPENAI_API_KEY: credentials
func NewFromEnv() (Generator, error) {
	provider := os.Getenv("VARIANTGEN_PROVIDER")
	model := os.Getenv("VARIANTGEN_MODEL")
	baseURL := os.Getenv("VARIANTGEN_BASE_URL")

	switch provider {
	case "", "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set (set it in the environment or a .env file)", ErrUnavailable)
		}
		return NewAnthropicClient(baseURL, key, model), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set (set it in the environment or a .env file)", ErrUnavailable)
		}
		return NewOpenAIClient(baseURL, key, model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want anthropic or openai)", provider)
	}
}
