// Package llm defines the interface for completion backends.
package llm

import "context"

// Options controls sampling for a completion request. Extraction needs
// deterministic-leaning output, so the defaults keep temperature low; this
// is a correctness requirement for reproducible extraction, not a tuning
// preference.
type Options struct {
	Temperature float64
	TopK        int
	TopP        float64
	MaxTokens   int
}

// DefaultOptions returns the extraction sampling parameters.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.1,
		TopK:        40,
		TopP:        0.9,
		MaxTokens:   3000,
	}
}

// Completer sends a prompt to a generative model and returns its free-text
// completion. Implementations must honor ctx cancellation.
type Completer interface {
	// Name returns the backend identifier (e.g. "ollama", "openai").
	Name() string

	Complete(ctx context.Context, model, prompt string, opts Options) (string, error)
}

// ModelLister is implemented by backends that can enumerate their locally
// available models. Used by the health endpoint.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
