// Package mock provides a canned completion backend for tests and for
// running the service without a model server.
package mock

import (
	"context"
	"sync"

	"medical-conversation-processor/internal/service/llm"
)

// DefaultCompletion is a minimal valid extraction output.
const DefaultCompletion = `{"patient_info":{"name":"Rahul Mehta","age":"32"},"conversation_summary":"Consultation for fever and sore throat.","prescription":{"chief_complaint":"Fever and sore throat","diagnosis":"Acute Viral Pharyngitis","medications":[{"name":"Paracetamol","dosage":"650mg","frequency":"every 6 hours","duration":"3 days","instructions":"after food"}]}}`

// Client implements llm.Completer with a fixed response.
type Client struct {
	mu       sync.Mutex
	Response string
	Err      error
	prompts  []string
	models   []string
}

// New creates a mock completer returning DefaultCompletion.
func New() *Client {
	return &Client{Response: DefaultCompletion}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "mock" }

// Complete records the request and returns the configured response.
func (c *Client) Complete(ctx context.Context, model, prompt string, _ llm.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	c.models = append(c.models, model)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Response, nil
}

// Prompts returns a copy of the prompts received so far.
func (c *Client) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.prompts...)
}

// Models returns a copy of the model identifiers received so far.
func (c *Client) Models() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.models...)
}
