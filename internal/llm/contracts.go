package llm

import "context"

// Request is one chat completion: a system framing plus a user message.
type Request struct {
	System      string
	User        string
	JSON        bool           // ask the backend for a single JSON object
	Schema      map[string]any // optional; sent as guidance when JSON is set
	Model       string         // empty = provider default
	Temperature float64
}

// Completer is the pipeline's view of a language model backend.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
