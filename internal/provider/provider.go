// Package provider talks to the hosted language models that score messages.
package provider

import (
	"context"
	"fmt"
	"time"
)

// Schema is the subset of JSON Schema both vendors accept for structured
// output. Type uses lowercase names ("object", "string", ...).
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Request is one structured-output generation call.
type Request struct {
	RequestID string
	System    string
	Prompt    string
	Schema    *Schema
}

// Usage reports token accounting when the vendor returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response carries the raw model text. Callers decode and validate it.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Provider is the interface for all upstream model vendors.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// StatusError is returned when the vendor answers with an HTTP error status.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IncompleteError is returned when the vendor answered but stopped before
// producing a complete answer, such as on a safety block or a token limit.
type IncompleteError struct {
	Provider string
	Reason   string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: generation stopped: %s", e.Provider, e.Reason)
}

// Options configures a vendor client. Zero values fall back to vendor defaults.
type Options struct {
	APIKey           string
	Model            string
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
}

func (o Options) withDefaults(baseURL, model string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.Model == "" {
		o.Model = model
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.MaxResponseBytes <= 0 {
		o.MaxResponseBytes = 4 * 1024 * 1024
	}
	return o
}

// New returns the provider registered under name.
func New(name string, opts Options) (Provider, error) {
	switch name {
	case "", "gemini":
		return NewGemini(opts), nil
	case "openai":
		return NewOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want gemini or openai)", name)
	}
}
