package provider

import (
	"context"
	"sync"
)

// Fake is an in-process Provider for tests and offline demos.
type Fake struct {
	Text string
	Err  error

	mu          sync.Mutex
	calls       int
	lastRequest *Request
}

// NewFake returns a Fake that answers every call with text.
func NewFake(text string) *Fake {
	return &Fake{Text: text}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Generate(ctx context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	f.calls++
	f.lastRequest = req
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return &Response{
		Text:  f.Text,
		Model: "fake",
		Usage: Usage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5},
	}, nil
}

// Calls returns how many times Generate ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastRequest returns the most recent request, or nil.
func (f *Fake) LastRequest() *Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRequest
}
