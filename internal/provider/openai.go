package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// openAIProvider implements Provider for OpenAI-compatible chat completions.
type openAIProvider struct {
	opts   Options
	client *http.Client
}

// NewOpenAI creates a client for an OpenAI-compatible /chat/completions API.
func NewOpenAI(opts Options) Provider {
	opts = opts.withDefaults(openAIBaseURL, openAIDefaultModel)
	return &openAIProvider{opts: opts, client: &http.Client{Timeout: opts.Timeout}}
}

func (p *openAIProvider) Name() string { return "openai" }

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIJSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type openAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *openAIJSONSchema `json:"json_schema,omitempty"`
}

type openAIChatRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIChatMessage   `json:"messages"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      openAIChatMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// strictSchema converts s to the JSON Schema strict mode accepts: every
// object closes additionalProperties and lists all of its properties as
// required.
func strictSchema(s *Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = strictSchema(s.Items)
	}
	if s.Type == "object" {
		props := make(map[string]any, len(s.Properties))
		required := make([]string, 0, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = strictSchema(v)
		}
		required = append(required, s.Required...)
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	}
	return out
}

func (p *openAIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	body := openAIChatRequest{Model: p.opts.Model}
	if req.System != "" {
		body.Messages = append(body.Messages, openAIChatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, openAIChatMessage{Role: "user", Content: req.Prompt})
	if req.Schema != nil {
		body.ResponseFormat = &openAIResponseFormat{
			Type:       "json_schema",
			JSONSchema: &openAIJSONSchema{Name: "analysis_result", Strict: true, Schema: strictSchema(req.Schema)},
		}
	}

	url := strings.TrimRight(p.opts.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + p.opts.APIKey}

	raw, err := postJSON(ctx, p.client, p.Name(), url, headers, body, p.opts.MaxResponseBytes)
	if err != nil {
		return nil, err
	}

	var resp openAIChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "decode openai response")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai response had no choices")
	}
	choice := resp.Choices[0]
	switch choice.FinishReason {
	case "length", "content_filter":
		return nil, &IncompleteError{Provider: p.Name(), Reason: "finish reason " + choice.FinishReason}
	}

	return &Response{
		Text:  choice.Message.Content,
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
