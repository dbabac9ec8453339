package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel = "gemini-3-flash-preview"
)

type geminiProvider struct {
	opts   Options
	client *http.Client
}

// NewGemini creates a client for the Gemini generateContent API.
func NewGemini(opts Options) Provider {
	opts = opts.withDefaults(geminiBaseURL, geminiDefaultModel)
	return &geminiProvider{opts: opts, client: &http.Client{Timeout: opts.Timeout}}
}

func (p *geminiProvider) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// geminiSchema converts s to the OpenAPI dialect Gemini expects, which
// spells types in upper case.
func geminiSchema(s *Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": strings.ToUpper(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = geminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = geminiSchema(v)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

func (p *geminiProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   geminiSchema(req.Schema),
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(p.opts.BaseURL, "/"), p.opts.Model)
	headers := map[string]string{"x-goog-api-key": p.opts.APIKey}

	raw, err := postJSON(ctx, p.client, p.Name(), url, headers, body, p.opts.MaxResponseBytes)
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "decode gemini response")
	}
	if reason := resp.PromptFeedback.BlockReason; reason != "" {
		return nil, &IncompleteError{Provider: p.Name(), Reason: "prompt blocked: " + reason}
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini response had no candidates")
	}
	cand := resp.Candidates[0]
	if cand.FinishReason != "STOP" {
		return nil, &IncompleteError{Provider: p.Name(), Reason: "finish reason " + cand.FinishReason}
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		text.WriteString(part.Text)
	}

	model := resp.ModelVersion
	if model == "" {
		model = p.opts.Model
	}
	return &Response{
		Text:  text.String(),
		Model: model,
		Usage: Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
