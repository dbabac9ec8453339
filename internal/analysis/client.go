// Package analysis turns a pasted message into a validated risk assessment.
package analysis

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/myjellybean/jellybean/internal/logger"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/provider"
)

const maxLoggedRaw = 512

// Client turns an AnalysisRequest into a validated AnalysisResult. It holds
// no state between calls and never touches history or views.
type Client struct {
	provider   provider.Provider
	credential string
	log        *logger.Logger
}

// NewClient returns a Client calling p. An empty credential makes every
// Analyze fail with a ConfigurationError.
func NewClient(p provider.Provider, credential string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{provider: p, credential: credential, log: log.WithComponent("analysis")}
}

// Analyze performs one provider call and strictly decodes the answer.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	reqID := uuid.NewString()
	log := c.log.WithRequestID(reqID)
	start := time.Now()

	result, resp, err := c.analyze(ctx, reqID, req)
	if err != nil {
		elog := log.WithError(err)
		ev := elog.Warn()
		var me *MalformedResponseError
		if errors.As(err, &me) {
			ev = elog.Error().Str("raw", truncate(me.Raw, maxLoggedRaw))
		}
		ev.Str("error_kind", Kind(err)).
			Dur("elapsed", time.Since(start)).
			Msg("analysis failed")
		return nil, err
	}

	log.Info().
		Str("category", string(result.Category)).
		Int("risk_score", result.RiskScore).
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Int("total_tokens", resp.Usage.TotalTokens).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")
	return result, nil
}

func (c *Client) analyze(ctx context.Context, reqID string, req model.AnalysisRequest) (*model.AnalysisResult, *provider.Response, error) {
	if c.credential == "" {
		return nil, nil, &ConfigurationError{
			Setting: "provider.api_key",
			Message: "API key is missing. Set GEMINI_API_KEY (or provider.api_key in config.yaml) and try again.",
		}
	}
	if c.provider == nil {
		return nil, nil, &ConfigurationError{Setting: "provider.name", Message: "No analysis provider is configured."}
	}

	resp, err := c.provider.Generate(ctx, &provider.Request{
		RequestID: reqID,
		System:    SystemInstruction(),
		Prompt:    BuildPrompt(req),
		Schema:    ResultSchema(),
	})
	if err != nil {
		pe := &ProviderError{Provider: c.provider.Name(), Err: err}
		var se *provider.StatusError
		if errors.As(err, &se) {
			pe.StatusCode = se.StatusCode
		}
		return nil, nil, pe
	}

	result, err := model.DecodeResult([]byte(resp.Text))
	if err != nil {
		return nil, nil, &MalformedResponseError{Raw: resp.Text, Err: err}
	}
	return result, resp, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
