package analysis

import (
	"errors"
	"fmt"
)

// GenericFailure is shown for provider and malformed-response failures.
const GenericFailure = "Something went wrong. Please try again."

// ConfigurationError means a required setting, usually the provider
// credential, is missing. No network call was made.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.Message)
}

// ProviderError wraps a transport or vendor-side failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MalformedResponseError means the provider answered but the text did not
// satisfy the result contract.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Error kinds used as log and metric labels.
const (
	KindConfiguration = "configuration"
	KindProvider      = "provider"
	KindMalformed     = "malformed"
	KindUnknown       = "unknown"
)

// Kind classifies err for logs and metrics.
func Kind(err error) string {
	var (
		ce *ConfigurationError
		pe *ProviderError
		me *MalformedResponseError
	)
	switch {
	case errors.As(err, &ce):
		return KindConfiguration
	case errors.As(err, &me):
		return KindMalformed
	case errors.As(err, &pe):
		return KindProvider
	default:
		return KindUnknown
	}
}

// UserMessage is the single line shown to the user for err. Configuration
// problems are actionable and shown as is; everything else is generic.
func UserMessage(err error) string {
	if errors.Is(err, ErrEmptyMessage) {
		return "Please paste a message to analyze."
	}
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return GenericFailure
}
