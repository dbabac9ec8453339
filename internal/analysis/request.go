package analysis

import (
	"errors"
	"strings"

	"github.com/myjellybean/jellybean/internal/model"
)

// Unknown replaces an empty platform or relationship.
const Unknown = "Unknown"

// ErrEmptyMessage is returned when the message is blank after trimming.
var ErrEmptyMessage = errors.New("message is empty")

// BuildRequest packages form input for the provider. The message must be
// non-blank; blank platform and relationship become Unknown.
func BuildRequest(message, platform, relationship string, signals model.ContextSignals) (model.AnalysisRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.AnalysisRequest{}, ErrEmptyMessage
	}
	return model.AnalysisRequest{
		Message:      message,
		Platform:     orUnknown(platform),
		Relationship: orUnknown(relationship),
		Context:      signals,
	}, nil
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Unknown
	}
	return s
}
