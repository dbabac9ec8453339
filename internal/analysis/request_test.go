package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myjellybean/jellybean/internal/model"
)

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name, message, platform, relationship string
		wantPlatform, wantRelationship        string
	}{
		{"defaults", "hi", "", "", Unknown, Unknown},
		{"whitespace defaults", "hi", "   ", "\t", Unknown, Unknown},
		{"kept", "hi", "SMS", "friend", "SMS", "friend"},
		{"trimmed", "  hi  ", " Discord ", " coworker ", "Discord", "coworker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.message, tt.platform, tt.relationship, model.ContextSignals{})
			require.NoError(t, err)
			assert.Equal(t, "hi", req.Message)
			assert.Equal(t, tt.wantPlatform, req.Platform)
			assert.Equal(t, tt.wantRelationship, req.Relationship)
		})
	}
}

func TestBuildRequestRejectsBlank(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := BuildRequest(msg, "SMS", "friend", model.ContextSignals{AskedForMoney: true})
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
}

func TestBuildRequestEmitsAllSignalKeys(t *testing.T) {
	req, err := BuildRequest("send money", "", "", model.ContextSignals{AskedForMoney: true})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded struct {
		Context map[string]bool `json:"context"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Context, 6)
	assert.True(t, decoded.Context["asked_for_money"])
	assert.False(t, decoded.Context["threatened_me"])
}

func TestBuildPrompt(t *testing.T) {
	req, _ := BuildRequest(`He said "pay now"`, "", "friend", model.ContextSignals{AskedForOTP: true})
	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, `Message: "He said \"pay now\""`)
	assert.Contains(t, prompt, "Platform: Unknown")
	assert.Contains(t, prompt, "Relationship: friend")
	assert.Contains(t, prompt, `"asked_for_otp":true`)
	assert.Contains(t, SystemInstruction(), "self_harm_or_violence_risk")
	assert.Contains(t, SystemInstruction(), "emergency services")
}

func TestResultSchemaRequiresEverything(t *testing.T) {
	s := ResultSchema()
	assert.Len(t, s.Required, len(s.Properties))
	for _, name := range s.Required {
		assert.Contains(t, s.Properties, name)
	}
	assert.Len(t, s.Properties["category"].Enum, len(model.Categories))
	nested := s.Properties["report_summary"]
	assert.Len(t, nested.Required, len(nested.Properties))
}
