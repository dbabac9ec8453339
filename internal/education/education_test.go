package education

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownContent(t *testing.T) {
	md := Markdown()
	for _, want := range []string{
		"The Overpayment", "The Tech Support",
		"Never Share OTPs", "Ask for a Specific Detail",
		"https://reportfraud.ftc.gov/", "https://www.ic3.gov/",
	} {
		assert.Contains(t, md, want)
	}
}

func TestRenderPlain(t *testing.T) {
	out, err := Render(60, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Safety Playbook")
	assert.Contains(t, out, "Verification Playbook")
}
