// Package education holds the static safety playbook.
package education

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
)

//go:embed playbook.md
var playbook string

// Markdown returns the playbook source.
func Markdown() string { return playbook }

// Render renders the playbook for a terminal width. Style "notty" gives
// plain text for pipes; any other value is passed to glamour as a
// standard style name ("dark", "light", "auto").
func Render(width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	if width > 120 {
		width = 120
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width-4))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(playbook)
	if err != nil {
		return "", fmt.Errorf("failed to render playbook: %w", err)
	}
	return out, nil
}
