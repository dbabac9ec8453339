// Package clipboard copies text to the system clipboard, falling back to an
// OSC52 escape sequence when no clipboard tool is available (for example
// over SSH).
package clipboard

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copier performs one-shot copies.
type Copier struct {
	system   func(string) error
	fallback io.Writer
}

// New returns a Copier using the system clipboard and writing the OSC52
// fallback to stderr.
func New() *Copier {
	return &Copier{system: clipboard.WriteAll, fallback: os.Stderr}
}

// NewWith builds a Copier from explicit parts. A nil system func skips
// straight to the fallback; a nil fallback disables it.
func NewWith(system func(string) error, fallback io.Writer) *Copier {
	return &Copier{system: system, fallback: fallback}
}

// Copy places text on the clipboard.
func (c *Copier) Copy(text string) error {
	var sysErr error
	if c.system != nil && !clipboard.Unsupported {
		if sysErr = c.system(text); sysErr == nil {
			return nil
		}
	}
	if c.fallback == nil {
		if sysErr != nil {
			return fmt.Errorf("copy to clipboard: %w", sysErr)
		}
		return fmt.Errorf("copy to clipboard: no clipboard available")
	}
	if _, err := osc52.New(text).WriteTo(c.fallback); err != nil {
		return fmt.Errorf("copy via terminal: %w", err)
	}
	return nil
}

// Copy copies text with the default Copier.
func Copy(text string) error {
	return New().Copy(text)
}
