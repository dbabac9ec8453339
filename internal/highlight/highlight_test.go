package highlight

import (
	"strings"
	"testing"
)

func TestLinesJSON(t *testing.T) {
	source := "{\n  \"category\": \"scam_fraud\",\n  \"risk_score\": 90\n}"
	lines := Lines("json", source)

	want := strings.Split(source, "\n")
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, l := range lines {
		if l.Plain() != want[i] {
			t.Errorf("line %d: plain text mismatch: %q", i, l.Plain())
		}
	}

	colored := false
	for _, tok := range lines[1].Tokens {
		if tok.Color != "" {
			colored = true
		}
	}
	if !colored {
		t.Error("expected a colored token on the key line")
	}
}

func TestLinesUnknownLanguage(t *testing.T) {
	lines := Lines("nosuchlang123", "some content\nmore content")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Plain() != "some content" {
		t.Errorf("expected plain passthrough, got %q", lines[0].Plain())
	}
}

func TestTrailingNewline(t *testing.T) {
	lines := Lines("json", "{}\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1].Plain() != "" {
		t.Errorf("expected empty last line, got %q", lines[1].Plain())
	}
}
