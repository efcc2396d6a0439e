package render

import (
	"strings"
	"testing"
)

func TestWrapMessageBreaksOnSpaces(t *testing.T) {
	lines := WrapMessage("the quick brown fox jumps over the lazy dog")
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines for a long message, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > charsPerLine {
			t.Errorf("line %q exceeds charsPerLine %d", l, charsPerLine)
		}
	}
}

func TestWrapMessageKeepsGraphemeClustersIntact(t *testing.T) {
	// family emoji: a multi-rune grapheme cluster. It must survive as one
	// unbroken unit rather than being split mid-codepoint.
	family := "\U0001F468‍\U0001F469‍\U0001F467"
	lines := WrapMessage(family)
	joined := strings.Join(lines, "")
	if joined != family {
		t.Errorf("WrapMessage mangled a grapheme cluster: got %q, want %q", joined, family)
	}
}

func TestWrapMessageEmptyStringReturnsOneBlankLine(t *testing.T) {
	lines := WrapMessage("")
	if len(lines) != 1 || lines[0] != "" {
		t.Errorf("WrapMessage(\"\") = %v, want one blank line", lines)
	}
}
