package ui

import (
	"strings"
	"testing"
)

func TestHeader_ContainsTitle(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)

	out := h.View()
	// The gradient styles each rune separately, so check rune presence in order
	for _, r := range "regraft" {
		if !strings.ContainsRune(out, r) {
			t.Fatalf("header missing title rune %q", r)
		}
	}
}

func TestHeader_ShowsRepoAndBranch(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)
	h.SetRepoName("myproject")
	h.SetBranch("main")

	out := h.View()
	if !strings.Contains(stripStyles(out), "myproject") {
		t.Error("header should show the repo name")
	}
	if !strings.Contains(stripStyles(out), "(main)") {
		t.Error("header should show the branch in parens")
	}
}

func TestHeader_ZeroWidth(t *testing.T) {
	h := NewHeader()
	h.SetWidth(0)
	// Must not panic or pad negatively
	_ = h.View()
}

// stripStyles removes ANSI escape sequences for content assertions.
func stripStyles(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
