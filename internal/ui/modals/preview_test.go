package modals

import (
	"strings"
	"testing"
)

func TestBuildConflictPreview(t *testing.T) {
	ours := "package main\n\nfunc main() {\n\tprintln(\"ours\")\n}\n"
	theirs := "package main\n\nfunc main() {\n\tprintln(\"theirs\")\n}\n"

	out := BuildConflictPreview("main.go", ours, theirs)
	if out == "" {
		t.Fatal("expected a diff for differing sides")
	}
	if !strings.Contains(out, "ours:main.go") || !strings.Contains(out, "theirs:main.go") {
		t.Errorf("diff should label both sides, got:\n%s", out)
	}
}

func TestBuildConflictPreview_IdenticalSides(t *testing.T) {
	content := "same\n"
	if out := BuildConflictPreview("f.txt", content, content); out != "" {
		t.Errorf("identical sides should produce no preview, got %q", out)
	}
}

func TestColorDiff_Truncation(t *testing.T) {
	var b strings.Builder
	for range maxPreviewLines + 10 {
		b.WriteString("+added line\n")
	}
	out := colorDiff(b.String())
	if !strings.Contains(out, "truncated") {
		t.Error("long diffs should be truncated with a note")
	}
}

func TestHighlightExcerpt_FallsBackOnUnknown(t *testing.T) {
	code := "some plain text"
	out := HighlightExcerpt("notes.unknownext", code)
	if out == "" {
		t.Error("highlighting should never drop content")
	}
}
