package modals

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/pmezard/go-difflib/difflib"
)

// maxPreviewLines caps how much of a conflict preview is rendered inside the
// modal; anything longer is truncated with a trailing note.
const maxPreviewLines = 24

// BuildConflictPreview renders a unified diff of the ours and theirs sides of
// a conflicted file, colored with the current diff styles. Empty when the two
// sides are identical.
func BuildConflictPreview(path, ours, theirs string) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(ours),
		B:        difflib.SplitLines(theirs),
		FromFile: "ours:" + path,
		ToFile:   "theirs:" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil || text == "" {
		return ""
	}
	return colorDiff(text)
}

// colorDiff applies the injected diff styles line by line.
func colorDiff(diff string) string {
	var b strings.Builder
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	truncated := false
	if len(lines) > maxPreviewLines {
		lines = lines[:maxPreviewLines]
		truncated = true
	}
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(DiffHeaderStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(DiffHunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(DiffAddedStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(DiffRemovedStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	if truncated {
		b.WriteString(ModalHelpStyle.Render("(preview truncated)"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// HighlightExcerpt applies syntax highlighting to a file excerpt, picking the
// lexer from the file name. Falls back to the plain text on any error.
func HighlightExcerpt(path, code string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
