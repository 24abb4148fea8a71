package modals

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// RenderSelectableList renders a simple list with selection highlighting.
// Returns the rendered list string. selectedIndex indicates which item is selected.
func RenderSelectableList(items []string, selectedIndex int) string {
	var result strings.Builder
	for i, item := range items {
		style := ListItemStyle
		prefix := "  "
		if i == selectedIndex {
			style = ListSelectedStyle
			prefix = "> "
		}
		result.WriteString(style.Render(prefix+item) + "\n")
	}
	return result.String()
}

// RenderSelectableListWithFocus renders a list where selection is only shown
// when focused. When focus is true, the selected item is highlighted;
// otherwise the selected item carries marker (e.g. "● ").
func RenderSelectableListWithFocus(items []string, selectedIndex int, focused bool, marker string) string {
	var result strings.Builder
	for i, item := range items {
		style := ListItemStyle
		prefix := "  "
		if focused && i == selectedIndex {
			style = ListSelectedStyle
			prefix = "> "
		} else if i == selectedIndex {
			prefix = marker
		}
		result.WriteString(style.Render(prefix+item) + "\n")
	}
	return result.String()
}

// Checkbox renders a toggle marker.
func Checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// TruncatePath truncates a path from the beginning with ellipsis.
func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// TruncateString truncates a string to maxWidth display cells, breaking on
// grapheme boundaries so wide runes and combining marks survive.
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if width+w > maxWidth-3 {
			break
		}
		b.WriteString(g.Str())
		width += w
	}
	return b.String() + "..."
}

// VisibleWidth measures a possibly styled string in display cells.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}

// ShortOID abbreviates a commit id for display.
func ShortOID(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}

// SplitLines parses one-entry-per-line textarea input, trimming whitespace
// and dropping blanks. Order is preserved.
func SplitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
