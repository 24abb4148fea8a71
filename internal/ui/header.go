package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Header represents the top header bar
type Header struct {
	width    int
	repoName string
	branch   string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetRepoName sets the repository name to display
func (h *Header) SetRepoName(name string) {
	h.repoName = name
}

// SetBranch sets the current branch to display
func (h *Header) SetBranch(branch string) {
	h.branch = branch
}

// View renders the header
func (h *Header) View() string {
	titleText := " regraft"
	var rightText string
	if h.repoName != "" {
		rightText = h.repoName
		if h.branch != "" {
			rightText += " (" + h.branch + ")"
		}
		rightText += " "
	}

	paddingLen := h.width - len(titleText) - len(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText

	return h.renderGradient(fullContent, h.branch)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// branch is used to identify and mute the branch portion of the text.
func (h *Header) renderGradient(content string, branch string) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	// End color: fade to the main background
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	// Find where the branch portion starts (if present)
	branchStart := -1
	if branch != "" {
		branchMarker := "(" + branch + ")"
		branchStart = strings.Index(content, branchMarker)
	}

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		// Interpolation factor across the bar
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		inBranch := branchStart >= 0 && i >= branchStart

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < 8) // Bold for the title

		if inBranch {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
