package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/repostate"
)

// HistoryPanel renders the commit list of the open repository. The cursor
// feeds the cherry-pick and revert dialogs with a seed commit.
type HistoryPanel struct {
	width    int
	height   int
	focused  bool
	commits  []repostate.Commit
	cursor   int
	scrollTo int
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel() *HistoryPanel {
	return &HistoryPanel{}
}

// SetSize sets the panel's outer dimensions, border included.
func (p *HistoryPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused toggles the focus border and selection highlight.
func (p *HistoryPanel) SetFocused(focused bool) {
	p.focused = focused
}

// Focused reports whether the panel has focus.
func (p *HistoryPanel) Focused() bool {
	return p.focused
}

// SetCommits replaces the commit list, clamping the cursor.
func (p *HistoryPanel) SetCommits(commits []repostate.Commit) {
	p.commits = commits
	if p.cursor >= len(commits) {
		p.cursor = max(0, len(commits)-1)
	}
}

// MoveUp moves the cursor one commit towards the tip.
func (p *HistoryPanel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the cursor one commit towards the root.
func (p *HistoryPanel) MoveDown() {
	if p.cursor < len(p.commits)-1 {
		p.cursor++
	}
}

// PageUp moves the cursor one visible page towards the tip.
func (p *HistoryPanel) PageUp() {
	p.cursor -= p.visibleRows()
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// PageDown moves the cursor one visible page towards the root.
func (p *HistoryPanel) PageDown() {
	p.cursor += p.visibleRows()
	if p.cursor > len(p.commits)-1 {
		p.cursor = max(0, len(p.commits)-1)
	}
}

// SelectedOID returns the commit id under the cursor, empty when the list is
// empty.
func (p *HistoryPanel) SelectedOID() string {
	if p.cursor < 0 || p.cursor >= len(p.commits) {
		return ""
	}
	return p.commits[p.cursor].OID
}

// visibleRows is how many commit lines fit inside the borders and title.
func (p *HistoryPanel) visibleRows() int {
	rows := p.height - BorderSize - TitleHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the panel.
func (p *HistoryPanel) View() string {
	title := PanelTitleStyle.Render("History")

	innerWidth := p.width - BorderSize
	if innerWidth < 1 {
		innerWidth = 1
	}

	rows := p.visibleRows()

	// Keep the cursor inside the window
	if p.cursor < p.scrollTo {
		p.scrollTo = p.cursor
	}
	if p.cursor >= p.scrollTo+rows {
		p.scrollTo = p.cursor - rows + 1
	}

	var lines []string
	if len(p.commits) == 0 {
		lines = append(lines, ListMutedStyle.Render(" no commits"))
	}
	end := min(p.scrollTo+rows, len(p.commits))
	for i := p.scrollTo; i < end; i++ {
		c := p.commits[i]
		oid := c.OID
		if len(oid) > 7 {
			oid = oid[:7]
		}
		line := fmt.Sprintf("%s %s", oid, c.Summary)
		if len(line) > innerWidth-2 && innerWidth > 5 {
			line = line[:innerWidth-5] + "..."
		}
		style := ListItemStyle
		if i == p.cursor && p.focused {
			style = ListSelectedStyle
		}
		lines = append(lines, style.Render(line))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))

	panel := PanelStyle
	if p.focused {
		panel = PanelFocusedStyle
	}
	return panel.Width(p.width - BorderSize).Height(p.height - BorderSize).Render(content)
}
