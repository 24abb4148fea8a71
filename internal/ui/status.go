package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/repostate"
)

// StatusPanel renders the branch list, worktree status summary and stashes
// from the latest repository snapshot.
type StatusPanel struct {
	width   int
	height  int
	focused bool

	branches []repostate.Branch
	status   repostate.WorktreeStatus
	stashes  []repostate.Stash
	cursor   int
}

// NewStatusPanel creates an empty status panel.
func NewStatusPanel() *StatusPanel {
	return &StatusPanel{}
}

// SetSize sets the panel's outer dimensions, border included.
func (p *StatusPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused toggles the focus border and selection highlight.
func (p *StatusPanel) SetFocused(focused bool) {
	p.focused = focused
}

// Focused reports whether the panel has focus.
func (p *StatusPanel) Focused() bool {
	return p.focused
}

// SetSnapshot replaces the rendered state.
func (p *StatusPanel) SetSnapshot(snap repostate.Snapshot) {
	p.branches = snap.Branches
	p.status = snap.Status
	p.stashes = snap.Stashes
	if p.cursor >= len(p.localBranches()) {
		p.cursor = max(0, len(p.localBranches())-1)
	}
}

// MoveUp moves the branch cursor up.
func (p *StatusPanel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the branch cursor down.
func (p *StatusPanel) MoveDown() {
	if p.cursor < len(p.localBranches())-1 {
		p.cursor++
	}
}

// SelectedBranch returns the short name of the branch under the cursor,
// empty when there are no local branches.
func (p *StatusPanel) SelectedBranch() string {
	local := p.localBranches()
	if p.cursor < 0 || p.cursor >= len(local) {
		return ""
	}
	return local[p.cursor].Short
}

// CurrentBranch returns the checked-out branch's short name.
func (p *StatusPanel) CurrentBranch() string {
	for _, b := range p.branches {
		if b.IsCurrent {
			return b.Short
		}
	}
	return ""
}

// OtherBranches returns the local branches except the current one, in
// snapshot order. Merge and rebase dialogs list these as targets.
func (p *StatusPanel) OtherBranches() []string {
	var out []string
	for _, b := range p.localBranches() {
		if !b.IsCurrent {
			out = append(out, b.Short)
		}
	}
	return out
}

func (p *StatusPanel) localBranches() []repostate.Branch {
	var out []repostate.Branch
	for _, b := range p.branches {
		if !b.IsRemote {
			out = append(out, b)
		}
	}
	return out
}

// View renders the panel.
func (p *StatusPanel) View() string {
	title := PanelTitleStyle.Render("Repository")

	var lines []string

	lines = append(lines, PanelTitleStyle.Render("Branches"))
	local := p.localBranches()
	if len(local) == 0 {
		lines = append(lines, ListMutedStyle.Render(" none"))
	}
	for i, b := range local {
		marker := "  "
		if b.IsCurrent {
			marker = "* "
		}
		style := ListItemStyle
		if i == p.cursor && p.focused {
			style = ListSelectedStyle
		}
		lines = append(lines, style.Render(marker+b.Short))
	}

	lines = append(lines, "", PanelTitleStyle.Render("Worktree"))
	lines = append(lines, p.statusLines()...)

	if len(p.stashes) > 0 {
		lines = append(lines, "", PanelTitleStyle.Render("Stashes"))
		for _, s := range p.stashes {
			lines = append(lines, ListItemStyle.Render(fmt.Sprintf("stash@{%d} %s", s.Index, s.Message)))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))

	panel := PanelStyle
	if p.focused {
		panel = PanelFocusedStyle
	}
	return panel.Width(p.width - BorderSize).Height(p.height - BorderSize).Render(content)
}

func (p *StatusPanel) statusLines() []string {
	s := p.status
	if len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0 && len(s.Unmerged) == 0 {
		return []string{ListMutedStyle.Render(" clean")}
	}

	var lines []string
	if n := len(s.Unmerged); n > 0 {
		lines = append(lines, StatusErrorStyle.Render(fmt.Sprintf(" %d unmerged", n)))
	}
	if n := len(s.Staged); n > 0 {
		lines = append(lines, ListItemStyle.Render(fmt.Sprintf("%d staged", n)))
	}
	if n := len(s.Unstaged); n > 0 {
		lines = append(lines, ListItemStyle.Render(fmt.Sprintf("%d unstaged", n)))
	}
	if n := len(s.Untracked); n > 0 {
		lines = append(lines, ListItemStyle.Render(fmt.Sprintf("%d untracked", n)))
	}
	return lines
}
