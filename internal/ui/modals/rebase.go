package modals

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/keys"
	"github.com/regraft/regraft/internal/op"
)

// Rebase modal focus zones
const (
	rebaseFocusBranches = iota
	rebaseFocusCommit
	rebaseFocusToggles
	rebaseFocusCount
)

// Rebase toggle rows
const (
	rebaseToggleInteractive = iota
	rebaseToggleAutostash
	rebaseToggleCount
)

// RebaseState collects the rebase target: either a branch from the list or a
// typed commit id, never both. Typing into the commit field clears the branch
// selection and selecting a branch clears the commit field.
type RebaseState struct {
	Branches      []string
	BranchIndex   int
	BranchChosen  bool
	Focus         int
	ToggleIndex   int
	Interactive   bool
	Autostash     bool
	CommitInput   textinput.Model
	CurrentBranch string
}

func (*RebaseState) modalState() {}

func (s *RebaseState) Title() string { return "Rebase" }

func (s *RebaseState) Help() string {
	switch s.Focus {
	case rebaseFocusCommit:
		return "Tab next, Enter to rebase, Esc to cancel"
	case rebaseFocusToggles:
		return "up/down select, Space to toggle, Tab next, Enter to rebase, Esc to cancel"
	default:
		return "up/down select branch, Tab commit id, Enter to rebase, Esc to cancel"
	}
}

func (s *RebaseState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	ontoLabel := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("Rebase " + s.CurrentBranch + " onto:")

	var branchList string
	if len(s.Branches) == 0 {
		branchList = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("No other branches.")
	} else {
		items := make([]string, len(s.Branches))
		for i, b := range s.Branches {
			items[i] = TruncateString(b, ModalInputWidth)
		}
		selected := -1
		if s.BranchChosen {
			selected = s.BranchIndex
		}
		branchList = RenderSelectableListWithFocus(items, selected, s.Focus == rebaseFocusBranches, "* ")
	}

	commitLabel := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginTop(1).
		Render("Or a commit id:")

	commitStyle := lipgloss.NewStyle().PaddingLeft(2)
	if s.Focus == rebaseFocusCommit {
		commitStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary).
			PaddingLeft(1)
	}
	commitView := commitStyle.Render(s.CommitInput.View())

	toggles := []struct {
		on   bool
		text string
	}{
		{s.Interactive, "Interactive (pick/edit each step)"},
		{s.Autostash, "Autostash local changes"},
	}
	var toggleList string
	for i, t := range toggles {
		style := ListItemStyle
		prefix := "  "
		if s.Focus == rebaseFocusToggles && i == s.ToggleIndex {
			style = ListSelectedStyle
			prefix = "> "
		}
		toggleList += style.Render(prefix+Checkbox(t.on)+" "+t.text) + "\n"
	}

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left,
		title, ontoLabel, branchList, commitLabel, commitView, lipgloss.NewStyle().MarginTop(1).Render(toggleList), help)
}

func (s *RebaseState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Tab:
			s.setFocus((s.Focus + 1) % rebaseFocusCount)
			return s, nil
		case keys.ShiftTab:
			s.setFocus((s.Focus + rebaseFocusCount - 1) % rebaseFocusCount)
			return s, nil
		}

		switch s.Focus {
		case rebaseFocusBranches:
			switch keyMsg.String() {
			case keys.Up, "k":
				s.BranchChosen = len(s.Branches) > 0
				s.CommitInput.SetValue("")
				if s.BranchIndex > 0 {
					s.BranchIndex--
				}
			case keys.Down, "j":
				s.BranchChosen = len(s.Branches) > 0
				s.CommitInput.SetValue("")
				if s.BranchIndex < len(s.Branches)-1 {
					s.BranchIndex++
				}
			}
			return s, nil
		case rebaseFocusToggles:
			switch keyMsg.String() {
			case keys.Up, "k":
				if s.ToggleIndex > 0 {
					s.ToggleIndex--
				}
			case keys.Down, "j":
				if s.ToggleIndex < rebaseToggleCount-1 {
					s.ToggleIndex++
				}
			case keys.Space:
				switch s.ToggleIndex {
				case rebaseToggleInteractive:
					s.Interactive = !s.Interactive
				case rebaseToggleAutostash:
					s.Autostash = !s.Autostash
				}
			}
			return s, nil
		}
	}

	if s.Focus == rebaseFocusCommit {
		var cmd tea.Cmd
		s.CommitInput, cmd = s.CommitInput.Update(msg)
		if s.CommitInput.Value() != "" {
			s.BranchChosen = false
		}
		return s, cmd
	}
	return s, nil
}

func (s *RebaseState) setFocus(focus int) {
	s.Focus = focus
	if focus == rebaseFocusCommit {
		s.CommitInput.Focus()
	} else {
		s.CommitInput.Blur()
	}
}

// Options builds operation options from the dialog's current state. Validation
// of the one-of-branch-or-commit rule happens at start, not here.
func (s *RebaseState) Options() op.Options {
	var opts op.Options
	if s.BranchChosen && s.BranchIndex < len(s.Branches) {
		opts = op.NewRebaseOptions(s.Branches[s.BranchIndex])
	} else {
		opts = op.NewRebaseOntoCommit(s.CommitInput.Value())
	}
	opts.Rebase.Interactive = s.Interactive
	opts.Rebase.Autostash = s.Autostash
	return opts
}

// NewRebaseState creates a rebase dialog. autostashDefault comes from per-repo
// settings.
func NewRebaseState(currentBranch string, branches []string, autostashDefault bool) *RebaseState {
	ci := textinput.New()
	ci.Placeholder = "commit id"
	ci.CharLimit = ModalInputCharLimit
	ci.SetWidth(ModalInputWidth)

	return &RebaseState{
		Branches:      branches,
		CurrentBranch: currentBranch,
		Autostash:     autostashDefault,
		CommitInput:   ci,
	}
}
