package modals

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/keys"
	"github.com/regraft/regraft/internal/op"
)

// Merge modal focus zones
const (
	mergeFocusBranches = iota
	mergeFocusToggles
	mergeFocusMessage
	mergeFocusCount
)

// Merge toggle rows
const (
	mergeToggleNoFF = iota
	mergeToggleFFOnly
	mergeToggleSquash
	mergeToggleNoCommit
	mergeToggleCount
)

// MergeState collects the target branch and options for a merge.
type MergeState struct {
	Branches      []string
	BranchIndex   int
	Focus         int
	ToggleIndex   int
	NoFF          bool
	FFOnly        bool
	Squash        bool
	NoCommit      bool
	MessageInput  textinput.Model
	CurrentBranch string
}

func (*MergeState) modalState() {}

func (s *MergeState) Title() string { return "Merge" }

func (s *MergeState) Help() string {
	switch s.Focus {
	case mergeFocusToggles:
		return "up/down select, Space to toggle, Tab next, Enter to merge, Esc to cancel"
	case mergeFocusMessage:
		return "Tab next, Enter to merge, Esc to cancel"
	default:
		return "up/down select branch, Tab options, Enter to merge, Esc to cancel"
	}
}

func (s *MergeState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	intoLabel := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("Merge into " + s.CurrentBranch + ":")

	var branchList string
	if len(s.Branches) == 0 {
		branchList = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("No other branches to merge.")
	} else {
		items := make([]string, len(s.Branches))
		for i, b := range s.Branches {
			items[i] = TruncateString(b, ModalInputWidth)
		}
		branchList = RenderSelectableListWithFocus(items, s.BranchIndex, s.Focus == mergeFocusBranches, "* ")
	}

	optionsLabel := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginTop(1).
		Render("Options:")

	toggles := []struct {
		on   bool
		text string
	}{
		{s.NoFF, "No fast-forward (always create a merge commit)"},
		{s.FFOnly, "Fast-forward only (fail instead of merging)"},
		{s.Squash, "Squash (stage as one change)"},
		{s.NoCommit, "Stop before committing"},
	}
	var toggleList string
	for i, t := range toggles {
		style := ListItemStyle
		prefix := "  "
		if s.Focus == mergeFocusToggles && i == s.ToggleIndex {
			style = ListSelectedStyle
			prefix = "> "
		}
		toggleList += style.Render(prefix+Checkbox(t.on)+" "+t.text) + "\n"
	}

	messageLabel := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginTop(1).
		Render("Commit message (optional):")

	messageStyle := lipgloss.NewStyle().PaddingLeft(2)
	if s.Focus == mergeFocusMessage {
		messageStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary).
			PaddingLeft(1)
	}
	messageView := messageStyle.Render(s.MessageInput.View())

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left,
		title, intoLabel, branchList, optionsLabel, toggleList, messageLabel, messageView, help)
}

func (s *MergeState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Tab:
			s.setFocus((s.Focus + 1) % mergeFocusCount)
			return s, nil
		case keys.ShiftTab:
			s.setFocus((s.Focus + mergeFocusCount - 1) % mergeFocusCount)
			return s, nil
		}

		switch s.Focus {
		case mergeFocusBranches:
			switch keyMsg.String() {
			case keys.Up, "k":
				if s.BranchIndex > 0 {
					s.BranchIndex--
				}
			case keys.Down, "j":
				if s.BranchIndex < len(s.Branches)-1 {
					s.BranchIndex++
				}
			}
			return s, nil
		case mergeFocusToggles:
			switch keyMsg.String() {
			case keys.Up, "k":
				if s.ToggleIndex > 0 {
					s.ToggleIndex--
				}
			case keys.Down, "j":
				if s.ToggleIndex < mergeToggleCount-1 {
					s.ToggleIndex++
				}
			case keys.Space:
				s.toggle(s.ToggleIndex)
			}
			return s, nil
		}
	}

	if s.Focus == mergeFocusMessage {
		var cmd tea.Cmd
		s.MessageInput, cmd = s.MessageInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *MergeState) setFocus(focus int) {
	s.Focus = focus
	if focus == mergeFocusMessage {
		s.MessageInput.Focus()
	} else {
		s.MessageInput.Blur()
	}
}

// toggle flips one option and keeps the set consistent: squash clears both
// fast-forward flags, and no-ff excludes ff-only.
func (s *MergeState) toggle(i int) {
	switch i {
	case mergeToggleNoFF:
		s.NoFF = !s.NoFF
		if s.NoFF {
			s.FFOnly = false
			s.Squash = false
		}
	case mergeToggleFFOnly:
		s.FFOnly = !s.FFOnly
		if s.FFOnly {
			s.NoFF = false
			s.Squash = false
		}
	case mergeToggleSquash:
		s.Squash = !s.Squash
		if s.Squash {
			s.NoFF = false
			s.FFOnly = false
		}
	case mergeToggleNoCommit:
		s.NoCommit = !s.NoCommit
	}
}

// SelectedBranch returns the branch to merge, empty when none is available.
func (s *MergeState) SelectedBranch() string {
	if len(s.Branches) == 0 || s.BranchIndex >= len(s.Branches) {
		return ""
	}
	return s.Branches[s.BranchIndex]
}

// Options builds operation options from the dialog's current state.
func (s *MergeState) Options() op.Options {
	opts := op.NewMergeOptions(s.SelectedBranch())
	opts.Merge.NoFastForward = s.NoFF
	opts.Merge.FFOnly = s.FFOnly
	opts.Merge.Squash = s.Squash
	opts.Merge.CommitImmediately = !s.NoCommit
	opts.Merge.Message = s.MessageInput.Value()
	return opts
}

// NewMergeState creates a merge dialog. branches lists the merge candidates
// (the current branch excluded); squash and noCommit defaults come from
// per-repo settings.
func NewMergeState(currentBranch string, branches []string, squashDefault, noCommitDefault bool) *MergeState {
	mi := textinput.New()
	mi.Placeholder = "default merge message"
	mi.CharLimit = ModalInputCharLimit
	mi.SetWidth(ModalInputWidth)

	return &MergeState{
		Branches:      branches,
		CurrentBranch: currentBranch,
		Squash:        squashDefault,
		NoCommit:      noCommitDefault,
		MessageInput:  mi,
	}
}
