package modals

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/op"
)

// RevertState collects an ordered list of commit ids to revert, one per line.
type RevertState struct {
	Textarea textarea.Model
}

func (*RevertState) modalState() {}

func (s *RevertState) Title() string { return "Revert" }

func (s *RevertState) Help() string {
	return "one commit id per line (Shift+Enter for a new line), Enter to revert, Esc to cancel"
}

func (s *RevertState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginBottom(1).
		Render("Commits to revert, in order (first line reverts first):")

	note := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Render("Each revert creates a new commit; history is not rewritten.")

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, label, s.Textarea.View(), note, help)
}

func (s *RevertState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.Textarea, cmd = s.Textarea.Update(msg)
	return s, cmd
}

// OIDs returns the entered commit ids in order, blanks dropped.
func (s *RevertState) OIDs() []string {
	return SplitLines(s.Textarea.Value())
}

// Options builds operation options from the entered commits.
func (s *RevertState) Options() op.Options {
	return op.NewRevertOptions(s.OIDs()...)
}

// NewRevertState creates a revert dialog, pre-filled with seed when a commit
// was selected in the history pane.
func NewRevertState(seed ...string) *RevertState {
	ta := textarea.New()
	ta.Placeholder = "abc1234"
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.SetWidth(ModalInputWidth)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ApplyTextareaStyles(&ta)
	for i, oid := range seed {
		if i > 0 {
			ta.InsertString("\n")
		}
		ta.InsertString(oid)
	}
	ta.Focus()

	return &RevertState{Textarea: ta}
}
