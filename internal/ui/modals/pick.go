package modals

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/op"
)

// CherryPickState collects an ordered list of commit ids to pick, one per
// line, applied top to bottom.
type CherryPickState struct {
	Textarea textarea.Model
}

func (*CherryPickState) modalState() {}

func (s *CherryPickState) Title() string { return "Cherry-pick" }

func (s *CherryPickState) Help() string {
	return "one commit id per line (Shift+Enter for a new line), Enter to apply, Esc to cancel"
}

func (s *CherryPickState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginBottom(1).
		Render("Commits to apply, in order (first line applies first):")

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, label, s.Textarea.View(), help)
}

func (s *CherryPickState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.Textarea, cmd = s.Textarea.Update(msg)
	return s, cmd
}

// OIDs returns the entered commit ids in order, blanks dropped.
func (s *CherryPickState) OIDs() []string {
	return SplitLines(s.Textarea.Value())
}

// Options builds operation options from the entered commits.
func (s *CherryPickState) Options() op.Options {
	return op.NewCherryPickOptions(s.OIDs()...)
}

// NewCherryPickState creates a cherry-pick dialog, pre-filled with seed when a
// commit was selected in the history pane.
func NewCherryPickState(seed ...string) *CherryPickState {
	ta := textarea.New()
	ta.Placeholder = "abc1234\ndef5678"
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

	return &CherryPickState{Textarea: ta}
}
