package modals

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/op"
)

// PatchApplyState collects mailbox patch file paths, one per line, applied
// top to bottom.
type PatchApplyState struct {
	Textarea textarea.Model
}

func (*PatchApplyState) modalState() {}

func (s *PatchApplyState) Title() string { return "Apply Patches" }

func (s *PatchApplyState) Help() string {
	return "one file path per line (Shift+Enter for a new line), Enter to apply, Esc to cancel"
}

func (s *PatchApplyState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginBottom(1).
		Render("Mailbox patch files, in order:")

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, label, s.Textarea.View(), help)
}

func (s *PatchApplyState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.Textarea, cmd = s.Textarea.Update(msg)
	return s, cmd
}

// Paths returns the entered file paths in order, blanks dropped.
func (s *PatchApplyState) Paths() []string {
	return SplitLines(s.Textarea.Value())
}

// Options builds operation options from the entered paths.
func (s *PatchApplyState) Options() op.Options {
	return op.NewPatchOptions(s.Paths()...)
}

// NewPatchApplyState creates a patch-apply dialog.
func NewPatchApplyState() *PatchApplyState {
	ta := textarea.New()
	ta.Placeholder = "/path/to/0001-fix.patch"
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.SetWidth(ModalInputWidth)
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ApplyTextareaStyles(&ta)
	ta.Focus()

	return &PatchApplyState{Textarea: ta}
}
