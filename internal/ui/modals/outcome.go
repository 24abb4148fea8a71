package modals

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/op"
)

// OutcomeState shows the terminal state of a finished operation: completed,
// aborted, or failed. Dismissing it returns the controller to idle.
type OutcomeState struct {
	Session op.Session
}

func (*OutcomeState) modalState() {}

func (s *OutcomeState) Title() string {
	switch s.Session.Status {
	case op.StatusCompleted:
		return "Completed"
	case op.StatusAborted:
		return "Aborted"
	default:
		return "Failed"
	}
}

func (s *OutcomeState) Help() string {
	if s.Session.Status == op.StatusFailed {
		return "y: copy message  a: abort (clean up)  Enter/Esc: dismiss"
	}
	return "y: copy message  Enter/Esc: dismiss"
}

func (s *OutcomeState) Render() string {
	titleColor := ColorSuccess
	switch s.Session.Status {
	case op.StatusAborted:
		titleColor = ColorWarning
	case op.StatusFailed:
		titleColor = ColorWarning
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(titleColor).
		Render(s.Title())

	opLabel := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		MarginBottom(1).
		Render(s.Session.Kind.String() + " " + s.Session.Target)

	var message string
	if s.Session.LastMessage != "" {
		message = lipgloss.NewStyle().
			Foreground(ColorText).
			Width(ModalWidth - 4).
			Render(s.Session.LastMessage)
	}

	help := ModalHelpStyle.Render(s.Help())

	sections := []string{title, opLabel}
	if message != "" {
		sections = append(sections, message)
	}
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *OutcomeState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// NewOutcomeState creates the terminal outcome dialog for a finished session.
func NewOutcomeState(session op.Session) *OutcomeState {
	return &OutcomeState{Session: session}
}
