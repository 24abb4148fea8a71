package modals

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/op"
)

// PausedState shows an interactive rebase stopped for amending. The working
// tree holds the commit to edit; continuing resumes the rebase with whatever
// the user committed.
type PausedState struct {
	Session op.Session
	Err     string
}

func (*PausedState) modalState() {}

func (s *PausedState) Title() string { return "Rebase Paused" }

func (s *PausedState) Help() string {
	return "c: continue  a: abort  Esc: close"
}

func (s *PausedState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	var stoppedAt string
	var stepLine string
	if p := s.Session.Progress; p != nil {
		if p.StoppedAt != "" {
			stoppedAt = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true).
				Render("Stopped at " + ShortOID(p.StoppedAt))
		}
		if p.Total > 0 {
			stepLine = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Render(fmt.Sprintf("Step %d of %d", p.Current, p.Total))
		}
	}

	message := lipgloss.NewStyle().
		Foreground(ColorText).
		Width(ModalWidth - 4).
		MarginTop(1).
		Render("Amend the commit in your working tree, then continue. " +
			"Skip drops this commit and moves on.")

	sections := []string{title}
	if stoppedAt != "" {
		sections = append(sections, stoppedAt)
	}
	if stepLine != "" {
		sections = append(sections, stepLine)
	}
	sections = append(sections, message)
	if s.Err != "" {
		sections = append(sections, StatusErrorStyle.Render(s.Err))
	}
	sections = append(sections, ModalHelpStyle.Render(s.Help()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *PausedState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// SetError shows an inline error from a refused continue.
func (s *PausedState) SetError(msg string) { s.Err = msg }

// NewPausedState creates the edit-pause dialog for a stopped rebase.
func NewPausedState(session op.Session) *PausedState {
	return &PausedState{Session: session}
}
