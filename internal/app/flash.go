package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/regraft/regraft/internal/ui"
)

// flashLevel selects the style of a transient footer message
type flashLevel int

const (
	flashInfo flashLevel = iota
	flashWarning
	flashError
)

const flashDuration = 3 * time.Second

// FlashTickMsg clears the current flash message when it arrives
type FlashTickMsg struct{}

// showFlash replaces the footer with a transient message and returns the
// auto-dismiss timer command.
func (m *Model) showFlash(text string, level flashLevel) tea.Cmd {
	m.flash = text
	m.flashLevel = level
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return FlashTickMsg{}
	})
}

func (m *Model) showFlashError(text string) tea.Cmd {
	return m.showFlash(text, flashError)
}

func (m *Model) showFlashInfo(text string) tea.Cmd {
	return m.showFlash(text, flashInfo)
}

// renderFlash renders the flash line in the footer slot
func (m *Model) renderFlash() string {
	style := ui.StatusInfoStyle
	switch m.flashLevel {
	case flashWarning:
		style = ui.StatusWarningStyle
	case flashError:
		style = ui.StatusErrorStyle
	}
	return ui.FooterStyle.Width(m.width).Render(style.Render(m.flash))
}
