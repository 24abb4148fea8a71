package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	v.SetContent(m.renderToString())
	return v
}

// renderToString renders the current frame. Split out of View for tests.
func (m *Model) renderToString() string {
	m.updateFooterContext()

	header := m.header.View()
	footer := m.footer.View()
	if m.flash != "" {
		footer = m.renderFlash()
	}

	var body string
	if m.HasRepo() {
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.history.View(),
			m.status.View(),
		)
	} else {
		body = m.renderWelcome()
	}

	banner := ui.RenderBanner(m.session, m.spinner.View(), m.width)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		banner,
		footer,
	)

	// Overlay modal if visible
	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	return view
}

// renderWelcome fills the panel area before a repository is open.
func (m *Model) renderWelcome() string {
	height := m.height - ui.HeaderHeight - ui.BannerHeight - ui.FooterHeight
	if height < 0 {
		height = 0
	}
	text := lipgloss.JoinVertical(
		lipgloss.Center,
		ui.PanelTitleStyle.Render("regraft "+m.version),
		"",
		ui.ListMutedStyle.Render("No repository open. Press o to open one."),
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, text)
}

// updateFooterContext updates the footer with current context for conditional
// bindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(m.HasRepo(), m.session.Status, m.modal.IsVisible())
}
