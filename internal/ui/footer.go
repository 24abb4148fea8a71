package ui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/op"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width     int
	bindings  []KeyBinding
	hasRepo   bool      // Whether a repository is open
	opStatus  op.Status // Lifecycle state of the current operation
	modalOpen bool      // Whether a modal is capturing input
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "m", Desc: "merge"},
			{Key: "b", Desc: "rebase"},
			{Key: "p", Desc: "cherry-pick"},
			{Key: "v", Desc: "revert"},
			{Key: "A", Desc: "apply patches"},
			{Key: "o", Desc: "open repo"},
			{Key: "r", Desc: "refresh"},
			{Key: ",", Desc: "settings"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasRepo bool, opStatus op.Status, modalOpen bool) {
	f.hasRepo = hasRepo
	f.opStatus = opStatus
	f.modalOpen = modalOpen
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// View renders the footer
func (f *Footer) View() string {
	bindings := f.contextBindings()

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}

// contextBindings picks what to show for the current state. A modal owns its
// own help line, so the footer falls back to the universal keys then.
func (f *Footer) contextBindings() []KeyBinding {
	if f.modalOpen {
		return []KeyBinding{
			{Key: "enter", Desc: "confirm"},
			{Key: "esc", Desc: "cancel"},
		}
	}

	if !f.hasRepo {
		return []KeyBinding{
			{Key: "o", Desc: "open repo"},
			{Key: ",", Desc: "settings"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
	}

	switch {
	case f.opStatus.Busy():
		return []KeyBinding{
			{Key: "a", Desc: "abort"},
			{Key: "q", Desc: "quit"},
		}
	case f.opStatus == op.StatusConflicted:
		return []KeyBinding{
			{Key: "enter", Desc: "resolve conflicts"},
			{Key: "c", Desc: "continue"},
			{Key: "a", Desc: "abort"},
			{Key: "q", Desc: "quit"},
		}
	case f.opStatus == op.StatusPaused:
		return []KeyBinding{
			{Key: "c", Desc: "continue"},
			{Key: "a", Desc: "abort"},
			{Key: "q", Desc: "quit"},
		}
	case f.opStatus.Terminal():
		return []KeyBinding{
			{Key: "enter", Desc: "dismiss"},
			{Key: "q", Desc: "quit"},
		}
	default:
		return f.bindings
	}
}
