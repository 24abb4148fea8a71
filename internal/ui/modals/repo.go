package modals

import (
	"path/filepath"
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/regraft/regraft/internal/keys"
)

// maxRecentRepos caps how many recent repositories the open dialog lists.
const maxRecentRepos = 8

// OpenRepoState lets the user pick a recently opened repository or type a
// path, with tab completion on the path input.
type OpenRepoState struct {
	Recent      []string
	RecentIndex int
	UseRecent   bool
	Input       textinput.Model

	completer       *PathCompleter
	lastValue       string
	showingOptions  bool
	completionIndex int
}

func (*OpenRepoState) modalState() {}

func (s *OpenRepoState) Title() string { return "Open Repository" }

func (s *OpenRepoState) Help() string {
	if s.showingOptions {
		return "up/down to select, Tab/Enter to confirm, Esc to cancel"
	}
	if len(s.Recent) > 0 {
		return "up/down to switch, Tab to complete path, Enter to open, Esc to cancel"
	}
	return "Tab to complete path, Enter to open, Esc to cancel"
}

func (s *OpenRepoState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	var content string

	if len(s.Recent) > 0 {
		recentLabel := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Render("Recent:")

		var recentList string
		for i, r := range s.Recent {
			style := ListItemStyle
			prefix := "  "
			if s.UseRecent && i == s.RecentIndex {
				style = ListSelectedStyle
				prefix = "> "
			}
			recentList += style.Render(prefix+TruncatePath(r, ModalInputWidth)) + "\n"
		}

		otherLabel := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1).
			Render("Or enter a path:")

		inputStyle := lipgloss.NewStyle()
		if !s.UseRecent {
			inputStyle = inputStyle.BorderLeft(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(ColorPrimary).PaddingLeft(1)
		} else {
			inputStyle = inputStyle.PaddingLeft(2)
		}
		inputView := inputStyle.Render(s.Input.View())

		content = lipgloss.JoinVertical(lipgloss.Left, recentLabel, recentList, otherLabel, inputView)
	} else {
		content = s.Input.View()
	}

	if s.showingOptions {
		completions := s.completer.GetCompletions()
		if len(completions) > 0 {
			optionsLabel := lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				MarginTop(1).
				Render("Completions:")
			content = lipgloss.JoinVertical(lipgloss.Left, content, optionsLabel, s.renderCompletionOptions(completions))
		}
	}

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
}

func (s *OpenRepoState) renderCompletionOptions(completions []string) string {
	maxDisplay := 5
	start := 0
	if s.completionIndex >= maxDisplay {
		start = s.completionIndex - maxDisplay + 1
	}
	end := min(start+maxDisplay, len(completions))

	var lines []string
	for i := start; i < end; i++ {
		c := completions[i]
		display := filepath.Base(c)
		if c[len(c)-1] == '/' {
			display = filepath.Base(c[:len(c)-1]) + "/"
		}

		style := ListItemStyle
		prefix := "  "
		if i == s.completionIndex {
			style = ListSelectedStyle
			prefix = "> "
		}
		lines = append(lines, style.Render(prefix+display))
	}

	if len(completions) > maxDisplay {
		indicator := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("  (" + strconv.Itoa(len(completions)) + " total, scroll with up/down)")
		lines = append(lines, indicator)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *OpenRepoState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		key := keyMsg.String()

		if s.showingOptions {
			completions := s.completer.GetCompletions()
			switch key {
			case keys.Up, "k":
				if s.completionIndex > 0 {
					s.completionIndex--
				}
				return s, nil
			case keys.Down, "j":
				if s.completionIndex < len(completions)-1 {
					s.completionIndex++
				}
				return s, nil
			case keys.Tab, keys.Enter:
				if s.completionIndex < len(completions) {
					selected := completions[s.completionIndex]
					s.Input.SetValue(selected)
					s.Input.CursorEnd()
					s.lastValue = selected
					s.showingOptions = false
					s.completer.Reset()
				}
				return s, nil
			case keys.Escape:
				// Hide options but don't close the modal
				s.showingOptions = false
				s.completer.Reset()
				return s, nil
			default:
				s.showingOptions = false
				s.completer.Reset()
			}
		}

		// Switch between the recent list and the path input
		if !s.showingOptions && len(s.Recent) > 0 {
			switch key {
			case keys.Up, "k":
				if s.UseRecent {
					if s.RecentIndex > 0 {
						s.RecentIndex--
					}
					return s, nil
				}
			case keys.Down, "j":
				if s.UseRecent {
					if s.RecentIndex < len(s.Recent)-1 {
						s.RecentIndex++
					} else {
						s.UseRecent = false
						s.Input.Focus()
					}
					return s, nil
				}
			case keys.Tab:
				if s.UseRecent {
					s.UseRecent = false
					s.Input.Focus()
					return s, nil
				}
			case keys.ShiftTab:
				if !s.UseRecent {
					s.UseRecent = true
					s.Input.Blur()
					return s, nil
				}
			}
		}

		// Tab triggers path completion when typing
		if key == keys.Tab && !s.UseRecent && !s.showingOptions {
			currentValue := s.Input.Value()
			s.completer.GenerateCompletions(currentValue)
			completions := s.completer.GetCompletions()

			switch {
			case len(completions) == 0:
				return s, nil
			case len(completions) == 1:
				s.Input.SetValue(completions[0])
				s.Input.CursorEnd()
				s.lastValue = completions[0]
				s.completer.Reset()
			default:
				common := s.completer.GetCommonPrefix()
				if common != currentValue && common != "" {
					s.Input.SetValue(common)
					s.Input.CursorEnd()
					s.lastValue = common
					s.completer.GenerateCompletions(common)
				}
				if len(s.completer.GetCompletions()) > 1 {
					s.showingOptions = true
					s.completionIndex = 0
				}
			}
			return s, nil
		}
	}

	if !s.UseRecent && !s.showingOptions {
		var cmd tea.Cmd
		s.Input, cmd = s.Input.Update(msg)

		if s.Input.Value() != s.lastValue {
			s.completer.Reset()
			s.showingOptions = false
			s.lastValue = s.Input.Value()
		}

		return s, cmd
	}

	return s, nil
}

// Path returns the repository path to open: the highlighted recent entry or
// the typed path.
func (s *OpenRepoState) Path() string {
	if s.UseRecent && s.RecentIndex < len(s.Recent) {
		return s.Recent[s.RecentIndex]
	}
	return s.Input.Value()
}

// IsShowingOptions reports whether completion options are being displayed.
func (s *OpenRepoState) IsShowingOptions() bool {
	return s.showingOptions
}

// NewOpenRepoState creates the open-repository dialog from the recent repo
// list, most recent first.
func NewOpenRepoState(recent []string) *OpenRepoState {
	ti := textinput.New()
	ti.Placeholder = "/path/to/repo"
	ti.CharLimit = ModalInputCharLimit
	ti.SetWidth(ModalInputWidth)

	if len(recent) > maxRecentRepos {
		recent = recent[:maxRecentRepos]
	}

	state := &OpenRepoState{
		Recent:    recent,
		UseRecent: len(recent) > 0,
		Input:     ti,
		completer: NewPathCompleter(),
	}

	if len(recent) == 0 {
		state.Input.Focus()
	}

	return state
}
