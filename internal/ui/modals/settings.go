package modals

import (
	"slices"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	huh "charm.land/huh/v2"
)

// Option identifiers for the settings MultiSelect
const (
	optionNotifications = "notifications"
	optionMergeNoCommit = "merge-no-commit"
	optionAutostash     = "rebase-autostash"
)

// historyLimitCharLimit bounds the history limit input field.
const historyLimitCharLimit = 5

// SettingsState holds the huh form for global settings: theme, desktop
// notifications, merge and rebase defaults, and the history pane depth.
type SettingsState struct {
	// OriginalTheme allows reverting live theme preview on cancel
	OriginalTheme string

	selectedTheme  string
	enabledOptions []string
	historyLimit   string

	form *huh.Form
}

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Up/Down: navigate  Space: toggle  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetTheme returns the selected theme name.
func (s *SettingsState) GetTheme() string { return s.selectedTheme }

// GetNotificationsEnabled returns whether desktop notifications are on.
func (s *SettingsState) GetNotificationsEnabled() bool {
	return slices.Contains(s.enabledOptions, optionNotifications)
}

// GetMergeNoCommit returns whether merges stop before committing.
func (s *SettingsState) GetMergeNoCommit() bool {
	return slices.Contains(s.enabledOptions, optionMergeNoCommit)
}

// GetRebaseAutostash returns whether rebases stash dirty worktrees first.
func (s *SettingsState) GetRebaseAutostash() bool {
	return slices.Contains(s.enabledOptions, optionAutostash)
}

// GetHistoryLimit returns the entered history limit, or 0 when the field is
// blank or not a number (callers keep the previous value then).
func (s *SettingsState) GetHistoryLimit() int {
	n, err := strconv.Atoi(s.historyLimit)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NewSettingsState creates the settings form from current values. themes and
// themeDisplayNames are parallel slices.
func NewSettingsState(themes []string, themeDisplayNames []string, currentTheme string,
	notificationsEnabled, mergeNoCommit, rebaseAutostash bool, historyLimit int) *SettingsState {

	s := &SettingsState{
		OriginalTheme: currentTheme,
		selectedTheme: currentTheme,
		historyLimit:  strconv.Itoa(historyLimit),
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i := range themes {
		themeOptions[i] = huh.NewOption(themeDisplayNames[i], themes[i])
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Desktop notifications", optionNotifications).
			Selected(notificationsEnabled),
		huh.NewOption("Stop merges before committing", optionMergeNoCommit).
			Selected(mergeNoCommit),
		huh.NewOption("Autostash before rebasing", optionAutostash).
			Selected(rebaseAutostash),
	}
	if notificationsEnabled {
		s.enabledOptions = append(s.enabledOptions, optionNotifications)
	}
	if mergeNoCommit {
		s.enabledOptions = append(s.enabledOptions, optionMergeNoCommit)
	}
	if rebaseAutostash {
		s.enabledOptions = append(s.enabledOptions, optionAutostash)
	}

	group := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(generalOpts...).
			Height(len(generalOpts)).
			Value(&s.enabledOptions),
		huh.NewInput().
			Title("History depth").
			Description("Commits the history pane loads per refresh").
			Placeholder("200").
			CharLimit(historyLimitCharLimit).
			Value(&s.historyLimit),
	)

	s.form = huh.NewForm(group).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 10).
		WithLayout(huh.LayoutStack)

	initHuhForm(s.form)
	return s
}
