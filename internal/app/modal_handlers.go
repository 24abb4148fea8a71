package app

import (
	"context"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/regraft/regraft/internal/clipboard"
	"github.com/regraft/regraft/internal/conflict"
	"github.com/regraft/regraft/internal/keys"
	"github.com/regraft/regraft/internal/logger"
	"github.com/regraft/regraft/internal/op"
	"github.com/regraft/regraft/internal/ui"
	"github.com/regraft/regraft/internal/ui/modals"
)

// handleModalKey routes a key press while a modal is open. The modal states
// own cursor movement and text entry; the app layer owns every key that calls
// the controller or closes the dialog.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch state := m.modal.State.(type) {
	case *modals.MergeState:
		switch msg.String() {
		case keys.Enter:
			return m.startOperation(state.Options())
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		}

	case *modals.RebaseState:
		switch msg.String() {
		case keys.Enter:
			return m.startOperation(state.Options())
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		}

	case *modals.CherryPickState:
		if next, handled, cmd := m.textareaDialogKey(msg, func() op.Options { return state.Options() }); handled {
			return next, cmd
		}

	case *modals.RevertState:
		if next, handled, cmd := m.textareaDialogKey(msg, func() op.Options { return state.Options() }); handled {
			return next, cmd
		}

	case *modals.PatchApplyState:
		if next, handled, cmd := m.textareaDialogKey(msg, func() op.Options { return state.Options() }); handled {
			return next, cmd
		}

	case *modals.ConflictsState:
		return m.handleConflictsKey(state, msg)

	case *modals.PausedState:
		switch msg.String() {
		case "c":
			if err := m.controller.Continue(context.Background()); err != nil {
				state.SetError(err.Error())
			}
			return m, nil
		case "a":
			if err := m.controller.Abort(context.Background()); err != nil {
				state.SetError(err.Error())
			}
			return m, nil
		case keys.Escape:
			m.modal.Hide()
			return m, nil
		}
		return m, nil

	case *modals.OutcomeState:
		switch msg.String() {
		case keys.Enter, keys.Escape:
			if err := m.controller.Dismiss(); err != nil {
				return m, m.showFlashError(err.Error())
			}
			return m, nil
		case "a":
			if m.session.Status == op.StatusFailed {
				if err := m.controller.Abort(context.Background()); err != nil {
					return m, m.showFlashError(err.Error())
				}
			}
			return m, nil
		}
		return m, nil

	case *modals.SettingsState:
		return m.handleSettingsKey(state, msg)

	case *modals.HelpState:
		if msg.String() == keys.Escape && !state.IsFiltering() {
			m.modal.Hide()
			return m, nil
		}

	case *modals.OpenRepoState:
		switch msg.String() {
		case keys.Enter:
			if state.IsShowingOptions() {
				break // the state consumes Enter to accept a completion
			}
			return m.handleOpenRepoSubmit(state)
		case keys.Escape:
			if !state.IsShowingOptions() {
				m.modal.Hide()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

// textareaDialogKey implements the shared Enter/Escape handling for the
// textarea-backed dialogs (cherry-pick, revert, patch apply). Shift+Enter and
// Alt+Enter insert a newline instead of submitting.
func (m *Model) textareaDialogKey(msg tea.KeyPressMsg, build func() op.Options) (tea.Model, bool, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		next, cmd := m.startOperation(build())
		return next, true, cmd
	case keys.ShiftEnter, keys.AltEnter:
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
		return m, true, cmd
	case keys.Escape:
		m.modal.Hide()
		return m, true, nil
	}
	return m, false, nil
}

// startOperation submits dialog options to the controller. A refusal keeps
// the dialog open with the reason inline; acceptance closes it and the
// session subscription takes over.
func (m *Model) startOperation(opts op.Options) (tea.Model, tea.Cmd) {
	if err := m.controller.Start(context.Background(), opts); err != nil {
		m.modal.SetError(err.Error())
		return m, nil
	}
	m.modal.Hide()
	return m, nil
}

// handleConflictsKey owns the action keys of the conflict dialog.
func (m *Model) handleConflictsKey(state *modals.ConflictsState, msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "o":
		m.resolveSelected(state, conflict.ResolutionOurs)
		return m, nil

	case "t":
		m.resolveSelected(state, conflict.ResolutionTheirs)
		return m, nil

	case "m":
		m.resolveSelected(state, conflict.ResolutionMerged)
		m.warnOnMarkers(state)
		return m, nil

	case "p":
		m.toggleConflictPreview(state)
		return m, nil

	case "c":
		if err := m.controller.Continue(context.Background()); err != nil {
			state.SetError(err.Error())
		}
		return m, nil

	case "s":
		if !state.CanSkip {
			return m, nil
		}
		if err := m.controller.Skip(context.Background()); err != nil {
			state.SetError(err.Error())
		}
		return m, nil

	case "a":
		if err := m.controller.Abort(context.Background()); err != nil {
			state.SetError(err.Error())
		}
		return m, nil

	case "y":
		if file := state.SelectedFile(); file != nil {
			if err := clipboard.WriteText(file.Path); err != nil {
				state.SetError("clipboard unavailable")
			} else {
				return m, m.showFlashInfo("copied " + file.Path)
			}
		}
		return m, nil

	case keys.Escape:
		// The session stays Conflicted; the banner keeps pointing back here
		m.modal.Hide()
		return m, nil
	}

	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

// resolveSelected marks the highlighted conflict with the chosen side. The
// resulting session push redraws the file list.
func (m *Model) resolveSelected(state *modals.ConflictsState, r conflict.Resolution) {
	file := state.SelectedFile()
	if file == nil {
		return
	}
	if err := m.controller.MarkResolved(context.Background(), file.Path, r); err != nil {
		state.SetError(err.Error())
		return
	}
	state.SetError("")
}

// warnOnMarkers flags a merged-marked file that still contains conflict
// markers. The mark stands; the warning is advisory.
func (m *Model) warnOnMarkers(state *modals.ConflictsState) {
	file := state.SelectedFile()
	if file == nil {
		return
	}
	contents, err := os.ReadFile(filepath.Join(m.repoPath, file.Path))
	if err != nil {
		return
	}
	if conflict.ScanMarkers(contents) {
		state.SetMarkerWarning(file.Path + " still contains conflict markers")
	} else {
		state.SetMarkerWarning("")
	}
}

// toggleConflictPreview shows or hides the ours/theirs diff for the selected
// file, fetched from the index stages.
func (m *Model) toggleConflictPreview(state *modals.ConflictsState) {
	if state.ShowPreview {
		state.ShowPreview = false
		return
	}
	file := state.SelectedFile()
	if file == nil {
		return
	}
	ours, theirs, err := m.eng.ConflictSides(context.Background(), file.Path)
	if err != nil {
		state.SetError("no preview: " + err.Error())
		return
	}
	state.SetPreview(modals.BuildConflictPreview(file.Path, ours, theirs))
}

// handleSettingsKey applies or reverts the settings form.
func (m *Model) handleSettingsKey(state *modals.SettingsState, msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		m.applySettings(state)
		m.modal.Hide()
		return m, nil
	case keys.Escape:
		// Undo the live theme preview
		ui.SetThemeByName(state.OriginalTheme)
		ui.RefreshModalStyles()
		m.modal.Hide()
		return m, nil
	}

	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)

	// Live-preview theme selection
	if selected := state.GetTheme(); selected != string(ui.CurrentThemeName()) {
		ui.SetThemeByName(selected)
		ui.RefreshModalStyles()
	}
	return m, cmd
}

// applySettings writes the form values to config and rewires anything that
// depends on them.
func (m *Model) applySettings(state *modals.SettingsState) {
	ui.SetThemeByName(state.GetTheme())
	ui.RefreshModalStyles()

	m.config.SetTheme(state.GetTheme())
	m.config.SetNotificationsEnabled(state.GetNotificationsEnabled())
	m.config.SetMergeNoCommit(state.GetMergeNoCommit())
	m.config.SetRebaseAutostash(state.GetRebaseAutostash())
	if limit := state.GetHistoryLimit(); limit > 0 {
		m.config.SetHistoryLimit(limit)
	}
	if err := m.config.Save(); err != nil {
		logger.Warn("App: could not save settings: %v", err)
	}
}

// handleOpenRepoSubmit opens the path picked in the open-repo dialog.
func (m *Model) handleOpenRepoSubmit(state *modals.OpenRepoState) (tea.Model, tea.Cmd) {
	path := state.Path()
	if path == "" {
		m.modal.SetError("enter a repository path")
		return m, nil
	}
	cmd, err := m.openRepo(expandHome(path))
	if err != nil {
		m.modal.SetError(err.Error())
		return m, nil
	}
	m.modal.Hide()
	return m, cmd
}

// expandHome resolves a leading ~ in a repository path.
func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
