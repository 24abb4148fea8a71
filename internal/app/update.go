package app

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/regraft/regraft/internal/keys"
	"github.com/regraft/regraft/internal/logger"
	"github.com/regraft/regraft/internal/op"
	"github.com/regraft/regraft/internal/ui"
	"github.com/regraft/regraft/internal/ui/modals"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case StartupMsg:
		return m.handleStartup()

	case SessionMsg:
		return m.handleSessionMsg(msg)

	case SnapshotMsg:
		return m.handleSnapshotMsg(msg)

	case spinner.TickMsg:
		if !m.session.Status.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FlashTickMsg:
		m.flash = ""
		return m, nil

	case tea.KeyPressMsg:
		if m.modal.IsVisible() {
			return m.handleModalKey(msg)
		}
		return m.handleGlobalKey(msg)
	}

	// Everything else (cursor blink, form internals) goes to the open modal
	if m.modal.IsVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleStartup reopens the most recently used repository, or asks for one.
func (m *Model) handleStartup() (tea.Model, tea.Cmd) {
	repos := m.config.GetRepos()
	if len(repos) > 0 {
		cmd, err := m.openRepo(repos[0])
		if err == nil {
			return m, cmd
		}
		logger.Warn("App: could not reopen %s: %v", repos[0], err)
	}
	m.modal.Show(modals.NewOpenRepoState(repos))
	return m, nil
}

// handleSessionMsg applies a controller push and re-arms the listener.
func (m *Model) handleSessionMsg(msg SessionMsg) (tea.Model, tea.Cmd) {
	prev := m.session
	m.session = msg.Session

	cmds := []tea.Cmd{m.listenForSession()}
	if m.session.Status.Busy() && !prev.Status.Busy() {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.reactToSession()
	return m, tea.Batch(cmds...)
}

// reactToSession keeps the modal stack in step with the session status. A
// dialog the user is filling in is never clobbered; only the operation-status
// modals follow the lifecycle automatically.
func (m *Model) reactToSession() {
	if !m.statusModalSlotFree() {
		return
	}

	switch m.session.Status {
	case op.StatusConflicted:
		if state, ok := m.modal.State.(*modals.ConflictsState); ok {
			state.SetFiles(m.session.Conflicts)
			return
		}
		m.showConflictsModal()
	case op.StatusPaused:
		if state, ok := m.modal.State.(*modals.PausedState); ok {
			state.Session = m.session
			return
		}
		m.modal.Show(modals.NewPausedState(m.session))
	case op.StatusRunning, op.StatusResuming:
		// The banner spinner covers in-flight calls
		if m.statusModalOpen() {
			m.modal.Hide()
		}
	case op.StatusCompleted, op.StatusAborted, op.StatusFailed:
		m.modal.Show(modals.NewOutcomeState(m.session))
	case op.StatusIdle:
		// Dismissed: drop whichever status modal was up
		if m.statusModalOpen() {
			m.modal.Hide()
		}
	}
}

// statusModalSlotFree reports whether the modal slot may be replaced by an
// operation-status modal: it is free when empty or already showing one.
func (m *Model) statusModalSlotFree() bool {
	return !m.modal.IsVisible() || m.statusModalOpen()
}

// statusModalOpen reports whether a lifecycle modal (conflicts, paused,
// outcome) is currently showing.
func (m *Model) statusModalOpen() bool {
	switch m.modal.State.(type) {
	case *modals.ConflictsState, *modals.PausedState, *modals.OutcomeState:
		return true
	}
	return false
}

// showConflictsModal opens the conflict resolution dialog for the current
// session.
func (m *Model) showConflictsModal() {
	kind := m.session.Kind
	canSkip := kind == op.KindRebase || kind == op.KindCherryPick || kind == op.KindPatchApply
	m.modal.Show(modals.NewConflictsState(kind.String(), m.session.Conflicts, canSkip))
}

// handleSnapshotMsg applies a repostate push and re-arms the listener.
func (m *Model) handleSnapshotMsg(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	m.snapshot = msg.Snapshot
	m.history.SetCommits(msg.Snapshot.Commits)
	m.status.SetSnapshot(msg.Snapshot)
	m.header.SetBranch(m.status.CurrentBranch())
	return m, m.listenForSnapshot()
}

// handleGlobalKey routes keys when no modal is capturing input.
func (m *Model) handleGlobalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keys.CtrlC:
		m.closeRepo()
		return m, tea.Quit

	case keys.Tab:
		if m.focus == FocusHistory {
			m.setFocus(FocusStatus)
		} else {
			m.setFocus(FocusHistory)
		}
		return m, nil

	case keys.Up, "k":
		if m.focus == FocusHistory {
			m.history.MoveUp()
		} else {
			m.status.MoveUp()
		}
		return m, nil

	case keys.Down, "j":
		if m.focus == FocusHistory {
			m.history.MoveDown()
		} else {
			m.status.MoveDown()
		}
		return m, nil

	case keys.PgUp:
		if m.focus == FocusHistory {
			m.history.PageUp()
		}
		return m, nil

	case keys.PgDown:
		if m.focus == FocusHistory {
			m.history.PageDown()
		}
		return m, nil

	case "r":
		if m.coordinator != nil {
			m.coordinator.Refresh()
			return m, m.showFlashInfo("refreshing…")
		}
		return m, nil

	case "o":
		m.modal.Show(modals.NewOpenRepoState(m.config.GetRepos()))
		return m, nil

	case ",":
		m.modal.Show(m.newSettingsState())
		return m, nil

	case "?":
		m.modal.Show(modals.NewHelpState(helpSections()))
		return m, nil

	case keys.Enter:
		return m.handleEnterOnSession()

	case "c":
		if m.controller != nil && m.session.Status.Resumable() {
			return m.controllerCall(func() error { return m.controller.Continue(context.Background()) })
		}
		return m, nil

	case "s":
		if m.controller != nil && m.session.Status == op.StatusConflicted {
			return m.controllerCall(func() error { return m.controller.Skip(context.Background()) })
		}
		return m, nil

	case "a":
		if m.controller != nil && m.session.Status.Abortable() {
			return m.controllerCall(func() error { return m.controller.Abort(context.Background()) })
		}
		return m, nil

	case "m":
		return m.openOperationDialog(func() modals.ModalState {
			return modals.NewMergeState(
				m.status.CurrentBranch(),
				m.status.OtherBranches(),
				m.config.GetSquashOnMerge(m.repoPath),
				m.config.GetMergeNoCommit(),
			)
		})

	case "b":
		return m.openOperationDialog(func() modals.ModalState {
			return modals.NewRebaseState(
				m.status.CurrentBranch(),
				m.status.OtherBranches(),
				m.config.GetRebaseAutostash(),
			)
		})

	case "p":
		return m.openOperationDialog(func() modals.ModalState {
			if oid := m.history.SelectedOID(); oid != "" {
				return modals.NewCherryPickState(oid)
			}
			return modals.NewCherryPickState()
		})

	case "v":
		return m.openOperationDialog(func() modals.ModalState {
			if oid := m.history.SelectedOID(); oid != "" {
				return modals.NewRevertState(oid)
			}
			return modals.NewRevertState()
		})

	case "A":
		return m.openOperationDialog(func() modals.ModalState {
			return modals.NewPatchApplyState()
		})
	}

	return m, nil
}

// handleEnterOnSession maps Enter outside a modal onto the session lifecycle:
// reopen the conflict or pause dialog, or dismiss a finished operation.
func (m *Model) handleEnterOnSession() (tea.Model, tea.Cmd) {
	switch m.session.Status {
	case op.StatusConflicted:
		m.showConflictsModal()
	case op.StatusPaused:
		m.modal.Show(modals.NewPausedState(m.session))
	case op.StatusCompleted, op.StatusAborted, op.StatusFailed:
		if m.controller != nil {
			return m.controllerCall(func() error { return m.controller.Dismiss() })
		}
	}
	return m, nil
}

// openOperationDialog shows a new-operation dialog if the session allows one.
func (m *Model) openOperationDialog(build func() modals.ModalState) (tea.Model, tea.Cmd) {
	if m.controller == nil {
		return m, m.showFlashError("open a repository first (o)")
	}
	if m.session.Status != op.StatusIdle {
		return m, m.showFlashError("finish or dismiss the current operation first")
	}
	m.modal.Show(build())
	return m, nil
}

// controllerCall runs a controller method and surfaces a refusal as a flash.
func (m *Model) controllerCall(call func() error) (tea.Model, tea.Cmd) {
	if err := call(); err != nil {
		return m, m.showFlashError(err.Error())
	}
	return m, nil
}

// newSettingsState builds the settings form from config and theme state.
func (m *Model) newSettingsState() *modals.SettingsState {
	names := ui.ThemeNames()
	themes := make([]string, len(names))
	displayNames := make([]string, len(names))
	for i, name := range names {
		themes[i] = string(name)
		displayNames[i] = ui.GetTheme(name).Name
	}
	return modals.NewSettingsState(
		themes, displayNames, string(ui.CurrentThemeName()),
		m.config.GetNotificationsEnabled(),
		m.config.GetMergeNoCommit(),
		m.config.GetRebaseAutostash(),
		m.config.GetHistoryLimit(),
	)
}

// helpSections lists the keyboard shortcuts shown by the help modal.
func helpSections() []modals.HelpSection {
	return []modals.HelpSection{
		{
			Title: "Operations",
			Shortcuts: []modals.HelpShortcut{
				{Key: "m", Desc: "Merge a branch into the current branch"},
				{Key: "b", Desc: "Rebase onto a branch or commit"},
				{Key: "p", Desc: "Cherry-pick commits"},
				{Key: "v", Desc: "Revert commits"},
				{Key: "A", Desc: "Apply mailbox patches"},
			},
		},
		{
			Title: "While an operation runs",
			Shortcuts: []modals.HelpShortcut{
				{Key: "enter", Desc: "Open conflicts / dismiss outcome"},
				{Key: "c", Desc: "Continue a stopped operation"},
				{Key: "s", Desc: "Skip the conflicted step (rebase, cherry-pick, patches)"},
				{Key: "a", Desc: "Abort the operation"},
			},
		},
		{
			Title: "Conflict dialog",
			Shortcuts: []modals.HelpShortcut{
				{Key: "o", Desc: "Take our side for the selected file"},
				{Key: "t", Desc: "Take their side for the selected file"},
				{Key: "m", Desc: "Mark the selected file manually merged"},
				{Key: "p", Desc: "Toggle the ours/theirs diff preview"},
				{Key: "y", Desc: "Copy the selected file path"},
			},
		},
		{
			Title: "Navigation",
			Shortcuts: []modals.HelpShortcut{
				{Key: "tab", Desc: "Switch between history and status panels"},
				{Key: "j/k", Desc: "Move selection"},
				{Key: "pgup/pgdn", Desc: "Page through history"},
			},
		},
		{
			Title: "General",
			Shortcuts: []modals.HelpShortcut{
				{Key: "o", Desc: "Open a repository"},
				{Key: "r", Desc: "Refresh repository state"},
				{Key: ",", Desc: "Settings"},
				{Key: "?", Desc: "This help"},
				{Key: "q", Desc: "Quit"},
			},
		},
	}
}
