package app

import (
	"context"
	"path/filepath"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/regraft/regraft/internal/config"
	"github.com/regraft/regraft/internal/engine"
	"github.com/regraft/regraft/internal/logger"
	"github.com/regraft/regraft/internal/notification"
	"github.com/regraft/regraft/internal/op"
	"github.com/regraft/regraft/internal/repostate"
	"github.com/regraft/regraft/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusHistory Focus = iota
	FocusStatus
)

// Model is the main Bubble Tea model. It routes keys, listens to controller
// and repostate subscriptions, and renders the two panels plus the modal
// stack. It never sequences operations itself; every action is a single
// controller call and the view follows whatever the subscription pushes.
type Model struct {
	config  *config.Config
	version string // App version (injected at build time)

	header  *ui.Header
	footer  *ui.Footer
	modal   *ui.Modal
	history *ui.HistoryPanel
	status  *ui.StatusPanel
	spinner spinner.Model

	width  int
	height int
	focus  Focus

	// Per-repository wiring, rebuilt by openRepo
	repoPath    string
	eng         *engine.CLI
	controller  *op.Controller
	coordinator *repostate.Coordinator
	sessionCh   <-chan op.Session
	snapshotCh  <-chan repostate.Snapshot
	sessionSub  string
	snapshotSub string
	watchCancel context.CancelFunc

	session  op.Session
	snapshot repostate.Snapshot

	flash      string
	flashLevel flashLevel
}

// StartupMsg is sent on app start to open the most recent repository
type StartupMsg struct{}

// New creates a new app model
func New(cfg *config.Config, version string) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}
	ui.RefreshModalStyles()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = ui.BannerRunningStyle

	m := &Model{
		config:  cfg,
		version: version,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		modal:   ui.NewModal(),
		history: ui.NewHistoryPanel(),
		status:  ui.NewStatusPanel(),
		spinner: sp,
		focus:   FocusHistory,
	}
	m.history.SetFocused(true)
	return m
}

// HasRepo returns true once a repository is open.
func (m *Model) HasRepo() bool {
	return m.controller != nil
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return StartupMsg{}
	}
}

// openRepo tears down the previous repository wiring (if any) and builds the
// engine, controller, and repostate coordinator for path. It returns the
// listener commands for the new subscriptions.
func (m *Model) openRepo(path string) (tea.Cmd, error) {
	coord, err := repostate.New(path,
		repostate.WithHistoryLimit(m.config.GetHistoryLimit()))
	if err != nil {
		return nil, err
	}
	m.closeRepo()

	eng := engine.NewCLI(path)
	ctrl := op.New(eng,
		op.WithRefresher(&snapshotRefresher{coord: coord}),
		op.WithNotifier(&notification.Desktop{Enabled: m.config.GetNotificationsEnabled}),
	)

	m.repoPath = path
	m.eng = eng
	m.controller = ctrl
	m.coordinator = coord
	m.session = op.Session{}
	m.snapshot = repostate.Snapshot{}
	m.sessionSub, m.sessionCh = ctrl.Subscribe()
	m.snapshotSub, m.snapshotCh = coord.Subscribe()

	watchCtx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel
	if err := coord.Watch(watchCtx); err != nil {
		logger.Warn("App: repository watcher unavailable for %s: %v", path, err)
	}
	coord.Refresh()

	m.header.SetRepoName(filepath.Base(path))
	m.header.SetBranch("")
	m.history.SetCommits(nil)
	m.status.SetSnapshot(repostate.Snapshot{})

	if m.config.AddRepo(path) {
		if err := m.config.Save(); err != nil {
			logger.Warn("App: could not save recent repos: %v", err)
		}
	}

	logger.Info("App: opened repository %s", path)
	return tea.Batch(m.listenForSession(), m.listenForSnapshot()), nil
}

// closeRepo unsubscribes and stops the watcher for the current repository.
func (m *Model) closeRepo() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	if m.controller != nil {
		m.controller.Unsubscribe(m.sessionSub)
	}
	if m.coordinator != nil {
		m.coordinator.Unsubscribe(m.snapshotSub)
	}
	m.controller = nil
	m.coordinator = nil
	m.eng = nil
	m.sessionCh = nil
	m.snapshotCh = nil
	m.repoPath = ""
}

// snapshotRefresher adapts the repostate coordinator to the controller's
// Refresher. The controller already filters out Paused; the status argument
// only exists so other refreshers could branch on it.
type snapshotRefresher struct {
	coord *repostate.Coordinator
}

func (r *snapshotRefresher) RefreshAfter(kind op.Kind, _ op.Status) {
	r.coord.RefreshAfter(kind)
}

// updateSizes updates component sizes based on terminal dimensions
func (m *Model) updateSizes() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)

	panelHeight := m.height - ui.HeaderHeight - ui.BannerHeight - ui.FooterHeight
	if panelHeight < 0 {
		panelHeight = 0
	}
	historyWidth := m.width * ui.HistoryWidthRatio / ui.WidthRatioDenominator
	m.history.SetSize(historyWidth, panelHeight)
	m.status.SetSize(m.width-historyWidth, panelHeight)
}

// setFocus moves panel focus
func (m *Model) setFocus(focus Focus) {
	m.focus = focus
	m.history.SetFocused(focus == FocusHistory)
	m.status.SetFocused(focus == FocusStatus)
}
