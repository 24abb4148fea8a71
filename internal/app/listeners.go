package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/regraft/regraft/internal/op"
	"github.com/regraft/regraft/internal/repostate"
)

// SessionMsg carries a session push from the controller subscription
type SessionMsg struct {
	Session op.Session
}

// SnapshotMsg carries a snapshot push from the repostate subscription
type SnapshotMsg struct {
	Snapshot repostate.Snapshot
}

// listenForSession creates a command that waits for the next session push.
// The Update handler re-arms it after every message, the usual pattern for
// turning a channel subscription into a Bubble Tea message stream.
func (m *Model) listenForSession() tea.Cmd {
	ch := m.sessionCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		session, ok := <-ch
		if !ok {
			return nil
		}
		return SessionMsg{Session: session}
	}
}

// listenForSnapshot creates a command that waits for the next repostate push
func (m *Model) listenForSnapshot() tea.Cmd {
	ch := m.snapshotCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snapshot}
	}
}
