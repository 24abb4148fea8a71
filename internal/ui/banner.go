package ui

import (
	"fmt"

	"github.com/regraft/regraft/internal/op"
)

// RenderBanner renders the one-line operation banner between the panels and
// the footer. spinner is the current spinner frame, shown only while an
// engine call is in flight. Empty when no session exists.
func RenderBanner(session op.Session, spinner string, width int) string {
	if session.Status == op.StatusIdle {
		return ""
	}

	label := fmt.Sprintf("%s %s", session.Kind, session.Target)

	var text string
	style := BannerRunningStyle
	switch session.Status {
	case op.StatusRunning:
		text = fmt.Sprintf("%s %s…", spinner, label)
	case op.StatusResuming:
		text = fmt.Sprintf("%s resuming %s…", spinner, label)
	case op.StatusConflicted:
		style = BannerConflictStyle
		text = fmt.Sprintf("%s: conflicts — press enter to resolve", label)
	case op.StatusPaused:
		style = BannerPausedStyle
		text = fmt.Sprintf("%s: paused for amend", label)
		if p := session.Progress; p != nil && p.Total > 0 {
			text = fmt.Sprintf("%s: paused at step %d of %d", label, p.Current, p.Total)
		}
	case op.StatusCompleted:
		style = BannerDoneStyle
		text = fmt.Sprintf("%s: completed", label)
	case op.StatusAborted:
		style = BannerPausedStyle
		text = fmt.Sprintf("%s: aborted", label)
	case op.StatusFailed:
		style = BannerConflictStyle
		text = fmt.Sprintf("%s: failed", label)
	}

	return style.Width(width).Render(" " + text)
}
