// Package op owns the lifecycle of history-rewriting operations.
//
// # Overview
//
// A Controller holds at most one operation session per repository: a merge,
// rebase, cherry-pick, revert, or patch application in flight. Dialogs start
// operations through the Controller and render whatever session snapshots the
// Controller pushes; they never talk to git themselves and never sequence
// transitions on their own.
//
// # State Machine
//
// Sessions move through a fixed set of statuses:
//
//	Idle → Running → Completed | Conflicted | Paused | Failed
//	Conflicted | Paused → Resuming → Completed | Conflicted | Paused | Failed
//	Running | Conflicted | Paused | Resuming | Failed → Aborted
//	Completed | Failed | Aborted → Idle (dismiss)
//
// Completed, Aborted, and Failed are terminal: the session stays visible so
// the user can read the outcome, then Dismiss resets it to Idle. Abort is
// unconditional — the session lands on Aborted even when the engine-side
// cleanup fails; that failure is recorded as a warning on the session, never
// as a rollback.
//
// # Generations
//
// Engine calls run on goroutines, so a late outcome can arrive after the user
// has already aborted. Every accepted Start/Continue/Skip/Abort increments the
// controller's generation and stamps it onto the in-flight call; an outcome
// carrying a stale generation is discarded without touching the session.
//
// # Subscriptions
//
// Subscribe returns a channel that receives a session snapshot on every state
// change. Sends are latest-wins with a buffer of one: a slow reader may miss
// intermediate snapshots but always receives the final state of a transition.
package op
