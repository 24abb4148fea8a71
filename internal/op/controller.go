package op

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/regraft/regraft/internal/conflict"
	"github.com/regraft/regraft/internal/engine"
	"github.com/regraft/regraft/internal/errors"
	"github.com/regraft/regraft/internal/logger"
)

const (
	opStart    = errors.Op("op.Start")
	opContinue = errors.Op("op.Continue")
	opSkip     = errors.Op("op.Skip")
	opAbort    = errors.Op("op.Abort")
	opDismiss  = errors.Op("op.Dismiss")
	opResolve  = errors.Op("op.MarkResolved")
)

// Refresher reloads derived repository state (history, branches, status,
// stashes) after an operation changes the repository. Calls are
// fire-and-forget.
type Refresher interface {
	RefreshAfter(kind Kind, status Status)
}

// Notifier surfaces operation milestones outside the main view, typically as
// desktop notifications.
type Notifier interface {
	Notify(kind Kind, status Status, message string)
}

// Controller owns the single operation session for one repository and applies
// every lifecycle transition. All methods are safe for concurrent use.
type Controller struct {
	eng       engine.Engine
	refresher Refresher
	notifier  Notifier

	mu             sync.RWMutex
	session        Session
	generation     uint64
	cancelInFlight context.CancelFunc
	subscribers    map[string]chan Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithRefresher attaches the derived-state refresh coordinator.
func WithRefresher(r Refresher) Option {
	return func(c *Controller) { c.refresher = r }
}

// WithNotifier attaches a completion notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// New creates a controller driving the given engine.
func New(eng engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		eng:         eng,
		subscribers: make(map[string]chan Session),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session returns a copy of the current session. When no operation exists the
// returned session is the zero value with StatusIdle.
func (c *Controller) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.clone()
}

// Generation returns the current generation token.
func (c *Controller) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Subscribe registers a listener for session snapshots. Every state change is
// pushed; a slow reader may miss intermediate snapshots but always receives
// the latest one.
func (c *Controller) Subscribe() (string, <-chan Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := uuid.New().String()
	ch := make(chan Session, 1)
	c.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (c *Controller) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.subscribers[id]; ok {
		delete(c.subscribers, id)
		close(ch)
	}
}

// pushLocked delivers the current session to every subscriber, replacing an
// unread older snapshot rather than blocking. Caller holds mu.
func (c *Controller) pushLocked() {
	snap := c.session.clone()
	for _, ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Start validates the options and begins a new operation. It returns
// synchronously once the session is Running; the engine call proceeds on a
// goroutine and its outcome arrives through the subscription.
func (c *Controller) Start(ctx context.Context, opts Options) error {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := c.refuseBusy(); err != nil {
		return err
	}

	// An operation left behind by another tool (or a crash) also blocks.
	if kind, ok := c.eng.InProgress(ctx); ok {
		return errors.ValidationFailed(opStart, fmt.Sprintf(
			"the repository already has a %s in progress; finish or abort it outside this client first", kind))
	}

	c.mu.Lock()
	if err := c.refuseBusyLocked(); err != nil {
		c.mu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancelInFlight = cancel
	c.generation++
	gen := c.generation
	now := time.Now()
	c.session = Session{
		ID:        uuid.New().String(),
		Kind:      opts.Kind,
		Status:    StatusRunning,
		Target:    opts.Target(),
		Options:   opts.clone(),
		StartedAt: now,
		UpdatedAt: now,
	}
	logger.Info("Controller: starting %s targeting %s (generation %d)", opts.Kind, c.session.Target, gen)
	c.pushLocked()
	c.mu.Unlock()

	go func() {
		defer cancel()
		out := c.dispatchStart(runCtx, opts)
		c.finish(runCtx, gen, opts.Kind, out)
	}()
	return nil
}

// Continue resumes a conflicted or paused operation.
func (c *Controller) Continue(ctx context.Context) error {
	c.mu.Lock()
	if !c.session.Status.Resumable() {
		st := c.session.Status
		c.mu.Unlock()
		return errors.ValidationFailed(opContinue, fmt.Sprintf("nothing to continue: operation is %s", st))
	}
	kind := c.session.Kind
	runCtx, cancel := context.WithCancel(ctx)
	c.cancelInFlight = cancel
	c.generation++
	gen := c.generation
	c.session.Status = StatusResuming
	c.session.UpdatedAt = time.Now()
	logger.Info("Controller: continuing %s (generation %d)", kind, gen)
	c.pushLocked()
	c.mu.Unlock()

	go func() {
		defer cancel()
		out := c.dispatchContinue(runCtx, kind)
		c.finish(runCtx, gen, kind, out)
	}()
	return nil
}

// Skip drops the current step of a conflicted rebase, cherry-pick, or patch
// application and resumes.
func (c *Controller) Skip(ctx context.Context) error {
	c.mu.Lock()
	if c.session.Status != StatusConflicted {
		st := c.session.Status
		c.mu.Unlock()
		return errors.ValidationFailed(opSkip, fmt.Sprintf("nothing to skip: operation is %s", st))
	}
	kind := c.session.Kind
	if kind != KindRebase && kind != KindCherryPick && kind != KindPatchApply {
		c.mu.Unlock()
		return errors.ValidationFailed(opSkip, fmt.Sprintf("%s does not support skipping", kind))
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancelInFlight = cancel
	c.generation++
	gen := c.generation
	c.session.Status = StatusResuming
	c.session.UpdatedAt = time.Now()
	logger.Info("Controller: skipping current %s step (generation %d)", kind, gen)
	c.pushLocked()
	c.mu.Unlock()

	go func() {
		defer cancel()
		out := c.dispatchSkip(runCtx, kind)
		c.finish(runCtx, gen, kind, out)
	}()
	return nil
}

// Abort abandons the operation. The session lands on Aborted before Abort
// returns; the engine-side cleanup runs on its own goroutine and a failed
// cleanup is reported as a warning on the session, never as a rollback. Any
// in-flight continue is invalidated and its outcome discarded.
func (c *Controller) Abort(ctx context.Context) error {
	c.mu.Lock()
	if !c.session.Status.Abortable() {
		st := c.session.Status
		c.mu.Unlock()
		return errors.ValidationFailed(opAbort, fmt.Sprintf("nothing to abort: operation is %s", st))
	}
	kind := c.session.Kind
	if c.cancelInFlight != nil {
		c.cancelInFlight()
		c.cancelInFlight = nil
	}
	c.generation++
	gen := c.generation
	msg := fmt.Sprintf("%s aborted", kind)
	c.session.Status = StatusAborted
	c.session.LastMessage = msg
	c.session.Conflicts = nil
	c.session.Progress = nil
	c.session.UpdatedAt = time.Now()
	logger.Info("Controller: aborting %s (generation %d)", kind, gen)
	c.pushLocked()
	c.mu.Unlock()

	go func() {
		if err := c.dispatchAbort(ctx, kind); err != nil && !engine.IsNoOperation(err) {
			logger.Warn("Controller: %v", errors.AbortFailed(kind.String(), err))
			msg = fmt.Sprintf("%s aborted; cleanup reported an error: %v", kind, err)
			c.mu.Lock()
			if gen == c.generation && c.session.Status == StatusAborted {
				c.session.LastMessage = msg
				c.session.UpdatedAt = time.Now()
				c.pushLocked()
			}
			c.mu.Unlock()
		}
		c.afterTransition(kind, StatusAborted, msg)
	}()
	return nil
}

// Dismiss acknowledges a finished operation and resets the session to Idle.
// It never touches the repository.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Status.Terminal() {
		return errors.ValidationFailed(opDismiss, fmt.Sprintf("no finished operation to dismiss: operation is %s", c.session.Status))
	}
	logger.Debug("Controller: dismissing %s session", c.session.Kind)
	c.session = Session{}
	c.pushLocked()
	return nil
}

// MarkResolved applies a resolution choice for one conflicted path: the
// engine checks out the chosen side (or stages the merged content) and the
// session records the choice. Legal only while Conflicted.
func (c *Controller) MarkResolved(ctx context.Context, path string, r conflict.Resolution) error {
	if r == conflict.ResolutionUnresolved {
		return errors.ValidationFailed(opResolve, "choose ours, theirs, or merged")
	}

	c.mu.RLock()
	if c.session.Status != StatusConflicted {
		st := c.session.Status
		c.mu.RUnlock()
		return errors.ValidationFailed(opResolve, fmt.Sprintf("no conflicts to resolve: operation is %s", st))
	}
	gen := c.generation
	found := false
	for _, f := range c.session.Conflicts {
		if f.Path == path {
			found = true
			break
		}
	}
	c.mu.RUnlock()
	if !found {
		return errors.ValidationFailed(opResolve, fmt.Sprintf("%s is not part of the current conflict set", path))
	}

	if err := c.eng.Resolve(ctx, path, r); err != nil {
		return errors.GitFailed(opResolve, fmt.Sprintf("could not resolve %s as %s", path, r), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.session.Status != StatusConflicted {
		// The operation moved on while the resolution was being staged.
		return nil
	}
	for i := range c.session.Conflicts {
		if c.session.Conflicts[i].Path == path {
			c.session.Conflicts[i].Resolution = r
			break
		}
	}
	c.session.UpdatedAt = time.Now()
	logger.Debug("Controller: resolved %s as %s", path, r)
	c.pushLocked()
	return nil
}

// refuseBusy rejects a start while any session exists: busy when non-terminal,
// undismissed when terminal. Outcome banners are never silently replaced.
func (c *Controller) refuseBusy() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refuseBusyLocked()
}

func (c *Controller) refuseBusyLocked() error {
	switch {
	case c.session.Status == StatusIdle:
		return nil
	case c.session.Status.Terminal():
		return errors.SessionUndismissed(c.session.Kind.String())
	default:
		return errors.SessionBusy(c.session.Kind.String())
	}
}

// finish resolves an engine outcome into a session transition. For a rebase
// that is still stopped, progress is re-read from the repository rather than
// assumed: one continue can advance past several steps.
func (c *Controller) finish(ctx context.Context, gen uint64, kind Kind, out engine.Outcome) {
	status := statusForOutcome(out)

	var progress *engine.Progress
	if kind == KindRebase && (status == StatusConflicted || status == StatusPaused) {
		if p, err := c.eng.RebaseProgress(ctx); err == nil {
			progress = &p
		} else {
			logger.Warn("Controller: rebase progress unavailable: %v", err)
		}
	}

	c.applyOutcome(gen, status, out, progress)
}

// applyOutcome mutates the session for an outcome, unless the generation is
// stale. A stale outcome (e.g. a continue that lost to an abort) is discarded
// without touching the session.
func (c *Controller) applyOutcome(gen uint64, status Status, out engine.Outcome, progress *engine.Progress) {
	c.mu.Lock()
	if gen != c.generation {
		logger.Debug("Controller: discarding stale outcome (generation %d, current %d)", gen, c.generation)
		c.mu.Unlock()
		return
	}
	kind := c.session.Kind
	c.session.Status = status
	c.session.LastMessage = out.Message
	if status == StatusConflicted {
		c.session.Conflicts = append([]conflict.File(nil), out.Conflicts...)
	} else {
		c.session.Conflicts = nil
	}
	c.session.Progress = progress
	c.session.UpdatedAt = time.Now()
	logger.Info("Controller: %s is now %s", kind, status)
	c.pushLocked()
	c.mu.Unlock()

	c.afterTransition(kind, status, out.Message)
}

// afterTransition runs the refresh and notification hooks. Refresh fires for
// the statuses that changed repository data; a Paused edit-stop has not
// touched history yet. Notifications fire for anything the user must act on
// or acknowledge.
func (c *Controller) afterTransition(kind Kind, status Status, message string) {
	if c.refresher != nil {
		switch status {
		case StatusCompleted, StatusConflicted, StatusAborted:
			c.refresher.RefreshAfter(kind, status)
		}
	}
	if c.notifier != nil && (status.Terminal() || status == StatusConflicted) {
		c.notifier.Notify(kind, status, message)
	}
}

// statusForOutcome applies the single outcome interpretation: conflicts win
// over an edit stop, which wins over plain success.
func statusForOutcome(out engine.Outcome) Status {
	switch {
	case len(out.Conflicts) > 0:
		return StatusConflicted
	case out.RequiresEdit:
		return StatusPaused
	case out.Success:
		return StatusCompleted
	default:
		return StatusFailed
	}
}

func (c *Controller) dispatchStart(ctx context.Context, o Options) engine.Outcome {
	switch o.Kind {
	case KindMerge:
		return c.eng.Merge(ctx, o.Merge.params())
	case KindRebase:
		return c.eng.Rebase(ctx, o.Rebase.params())
	case KindCherryPick:
		return c.eng.CherryPick(ctx, o.Pick.params())
	case KindRevert:
		return c.eng.Revert(ctx, o.Revert.params())
	case KindPatchApply:
		return c.eng.ApplyMailbox(ctx, o.Patch.params())
	default:
		return engine.Outcome{Success: false, Message: fmt.Sprintf("unknown operation kind %s", o.Kind)}
	}
}

func (c *Controller) dispatchContinue(ctx context.Context, kind Kind) engine.Outcome {
	switch kind {
	case KindMerge:
		return c.eng.MergeContinue(ctx)
	case KindRebase:
		return c.eng.RebaseContinue(ctx)
	case KindCherryPick:
		return c.eng.CherryPickContinue(ctx)
	case KindRevert:
		return c.eng.RevertContinue(ctx)
	case KindPatchApply:
		return c.eng.MailboxContinue(ctx)
	default:
		return engine.Outcome{Success: false, Message: fmt.Sprintf("cannot continue a %s operation", kind)}
	}
}

func (c *Controller) dispatchSkip(ctx context.Context, kind Kind) engine.Outcome {
	switch kind {
	case KindRebase:
		return c.eng.RebaseSkip(ctx)
	case KindCherryPick:
		return c.eng.CherryPickSkip(ctx)
	case KindPatchApply:
		return c.eng.MailboxSkip(ctx)
	default:
		return engine.Outcome{Success: false, Message: fmt.Sprintf("cannot skip a %s operation", kind)}
	}
}

func (c *Controller) dispatchAbort(ctx context.Context, kind Kind) error {
	switch kind {
	case KindMerge:
		return c.eng.MergeAbort(ctx)
	case KindRebase:
		return c.eng.RebaseAbort(ctx)
	case KindCherryPick:
		return c.eng.CherryPickAbort(ctx)
	case KindRevert:
		return c.eng.RevertAbort(ctx)
	case KindPatchApply:
		return c.eng.MailboxAbort(ctx)
	default:
		return nil
	}
}
