// Package repostate maintains a cached snapshot of the repository that the
// interface renders from: recent history, branches, worktree status, and
// stashes. Reloads run off the UI goroutine, one goroutine per section, and
// publish through a subscription channel. A per-section ticket keeps a slow
// older reload from overwriting a newer one.
package repostate

import (
	gitlib "github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/regraft/regraft/internal/debounce"
	"github.com/regraft/regraft/internal/errors"
	"github.com/regraft/regraft/internal/exec"
	"github.com/regraft/regraft/internal/logger"
	"github.com/regraft/regraft/internal/op"

	"sync"
	"time"
)

// Commit is one entry in the history pane.
type Commit struct {
	OID     string
	Summary string
	Author  string
	When    time.Time
}

// Branch is a local or remote-tracking branch.
type Branch struct {
	Name      string // full ref name, refs/heads/main
	Short     string
	IsCurrent bool
	IsRemote  bool
}

// FileChange is one path from porcelain status output.
type FileChange struct {
	Path string
	Code string
}

// WorktreeStatus groups the worktree's changes the way the status pane
// displays them.
type WorktreeStatus struct {
	Staged    []FileChange
	Unstaged  []FileChange
	Untracked []FileChange
	Unmerged  []FileChange
}

// Stash is one entry from the stash list.
type Stash struct {
	Index   int
	Message string
}

// Snapshot is the full cached view. Version increases by one for every
// section apply, so readers can tell refreshes apart.
type Snapshot struct {
	Commits  []Commit
	Branches []Branch
	Status   WorktreeStatus
	Stashes  []Stash
	Version  uint64
}

type section int

const (
	sectionHistory section = iota
	sectionBranches
	sectionStatus
	sectionStashes
	sectionCount
)

func (s section) String() string {
	switch s {
	case sectionHistory:
		return "history"
	case sectionBranches:
		return "branches"
	case sectionStatus:
		return "status"
	case sectionStashes:
		return "stashes"
	default:
		return "unknown"
	}
}

const defaultHistoryLimit = 200

// Coordinator owns the snapshot and schedules reloads.
type Coordinator struct {
	repoPath string
	executor exec.CommandExecutor
	limit    int

	// gitMu serializes go-git reads; Repository is not safe for
	// concurrent use.
	gitMu sync.Mutex
	repo  *gitlib.Repository

	mu          sync.Mutex
	snap        Snapshot
	seq         uint64
	applied     [sectionCount]uint64
	subscribers map[string]chan Snapshot

	watchMu  sync.Mutex
	debounce *debounce.Debouncer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithExecutor swaps the command executor, used by tests.
func WithExecutor(executor exec.CommandExecutor) Option {
	return func(c *Coordinator) { c.executor = executor }
}

// WithHistoryLimit caps how many commits a history reload walks.
func WithHistoryLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.limit = n
		}
	}
}

// New opens the repository at repoPath and returns a coordinator with an
// empty snapshot. Call Refresh or Watch to populate it.
func New(repoPath string, opts ...Option) (*Coordinator, error) {
	repo, err := gitlib.PlainOpenWithOptions(repoPath, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err == gitlib.ErrRepositoryNotExists {
		return nil, errors.GitNotRepo(repoPath)
	}
	if err != nil {
		return nil, errors.GitFailed(errors.Op("repostate.New"), "open repository", err)
	}

	c := &Coordinator{
		repoPath:    repoPath,
		executor:    exec.GetExecutor(),
		limit:       defaultHistoryLimit,
		repo:        repo,
		subscribers: make(map[string]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Current returns the latest snapshot. Section slices are replaced wholesale
// on reload and never mutated in place, so sharing them is safe.
func (c *Coordinator) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers a listener for snapshot updates. The channel holds the
// most recent snapshot; an unread older one is replaced, not queued.
func (c *Coordinator) Subscribe() (string, <-chan Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := uuid.New().String()
	ch := make(chan Snapshot, 1)
	c.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (c *Coordinator) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.subscribers[id]; ok {
		delete(c.subscribers, id)
		close(ch)
	}
}

// pushLocked delivers the current snapshot to every subscriber, replacing an
// unread older snapshot rather than blocking. Caller holds mu.
func (c *Coordinator) pushLocked() {
	snap := c.snap
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

// Refresh reloads every section.
func (c *Coordinator) Refresh() {
	c.reload(sectionHistory, sectionBranches, sectionStatus, sectionStashes)
}

// RefreshAfter reloads the sections a finished operation can have changed.
// Only a rebase touches the stash list, through autostash.
func (c *Coordinator) RefreshAfter(kind op.Kind) {
	sections := []section{sectionHistory, sectionBranches, sectionStatus}
	if kind == op.KindRebase {
		sections = append(sections, sectionStashes)
	}
	c.reload(sections...)
}

// reload stamps the batch with a fresh ticket and reloads each section on its
// own goroutine. Sections apply independently as they complete.
func (c *Coordinator) reload(sections ...section) {
	c.mu.Lock()
	c.seq++
	ticket := c.seq
	c.mu.Unlock()

	for _, s := range sections {
		go c.reloadSection(ticket, s)
	}
}

func (c *Coordinator) reloadSection(ticket uint64, s section) {
	switch s {
	case sectionHistory:
		commits, err := c.loadCommits()
		if err != nil {
			logger.Warn("repostate: history reload failed: %v", err)
			return
		}
		c.applySection(ticket, s, func(snap *Snapshot) { snap.Commits = commits })
	case sectionBranches:
		branches, err := c.loadBranches()
		if err != nil {
			logger.Warn("repostate: branches reload failed: %v", err)
			return
		}
		c.applySection(ticket, s, func(snap *Snapshot) { snap.Branches = branches })
	case sectionStatus:
		status, err := c.loadStatus()
		if err != nil {
			logger.Warn("repostate: status reload failed: %v", err)
			return
		}
		c.applySection(ticket, s, func(snap *Snapshot) { snap.Status = status })
	case sectionStashes:
		stashes, err := c.loadStashes()
		if err != nil {
			logger.Warn("repostate: stash reload failed: %v", err)
			return
		}
		c.applySection(ticket, s, func(snap *Snapshot) { snap.Stashes = stashes })
	}
}

// applySection installs freshly loaded data unless a newer batch already
// wrote this section. A failed load never reaches here, so the previous data
// stays visible.
func (c *Coordinator) applySection(ticket uint64, s section, apply func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket < c.applied[s] {
		logger.Debug("repostate: dropping stale %s reload (ticket %d, applied %d)", s, ticket, c.applied[s])
		return
	}
	c.applied[s] = ticket
	apply(&c.snap)
	c.snap.Version++
	c.pushLocked()
}
