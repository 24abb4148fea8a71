package repostate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/regraft/regraft/internal/debounce"
	"github.com/regraft/regraft/internal/logger"
)

// watchDebounceDelay batches the flurry of .git writes a single git command
// produces into one refresh.
const watchDebounceDelay = 350 * time.Millisecond

// Watch schedules a debounced Refresh whenever the repository's metadata
// changes on disk, until ctx is canceled. External git commands run outside
// this client show up through here.
func (c *Coordinator) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	paths := watchPaths(c.repoPath)
	var errs []error
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(paths) {
		watcher.Close()
		return errors.Join(errs...)
	}
	for _, err := range errs {
		logger.Debug("repostate: watch path skipped: %v", err)
	}

	c.watchMu.Lock()
	d := debounce.Ensure(&c.debounce, watchDebounceDelay, c.Refresh)
	c.watchMu.Unlock()

	go c.watchLoop(ctx, watcher, d)
	return nil
}

func (c *Coordinator) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, d *debounce.Debouncer) {
	defer watcher.Close()
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if ignoreWatchPath(event.Name) {
				continue
			}
			logger.Debug("repostate: fs event %s, scheduling refresh", event)
			d.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("repostate: watcher error: %v", err)
		}
	}
}

// watchPaths picks the directories worth watching. Ref updates land in
// .git/refs/heads or collapse into .git/packed-refs, and HEAD moves rewrite
// .git itself; watching all three catches every history rewrite.
func watchPaths(root string) []string {
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return []string{root}
	}
	return []string{
		gitDir,
		filepath.Join(gitDir, "refs"),
		filepath.Join(gitDir, "refs", "heads"),
	}
}

// ignoreWatchPath filters git's transient lock files, which would otherwise
// double every refresh.
func ignoreWatchPath(path string) bool {
	return filepath.Ext(path) == ".lock"
}
