package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/regraft/regraft/internal/conflict"
	"github.com/regraft/regraft/internal/logger"
)

// Resolve applies a side choice for one conflicted path and stages it.
// Choosing a side whose version does not exist (delete/modify conflicts)
// resolves to removing the path.
func (c *CLI) Resolve(ctx context.Context, path string, r conflict.Resolution) error {
	logger.Debug("Engine: resolve %s as %s", path, r)

	switch r {
	case conflict.ResolutionOurs, conflict.ResolutionTheirs:
		side := "--ours"
		missing := "does not have our version"
		if r == conflict.ResolutionTheirs {
			side = "--theirs"
			missing = "does not have their version"
		}
		output, err := c.git(ctx, "checkout", side, "--", path)
		if err != nil {
			if !strings.Contains(output, missing) {
				return err
			}
			// The chosen side deleted the file; resolution is removal.
			if _, rmErr := c.git(ctx, "rm", "--force", "--", path); rmErr != nil {
				return rmErr
			}
			return nil
		}
		_, err = c.git(ctx, "add", "--", path)
		return err

	case conflict.ResolutionMerged:
		_, err := c.git(ctx, "add", "--", path)
		return err

	default:
		return fmt.Errorf("cannot apply resolution %q to %s", r, path)
	}
}

// ConflictSides reads both index stages of a conflicted path: stage 2 is our
// side, stage 3 is theirs. A missing stage (delete/modify conflicts) yields
// an empty string for that side.
func (c *CLI) ConflictSides(ctx context.Context, path string) (ours, theirs string, err error) {
	ours, oursErr := c.executor.Output(ctx, c.repoPath, "git", "show", ":2:"+path)
	theirs, theirsErr := c.executor.Output(ctx, c.repoPath, "git", "show", ":3:"+path)
	if oursErr != nil && theirsErr != nil {
		return "", "", &GitError{Args: []string{"show", ":2:" + path}, Err: oursErr}
	}
	if oursErr != nil {
		ours = ""
	}
	if theirsErr != nil {
		theirs = ""
	}
	return ours, theirs, nil
}
