package engine

import (
	"context"

	"github.com/regraft/regraft/internal/logger"
)

// CherryPick applies an ordered sequence of commits onto the current branch.
func (c *CLI) CherryPick(ctx context.Context, p PickParams) Outcome {
	logger.Debug("Engine: cherry-pick %d commit(s)", len(p.OIDs))

	if len(p.OIDs) == 0 {
		return Outcome{Success: false, Message: "cherry-pick requires at least one commit"}
	}
	args := append([]string{"cherry-pick"}, p.OIDs...)
	output, err := c.git(ctx, args...)
	return c.classify(ctx, output, err)
}

// CherryPickContinue resumes a stopped cherry-pick sequence.
func (c *CLI) CherryPickContinue(ctx context.Context) Outcome {
	logger.Debug("Engine: cherry-pick --continue")
	output, err := c.git(ctx, "-c", "core.editor=true", "cherry-pick", "--continue")
	return c.classify(ctx, output, err)
}

// CherryPickSkip drops the commit the sequence stopped at.
func (c *CLI) CherryPickSkip(ctx context.Context) Outcome {
	logger.Debug("Engine: cherry-pick --skip")
	output, err := c.git(ctx, "cherry-pick", "--skip")
	return c.classify(ctx, output, err)
}

// CherryPickAbort abandons an in-flight cherry-pick sequence.
func (c *CLI) CherryPickAbort(ctx context.Context) error {
	logger.Debug("Engine: cherry-pick --abort")
	_, err := c.git(ctx, "cherry-pick", "--abort")
	return err
}

// Revert applies inverse commits for an ordered sequence of OIDs.
func (c *CLI) Revert(ctx context.Context, p RevertParams) Outcome {
	logger.Debug("Engine: revert %d commit(s)", len(p.OIDs))

	if len(p.OIDs) == 0 {
		return Outcome{Success: false, Message: "revert requires at least one commit"}
	}
	args := append([]string{"revert", "--no-edit"}, p.OIDs...)
	output, err := c.git(ctx, args...)
	return c.classify(ctx, output, err)
}

// RevertContinue resumes a stopped revert sequence.
func (c *CLI) RevertContinue(ctx context.Context) Outcome {
	logger.Debug("Engine: revert --continue")
	output, err := c.git(ctx, "-c", "core.editor=true", "revert", "--continue")
	return c.classify(ctx, output, err)
}

// RevertAbort abandons an in-flight revert sequence.
func (c *CLI) RevertAbort(ctx context.Context) error {
	logger.Debug("Engine: revert --abort")
	_, err := c.git(ctx, "revert", "--abort")
	return err
}
