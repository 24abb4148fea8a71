package engine

import (
	"context"

	"github.com/regraft/regraft/internal/logger"
)

// ApplyMailbox applies an ordered list of mailbox patch files with
// three-way fallback, matching the shape of the other sequenced operations.
func (c *CLI) ApplyMailbox(ctx context.Context, p MailboxParams) Outcome {
	logger.Debug("Engine: am %d patch file(s)", len(p.Paths))

	if len(p.Paths) == 0 {
		return Outcome{Success: false, Message: "am requires at least one patch file"}
	}
	args := append([]string{"am", "--3way"}, p.Paths...)
	output, err := c.git(ctx, args...)
	return c.classify(ctx, output, err)
}

// MailboxContinue resumes a stopped am run after resolution.
func (c *CLI) MailboxContinue(ctx context.Context) Outcome {
	logger.Debug("Engine: am --continue")
	output, err := c.git(ctx, "am", "--continue")
	return c.classify(ctx, output, err)
}

// MailboxSkip drops the patch the am run stopped at.
func (c *CLI) MailboxSkip(ctx context.Context) Outcome {
	logger.Debug("Engine: am --skip")
	output, err := c.git(ctx, "am", "--skip")
	return c.classify(ctx, output, err)
}

// MailboxAbort abandons an in-flight am run and restores the original branch.
func (c *CLI) MailboxAbort(ctx context.Context) error {
	logger.Debug("Engine: am --abort")
	_, err := c.git(ctx, "am", "--abort")
	return err
}
