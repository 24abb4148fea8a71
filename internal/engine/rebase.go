package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/regraft/regraft/internal/logger"
)

// Rebase starts a rebase onto the given revision. Interactive rebases accept
// the default todo unless EditCommits marks picks to stop at.
func (c *CLI) Rebase(ctx context.Context, p RebaseParams) Outcome {
	logger.Debug("Engine: rebase onto %s (interactive=%v autostash=%v edits=%d)",
		p.Onto, p.Interactive, p.Autostash, len(p.EditCommits))

	var args []string
	if p.Interactive {
		script, cleanup, err := writeSequenceScript(p.EditCommits)
		if err != nil {
			return Outcome{Success: false, Message: fmt.Sprintf("failed to prepare rebase todo editor: %v", err)}
		}
		defer cleanup()
		args = append(args, "-c", "sequence.editor="+script, "-c", "core.editor=true")
	}
	args = append(args, "rebase")
	if p.Interactive {
		args = append(args, "--interactive")
	}
	if p.Autostash {
		args = append(args, "--autostash")
	}
	args = append(args, p.Onto)

	output, err := c.git(ctx, args...)
	return c.classify(ctx, output, err)
}

// RebaseContinue resumes a stopped rebase.
func (c *CLI) RebaseContinue(ctx context.Context) Outcome {
	logger.Debug("Engine: rebase --continue")
	output, err := c.git(ctx, "-c", "core.editor=true", "rebase", "--continue")
	return c.classify(ctx, output, err)
}

// RebaseSkip drops the commit the rebase stopped at.
func (c *CLI) RebaseSkip(ctx context.Context) Outcome {
	logger.Debug("Engine: rebase --skip")
	output, err := c.git(ctx, "rebase", "--skip")
	return c.classify(ctx, output, err)
}

// RebaseAbort abandons an in-flight rebase.
func (c *CLI) RebaseAbort(ctx context.Context) error {
	logger.Debug("Engine: rebase --abort")
	_, err := c.git(ctx, "rebase", "--abort")
	return err
}

// writeSequenceScript creates a throwaway sequence editor that rewrites
// selected picks to edits and otherwise accepts the todo unchanged. git runs
// it as `<script> <todo-file>`.
func writeSequenceScript(editOIDs []string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "regraft-seq-*.sh")
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if len(editOIDs) == 0 {
		b.WriteString("exit 0\n")
	} else {
		b.WriteString("todo=\"$1\"\ntmp=\"$todo.regraft\"\nsed \\\n")
		for _, oid := range editOIDs {
			prefix := strings.ToLower(oid)
			// The todo abbreviates OIDs; match on a short prefix instead.
			if len(prefix) > 7 {
				prefix = prefix[:7]
			}
			fmt.Fprintf(&b, "  -e 's/^pick \\(%s[0-9a-f]*\\)/edit \\1/' \\\n", prefix)
		}
		b.WriteString("  \"$todo\" > \"$tmp\" && mv \"$tmp\" \"$todo\"\n")
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := os.Chmod(f.Name(), 0755); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}

	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
