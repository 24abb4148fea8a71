package engine

import (
	"context"
	"strings"

	"github.com/regraft/regraft/internal/conflict"
	"github.com/regraft/regraft/internal/logger"
)

// conflictSentinels are the fragments git prints when an operation stops on
// conflicts. Matching any of them triggers a status scan.
var conflictSentinels = []string{
	"CONFLICT",
	"Merge conflict in",
	"could not apply",
	"could not revert",
	"Patch failed at",
	"fix conflicts",
	"needs merge",
	"unmerged files",
	"Unmerged paths",
}

func hasConflictSentinel(output string) bool {
	for _, s := range conflictSentinels {
		if strings.Contains(output, s) {
			return true
		}
	}
	return false
}

// classify turns a git invocation's combined output and error into an
// Outcome. It never interprets lifecycle; the controller does.
func (c *CLI) classify(ctx context.Context, output string, err error) Outcome {
	trimmed := strings.TrimSpace(output)

	if err == nil {
		if strings.Contains(output, "Stopped at ") && c.stoppedForEdit(ctx) {
			return Outcome{Success: true, RequiresEdit: true, Message: trimmed}
		}
		return Outcome{Success: true, Message: trimmed}
	}

	if ctx.Err() != nil {
		return Outcome{Success: false, Message: "canceled"}
	}

	if hasConflictSentinel(output) {
		if files := c.scanConflicts(ctx, output); len(files) > 0 {
			return Outcome{Success: false, Message: trimmed, Conflicts: files}
		}
	}

	return Outcome{Success: false, Message: trimmed}
}

// stoppedForEdit confirms an interactive rebase edit stop against the
// repository state, not just the output text.
func (c *CLI) stoppedForEdit(ctx context.Context) bool {
	gitDir, err := c.gitDir(ctx)
	if err != nil {
		return false
	}
	return fileExists(gitDir, "rebase-merge", "stopped-sha")
}

// scanConflicts lists unmerged paths with typed classification. The
// operation's own output refines rename and binary cases.
func (c *CLI) scanConflicts(ctx context.Context, opOutput string) []conflict.File {
	statusOut, err := c.executor.Output(ctx, c.repoPath, "git", "status", "--porcelain=v2")
	if err != nil {
		logger.Warn("Engine: conflict scan failed: %v", err)
		return nil
	}
	files, err := conflict.ParseStatus(strings.NewReader(statusOut))
	if err != nil {
		logger.Warn("Engine: conflict parse failed: %v", err)
		return nil
	}
	files = conflict.UpgradeTypes(files, opOutput)
	files = conflict.DetectBinary(c.repoPath, files)
	return files
}
