package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	pexec "github.com/regraft/regraft/internal/exec"
	"github.com/regraft/regraft/internal/logger"
)

// CLI is the production Engine backed by the system git binary.
type CLI struct {
	repoPath string
	executor pexec.CommandExecutor
}

// NewCLI creates an engine for the repository at repoPath, using the
// package-default executor so tests can swap git out process-wide.
func NewCLI(repoPath string) *CLI {
	return &CLI{repoPath: repoPath, executor: pexec.GetExecutor()}
}

// NewCLIWithExecutor creates an engine with a custom executor.
// This is primarily useful for testing.
func NewCLIWithExecutor(repoPath string, executor pexec.CommandExecutor) *CLI {
	return &CLI{repoPath: repoPath, executor: executor}
}

// RepoPath returns the repository working directory this engine drives.
func (c *CLI) RepoPath() string {
	return c.repoPath
}

// git runs a git command and wraps failures in a GitError carrying the
// combined output.
func (c *CLI) git(ctx context.Context, args ...string) (string, error) {
	output, err := c.executor.CombinedOutput(ctx, c.repoPath, "git", args...)
	if err != nil {
		return output, &GitError{Args: args, Output: output, Err: err}
	}
	return output, nil
}

// gitDir resolves the repository's git directory. Worktrees make this
// distinct from repoPath/.git.
func (c *CLI) gitDir(ctx context.Context) (string, error) {
	out, err := c.executor.Output(ctx, c.repoPath, "git", "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Merge starts a merge of the given branch into the current branch.
func (c *CLI) Merge(ctx context.Context, p MergeParams) Outcome {
	logger.Debug("Engine: merge %s (no-ff=%v ff-only=%v squash=%v commit=%v)",
		p.Branch, p.NoFastForward, p.FFOnly, p.Squash, p.CommitImmediately)

	args := []string{"merge"}
	if p.Squash {
		args = append(args, "--squash")
	} else {
		args = append(args, "--no-edit")
		if p.NoFastForward {
			args = append(args, "--no-ff")
		}
		if p.FFOnly {
			args = append(args, "--ff-only")
		}
		if !p.CommitImmediately {
			args = append(args, "--no-commit")
		}
		if p.Message != "" {
			args = append(args, "-m", p.Message)
		}
	}
	args = append(args, p.Branch)

	output, err := c.git(ctx, args...)
	out := c.classify(ctx, output, err)
	if !out.Success || len(out.Conflicts) > 0 {
		return out
	}

	// A squash merge leaves the result staged. Commit it when asked to;
	// without an explicit message git reuses .git/SQUASH_MSG.
	if p.Squash && p.CommitImmediately {
		commitArgs := []string{"-c", "core.editor=true", "commit"}
		if p.Message != "" {
			commitArgs = append(commitArgs, "-m", p.Message)
		} else {
			commitArgs = append(commitArgs, "--no-edit")
		}
		commitOutput, commitErr := c.git(ctx, commitArgs...)
		return c.classify(ctx, commitOutput, commitErr)
	}

	if !p.CommitImmediately {
		out.Message = strings.TrimSpace(out.Message + "\nMerge staged; commit skipped.")
	}
	return out
}

// MergeContinue finishes a conflicted merge after resolution.
func (c *CLI) MergeContinue(ctx context.Context) Outcome {
	logger.Debug("Engine: merge --continue")
	output, err := c.git(ctx, "-c", "core.editor=true", "merge", "--continue")
	return c.classify(ctx, output, err)
}

// MergeAbort abandons an in-flight merge.
func (c *CLI) MergeAbort(ctx context.Context) error {
	logger.Debug("Engine: merge --abort")
	_, err := c.git(ctx, "merge", "--abort")
	return err
}

// InProgress reports an operation already in flight on disk. Detection
// follows git's own state files: rebase-apply/applying distinguishes am from
// a rebase using the apply backend.
func (c *CLI) InProgress(ctx context.Context) (InProgressKind, bool) {
	gitDir, err := c.gitDir(ctx)
	if err != nil {
		return InProgressNone, false
	}
	exists := func(parts ...string) bool {
		_, statErr := os.Stat(filepath.Join(append([]string{gitDir}, parts...)...))
		return statErr == nil
	}
	switch {
	case exists("rebase-apply", "applying"):
		return InProgressMailbox, true
	case exists("rebase-merge"), exists("rebase-apply"):
		return InProgressRebase, true
	case exists("MERGE_HEAD"):
		return InProgressMerge, true
	case exists("CHERRY_PICK_HEAD"):
		return InProgressCherryPick, true
	case exists("REVERT_HEAD"):
		return InProgressRevert, true
	}
	return InProgressNone, false
}
