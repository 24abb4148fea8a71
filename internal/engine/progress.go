package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RebaseProgress re-reads rebase position from the repository's state files.
// The merge backend writes rebase-merge/{msgnum,end,stopped-sha}; the apply
// backend writes rebase-apply/{next,last}. Counts are never assumed: a single
// continue can advance past many steps.
func (c *CLI) RebaseProgress(ctx context.Context) (Progress, error) {
	gitDir, err := c.gitDir(ctx)
	if err != nil {
		return Progress{}, err
	}

	if fileExists(gitDir, "rebase-merge") {
		current, err := readIntFile(gitDir, "rebase-merge", "msgnum")
		if err != nil {
			return Progress{}, err
		}
		total, err := readIntFile(gitDir, "rebase-merge", "end")
		if err != nil {
			return Progress{}, err
		}
		stopped, _ := readTrimmedFile(gitDir, "rebase-merge", "stopped-sha")
		return Progress{Current: current, Total: total, StoppedAt: stopped}, nil
	}

	if fileExists(gitDir, "rebase-apply") {
		current, err := readIntFile(gitDir, "rebase-apply", "next")
		if err != nil {
			return Progress{}, err
		}
		total, err := readIntFile(gitDir, "rebase-apply", "last")
		if err != nil {
			return Progress{}, err
		}
		stopped, _ := readTrimmedFile(gitDir, "rebase-apply", "original-commit")
		return Progress{Current: current, Total: total, StoppedAt: stopped}, nil
	}

	return Progress{}, fmt.Errorf("no rebase in progress")
}

func fileExists(parts ...string) bool {
	_, err := os.Stat(filepath.Join(parts...))
	return err == nil
}

func readTrimmedFile(parts ...string) (string, error) {
	data, err := os.ReadFile(filepath.Join(parts...))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readIntFile(parts ...string) (int, error) {
	s, err := readTrimmedFile(parts...)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", filepath.Join(parts...), err)
	}
	return n, nil
}
