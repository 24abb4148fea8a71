package repostate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Worktree status and the stash list come from the git CLI rather than
// go-git: porcelain v2 is stable scripting output, and go-git's Status is
// slow on large worktrees.

func (c *Coordinator) loadStatus() (WorktreeStatus, error) {
	out, err := c.executor.Output(context.Background(), c.repoPath, "git", "status", "--porcelain=v2")
	if err != nil {
		return WorktreeStatus{}, err
	}
	return parseStatus(out), nil
}

// parseStatus reads porcelain v2 records. Line shapes:
//
//	1 XY sub mH mI mW hH hI <path>
//	2 XY sub mH mI mW hH hI Xs <path>\t<origPath>
//	u XY sub m1 m2 m3 mW h1 h2 h3 <path>
//	? <path>
func parseStatus(out string) WorktreeStatus {
	var st WorktreeStatus
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case '1':
			parts := strings.SplitN(line, " ", 9)
			if len(parts) < 9 {
				continue
			}
			appendChanged(&st, parts[1], parts[8])
		case '2':
			parts := strings.SplitN(line, " ", 10)
			if len(parts) < 10 {
				continue
			}
			path := parts[9]
			if i := strings.IndexByte(path, '\t'); i >= 0 {
				path = path[:i]
			}
			appendChanged(&st, parts[1], path)
		case 'u':
			parts := strings.SplitN(line, " ", 11)
			if len(parts) < 11 {
				continue
			}
			st.Unmerged = append(st.Unmerged, FileChange{Path: parts[10], Code: parts[1]})
		case '?':
			if len(line) > 2 {
				st.Untracked = append(st.Untracked, FileChange{Path: line[2:], Code: "?"})
			}
		}
	}
	return st
}

// appendChanged splits an XY pair into the staged and unstaged lists. A dot
// means unmodified on that side.
func appendChanged(st *WorktreeStatus, xy, path string) {
	if len(xy) != 2 {
		return
	}
	if xy[0] != '.' {
		st.Staged = append(st.Staged, FileChange{Path: path, Code: string(xy[0])})
	}
	if xy[1] != '.' {
		st.Unstaged = append(st.Unstaged, FileChange{Path: path, Code: string(xy[1])})
	}
}

// stashSep keeps the ref selector and subject apart even when the subject
// contains spaces or colons.
const stashSep = "\x1f"

func (c *Coordinator) loadStashes() ([]Stash, error) {
	out, err := c.executor.Output(context.Background(), c.repoPath,
		"git", "stash", "list", "--format=%gd"+stashSep+"%gs")
	if err != nil {
		return nil, err
	}
	return parseStashList(out), nil
}

func parseStashList(out string) []Stash {
	var stashes []Stash
	for _, line := range strings.Split(out, "\n") {
		ref, msg, ok := strings.Cut(line, stashSep)
		if !ok {
			continue
		}
		idx, err := parseStashIndex(ref)
		if err != nil {
			continue
		}
		stashes = append(stashes, Stash{Index: idx, Message: msg})
	}
	return stashes
}

// parseStashIndex extracts N from a selector like "stash@{N}".
func parseStashIndex(ref string) (int, error) {
	open := strings.IndexByte(ref, '{')
	end := strings.IndexByte(ref, '}')
	if open < 0 || end <= open {
		return 0, fmt.Errorf("malformed stash selector %q", ref)
	}
	return strconv.Atoi(ref[open+1 : end])
}
