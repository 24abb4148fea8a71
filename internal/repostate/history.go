package repostate

import (
	"io"
	"sort"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// loadCommits walks history from HEAD in committer-time order, newest first,
// up to the configured limit.
func (c *Coordinator) loadCommits() ([]Commit, error) {
	c.gitMu.Lock()
	defer c.gitMu.Unlock()

	head, err := c.repo.Head()
	if err == plumbing.ErrReferenceNotFound {
		// Unborn branch: nothing to show yet.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	iter, err := c.repo.Log(&gitlib.LogOptions{
		From:  head.Hash(),
		Order: gitlib.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	commits := make([]Commit, 0, c.limit)
	for len(commits) < c.limit {
		commit, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		commits = append(commits, newCommit(commit))
	}
	return commits, nil
}

func newCommit(commit *object.Commit) Commit {
	summary := commit.Message
	if i := strings.IndexByte(summary, '\n'); i >= 0 {
		summary = summary[:i]
	}
	summary = strings.TrimRight(summary, "\r")
	if len(summary) > 80 {
		summary = summary[:77] + "..."
	}
	return Commit{
		OID:     commit.Hash.String(),
		Summary: summary,
		Author:  commit.Author.Name,
		When:    commit.Author.When,
	}
}

// loadBranches lists local branches and remote-tracking branches, skipping
// symbolic refs and remote HEAD pointers. Local branches sort first.
func (c *Coordinator) loadBranches() ([]Branch, error) {
	c.gitMu.Lock()
	defer c.gitMu.Unlock()

	var current string
	if head, err := c.repo.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	refs, err := c.repo.References()
	if err != nil {
		return nil, err
	}

	var branches []Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsBranch():
			branches = append(branches, Branch{
				Name:      name.String(),
				Short:     name.Short(),
				IsCurrent: name.Short() == current,
			})
		case name.IsRemote():
			if strings.HasSuffix(name.String(), "/HEAD") {
				return nil
			}
			branches = append(branches, Branch{
				Name:     name.String(),
				Short:    name.Short(),
				IsRemote: true,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(branches, func(i, j int) bool {
		if branches[i].IsRemote != branches[j].IsRemote {
			return !branches[i].IsRemote
		}
		return branches[i].Short < branches[j].Short
	})
	return branches, nil
}
