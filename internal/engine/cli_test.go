package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regraft/regraft/internal/conflict"
	pexec "github.com/regraft/regraft/internal/exec"
)

var ctx = context.Background()

func TestMerge_ArgvMapping(t *testing.T) {
	tests := []struct {
		name     string
		params   MergeParams
		wantArgs []string
	}{
		{
			name:     "plain merge commits immediately",
			params:   MergeParams{Branch: "feature", CommitImmediately: true},
			wantArgs: []string{"merge", "--no-edit", "feature"},
		},
		{
			name:     "no fast forward",
			params:   MergeParams{Branch: "feature", NoFastForward: true, CommitImmediately: true},
			wantArgs: []string{"merge", "--no-edit", "--no-ff", "feature"},
		},
		{
			name:     "no commit",
			params:   MergeParams{Branch: "feature", CommitImmediately: false},
			wantArgs: []string{"merge", "--no-edit", "--no-commit", "feature"},
		},
		{
			name:     "fast forward only",
			params:   MergeParams{Branch: "feature", FFOnly: true, CommitImmediately: true},
			wantArgs: []string{"merge", "--no-edit", "--ff-only", "feature"},
		},
		{
			name:     "custom message",
			params:   MergeParams{Branch: "feature", CommitImmediately: true, Message: "merge feature work"},
			wantArgs: []string{"merge", "--no-edit", "-m", "merge feature work", "feature"},
		},
		{
			name:     "squash drops no-ff and no-edit",
			params:   MergeParams{Branch: "feature", Squash: true, CommitImmediately: false},
			wantArgs: []string{"merge", "--squash", "feature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := pexec.NewMockExecutor(nil)
			cli := NewCLIWithExecutor(t.TempDir(), mock)

			out := cli.Merge(ctx, tt.params)
			if !out.Success {
				t.Fatalf("Merge() success = false, message: %s", out.Message)
			}

			calls := mock.CallsMatching("git", "merge")
			if len(calls) != 1 {
				t.Fatalf("expected 1 merge call, got %d", len(calls))
			}
			got := strings.Join(calls[0].Args, " ")
			want := strings.Join(tt.wantArgs, " ")
			if got != want {
				t.Errorf("merge args = %q, want %q", got, want)
			}
		})
	}
}

func TestNewCLI_UsesPackageDefaultExecutor(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	prev := pexec.SetExecutor(mock)
	defer pexec.SetExecutor(prev)

	cli := NewCLI(t.TempDir())
	out := cli.Merge(ctx, MergeParams{Branch: "feature", CommitImmediately: true})
	if !out.Success {
		t.Fatalf("Merge() success = false, message: %s", out.Message)
	}
	if calls := mock.CallsMatching("git", "merge"); len(calls) != 1 {
		t.Errorf("merge calls through the default executor = %d, want 1", len(calls))
	}
}

func TestMerge_SquashCommitsWhenAsked(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"merge", "--squash"}, pexec.MockResponse{
		Stdout: []byte("Squash commit -- not updating HEAD\nAutomatic merge went well; stopped before committing as requested\n"),
	})
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Merge(ctx, MergeParams{Branch: "feature", Squash: true, CommitImmediately: true})
	if !out.Success {
		t.Fatalf("Merge() success = false, message: %s", out.Message)
	}

	commits := mock.CallsMatching("git", "-c", "core.editor=true", "commit", "--no-edit")
	if len(commits) != 1 {
		t.Errorf("expected follow-up commit after squash, got %d calls", len(commits))
	}
}

func TestMerge_SquashCommitCarriesMessage(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"merge", "--squash"}, pexec.MockResponse{
		Stdout: []byte("Squash commit -- not updating HEAD\nAutomatic merge went well; stopped before committing as requested\n"),
	})
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Merge(ctx, MergeParams{
		Branch:            "feature",
		Squash:            true,
		CommitImmediately: true,
		Message:           "squash feature work",
	})
	if !out.Success {
		t.Fatalf("Merge() success = false, message: %s", out.Message)
	}

	commits := mock.CallsMatching("git", "-c", "core.editor=true", "commit", "-m", "squash feature work")
	if len(commits) != 1 {
		t.Fatalf("expected squash commit with the given message, got %d calls", len(commits))
	}
	if noEdit := mock.CallsMatching("git", "-c", "core.editor=true", "commit", "--no-edit"); len(noEdit) != 0 {
		t.Errorf("a provided message must not fall back to SQUASH_MSG, got %d --no-edit commits", len(noEdit))
	}
}

func TestMerge_NoCommitReportsStagedMerge(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"merge"}, pexec.MockResponse{
		Stdout: []byte("Automatic merge went well; stopped before committing as requested\n"),
	})
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Merge(ctx, MergeParams{Branch: "feature", CommitImmediately: false})
	if !out.Success {
		t.Fatal("a clean no-commit merge should succeed")
	}
	if !strings.Contains(out.Message, "commit skipped") {
		t.Errorf("message should note the skipped commit, got %q", out.Message)
	}
}

func TestMerge_ConflictProducesTypedFiles(t *testing.T) {
	mergeOutput := strings.Join([]string{
		"Auto-merging app.go",
		"CONFLICT (content): Merge conflict in app.go",
		"CONFLICT (modify/delete): gone.go deleted in feature and modified in HEAD.",
		"Automatic merge failed; fix conflicts and then commit the result.",
	}, "\n")
	statusOutput := strings.Join([]string{
		"u UU N... 100644 100644 100644 100644 a b c app.go",
		"u UD N... 100644 100644 100644 100644 a b c gone.go",
		"",
	}, "\n")

	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"merge"}, pexec.MockResponse{
		Stdout: []byte(mergeOutput),
		Err:    errors.New("exit status 1"),
	})
	mock.AddPrefixMatch("git", []string{"status", "--porcelain=v2"}, pexec.MockResponse{
		Stdout: []byte(statusOutput),
	})
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Merge(ctx, MergeParams{Branch: "feature", CommitImmediately: true})

	if out.Success {
		t.Error("conflicted merge should not report success")
	}
	if len(out.Conflicts) != 2 {
		t.Fatalf("Conflicts len = %d, want 2", len(out.Conflicts))
	}
	if out.Conflicts[0].Path != "app.go" || out.Conflicts[0].Type != conflict.TypeContent {
		t.Errorf("conflicts[0] = %+v", out.Conflicts[0])
	}
	if out.Conflicts[1].Path != "gone.go" || out.Conflicts[1].Type != conflict.TypeDeleteModify {
		t.Errorf("conflicts[1] = %+v", out.Conflicts[1])
	}
	if !strings.Contains(out.Message, "Automatic merge failed") {
		t.Errorf("message should carry git output, got %q", out.Message)
	}
}

func TestMerge_FailureKeepsVerbatimMessage(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"merge"}, pexec.MockResponse{
		Stderr: []byte("fatal: refusing to merge unrelated histories\n"),
		Err:    errors.New("exit status 128"),
	})
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Merge(ctx, MergeParams{Branch: "feature", CommitImmediately: true})

	if out.Success {
		t.Error("failed merge should not report success")
	}
	if len(out.Conflicts) != 0 {
		t.Errorf("Conflicts len = %d, want 0", len(out.Conflicts))
	}
	if out.Message != "fatal: refusing to merge unrelated histories" {
		t.Errorf("message = %q, want verbatim git output", out.Message)
	}
}

func TestCherryPick_OrderPreserved(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.CherryPick(ctx, PickParams{OIDs: []string{"ccc333", "aaa111", "bbb222"}})
	if !out.Success {
		t.Fatalf("CherryPick() failed: %s", out.Message)
	}

	calls := mock.CallsMatching("git", "cherry-pick")
	if len(calls) != 1 {
		t.Fatalf("expected 1 cherry-pick call, got %d", len(calls))
	}
	want := []string{"cherry-pick", "ccc333", "aaa111", "bbb222"}
	if strings.Join(calls[0].Args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", calls[0].Args, want)
	}
}

func TestCherryPick_EmptySequenceGuard(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.CherryPick(ctx, PickParams{})
	if out.Success {
		t.Error("empty cherry-pick should fail")
	}
	if len(mock.Calls()) != 0 {
		t.Error("empty cherry-pick should never reach git")
	}
}

func TestRevert_NoEdit(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Revert(ctx, RevertParams{OIDs: []string{"abc123"}})
	if !out.Success {
		t.Fatalf("Revert() failed: %s", out.Message)
	}

	calls := mock.CallsMatching("git", "revert", "--no-edit", "abc123")
	if len(calls) != 1 {
		t.Errorf("expected revert --no-edit abc123, calls: %v", mock.Calls())
	}
}

func TestApplyMailbox_ThreeWay(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.ApplyMailbox(ctx, MailboxParams{Paths: []string{"0001-fix.patch", "0002-feat.patch"}})
	if !out.Success {
		t.Fatalf("ApplyMailbox() failed: %s", out.Message)
	}

	calls := mock.CallsMatching("git", "am", "--3way", "0001-fix.patch", "0002-feat.patch")
	if len(calls) != 1 {
		t.Errorf("expected am --3way with both patches, calls: %v", mock.Calls())
	}
}

func TestAborts_ReturnGitError(t *testing.T) {
	tests := []struct {
		name  string
		abort func(c *CLI) error
		args  []string
	}{
		{"merge", func(c *CLI) error { return c.MergeAbort(ctx) }, []string{"merge", "--abort"}},
		{"rebase", func(c *CLI) error { return c.RebaseAbort(ctx) }, []string{"rebase", "--abort"}},
		{"cherry-pick", func(c *CLI) error { return c.CherryPickAbort(ctx) }, []string{"cherry-pick", "--abort"}},
		{"revert", func(c *CLI) error { return c.RevertAbort(ctx) }, []string{"revert", "--abort"}},
		{"am", func(c *CLI) error { return c.MailboxAbort(ctx) }, []string{"am", "--abort"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := pexec.NewMockExecutor(nil)
			mock.AddPrefixMatch("git", tt.args, pexec.MockResponse{
				Stderr: []byte("fatal: something went wrong\n"),
				Err:    errors.New("exit status 128"),
			})
			cli := NewCLIWithExecutor(t.TempDir(), mock)

			err := tt.abort(cli)
			if err == nil {
				t.Fatal("expected error from failed abort")
			}
			var ge *GitError
			if !errors.As(err, &ge) {
				t.Fatalf("expected *GitError, got %T", err)
			}
			if IsNoOperation(err) {
				t.Error("a real failure should not look like a no-op abort")
			}
		})
	}
}

func TestIsNoOperation(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected bool
	}{
		{"merge no-op", "fatal: There is no merge to abort (MERGE_HEAD missing).\n", true},
		{"rebase no-op", "fatal: no rebase in progress\n", true},
		{"sequencer no-op", "error: no cherry-pick or revert in progress\n", true},
		{"am no-op", "fatal: Resolve operation not in progress, we are not resuming.\n", true},
		{"real failure", "fatal: index file corrupt\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &GitError{Args: []string{"x", "--abort"}, Output: tt.output, Err: errors.New("exit status 128")}
			if got := IsNoOperation(err); got != tt.expected {
				t.Errorf("IsNoOperation() = %v, want %v", got, tt.expected)
			}
		})
	}

	if IsNoOperation(errors.New("plain error")) {
		t.Error("IsNoOperation should be false for non-GitError values")
	}
}

func TestGitError_Error(t *testing.T) {
	err := &GitError{
		Args:   []string{"rebase", "--continue"},
		Output: "error: could not commit staged changes\nhint: resolve conflicts\n",
		Err:    errors.New("exit status 1"),
	}
	want := "git rebase --continue: error: could not commit staged changes"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	empty := &GitError{Args: []string{"merge", "--abort"}, Err: errors.New("exit status 128")}
	if got := empty.Error(); !strings.Contains(got, "exit status 128") {
		t.Errorf("Error() with empty output should fall back to the cause, got %q", got)
	}
}

func TestResolve(t *testing.T) {
	t.Run("ours checks out and stages", func(t *testing.T) {
		mock := pexec.NewMockExecutor(nil)
		cli := NewCLIWithExecutor(t.TempDir(), mock)

		if err := cli.Resolve(ctx, "app.go", conflict.ResolutionOurs); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if n := len(mock.CallsMatching("git", "checkout", "--ours", "--", "app.go")); n != 1 {
			t.Errorf("checkout --ours calls = %d, want 1", n)
		}
		if n := len(mock.CallsMatching("git", "add", "--", "app.go")); n != 1 {
			t.Errorf("add calls = %d, want 1", n)
		}
	})

	t.Run("missing side resolves to removal", func(t *testing.T) {
		mock := pexec.NewMockExecutor(nil)
		mock.AddPrefixMatch("git", []string{"checkout", "--theirs"}, pexec.MockResponse{
			Stderr: []byte("error: path 'gone.go' does not have their version\n"),
			Err:    errors.New("exit status 1"),
		})
		cli := NewCLIWithExecutor(t.TempDir(), mock)

		if err := cli.Resolve(ctx, "gone.go", conflict.ResolutionTheirs); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if n := len(mock.CallsMatching("git", "rm", "--force", "--", "gone.go")); n != 1 {
			t.Errorf("rm calls = %d, want 1", n)
		}
	})

	t.Run("merged stages the path", func(t *testing.T) {
		mock := pexec.NewMockExecutor(nil)
		cli := NewCLIWithExecutor(t.TempDir(), mock)

		if err := cli.Resolve(ctx, "app.go", conflict.ResolutionMerged); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if n := len(mock.CallsMatching("git", "add", "--", "app.go")); n != 1 {
			t.Errorf("add calls = %d, want 1", n)
		}
	})

	t.Run("unresolved is rejected", func(t *testing.T) {
		cli := NewCLIWithExecutor(t.TempDir(), pexec.NewMockExecutor(nil))
		if err := cli.Resolve(ctx, "app.go", conflict.ResolutionUnresolved); err == nil {
			t.Error("Resolve() should reject ResolutionUnresolved")
		}
	})
}

// fakeGitDir wires the mock's rev-parse to a temp dir that stands in for .git.
func fakeGitDir(t *testing.T, mock *pexec.MockExecutor) string {
	t.Helper()
	gitDir := t.TempDir()
	mock.AddPrefixMatch("git", []string{"rev-parse", "--absolute-git-dir"}, pexec.MockResponse{
		Stdout: []byte(gitDir + "\n"),
	})
	return gitDir
}

func writeStateFile(t *testing.T, gitDir string, parts ...string) {
	t.Helper()
	content := parts[len(parts)-1]
	rel := parts[:len(parts)-1]
	path := filepath.Join(append([]string{gitDir}, rel...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRebaseProgress_MergeBackend(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	gitDir := fakeGitDir(t, mock)
	writeStateFile(t, gitDir, "rebase-merge", "msgnum", "3\n")
	writeStateFile(t, gitDir, "rebase-merge", "end", "7\n")
	writeStateFile(t, gitDir, "rebase-merge", "stopped-sha", "abc1234\n")

	cli := NewCLIWithExecutor(t.TempDir(), mock)
	p, err := cli.RebaseProgress(ctx)
	if err != nil {
		t.Fatalf("RebaseProgress() error = %v", err)
	}
	if p.Current != 3 || p.Total != 7 || p.StoppedAt != "abc1234" {
		t.Errorf("Progress = %+v, want {3 7 abc1234}", p)
	}
}

func TestRebaseProgress_ApplyBackend(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	gitDir := fakeGitDir(t, mock)
	writeStateFile(t, gitDir, "rebase-apply", "next", "2\n")
	writeStateFile(t, gitDir, "rebase-apply", "last", "5\n")

	cli := NewCLIWithExecutor(t.TempDir(), mock)
	p, err := cli.RebaseProgress(ctx)
	if err != nil {
		t.Fatalf("RebaseProgress() error = %v", err)
	}
	if p.Current != 2 || p.Total != 5 || p.StoppedAt != "" {
		t.Errorf("Progress = %+v, want {2 5 }", p)
	}
}

func TestRebaseProgress_NoRebase(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	fakeGitDir(t, mock)

	cli := NewCLIWithExecutor(t.TempDir(), mock)
	if _, err := cli.RebaseProgress(ctx); err == nil {
		t.Error("RebaseProgress() should fail when no rebase state exists")
	}
}

func TestInProgress(t *testing.T) {
	tests := []struct {
		name     string
		files    [][]string
		expected InProgressKind
		ok       bool
	}{
		{"nothing", nil, InProgressNone, false},
		{"merge", [][]string{{"MERGE_HEAD", "abc\n"}}, InProgressMerge, true},
		{"rebase merge backend", [][]string{{"rebase-merge", "msgnum", "1\n"}}, InProgressRebase, true},
		{"rebase apply backend", [][]string{{"rebase-apply", "next", "1\n"}}, InProgressRebase, true},
		{"am", [][]string{{"rebase-apply", "applying", "\n"}}, InProgressMailbox, true},
		{"cherry-pick", [][]string{{"CHERRY_PICK_HEAD", "abc\n"}}, InProgressCherryPick, true},
		{"revert", [][]string{{"REVERT_HEAD", "abc\n"}}, InProgressRevert, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := pexec.NewMockExecutor(nil)
			gitDir := fakeGitDir(t, mock)
			for _, f := range tt.files {
				writeStateFile(t, gitDir, f...)
			}

			cli := NewCLIWithExecutor(t.TempDir(), mock)
			kind, ok := cli.InProgress(ctx)
			if kind != tt.expected || ok != tt.ok {
				t.Errorf("InProgress() = (%v, %v), want (%v, %v)", kind, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestRebase_EditStopDetection(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	gitDir := fakeGitDir(t, mock)
	writeStateFile(t, gitDir, "rebase-merge", "stopped-sha", "abc1234\n")
	mock.AddPrefixMatch("git", []string{"-c"}, pexec.MockResponse{
		Stdout: []byte("Stopped at abc1234...  tweak parser\nYou can amend the commit now\n"),
	})

	cli := NewCLIWithExecutor(t.TempDir(), mock)
	out := cli.Rebase(ctx, RebaseParams{Onto: "main", Interactive: true, EditCommits: []string{"abc1234"}})

	if !out.RequiresEdit {
		t.Error("edit stop should set RequiresEdit")
	}
	if !out.Success {
		t.Error("edit stop is not a failure")
	}
}

func TestRebase_ArgvMapping(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	out := cli.Rebase(ctx, RebaseParams{Onto: "main", Autostash: true})
	if !out.Success {
		t.Fatalf("Rebase() failed: %s", out.Message)
	}

	calls := mock.CallsMatching("git", "rebase", "--autostash", "main")
	if len(calls) != 1 {
		t.Errorf("expected rebase --autostash main, calls: %v", mock.Calls())
	}
}

func TestWriteSequenceScript(t *testing.T) {
	t.Run("no edits accepts todo unchanged", func(t *testing.T) {
		path, cleanup, err := writeSequenceScript(nil)
		if err != nil {
			t.Fatalf("writeSequenceScript() error = %v", err)
		}
		defer cleanup()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "exit 0") {
			t.Errorf("script should be a no-op, got:\n%s", data)
		}
	})

	t.Run("edits rewrite picks by short prefix", func(t *testing.T) {
		full := "abc1234def5678abc1234def5678abc1234def56"
		path, cleanup, err := writeSequenceScript([]string{full, "99aa00"})
		if err != nil {
			t.Fatalf("writeSequenceScript() error = %v", err)
		}
		defer cleanup()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		script := string(data)
		if !strings.Contains(script, "abc1234[0-9a-f]*") {
			t.Error("full OIDs should be shortened to a 7-char prefix")
		}
		if strings.Contains(script, full) {
			t.Error("the full 40-char OID would never match an abbreviated todo line")
		}
		if !strings.Contains(script, "99aa00[0-9a-f]*") {
			t.Error("short OIDs should be used as-is")
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode()&0111 == 0 {
			t.Error("sequence script must be executable")
		}
	})
}

func TestClassify_Canceled(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("git", []string{"merge"}, pexec.MockResponse{
		Err: context.Canceled,
	})
	cli := NewCLIWithExecutor(t.TempDir(), mock)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	out := cli.Merge(canceled, MergeParams{Branch: "feature", CommitImmediately: true})
	if out.Success {
		t.Error("canceled merge should not succeed")
	}
	if out.Message != "canceled" {
		t.Errorf("message = %q, want %q", out.Message, "canceled")
	}
}
