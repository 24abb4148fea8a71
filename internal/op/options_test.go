package op

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regraft/regraft/internal/errors"
)

func TestNormalize_SquashWins(t *testing.T) {
	opts := NewMergeOptions("feature")
	opts.Merge.Squash = true
	opts.Merge.NoFastForward = true
	opts.Merge.FFOnly = true

	opts.Normalize()

	if !opts.Merge.Squash {
		t.Error("squash should survive normalization")
	}
	if opts.Merge.NoFastForward {
		t.Error("squash should clear noFastForward")
	}
	if opts.Merge.FFOnly {
		t.Error("squash should clear ffOnly")
	}
}

func TestNormalize_NoFFClearsFFOnly(t *testing.T) {
	opts := NewMergeOptions("feature")
	opts.Merge.NoFastForward = true
	opts.Merge.FFOnly = true

	opts.Normalize()

	if !opts.Merge.NoFastForward {
		t.Error("noFastForward should survive normalization")
	}
	if opts.Merge.FFOnly {
		t.Error("noFastForward should clear ffOnly")
	}
}

func TestNormalize_EditCommitsImplyInteractive(t *testing.T) {
	opts := NewRebaseOptions("main")
	opts.Rebase.EditCommits = []string{"abc1234"}

	opts.Normalize()

	if !opts.Rebase.Interactive {
		t.Error("edit commits should make the rebase interactive")
	}
}

func TestValidate(t *testing.T) {
	patchFile := filepath.Join(t.TempDir(), "0001-fix.patch")
	if err := os.WriteFile(patchFile, []byte("From abc123\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name: "valid merge",
			opts: NewMergeOptions("feature/login"),
		},
		{
			name:    "merge without branch",
			opts:    NewMergeOptions(""),
			wantErr: "requires a branch",
		},
		{
			name:    "merge branch with invalid characters",
			opts:    NewMergeOptions("bad branch"),
			wantErr: "invalid characters",
		},
		{
			name:    "merge branch starting with dash",
			opts:    NewMergeOptions("-feature"),
			wantErr: "cannot start with",
		},
		{
			name:    "merge branch with dotdot",
			opts:    NewMergeOptions("a..b"),
			wantErr: "cannot contain",
		},
		{
			name: "valid rebase onto branch",
			opts: NewRebaseOptions("main"),
		},
		{
			name: "valid rebase onto commit",
			opts: NewRebaseOntoCommit("abc1234def"),
		},
		{
			name:    "rebase with neither target",
			opts:    Options{Kind: KindRebase, Rebase: &RebaseOptions{}},
			wantErr: "exactly one",
		},
		{
			name:    "rebase with both targets",
			opts:    Options{Kind: KindRebase, Rebase: &RebaseOptions{OntoBranch: "main", OntoCommit: "abc1234"}},
			wantErr: "exactly one",
		},
		{
			name:    "rebase onto junk commit",
			opts:    NewRebaseOntoCommit("not-a-sha"),
			wantErr: "does not look like a commit id",
		},
		{
			name:    "rebase with junk edit commit",
			opts:    Options{Kind: KindRebase, Rebase: &RebaseOptions{OntoBranch: "main", EditCommits: []string{"zzz"}}},
			wantErr: "does not look like a commit id",
		},
		{
			name: "valid cherry-pick",
			opts: NewCherryPickOptions("abc1234", "DEF5678"),
		},
		{
			name:    "empty cherry-pick",
			opts:    NewCherryPickOptions(),
			wantErr: "at least one commit",
		},
		{
			name:    "cherry-pick with short junk",
			opts:    NewCherryPickOptions("ab"),
			wantErr: "does not look like a commit id",
		},
		{
			name: "valid revert",
			opts: NewRevertOptions("abc1234"),
		},
		{
			name:    "empty revert",
			opts:    NewRevertOptions(),
			wantErr: "at least one commit",
		},
		{
			name: "valid patch apply",
			opts: NewPatchOptions(patchFile),
		},
		{
			name:    "empty patch apply",
			opts:    NewPatchOptions(),
			wantErr: "at least one patch file",
		},
		{
			name:    "missing patch file",
			opts:    NewPatchOptions("/nonexistent/0001.patch"),
			wantErr: "not found",
		},
		{
			name:    "payload does not match kind",
			opts:    Options{Kind: KindMerge, Rebase: &RebaseOptions{OntoBranch: "main"}},
			wantErr: "does not match kind",
		},
		{
			name:    "two payloads",
			opts:    Options{Kind: KindMerge, Merge: &MergeOptions{Branch: "x"}, Rebase: &RebaseOptions{OntoBranch: "main"}},
			wantErr: "exactly one operation payload",
		},
		{
			name:    "no payload",
			opts:    Options{Kind: KindMerge},
			wantErr: "exactly one operation payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, errors.KindValidation) {
				t.Errorf("error kind = %v, want KindValidation", errors.GetKind(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	pick := NewCherryPickOptions("abc1234def5678abc1234def5678abc1234def56")
	multi := NewCherryPickOptions("abc1234", "def5678", "9991111")
	patch := NewPatchOptions("/tmp/patches/0001-fix.patch")
	patches := NewPatchOptions("a.patch", "b.patch")

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{"merge", NewMergeOptions("feature"), "feature"},
		{"rebase onto branch", NewRebaseOptions("main"), "main"},
		{"rebase onto commit", NewRebaseOntoCommit("abc1234def5678"), "abc1234"},
		{"single pick", pick, "abc1234"},
		{"multi pick", multi, "3 commits"},
		{"single patch", patch, "0001-fix.patch"},
		{"multi patch", patches, "2 patches"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Target(); got != tt.expected {
				t.Errorf("Target() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestOptionsClone_Independent(t *testing.T) {
	orig := NewCherryPickOptions("abc1234", "def5678")
	copied := orig.clone()

	copied.Pick.OIDs[0] = "mutated"

	if orig.Pick.OIDs[0] != "abc1234" {
		t.Error("mutating a clone should not affect the original")
	}
}

func TestRebaseParams_PrefersBranch(t *testing.T) {
	r := RebaseOptions{OntoBranch: "main", Autostash: true}
	p := r.params()
	if p.Onto != "main" {
		t.Errorf("Onto = %q, want main", p.Onto)
	}
	if !p.Autostash {
		t.Error("autostash should carry through")
	}

	r = RebaseOptions{OntoCommit: "abc1234"}
	if got := r.params().Onto; got != "abc1234" {
		t.Errorf("Onto = %q, want abc1234", got)
	}
}
