package modals

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/regraft/regraft/internal/op"
)

func TestRebaseState_BranchSelection(t *testing.T) {
	s := NewRebaseState("feature", []string{"main", "develop"}, false)

	// Selecting a branch marks the branch as the target
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if !s.BranchChosen {
		t.Fatal("expected branch chosen after navigation")
	}

	opts := s.Options()
	if opts.Kind != op.KindRebase {
		t.Fatalf("kind = %v, want rebase", opts.Kind)
	}
	if opts.Rebase.OntoBranch != "develop" {
		t.Errorf("onto branch = %q, want develop", opts.Rebase.OntoBranch)
	}
	if opts.Rebase.OntoCommit != "" {
		t.Errorf("onto commit = %q, want empty", opts.Rebase.OntoCommit)
	}
}

func TestRebaseState_CommitClearsBranchChoice(t *testing.T) {
	s := NewRebaseState("feature", []string{"main"}, false)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp}) // choose branch
	if !s.BranchChosen {
		t.Fatal("expected branch chosen")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // focus commit input
	if s.Focus != rebaseFocusCommit {
		t.Fatalf("focus = %d, want commit", s.Focus)
	}

	s.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if s.BranchChosen {
		t.Error("typing a commit id should clear the branch choice")
	}

	opts := s.Options()
	if opts.Rebase.OntoBranch != "" {
		t.Errorf("onto branch = %q, want empty", opts.Rebase.OntoBranch)
	}
	if opts.Rebase.OntoCommit == "" {
		t.Error("expected onto commit set from input")
	}
}

func TestRebaseState_Toggles(t *testing.T) {
	s := NewRebaseState("feature", []string{"main"}, true)

	if !s.Autostash {
		t.Fatal("autostash default should carry in")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // -> commit
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // -> toggles
	if s.Focus != rebaseFocusToggles {
		t.Fatalf("focus = %d, want toggles", s.Focus)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	if !s.Interactive {
		t.Error("space should toggle interactive")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	if s.Autostash {
		t.Error("space should toggle autostash off")
	}

	opts := s.Options()
	if !opts.Rebase.Interactive {
		t.Error("interactive toggle should carry into options")
	}
	if opts.Rebase.Autostash {
		t.Error("autostash toggle should carry into options")
	}
}

func TestRebaseState_RenderEmptyBranches(t *testing.T) {
	s := NewRebaseState("feature", nil, false)
	_ = s.Render()
}
