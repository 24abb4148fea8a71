package op

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindNone, "none"},
		{KindMerge, "merge"},
		{KindRebase, "rebase"},
		{KindCherryPick, "cherry-pick"},
		{KindRevert, "revert"},
		{KindPatchApply, "patch apply"},
		{Kind(99), "none"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.expected)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusIdle, "idle"},
		{StatusRunning, "running"},
		{StatusConflicted, "conflicted"},
		{StatusPaused, "paused"},
		{StatusResuming, "resuming"},
		{StatusCompleted, "completed"},
		{StatusAborted, "aborted"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.expected)
		}
	}
}

func TestStatusClasses(t *testing.T) {
	tests := []struct {
		status    Status
		terminal  bool
		busy      bool
		resumable bool
		abortable bool
	}{
		{StatusIdle, false, false, false, false},
		{StatusRunning, false, true, false, true},
		{StatusConflicted, false, false, true, true},
		{StatusPaused, false, false, true, true},
		{StatusResuming, false, true, false, true},
		{StatusCompleted, true, false, false, false},
		{StatusAborted, true, false, false, false},
		{StatusFailed, true, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
			if got := tt.status.Busy(); got != tt.busy {
				t.Errorf("Busy() = %v, want %v", got, tt.busy)
			}
			if got := tt.status.Resumable(); got != tt.resumable {
				t.Errorf("Resumable() = %v, want %v", got, tt.resumable)
			}
			if got := tt.status.Abortable(); got != tt.abortable {
				t.Errorf("Abortable() = %v, want %v", got, tt.abortable)
			}
		})
	}
}
