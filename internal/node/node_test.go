package node

import "testing"

func TestNewDefaults(t *testing.T) {
	n := New("A")
	if !n.Enabled {
		t.Error("New: Enabled should default true")
	}
	if n.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", n.Timeout, defaultTimeout)
	}
	if n.PreDelay != defaultPreDelay || n.PostDelay != defaultPostDelay {
		t.Errorf("PreDelay/PostDelay = %v/%v, want %v/%v", n.PreDelay, n.PostDelay, defaultPreDelay, defaultPostDelay)
	}
}

func TestEffectiveNextFallsBackToNext(t *testing.T) {
	n := New("A")
	n.Next = []string{"B", "C"}
	if got := n.EffectiveNext(); len(got) != 2 || got[0] != "B" {
		t.Errorf("EffectiveNext() = %v, want [B C]", got)
	}

	n.OverrideNext = []string{"Z"}
	if got := n.EffectiveNext(); len(got) != 1 || got[0] != "Z" {
		t.Errorf("EffectiveNext() with override = %v, want [Z]", got)
	}
}

func TestClearOverridesResetsProjection(t *testing.T) {
	n := New("A")
	n.Next = []string{"B"}
	n.Interrupt = []string{"C"}
	n.ApplyBranch(Branch{OverrideNext: []string{"X"}, OverrideInterrupt: []string{"Y"}})

	if got := n.EffectiveNext(); got[0] != "X" {
		t.Fatalf("expected override in effect, got %v", got)
	}

	n.ClearOverrides()
	if got := n.EffectiveNext(); got[0] != "B" {
		t.Errorf("after ClearOverrides, EffectiveNext() = %v, want [B]", got)
	}
	if got := n.EffectiveInterrupt(); got[0] != "C" {
		t.Errorf("after ClearOverrides, EffectiveInterrupt() = %v, want [C]", got)
	}
}

func TestApplyBranchLeavesEmptyOverrideUntouched(t *testing.T) {
	n := New("A")
	n.Next = []string{"B"}
	// A branch with no OverrideNext must not blank out an already-installed one.
	n.ApplyBranch(Branch{OverrideNext: []string{"X"}})
	n.ApplyBranch(Branch{ConditionLog: "no override here"})
	if got := n.EffectiveNext(); got[0] != "X" {
		t.Errorf("EffectiveNext() = %v, want override [X] preserved", got)
	}
}

func TestVarsAppliedTracksFirstVisit(t *testing.T) {
	n := New("A")
	if n.VarsApplied() {
		t.Fatal("new node should not have vars applied")
	}
	n.MarkVarsApplied()
	if !n.VarsApplied() {
		t.Error("MarkVarsApplied should set VarsApplied true")
	}
}
