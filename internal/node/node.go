// Package node implements the parsed graph node (spec §4.5): recognition
// and action config, successor lists, condition-driven branching, and the
// mutable override projection the Executor rewrites between steps.
package node

import (
	"time"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/recognition"
)

const (
	defaultTimeout   = 20000 * time.Millisecond
	defaultPreDelay  = 200 * time.Millisecond
	defaultPostDelay = 200 * time.Millisecond
)

// Branch is one arm of a condition_process block: the override lists it
// installs, the mutation it runs, and the log line it prints, all
// executed in that order (spec §4.5, §4.7 step 4).
type Branch struct {
	OverrideNext      []string
	OverrideInterrupt []string
	VarOperation      string
	ConditionLog      string
}

// ConditionProcess holds the "true"/"false" branches keyed by the
// condition's outcome. Either side may be absent (zero Branch).
type ConditionProcess struct {
	True    Branch
	False   Branch
	HasTrue bool
	HasFalse bool
}

// Branch returns the branch for outcome, and whether one was configured.
func (cp ConditionProcess) Branch(outcome bool) (Branch, bool) {
	if outcome {
		return cp.True, cp.HasTrue
	}
	return cp.False, cp.HasFalse
}

// Log holds the post-action template strings run through interpolation
// (spec §4.7 step 7a).
type Log struct {
	True  string
	False string
}

// Node is one parsed graph node. Everything is immutable after load
// except OverrideNext/OverrideInterrupt, which the Executor installs from
// a ConditionProcess branch and clears at the start of every step on this
// node (spec §3, §4.5).
type Node struct {
	Name string

	Recognition recognition.Config
	Action      action.Config

	Next      []string
	Interrupt []string
	OnError   []string

	VarDefs []string

	Condition        string
	ConditionProcess ConditionProcess
	Log              Log

	Enabled   bool
	Inverse   bool
	Timeout   time.Duration
	PreDelay  time.Duration
	PostDelay time.Duration
	Focus     bool

	// OverrideNext/OverrideInterrupt are the current step's successor
	// projection, installed by ConditionProcess and consumed by
	// EffectiveNext/EffectiveInterrupt. ClearOverrides resets them.
	OverrideNext      []string
	OverrideInterrupt []string

	// varApplied tracks the "first visit only" rule spec §9 picks for
	// var-list application; the Executor flips it after the first apply.
	varApplied bool
}

// New returns a Node with the spec's documented defaults (spec §4.5):
// enabled, 20s timeout, 200ms pre/post delay.
func New(name string) *Node {
	return &Node{
		Name:      name,
		Enabled:   true,
		Timeout:   defaultTimeout,
		PreDelay:  defaultPreDelay,
		PostDelay: defaultPostDelay,
	}
}

// EffectiveNext returns OverrideNext if non-empty, else Next (spec §4.5).
func (n *Node) EffectiveNext() []string {
	if len(n.OverrideNext) > 0 {
		return n.OverrideNext
	}
	return n.Next
}

// EffectiveInterrupt returns OverrideInterrupt if non-empty, else
// Interrupt (spec §4.5).
func (n *Node) EffectiveInterrupt() []string {
	if len(n.OverrideInterrupt) > 0 {
		return n.OverrideInterrupt
	}
	return n.Interrupt
}

// ClearOverrides resets the override projection. Called at the start of
// every step on this node, before ConditionProcess runs (spec §4.7 step 4).
func (n *Node) ClearOverrides() {
	n.OverrideNext = nil
	n.OverrideInterrupt = nil
}

// ApplyBranch installs a branch's override lists. VarOperation and
// ConditionLog are run by the caller (the Executor), which owns the
// expression engine.
func (n *Node) ApplyBranch(b Branch) {
	if len(b.OverrideNext) > 0 {
		n.OverrideNext = b.OverrideNext
	}
	if len(b.OverrideInterrupt) > 0 {
		n.OverrideInterrupt = b.OverrideInterrupt
	}
}

// VarsApplied reports whether this node's var list has already been
// applied once (spec §9: "first visit" semantics, not every load).
func (n *Node) VarsApplied() bool { return n.varApplied }

// MarkVarsApplied records that the var list has been applied.
func (n *Node) MarkVarsApplied() { n.varApplied = true }
