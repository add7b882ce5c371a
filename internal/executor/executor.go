// Package executor implements the scheduler core (spec §4.7) and the
// Control Surface (spec §4.8): the cooperative state machine that walks a
// loaded graph, dispatching recognition and action, mutating the
// variable store, and reacting to external stop/suspend/resume signals.
package executor

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/expr"
	"github.com/cwbudde/pipeline-go/internal/graph"
	"github.com/cwbudde/pipeline-go/internal/node"
	"github.com/cwbudde/pipeline-go/internal/recognition"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

// defaultPollInterval is the successor-search sleep of spec §4.7(7c).
const defaultPollInterval = 100 * time.Millisecond

// Clock abstracts the monotonic clock the successor-search timeout is
// measured against (spec §5, §9's seeded-determinism note extends to
// time as well as randomness: tests can inject a fake Clock).
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// LogSink is the external log collaborator (spec §6): interpolated
// log/condition_log lines are handed to it verbatim.
type LogSink interface {
	Log(line string)
}

// Executor drives one graph document through the step loop of spec §4.7.
// It owns the variable store exclusively; nothing else reads or writes
// it while a Run is in progress (spec §5).
type Executor struct {
	doc *graph.Document

	store *variable.Store
	expr  *expr.Engine

	recDispatcher *recognition.Dispatcher
	actDispatcher *action.Dispatcher

	controller *Controller
	clock      Clock
	logSink    LogSink

	pollInterval time.Duration
}

// Options configures an Executor beyond its required collaborators.
type Options struct {
	// Seed initialises the coordinate-jitter PRNG (spec §9). Zero uses an
	// unseeded, non-deterministic generator.
	Seed uint64
	// PollInterval overrides the successor-search sleep, for tests that
	// cannot afford to wait 100ms real time. Zero uses the default.
	PollInterval time.Duration
	// Clock overrides the monotonic clock. Nil uses the real wall clock.
	Clock Clock
}

// New builds an Executor around a loaded document and the vision/input
// collaborators. The returned Controller is the embedder's handle to the
// Control Surface (spec §4.8).
func New(doc *graph.Document, vision recognition.Vision, input action.Input, logSink LogSink, opts Options) (*Executor, *Controller) {
	store := variable.NewStore()
	exprEngine := expr.New(store)
	controller := NewController()

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	poll := opts.PollInterval
	if poll == 0 {
		poll = defaultPollInterval
	}

	e := &Executor{
		doc:           doc,
		store:         store,
		expr:          exprEngine,
		recDispatcher: recognition.NewDispatcher(vision),
		actDispatcher: action.NewDispatcher(input, exprEngine, rng, controller),
		controller:    controller,
		clock:         clock,
		logSink:       logSink,
		pollInterval:  poll,
	}
	return e, controller
}

// Store exposes the variable store for embedders that need to read state
// after a run completes.
func (e *Executor) Store() *variable.Store { return e.store }

// Run executes the per-step protocol of spec §4.7 starting at startName
// until the executor reaches Stopped. A non-nil error is an unparsable
// var_global/var definition, an error returned by the vision collaborator,
// or ctx's error once ctx is cancelled; everything spec §7 calls a failure
// (including an action collaborator error) is reported through the normal
// Stopped/on_error transitions, not a Go error.
func (e *Executor) Run(ctx context.Context, startName string) error {
	if err := e.store.ParseDefinitions(e.doc.Globals); err != nil {
		return err
	}

	n, ok := e.doc.Nodes[startName]
	if !ok {
		e.controller.Stop()
		return nil
	}
	e.controller.setRunning(n.Name)

	for {
		if e.controller.State() == Stopped {
			return nil
		}

		next, err := e.step(ctx, n)
		if err != nil {
			return err
		}
		if next == "" {
			e.controller.Stop()
			return nil
		}

		nn, ok := e.doc.Nodes[next]
		if !ok {
			// Dangling reference: spec §7 treats this as "no candidate" at
			// the load level too, which for a direct (non-searched)
			// transition leaves nothing further to fall back to.
			e.controller.Stop()
			return nil
		}
		n = nn
		e.controller.setCurrentNode(n.Name)

		// Cooperative yield (spec §4.7 step 9).
		if e.controller.State() == Suspended {
			e.controller.park(ctx)
		}
		if e.controller.State() == Stopped {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// step runs one iteration of the per-step protocol on n, returning the
// name of the next node to visit, or "" for a terminal Stopped
// transition.
func (e *Executor) step(ctx context.Context, n *node.Node) (string, error) {
	// 1. Disabled nodes stop immediately.
	if !n.Enabled {
		return "", nil
	}

	// 2. Apply var definitions on first visit only (spec §9).
	if !n.VarsApplied() {
		if err := e.store.ParseDefinitions(n.VarDefs); err != nil {
			return "", err
		}
		n.MarkVarsApplied()
	}

	// 3. Evaluate the node's condition (absent condition is true).
	c := true
	if n.Condition != "" {
		c = e.expr.EvaluateCondition(n.Condition)
	}

	// 4. Clear and recompute the override projection for this step.
	n.ClearOverrides()
	if branch, ok := n.ConditionProcess.Branch(c); ok {
		n.ApplyBranch(branch)
		if branch.VarOperation != "" {
			e.expr.Interpolate(branch.VarOperation)
		}
		if branch.ConditionLog != "" {
			e.log(e.expr.Interpolate(branch.ConditionLog))
		}
	}

	// 5. A false condition short-circuits recognition entirely.
	if !c {
		if next, ok := firstResolvable(n.EffectiveInterrupt(), e.doc); ok {
			return next, nil
		}
		if next, ok := firstResolvable(n.EffectiveNext(), e.doc); ok {
			return next, nil
		}
		return "", nil
	}

	// 6. Recognise against the current node, preceded by its pre_delay
	// (spec §4.5; the source sleeps pre_delay immediately before every
	// recognition call, including successor-search candidates' own
	// recognitions — this node's own delay only, per Node::executeRecognition).
	if err := e.sleep(ctx, n.PreDelay); err != nil {
		return "", err
	}
	r, err := e.recDispatcher.Recognize(ctx, n.Recognition)
	if err != nil {
		return "", err
	}

	// 8 (checked before 7 since it's the complementary branch of the same result).
	if !r.Success {
		if next, ok := firstResolvable(n.OnError, e.doc); ok {
			return next, nil
		}
		return "", nil
	}

	// 7a. Dispatch the action, followed by its post_delay (spec §4.5;
	// Node::executeAction sleeps post_delay after the action runs,
	// regardless of its outcome), then log the outcome.
	a, err := e.actDispatcher.Execute(ctx, n.Name, n.Action, r)
	if err != nil {
		// A collaborator-level fault counts as a failed action.
		a = false
	}
	if err := e.sleep(ctx, n.PostDelay); err != nil {
		return "", err
	}
	e.controller.onNodeEvent(n.Name, a)

	logTpl := n.Log.False
	if a {
		logTpl = n.Log.True
	}
	if logTpl != "" {
		e.log(e.expr.Interpolate(logTpl))
	}

	// 7b. Action failure routes to on_error.
	if !a {
		if next, ok := firstResolvable(n.OnError, e.doc); ok {
			return next, nil
		}
		return "", nil
	}

	// 7d. A successful terminal node (no next) stops immediately.
	if len(n.EffectiveNext()) == 0 {
		return "", nil
	}

	// 7c. Successor search: poll until a candidate's recognition
	// succeeds or the node's timeout elapses.
	return e.successorSearch(ctx, n)
}

// successorSearch implements spec §4.7(7c): scan effective_next, then
// effective_interrupt, for the first candidate whose own recognition
// succeeds. If none succeed, sleep ~pollInterval and retry until timeout.
func (e *Executor) successorSearch(ctx context.Context, n *node.Node) (string, error) {
	start := e.clock.Now()
	for {
		if name, ok, err := e.tryCandidates(ctx, n.EffectiveNext()); err != nil {
			return "", err
		} else if ok {
			return name, nil
		}
		if name, ok, err := e.tryCandidates(ctx, n.EffectiveInterrupt()); err != nil {
			return "", err
		} else if ok {
			return name, nil
		}

		switch e.controller.State() {
		case Stopped:
			return "", nil
		case Suspended:
			e.controller.park(ctx)
			if e.controller.State() == Stopped {
				return "", nil
			}
			continue
		}

		if e.clock.Now().Sub(start) > n.Timeout {
			if next, ok := firstResolvable(n.OnError, e.doc); ok {
				return next, nil
			}
			return "", nil
		}

		select {
		case <-time.After(e.pollInterval):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// tryCandidates returns the first name in names whose node exists and
// whose recognition succeeds. An unresolvable name (spec §7's resolution
// failure) is treated the same as a failed candidate, not an error.
// Node::executeRecognition() in the original sleeps the candidate's own
// pre_delay before every recognition call it makes, including the ones the
// successor search issues against next/interrupt candidates, so each
// candidate here gets the same treatment as the current node's own
// recognition in step.
func (e *Executor) tryCandidates(ctx context.Context, names []string) (string, bool, error) {
	for _, name := range names {
		cand, ok := e.doc.Nodes[name]
		if !ok {
			continue
		}
		if err := e.sleep(ctx, cand.PreDelay); err != nil {
			return "", false, err
		}
		r, err := e.recDispatcher.Recognize(ctx, cand.Recognition)
		if err != nil {
			return "", false, err
		}
		if r.Success {
			return name, true, nil
		}
	}
	return "", false, nil
}

// firstResolvable returns names[0] and true if it names an existing
// node; otherwise "" and false (spec §7's resolution failure: an unknown
// successor name is "no candidate", not an error).
func firstResolvable(names []string, doc *graph.Document) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	if _, ok := doc.Nodes[names[0]]; !ok {
		return "", false
	}
	return names[0], true
}

// sleep blocks for d, or until ctx is cancelled, whichever comes first.
// A non-positive d is a no-op (spec §4.5: delays only apply when > 0).
func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) log(line string) {
	if e.logSink != nil {
		e.logSink.Log(line)
	}
}
