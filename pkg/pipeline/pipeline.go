// Package pipeline is the embedder-facing API: it wraps the graph loader
// and executor behind a single Engine type mirroring a PipelineExecutor
// facade — load a document, run it from a named node, and control it
// through stop/suspend/resume while it runs.
package pipeline

import (
	"context"
	"time"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/executor"
	"github.com/cwbudde/pipeline-go/internal/graph"
	"github.com/cwbudde/pipeline-go/internal/recognition"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

// Vision, Input, LogSink, and Clock are the collaborator contracts an
// embedder must supply; the engine only calls out to them, it never
// implements recognition, input realisation, logging, or timekeeping
// itself.
type (
	Vision  = recognition.Vision
	Input   = action.Input
	LogSink = executor.LogSink
	Clock   = executor.Clock
)

// State is the engine's run state (spec §4.7/§5).
type State = executor.State

const (
	Stopped   = executor.Stopped
	Running   = executor.Running
	Suspended = executor.Suspended
)

// Options configures an Engine's execution parameters.
type Options struct {
	Seed         uint64
	PollInterval time.Duration
	Clock        Clock
}

// Engine loads and runs one pipeline document. It is not safe to call Run
// concurrently with itself; the Control Surface methods (Stop, Suspend,
// Resume, State, CurrentNodeName) are safe to call from any goroutine
// while Run is in progress (spec §5).
type Engine struct {
	vision  Vision
	input   Input
	logSink LogSink
	opts    Options

	exec *executor.Executor
	ctrl *executor.Controller

	pendingTaskStopObserver func(nodeName, reason string)
	pendingNodeObserver     func(nodeName string, success bool)
}

// New returns an Engine bound to the given collaborators. No document is
// loaded yet; call RunFile or RunString to load and execute one.
func New(vision Vision, input Input, logSink LogSink, opts Options) *Engine {
	return &Engine{vision: vision, input: input, logSink: logSink, opts: opts}
}

// RunFile loads the pipeline document at path and runs it from startName
// until the executor stops, mirroring the original's loadFromFile entry
// point.
func (e *Engine) RunFile(ctx context.Context, path, startName string) error {
	doc, err := graph.LoadFile(path)
	if err != nil {
		return err
	}
	return e.run(ctx, doc, startName)
}

// RunString loads a pipeline document from raw JSON text and runs it from
// startName, mirroring the original's loadFromString entry point.
func (e *Engine) RunString(ctx context.Context, data, startName string) error {
	doc, err := graph.LoadString(data)
	if err != nil {
		return err
	}
	return e.run(ctx, doc, startName)
}

func (e *Engine) run(ctx context.Context, doc *graph.Document, startName string) error {
	exec, ctrl := executor.New(doc, e.vision, e.input, e.logSink, executor.Options{
		Seed:         e.opts.Seed,
		PollInterval: e.opts.PollInterval,
		Clock:        e.opts.Clock,
	})
	e.exec = exec
	e.ctrl = ctrl
	if e.pendingTaskStopObserver != nil {
		ctrl.SetTaskStopObserver(e.pendingTaskStopObserver)
	}
	if e.pendingNodeObserver != nil {
		ctrl.SetNodeObserver(e.pendingNodeObserver)
	}
	return exec.Run(ctx, startName)
}

// Stop requests the running executor stop (spec §4.8). Safe to call
// before a Run, after one completes, or from another goroutine while one
// is in progress; it is a no-op if nothing has been loaded yet.
func (e *Engine) Stop() {
	if e.ctrl != nil {
		e.ctrl.Stop()
	}
}

// Suspend requests the running executor suspend (spec §4.8).
func (e *Engine) Suspend() {
	if e.ctrl != nil {
		e.ctrl.Suspend()
	}
}

// Resume requests a suspended executor resume (spec §4.8).
func (e *Engine) Resume() {
	if e.ctrl != nil {
		e.ctrl.Resume()
	}
}

// State returns the engine's current run state, or Stopped if nothing has
// been loaded yet.
func (e *Engine) State() State {
	if e.ctrl == nil {
		return Stopped
	}
	return e.ctrl.State()
}

// CurrentNodeName returns the name of the node currently executing, or ""
// if stopped or nothing has been loaded yet.
func (e *Engine) CurrentNodeName() string {
	if e.ctrl == nil {
		return ""
	}
	return e.ctrl.CurrentNodeName()
}

// SetTaskStopObserver installs the on_task_stop hook (spec §4.8). Call
// before Run so it is in place for the whole execution.
func (e *Engine) SetTaskStopObserver(fn func(nodeName, reason string)) {
	e.pendingTaskStopObserver = fn
	if e.ctrl != nil {
		e.ctrl.SetTaskStopObserver(fn)
	}
}

// SetNodeObserver installs the on_node_event hook (spec §4.8).
func (e *Engine) SetNodeObserver(fn func(nodeName string, success bool)) {
	e.pendingNodeObserver = fn
	if e.ctrl != nil {
		e.ctrl.SetNodeObserver(fn)
	}
}

// Variable reads a variable from the most recently run document's store,
// for embedders inspecting final state after RunFile/RunString returns.
func (e *Engine) Variable(name string) (variable.Value, bool) {
	if e.exec == nil {
		return nil, false
	}
	return e.exec.Store().Get(name)
}
