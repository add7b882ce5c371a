// Package sim provides a console-backed stand-in for the Vision and Input
// collaborators the executor calls out to. The engine itself never defines
// or normalises the image source (that is left to the embedder); sim gives
// the CLI something to wire by default so a document can be driven
// end-to-end without a real screen-recognition backend.
package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/recognition"
)

// ConsoleVision reports every recognition attempt as successful after
// printing a one-line trace, unless its model name has been listed as a
// forced failure.
type ConsoleVision struct {
	out  io.Writer
	fail map[string]bool
}

// NewConsoleVision returns a ConsoleVision that writes its trace to out.
// fail names recognition configs (by Model) that should report failure,
// for scripting a timeout or on_error path from the command line.
func NewConsoleVision(out io.Writer, fail ...string) *ConsoleVision {
	v := &ConsoleVision{out: out}
	if len(fail) > 0 {
		v.fail = make(map[string]bool, len(fail))
		for _, name := range fail {
			v.fail[name] = true
		}
	}
	return v
}

func (v *ConsoleVision) Recognize(_ context.Context, kind recognition.Kind, cfg recognition.Config) (recognition.Result, error) {
	ok := !v.fail[cfg.Model]
	fmt.Fprintf(v.out, "[recognize] %s model=%q -> %v\n", kind, cfg.Model, ok)
	return recognition.Result{Success: ok}, nil
}

func (v *ConsoleVision) RecognizeBatch(_ context.Context, kind recognition.Kind, cfg recognition.Config) ([]recognition.Result, error) {
	ok := !v.fail[cfg.Model]
	fmt.Fprintf(v.out, "[recognize-batch] %s model=%q -> %v\n", kind, cfg.Model, ok)
	if !ok {
		return nil, nil
	}
	return []recognition.Result{{Success: true}}, nil
}

// ConsoleInput prints every action it is asked to perform and reports
// success, so a document's action sequence can be inspected from the
// command line without a real input backend.
type ConsoleInput struct {
	out io.Writer
}

// NewConsoleInput returns a ConsoleInput that writes its trace to out.
func NewConsoleInput(out io.Writer) *ConsoleInput {
	return &ConsoleInput{out: out}
}

func (in *ConsoleInput) Perform(_ context.Context, kind action.Kind, params action.ResolvedParams) (bool, error) {
	fmt.Fprintf(in.out, "[action] %s %+v\n", kind, params)
	return true, nil
}

// ConsoleLogSink writes interpolated log lines to out, prefixed so they
// are distinguishable from the recognition/action trace.
type ConsoleLogSink struct {
	out io.Writer
}

// NewConsoleLogSink returns a ConsoleLogSink that writes to out.
func NewConsoleLogSink(out io.Writer) *ConsoleLogSink {
	return &ConsoleLogSink{out: out}
}

func (s *ConsoleLogSink) Log(line string) {
	fmt.Fprintf(s.out, "[log] %s\n", line)
}
