package action

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/pipeline-go/internal/expr"
	"github.com/cwbudde/pipeline-go/internal/recognition"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

// ResolvedParams carries fully-resolved, interpolated arguments to the
// input collaborator — no variable references or templates remain.
type ResolvedParams struct {
	Point variable.Point
	Begin variable.Point
	End   variable.Point

	Key  string
	Text string

	AppPackage  string
	AppActivity string

	Command     string
	CommandArgs []string
}

// Input is the external input collaborator contract (spec §6):
// perform(action, resolved_args) -> bool.
type Input interface {
	Perform(ctx context.Context, kind Kind, params ResolvedParams) (bool, error)
}

// StopRequester is the Control Surface hook StopTask calls into (spec
// §4.4, §9): an explicit handle replacing the source's process-wide
// singleton pointer.
type StopRequester interface {
	RequestStop(nodeName, reason string)
}

// Dispatcher resolves action config into collaborator calls.
type Dispatcher struct {
	input   Input
	expr    *expr.Engine
	rng     *rand.Rand
	stopper StopRequester
}

// NewDispatcher returns a Dispatcher. rng is owned by the caller (the
// executor) so coordinate jitter is reproducible under a fixed seed
// (spec §9).
func NewDispatcher(input Input, exprEngine *expr.Engine, rng *rand.Rand, stopper StopRequester) *Dispatcher {
	return &Dispatcher{input: input, expr: exprEngine, rng: rng, stopper: stopper}
}

// Execute runs one action against the most recent recognition result.
// The returned bool is the action's own success/failure (spec §7's
// "Action failure" row); a non-nil error signals a collaborator-level
// fault (transport, I/O) and is treated identically to a false result by
// the executor.
func (d *Dispatcher) Execute(ctx context.Context, nodeName string, cfg Config, rec recognition.Result) (bool, error) {
	switch cfg.Kind {
	case "", DoNothing:
		return true, nil

	case Click:
		p, ok := d.resolveTarget(contextClick, cfg.ClickTarget, rec)
		if !ok {
			return false, nil
		}
		p = applyOffset(p, cfg.ClickOffset, d.rng)
		return d.input.Perform(ctx, Click, ResolvedParams{Point: p})

	case Swipe:
		begin, okB := d.resolveTarget(contextSwipeBegin, cfg.SwipeBegin, rec)
		end, okE := d.resolveTarget(contextSwipeEnd, cfg.SwipeEnd, rec)
		if !okB || !okE {
			return false, nil
		}
		begin = applyOffset(begin, cfg.SwipeBeginOffset, d.rng)
		end = applyOffset(end, cfg.SwipeEndOffset, d.rng)
		ok, err := d.input.Perform(ctx, Swipe, ResolvedParams{Begin: begin, End: end})
		if err == nil && ok {
			d.recordSwipeVars(begin, end)
		}
		return ok, err

	case Key:
		return d.input.Perform(ctx, Key, ResolvedParams{Key: d.expr.Interpolate(cfg.Key)})

	case Text:
		return d.input.Perform(ctx, Text, ResolvedParams{Text: d.expr.Interpolate(cfg.Text)})

	case StartApp:
		return d.input.Perform(ctx, StartApp, ResolvedParams{
			AppPackage:  d.expr.Interpolate(cfg.AppPackage),
			AppActivity: d.expr.Interpolate(cfg.AppActivity),
		})

	case StopApp:
		return d.input.Perform(ctx, StopApp, ResolvedParams{
			AppPackage:  d.expr.Interpolate(cfg.AppPackage),
			AppActivity: d.expr.Interpolate(cfg.AppActivity),
		})

	case Command:
		args := make([]string, len(cfg.CommandArgs))
		for i, a := range cfg.CommandArgs {
			args[i] = d.expr.Interpolate(a)
		}
		return d.input.Perform(ctx, Command, ResolvedParams{
			Command:     d.expr.Interpolate(cfg.Command),
			CommandArgs: args,
		})

	case StopTask:
		if d.stopper != nil {
			d.stopper.RequestStop(nodeName, "Task stopped by StopTaskAction")
		}
		return true, nil

	default:
		return false, fmt.Errorf("action: unknown kind %q", cfg.Kind)
	}
}

func (d *Dispatcher) resolveTarget(tctx targetContext, t Target, rec recognition.Result) (variable.Point, bool) {
	p, ok := resolvePoint(tctx, t, rec, d.expr)
	if !ok {
		return variable.Point{}, false
	}
	if t.Kind == TargetBox {
		p = jitterBox(p, t.Box, d.rng)
	}
	return p, true
}

// recordSwipeVars writes the three derived variables spec §4.4 requires
// after a successful swipe, defining them on first use.
func (d *Dispatcher) recordSwipeVars(begin, end variable.Point) {
	store := d.expr.Store()
	defineIfAbsent(store, "%pLastSwipeBegin", variable.TypePoint)
	defineIfAbsent(store, "%pLastSwipeEnd", variable.TypePoint)
	defineIfAbsent(store, "%rLastSwipeArea", variable.TypeRect)

	_ = store.Set("%pLastSwipeBegin", variable.PointValue{Value: begin})
	_ = store.Set("%pLastSwipeEnd", variable.PointValue{Value: end})
	_ = store.Set("%rLastSwipeArea", variable.RectValue{Value: boundingRect(begin, end)})
}

func defineIfAbsent(store *variable.Store, name string, t variable.Type) {
	if _, ok := store.Get(name); !ok {
		_ = store.Define(name, t)
	}
}

func boundingRect(a, b variable.Point) variable.Rect {
	x1, x2 := a.X, b.X
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, y2 := a.Y, b.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return variable.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}
