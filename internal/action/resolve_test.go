package action

import (
	"testing"

	"github.com/cwbudde/pipeline-go/internal/expr"
	"github.com/cwbudde/pipeline-go/internal/recognition"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

func newTestExprEngine(t *testing.T, defs ...string) *expr.Engine {
	t.Helper()
	store := variable.NewStore()
	if err := store.ParseDefinitions(defs); err != nil {
		t.Fatalf("ParseDefinitions: %v", err)
	}
	return expr.New(store)
}

func TestResolveStringTargetPointVariable(t *testing.T) {
	ee := newTestExprEngine(t, "%pStart=100,200")
	p, ok := resolveStringTarget(contextClick, "%pStart", ee)
	if !ok || p != (variable.Point{X: 100, Y: 200}) {
		t.Errorf("resolveStringTarget(%%pStart) = %v, ok=%v, want (100,200)", p, ok)
	}
}

func TestResolveStringTargetLiteralCoordinates(t *testing.T) {
	ee := newTestExprEngine(t)
	p, ok := resolveStringTarget(contextClick, "12,34", ee)
	if !ok || p != (variable.Point{X: 12, Y: 34}) {
		t.Errorf("resolveStringTarget(12,34) = %v, ok=%v, want (12,34)", p, ok)
	}
}

func TestResolveStringTargetRectInSwipeEndUsesX2Y2(t *testing.T) {
	ee := newTestExprEngine(t, "%rArea=1,2,30,40")
	p, ok := resolveStringTarget(contextSwipeEnd, "%rArea", ee)
	if !ok || p != (variable.Point{X: 30, Y: 40}) {
		t.Errorf("resolveStringTarget(%%rArea, Swipe.end) = %v, ok=%v, want (30,40)", p, ok)
	}

	// The same rect reference outside Swipe.end context does not fall
	// back to the (x2,y2) rule and fails to resolve.
	if _, ok := resolveStringTarget(contextClick, "%rArea", ee); ok {
		t.Error("resolveStringTarget(%rArea) outside Swipe.end should fail")
	}
}

func TestResolveStringTargetInterpolatesBeforeParsing(t *testing.T) {
	ee := newTestExprEngine(t, "%ix=5", "%iy=10")
	p, ok := resolveStringTarget(contextClick, "[%ix],[%iy]", ee)
	if !ok || p != (variable.Point{X: 5, Y: 10}) {
		t.Errorf("resolveStringTarget([%%ix],[%%iy]) = %v, ok=%v, want (5,10)", p, ok)
	}
}

func TestResolveStringTargetUnresolvableFallsThrough(t *testing.T) {
	ee := newTestExprEngine(t)
	if _, ok := resolveStringTarget(contextClick, "SomeOtherNode", ee); ok {
		t.Error("an unresolvable string target should fail, not silently reuse the recognition result")
	}
}

func TestResolveTargetClickPointVariableEndToEnd(t *testing.T) {
	ee := newTestExprEngine(t, "%pStart=100,200")
	cfg := Config{Kind: Click, ClickTarget: Target{Kind: TargetString, Raw: "%pStart"}}
	d := newTestDispatcher(&fakeInput{}, nil)
	d.expr = ee

	var got variable.Point
	in := d.input.(*fakeInput)
	in.perform = func(kind Kind, params ResolvedParams) (bool, error) {
		got = params.Point
		return true, nil
	}

	ok, err := d.Execute(t.Context(), "A", cfg, recognition.Result{})
	if err != nil || !ok {
		t.Fatalf("Execute = %v, %v", ok, err)
	}
	if got != (variable.Point{X: 100, Y: 200}) {
		t.Errorf("resolved Click target = %v, want (100,200)", got)
	}
}
