package pipeline

import (
	"context"
	"testing"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/recognition"
)

type stubVision struct{}

func (stubVision) Recognize(context.Context, recognition.Kind, recognition.Config) (recognition.Result, error) {
	return recognition.Result{Success: true}, nil
}

func (stubVision) RecognizeBatch(context.Context, recognition.Kind, recognition.Config) ([]recognition.Result, error) {
	return nil, nil
}

type stubInput struct{ calls int }

func (s *stubInput) Perform(context.Context, action.Kind, action.ResolvedParams) (bool, error) {
	s.calls++
	return true, nil
}

func TestRunStringLoadsAndRunsToStop(t *testing.T) {
	input := &stubInput{}
	e := New(stubVision{}, input, nil, Options{})

	err := e.RunString(context.Background(), `{"A": {"action": {"type": "Key", "key": "OK"}}}`, "A")
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if e.State() != Stopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}
	if input.calls != 1 {
		t.Errorf("input.calls = %d, want 1", input.calls)
	}
}

func TestRunStringMissingStartNodeStopsImmediately(t *testing.T) {
	e := New(stubVision{}, &stubInput{}, nil, Options{})
	if err := e.RunString(context.Background(), `{"A": {}}`, "NoSuchNode"); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if e.State() != Stopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}
}

func TestRunStringMalformedJSONReturnsError(t *testing.T) {
	e := New(stubVision{}, &stubInput{}, nil, Options{})
	if err := e.RunString(context.Background(), `{"A": `, "A"); err == nil {
		t.Fatal("RunString: want error for malformed JSON")
	}
}

func TestObserversSurviveSetBeforeRun(t *testing.T) {
	e := New(stubVision{}, &stubInput{}, nil, Options{})

	var gotName string
	var gotSuccess bool
	e.SetNodeObserver(func(name string, success bool) {
		gotName, gotSuccess = name, success
	})

	if err := e.RunString(context.Background(), `{"A": {"action": "DoNothing"}}`, "A"); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if gotName != "A" || !gotSuccess {
		t.Errorf("observer got (%q, %v), want (A, true)", gotName, gotSuccess)
	}
}

func TestVariableReadsFinalStoreState(t *testing.T) {
	e := New(stubVision{}, &stubInput{}, nil, Options{})
	if err := e.RunString(context.Background(), `{"var_global": ["%iK=7"], "A": {"action": "DoNothing"}}`, "A"); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	v, ok := e.Variable("%iK")
	if !ok || v.String() != "7" {
		t.Errorf("Variable(%%iK) = %v, ok=%v, want 7,true", v, ok)
	}
}
