package graph

import (
	"fmt"
	"sort"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/recognition"
)

func TestLoadStringRejectsMalformedJSON(t *testing.T) {
	_, err := LoadString(`{"A": `)
	if err == nil {
		t.Fatal("LoadString: want error for malformed JSON")
	}
}

func TestLoadStringRejectsNonObjectTop(t *testing.T) {
	_, err := LoadString(`["A","B"]`)
	if err == nil {
		t.Fatal("LoadString: want error for non-object top level")
	}
}

func TestLoadStringParsesVarGlobalStringAndArray(t *testing.T) {
	doc, err := LoadString(`{"var_global": "%iK=1"}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Globals) != 1 || doc.Globals[0] != "%iK=1" {
		t.Errorf("Globals = %v, want [%%iK=1]", doc.Globals)
	}

	doc, err = LoadString(`{"var_global": ["%iK=1", "%sName=hi"]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Globals) != 2 {
		t.Errorf("Globals = %v, want 2 entries", doc.Globals)
	}
}

func TestLoadStringDefaultsMissingRecognitionAndAction(t *testing.T) {
	doc, err := LoadString(`{"A": {}}`)
	if err != nil {
		t.Fatal(err)
	}
	n := doc.Nodes["A"]
	if n.Recognition.Kind != recognition.DirectHit {
		t.Errorf("Recognition.Kind = %q, want DirectHit", n.Recognition.Kind)
	}
	if n.Action.Kind != action.DoNothing {
		t.Errorf("Action.Kind = %q, want DoNothing", n.Action.Kind)
	}
	if !n.Enabled {
		t.Error("Enabled should default true")
	}
}

func TestLoadStringCoercesStringToArray(t *testing.T) {
	doc, err := LoadString(`{"A": {"next": "B", "interrupt": ["C","D"]}}`)
	if err != nil {
		t.Fatal(err)
	}
	n := doc.Nodes["A"]
	if len(n.Next) != 1 || n.Next[0] != "B" {
		t.Errorf("Next = %v, want [B]", n.Next)
	}
	if len(n.Interrupt) != 2 {
		t.Errorf("Interrupt = %v, want 2 entries", n.Interrupt)
	}
}

func TestLoadStringParsesClickTargetForms(t *testing.T) {
	doc, err := LoadString(`{
		"A": {"action": {"type": "Click", "target": true}},
		"B": {"action": {"type": "Click", "target": [10, 20]}},
		"C": {"action": {"type": "Click", "target": [10, 20, 5, 5]}},
		"D": {"action": {"type": "Click", "target": "%pStart"}}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Nodes["A"].Action.ClickTarget.Kind != action.TargetRecognitionCenter {
		t.Error("A: want TargetRecognitionCenter")
	}
	if doc.Nodes["B"].Action.ClickTarget.Kind != action.TargetPoint || doc.Nodes["B"].Action.ClickTarget.Point.X != 10 {
		t.Errorf("B: target = %+v", doc.Nodes["B"].Action.ClickTarget)
	}
	if doc.Nodes["C"].Action.ClickTarget.Kind != action.TargetBox || doc.Nodes["C"].Action.ClickTarget.Box.W != 5 {
		t.Errorf("C: target = %+v", doc.Nodes["C"].Action.ClickTarget)
	}
	if doc.Nodes["D"].Action.ClickTarget.Kind != action.TargetString || doc.Nodes["D"].Action.ClickTarget.Raw != "%pStart" {
		t.Errorf("D: target = %+v", doc.Nodes["D"].Action.ClickTarget)
	}
}

func TestLoadStringParsesBareStringRecognitionParamsFromNode(t *testing.T) {
	doc, err := LoadString(`{
		"A": {
			"recognition": "FindColor",
			"roi": [0, 0, 100, 200],
			"similarity": 0.9,
			"colors": [{"point": [5, 6], "color": "#FF0000"}]
		}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	rec := doc.Nodes["A"].Recognition
	if rec.Kind != recognition.FindColor {
		t.Fatalf("Kind = %q, want FindColor", rec.Kind)
	}
	if rec.ROI.X2 != 100 || rec.ROI.Y2 != 200 {
		t.Errorf("ROI = %+v, want node-level roi to be read", rec.ROI)
	}
	if rec.Similarity != 0.9 {
		t.Errorf("Similarity = %v, want 0.9", rec.Similarity)
	}
	if len(rec.Colors) != 1 || rec.Colors[0].Color != "#FF0000" {
		t.Errorf("Colors = %+v, want node-level colors to be read", rec.Colors)
	}
}

func TestLoadStringParsesBareStringActionParamsFromNode(t *testing.T) {
	doc, err := LoadString(`{
		"A": {
			"action": "Click",
			"target": [10, 20],
			"target_offset": [1, 2, 3, 4]
		}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	act := doc.Nodes["A"].Action
	if act.Kind != action.Click {
		t.Fatalf("Kind = %q, want Click", act.Kind)
	}
	if act.ClickTarget.Kind != action.TargetPoint || act.ClickTarget.Point.X != 10 || act.ClickTarget.Point.Y != 20 {
		t.Errorf("ClickTarget = %+v, want node-level target to be read", act.ClickTarget)
	}
	if act.ClickOffset.DX != 1 || act.ClickOffset.RY != 4 {
		t.Errorf("ClickOffset = %+v, want node-level target_offset to be read", act.ClickOffset)
	}
}

func TestLoadStringParsesConditionProcess(t *testing.T) {
	doc, err := LoadString(`{
		"A": {
			"condition": "%icounter<3",
			"condition_process": {
				"true": {"var_operation": "%icounter++", "override_next": "A"},
				"false": {"override_interrupt": ["End"]}
			}
		}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	n := doc.Nodes["A"]
	tb, ok := n.ConditionProcess.Branch(true)
	if !ok || tb.VarOperation != "%icounter++" || len(tb.OverrideNext) != 1 || tb.OverrideNext[0] != "A" {
		t.Errorf("true branch = %+v, ok=%v", tb, ok)
	}
	fb, ok := n.ConditionProcess.Branch(false)
	if !ok || len(fb.OverrideInterrupt) != 1 || fb.OverrideInterrupt[0] != "End" {
		t.Errorf("false branch = %+v, ok=%v", fb, ok)
	}
}

// documentSummary renders a stable, human-legible dump of a loaded
// document for snapshot comparison: map iteration order is not
// guaranteed, so node names are sorted first.
func documentSummary(doc *Document) string {
	names := make([]string, 0, len(doc.Nodes))
	for name := range doc.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := fmt.Sprintf("globals=%v\n", doc.Globals)
	for _, name := range names {
		n := doc.Nodes[name]
		out += fmt.Sprintf(
			"node %s: recognition=%s action=%s next=%v interrupt=%v on_error=%v enabled=%v timeout=%s\n",
			name, n.Recognition.Kind, n.Action.Kind, n.Next, n.Interrupt, n.OnError, n.Enabled, n.Timeout,
		)
	}
	return out
}

func TestLoadStringSnapshot(t *testing.T) {
	doc, err := LoadString(`{
		"var_global": ["%iK=0"],
		"Start": {"next": "Count"},
		"Count": {
			"recognition": "DirectHit",
			"action": {"type": "Click", "target": true},
			"condition": "%iK<3",
			"next": "Count",
			"interrupt": "End",
			"timeout": 5000
		},
		"End": {"action": "StopTask"}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, documentSummary(doc))
}
