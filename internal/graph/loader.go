// Package graph implements the Graph Loader (spec §4.6): it parses a
// pipeline JSON document into a map of nodes plus the var_global
// definition list, tolerating the string-or-object / string-or-array
// polymorphism spec §9 calls out at the JSON boundary.
package graph

import (
	"os"

	"github.com/tidwall/gjson"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/node"
	"github.com/cwbudde/pipeline-go/internal/recognition"
)

// reservedKey is the one top-level field that is not a node name.
const reservedKey = "var_global"

// Document is a loaded pipeline: its nodes keyed by name, and the global
// variable definitions to seed the store with before any node runs
// (spec §3's "Pipeline document").
type Document struct {
	Nodes   map[string]*node.Node
	Globals []string
}

// LoadFile reads and parses path. Mirrors LoadString for callers that
// hold a filesystem path rather than an in-memory document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: err.Error()}
	}
	doc, err := LoadString(string(data))
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Reason: err.Error()}
	}
	return doc, nil
}

// LoadString parses a pipeline document from raw JSON text. Load fails
// only on malformed JSON or a top-level value that is not an object (spec
// §4.6); var_global and var entries are kept as raw strings and are not
// parsed here, unknown fields are ignored, and dangling successor
// references are permitted (they surface later as resolution failures,
// spec §7).
func LoadString(data string) (*Document, error) {
	if !gjson.Valid(data) {
		return nil, &LoadError{Reason: "invalid JSON"}
	}
	root := gjson.Parse(data)
	if !root.IsObject() {
		return nil, &LoadError{Reason: "top-level JSON value must be an object"}
	}

	doc := &Document{Nodes: make(map[string]*node.Node)}

	if g := root.Get(reservedKey); g.Exists() {
		doc.Globals = stringOrArray(g)
	}

	var firstErr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == reservedKey {
			return true
		}
		n, err := parseNode(name, value)
		if err != nil {
			firstErr = &LoadError{Reason: name + ": " + err.Error()}
			return false
		}
		doc.Nodes[name] = n
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}

	return doc, nil
}

// stringOrArray coerces a field that spec §4.5/§4.6 allow as either a bare
// string or an array of strings into a []string. A non-existent or
// non-string/array value yields nil.
func stringOrArray(v gjson.Result) []string {
	switch {
	case !v.Exists():
		return nil
	case v.IsArray():
		arr := v.Array()
		out := make([]string, 0, len(arr))
		for _, e := range arr {
			out = append(out, e.String())
		}
		return out
	case v.Type == gjson.String:
		return []string{v.String()}
	default:
		return nil
	}
}

func parseNode(name string, v gjson.Result) (*node.Node, error) {
	n := node.New(name)

	rec, err := parseRecognition(v)
	if err != nil {
		return nil, err
	}
	n.Recognition = rec

	act, err := parseAction(v)
	if err != nil {
		return nil, err
	}
	n.Action = act

	n.Next = stringOrArray(v.Get("next"))
	n.Interrupt = stringOrArray(v.Get("interrupt"))
	n.OnError = stringOrArray(v.Get("on_error"))
	n.VarDefs = stringOrArray(v.Get("var"))

	n.Condition = v.Get("condition").String()
	n.ConditionProcess = parseConditionProcess(v.Get("condition_process"))
	n.Log = node.Log{
		True:  v.Get("log.true").String(),
		False: v.Get("log.false").String(),
	}

	if f := v.Get("enabled"); f.Exists() {
		n.Enabled = f.Bool()
	}
	n.Inverse = v.Get("inverse").Bool()
	n.Focus = v.Get("focus").Bool()

	if f := v.Get("timeout"); f.Exists() {
		n.Timeout = msDuration(f.Int())
	}
	if f := v.Get("pre_delay"); f.Exists() {
		n.PreDelay = msDuration(f.Int())
	}
	if f := v.Get("post_delay"); f.Exists() {
		n.PostDelay = msDuration(f.Int())
	}
	// Recognition dispatch flips success on Inverse at dispatch time (spec
	// §4.3 last line); the Executor never reads the node's own Inverse
	// field, so it is carried into the recognition config here.
	n.Recognition.Inverse = n.Inverse

	return n, nil
}

func parseConditionProcess(v gjson.Result) node.ConditionProcess {
	var cp node.ConditionProcess
	if t := v.Get("true"); t.Exists() {
		cp.True = parseBranch(t)
		cp.HasTrue = true
	}
	if f := v.Get("false"); f.Exists() {
		cp.False = parseBranch(f)
		cp.HasFalse = true
	}
	return cp
}

func parseBranch(v gjson.Result) node.Branch {
	return node.Branch{
		OverrideNext:      stringOrArray(v.Get("override_next")),
		OverrideInterrupt: stringOrArray(v.Get("override_interrupt")),
		VarOperation:      v.Get("var_operation").String(),
		ConditionLog:      v.Get("condition_log").String(),
	}
}
