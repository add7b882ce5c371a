// Package expr implements the engine's condition evaluator, arithmetic
// expression evaluator, and template-string interpolator, all operating
// against a shared *variable.Store.
package expr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/pipeline-go/internal/variable"
)

// Engine evaluates conditions and expressions against a single variable
// store. It holds no state of its own beyond that reference.
type Engine struct {
	store *variable.Store
}

// New returns an Engine bound to store.
func New(store *variable.Store) *Engine {
	return &Engine{store: store}
}

// Store returns the variable store this engine evaluates against, for
// collaborators (such as the Action Dispatcher) that need direct
// lookups alongside interpolation.
func (e *Engine) Store() *variable.Store {
	return e.store
}

// relOpRe matches a relational operator, longest alternative first so
// "<=" wins over "<" at the same position (spec §4.2).
var relOpRe = regexp.MustCompile(`<=|>=|==|!=|<|>`)

// EvaluateCondition implements spec §4.2's evaluate_condition: find a
// relational operator and compare both sides, or fall back to a bare
// variable's truthiness, or to the arithmetic path.
func (e *Engine) EvaluateCondition(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}

	if loc := relOpRe.FindStringIndex(s); loc != nil {
		op := s[loc[0]:loc[1]]
		left := strings.TrimSpace(s[:loc[0]])
		right := strings.TrimSpace(s[loc[1]:])
		return e.compare(left, op, right)
	}

	if _, end, ok := scanVariable(s, 0); ok && end == len(s) {
		if v, ok := e.store.Get(s); ok {
			return truthiness(v)
		}
		return false
	}

	n, ok := e.EvaluateArithmetic(s)
	return ok && n != 0
}

func truthiness(v variable.Value) bool {
	switch tv := v.(type) {
	case variable.IntegerValue:
		return tv.Value != 0
	case variable.FloatValue:
		return tv.Value != 0
	case variable.StringValue:
		return tv.Value != ""
	case variable.BooleanValue:
		return tv.Value
	default:
		return false
	}
}

// operandKind tags the resolved shape of a comparison operand.
type operandKind int

const (
	kindInt operandKind = iota
	kindFloat
	kindString
	kindBool
)

type operand struct {
	kind operandKind
	i    int64
	f    float64
	s    string
	b    bool
}

// resolveOperand resolves a token to a comparable operand: a "%"-prefixed
// token is looked up in the store; otherwise it is tried as integer, then
// float, then string (spec §4.2).
func (e *Engine) resolveOperand(token string) (operand, bool) {
	if strings.HasPrefix(token, "%") {
		v, ok := e.store.Get(token)
		if !ok {
			return operand{}, false
		}
		switch tv := v.(type) {
		case variable.IntegerValue:
			return operand{kind: kindInt, i: tv.Value}, true
		case variable.FloatValue:
			return operand{kind: kindFloat, f: tv.Value}, true
		case variable.StringValue:
			return operand{kind: kindString, s: tv.Value}, true
		case variable.BooleanValue:
			return operand{kind: kindBool, b: tv.Value}, true
		default:
			return operand{}, false
		}
	}
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return operand{kind: kindInt, i: n}, true
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return operand{kind: kindFloat, f: f}, true
	}
	return operand{kind: kindString, s: token}, true
}

func (e *Engine) compare(leftTok, op, rightTok string) bool {
	left, lok := e.resolveOperand(leftTok)
	right, rok := e.resolveOperand(rightTok)
	if !lok || !rok {
		return false
	}

	// Both string.
	if left.kind == kindString && right.kind == kindString {
		return compareOrdered(strings.Compare(left.s, right.s), op)
	}

	// Both boolean: only ==/!= are defined.
	if left.kind == kindBool && right.kind == kindBool {
		switch op {
		case "==":
			return left.b == right.b
		case "!=":
			return left.b != right.b
		default:
			return false
		}
	}

	// Numeric (int/float mix widens to float).
	if isNumeric(left.kind) && isNumeric(right.kind) {
		if left.kind == kindInt && right.kind == kindInt {
			return compareOrdered(cmpInt(left.i, right.i), op)
		}
		return compareOrdered(cmpFloat(toFloat(left), toFloat(right)), op)
	}

	return false
}

func isNumeric(k operandKind) bool { return k == kindInt || k == kindFloat }

func toFloat(o operand) float64 {
	if o.kind == kindInt {
		return float64(o.i)
	}
	return o.f
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(cmp int, op string) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	default:
		return false
	}
}
