package expr

import (
	"regexp"
	"strings"

	"github.com/cwbudde/pipeline-go/internal/variable"
)

// varRefRe matches a "[%name]" template reference (spec §6 template-string
// grammar).
var varRefRe = regexp.MustCompile(`\[%[A-Za-z_][A-Za-z0-9_]*\]`)

// Interpolate is the "log string" processor (spec §4.2): every maximal
// "{...}" substring is executed as a mutation expression and erased, then
// every "[%name]" substring is replaced with the variable's stringified
// value. Mutations run before substitutions, so "{%i++}[%i]" reflects the
// post-increment value.
func (e *Engine) Interpolate(template string) string {
	var sb strings.Builder
	i := 0
	for i < len(template) {
		if template[i] == '{' {
			rest := template[i+1:]
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				sb.WriteString(template[i:])
				break
			}
			e.ExecuteMutation(rest[:end])
			i += 1 + end + 1
			continue
		}
		sb.WriteByte(template[i])
		i++
	}

	return varRefRe.ReplaceAllStringFunc(sb.String(), func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := e.store.Get(name); ok {
			return v.String()
		}
		return match
	})
}

// ExecuteMutation runs a single mutation expression ("%name++", "%name--",
// or "%name=<expr>") against the store. It reports whether the mutation
// applied; on failure the store is left unchanged (spec §4.2, §7).
func (e *Engine) ExecuteMutation(expr string) bool {
	expr = strings.Join(strings.Fields(expr), "")
	switch {
	case strings.HasSuffix(expr, "++"):
		return e.incDec(expr[:len(expr)-2], 1)
	case strings.HasSuffix(expr, "--"):
		return e.incDec(expr[:len(expr)-2], -1)
	default:
		eq := strings.IndexByte(expr, '=')
		if eq < 0 {
			return false
		}
		return e.assign(expr[:eq], expr[eq+1:])
	}
}

func (e *Engine) incDec(name string, delta int64) bool {
	v, ok := e.store.Get(name)
	if !ok {
		return false
	}
	iv, ok := v.(variable.IntegerValue)
	if !ok {
		return false
	}
	return e.store.Set(name, variable.IntegerValue{Value: iv.Value + delta}) == nil
}

// assign evaluates exprStr as an arithmetic expression or literal and
// writes the result into name, casting to name's declared type at the
// assignment site per spec §4.2.
func (e *Engine) assign(name, exprStr string) bool {
	current, ok := e.store.Get(name)
	if !ok {
		return false
	}
	target := current.Type()

	if target == variable.TypeString {
		return e.store.Set(name, variable.StringValue{Value: exprStr}) == nil
	}

	if n, ok := e.EvaluateArithmetic(exprStr); ok {
		switch target {
		case variable.TypeInteger:
			return e.store.Set(name, variable.IntegerValue{Value: int64(n)}) == nil
		case variable.TypeFloat:
			return e.store.Set(name, variable.FloatValue{Value: n}) == nil
		case variable.TypeBoolean:
			return e.store.Set(name, variable.BooleanValue{Value: n != 0}) == nil
		default:
			return false
		}
	}

	lit, err := variable.ParseLiteral(target, exprStr)
	if err != nil {
		return false
	}
	return e.store.Set(name, lit) == nil
}
