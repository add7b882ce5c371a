package expr

import (
	"strconv"
	"strings"

	"github.com/cwbudde/pipeline-go/internal/variable"
)

// precedence gives the binding power of each supported binary operator
// (spec §4.2: {+:1, -:1, *:2, /:2}).
var precedence = map[byte]int{'+': 1, '-': 1, '*': 2, '/': 2}

// EvaluateArithmetic evaluates s as a double-precision arithmetic
// expression over literals and "%"-referenced variables (spec §4.2). It
// reports ok=false on any failure: an unresolvable or string-typed
// variable, a malformed expression, or division by zero.
func (e *Engine) EvaluateArithmetic(s string) (float64, bool) {
	tokens, ok := tokenizeArithmetic(s)
	if !ok {
		return 0, false
	}
	rpn, ok := toRPN(tokens)
	if !ok {
		return 0, false
	}
	return e.evalRPN(rpn)
}

type arithToken struct {
	isOp   bool
	isOpen bool // '('
	isClos bool // ')'
	op     byte
	lit    string // number literal or "%name" reference
}

// tokenizeArithmetic splits an expression into numbers, "%"-variable
// references, the four binary operators, and parentheses. Whitespace is
// stripped first per spec.
func tokenizeArithmetic(s string) ([]arithToken, bool) {
	s = strings.Join(strings.Fields(s), "")
	var tokens []arithToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '+' || c == '*' || c == '/':
			tokens = append(tokens, arithToken{isOp: true, op: c})
			i++
		case c == '-':
			// Unary minus: fold into the following literal when it starts
			// an expression or follows another operator/open-paren.
			if len(tokens) == 0 || tokens[len(tokens)-1].isOp || tokens[len(tokens)-1].isOpen {
				j := i + 1
				if j < len(s) && s[j] == '%' {
					name, nj, ok := scanVariable(s, j)
					if !ok {
						return nil, false
					}
					tokens = append(tokens, arithToken{lit: "-" + name})
					i = nj
					continue
				}
				lit, nj, ok := scanNumber(s, j)
				if !ok {
					return nil, false
				}
				tokens = append(tokens, arithToken{lit: "-" + lit})
				i = nj
				continue
			}
			tokens = append(tokens, arithToken{isOp: true, op: c})
			i++
		case c == '(':
			tokens = append(tokens, arithToken{isOpen: true})
			i++
		case c == ')':
			tokens = append(tokens, arithToken{isClos: true})
			i++
		case c == '%':
			name, nj, ok := scanVariable(s, i)
			if !ok {
				return nil, false
			}
			tokens = append(tokens, arithToken{lit: name})
			i = nj
		case isDigit(c) || c == '.':
			lit, nj, ok := scanNumber(s, i)
			if !ok {
				return nil, false
			}
			tokens = append(tokens, arithToken{lit: lit})
			i = nj
		default:
			return nil, false
		}
	}
	return tokens, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func scanVariable(s string, i int) (string, int, bool) {
	start := i
	i++ // '%'
	if i >= len(s) {
		return "", 0, false
	}
	for i < len(s) && (isAlnum(s[i]) || s[i] == '_') {
		i++
	}
	if i == start+1 {
		return "", 0, false
	}
	return s[start:i], i, true
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func scanNumber(s string, i int) (string, int, bool) {
	start := i
	sawDigit := false
	for i < len(s) && isDigit(s[i]) {
		i++
		sawDigit = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			sawDigit = true
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			j++
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	if !sawDigit {
		return "", 0, false
	}
	return s[start:i], i, true
}

// toRPN converts infix tokens to reverse-Polish-notation order using the
// shunting-yard algorithm (spec §4.2), left-to-right associative.
func toRPN(tokens []arithToken) ([]arithToken, bool) {
	var out []arithToken
	var ops []arithToken
	for _, tok := range tokens {
		switch {
		case !tok.isOp && !tok.isOpen && !tok.isClos:
			out = append(out, tok)
		case tok.isOpen:
			ops = append(ops, tok)
		case tok.isClos:
			for len(ops) > 0 && !ops[len(ops)-1].isOpen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, false
			}
			ops = ops[:len(ops)-1] // discard '('
		case tok.isOp:
			for len(ops) > 0 && !ops[len(ops)-1].isOpen && precedence[ops[len(ops)-1].op] >= precedence[tok.op] {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		}
	}
	for len(ops) > 0 {
		if ops[len(ops)-1].isOpen {
			return nil, false
		}
		out = append(out, ops[len(ops)-1])
		ops = ops[:len(ops)-1]
	}
	return out, true
}

func (e *Engine) evalRPN(rpn []arithToken) (float64, bool) {
	var stack []float64
	for _, tok := range rpn {
		if tok.isOp {
			if len(stack) < 2 {
				return 0, false
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			var r float64
			switch tok.op {
			case '+':
				r = a + b
			case '-':
				r = a - b
			case '*':
				r = a * b
			case '/':
				if b == 0 {
					return 0, false
				}
				r = a / b
			}
			stack = append(stack, r)
			continue
		}
		n, ok := e.resolveNumeric(tok.lit)
		if !ok {
			return 0, false
		}
		stack = append(stack, n)
	}
	if len(stack) != 1 {
		return 0, false
	}
	return stack[0], true
}

// resolveNumeric turns a literal or "%"-variable token into a float64.
// String variables make the expression fail, per spec §4.2.
func (e *Engine) resolveNumeric(lit string) (float64, bool) {
	neg := false
	if strings.HasPrefix(lit, "-") {
		neg = true
		lit = lit[1:]
	}
	var n float64
	if strings.HasPrefix(lit, "%") {
		v, ok := e.store.Get(lit)
		if !ok {
			return 0, false
		}
		switch tv := v.(type) {
		case variable.IntegerValue:
			n = float64(tv.Value)
		case variable.FloatValue:
			n = tv.Value
		case variable.BooleanValue:
			if tv.Value {
				n = 1
			}
		default:
			return 0, false
		}
	} else {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return 0, false
		}
		n = f
	}
	if neg {
		n = -n
	}
	return n, true
}
