package expr

import "testing"

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		name string
		defs []string
		expr string
		want float64
	}{
		{"precedence", nil, "2+3*4", 14},
		{"left to right same precedence", nil, "10-2-3", 5},
		{"parentheses", nil, "(2+3)*4", 20},
		{"division", nil, "10/4", 2.5},
		{"variable reference", []string{"%ival=6"}, "%ival*2", 12},
		{"negative literal", nil, "-5+10", 5},
		{"float variable", []string{"%fval=1.5"}, "%fval+0.5", 2},
		{"boolean widened", []string{"%bval=true"}, "%bval+1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, tt.defs...)
			got, ok := e.EvaluateArithmetic(tt.expr)
			if !ok {
				t.Fatalf("EvaluateArithmetic(%q): want ok, got failure", tt.expr)
			}
			if got != tt.want {
				t.Errorf("EvaluateArithmetic(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateArithmeticFailures(t *testing.T) {
	tests := []struct {
		name string
		defs []string
		expr string
	}{
		{"division by zero", nil, "1/0"},
		{"string variable", []string{"%sval=hi"}, "%sval+1"},
		{"undefined variable", nil, "%imissing+1"},
		{"malformed expression", nil, "1+*2"},
		{"unbalanced parens", nil, "(1+2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, tt.defs...)
			if _, ok := e.EvaluateArithmetic(tt.expr); ok {
				t.Errorf("EvaluateArithmetic(%q): want failure, got ok", tt.expr)
			}
		})
	}
}
