package expr

import "testing"

func TestInterpolateOrder(t *testing.T) {
	e, store := newTestEngine(t, "%ival=0")
	got := e.Interpolate("v={%ival++}[%ival]")
	if got != "v=1" {
		t.Errorf("Interpolate = %q, want %q", got, "v=1")
	}
	v, _ := store.Get("%ival")
	if v.String() != "1" {
		t.Errorf("post-state %%ival = %q, want %q", v.String(), "1")
	}
}

func TestInterpolateDecrement(t *testing.T) {
	e, _ := newTestEngine(t, "%ival=3")
	got := e.Interpolate("{%ival--}[%ival]")
	if got != "2" {
		t.Errorf("Interpolate = %q, want %q", got, "2")
	}
}

func TestInterpolateAssignment(t *testing.T) {
	e, _ := newTestEngine(t, "%ival=0", "%fval=0", "%bval=false", "%sval=")
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"integer assign truncates", "{%ival=7/2}[%ival]", "3"},
		{"float assign", "{%fval=1.5+1}[%fval]", "2.5"},
		{"boolean assign nonzero", "{%bval=1+1}[%bval]", "true"},
		{"string assign literal", "{%sval=hello}[%sval]", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Interpolate(tt.tmpl)
			if got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestInterpolateMultipleMutationsAndRefs(t *testing.T) {
	e, _ := newTestEngine(t, "%ia=1", "%ib=10")
	got := e.Interpolate("{%ia++}{%ib--}a=[%ia] b=[%ib]")
	if got != "a=2 b=9" {
		t.Errorf("Interpolate = %q, want %q", got, "a=2 b=9")
	}
}

func TestInterpolateLeavesUndefinedRefUntouched(t *testing.T) {
	e, _ := newTestEngine(t)
	got := e.Interpolate("x=[%imissing]")
	if got != "x=[%imissing]" {
		t.Errorf("Interpolate = %q, want literal pass-through", got)
	}
}

func TestInterpolateFailedMutationLeavesStoreUnchanged(t *testing.T) {
	e, store := newTestEngine(t, "%sval=keep")
	got := e.Interpolate("{%sval++}[%sval]")
	if got != "keep" {
		t.Errorf("Interpolate = %q, want %q (mutation should fail silently)", got, "keep")
	}
	v, _ := store.Get("%sval")
	if v.String() != "keep" {
		t.Errorf("store mutated despite failure: %q", v.String())
	}
}
