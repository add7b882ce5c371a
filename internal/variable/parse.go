package variable

import (
	"regexp"
	"strconv"
	"strings"
)

// nameRe matches the full "%<prefix><ident>" grammar from spec §6.
var nameRe = regexp.MustCompile(`^%([isfbpr])([A-Za-z_][A-Za-z0-9_]*)$`)

// SplitDefinition splits a definition string of the form "%Xname" or
// "%Xname=literal" into its name and optional literal, without validating
// the name grammar (callers that need strict ident validation should use
// ParseDefinition instead).
func SplitDefinition(def string) (name, literal string, hasLiteral bool) {
	if i := strings.IndexByte(def, '='); i >= 0 {
		return def[:i], def[i+1:], true
	}
	return def, "", false
}

// TypeFromName returns the variable type implied by a name's second
// character, and whether the name is well-formed ("%" followed by one of
// i,s,f,b,p,r).
func TypeFromName(name string) (Type, bool) {
	if len(name) < 2 || name[0] != '%' {
		return 0, false
	}
	t := Type(name[1])
	return t, t.Valid()
}

// ParseLiteral parses a literal string into a Value of type t, following
// the per-type grammars in spec §4.1: signed decimal integers, decimal
// floats with optional exponent, true/false/1/0 booleans, "x,y" points,
// "x1,y1,x2,y2" rects, and verbatim strings.
func ParseLiteral(t Type, lit string) (Value, error) {
	switch t {
	case TypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(lit), 10, 64)
		if err != nil {
			return nil, &DefinitionError{Name: lit, Reason: "not a valid integer literal"}
		}
		return IntegerValue{Value: n}, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(lit), 64)
		if err != nil {
			return nil, &DefinitionError{Name: lit, Reason: "not a valid float literal"}
		}
		return FloatValue{Value: f}, nil
	case TypeBoolean:
		switch strings.TrimSpace(lit) {
		case "true", "1":
			return BooleanValue{Value: true}, nil
		case "false", "0":
			return BooleanValue{Value: false}, nil
		default:
			return nil, &DefinitionError{Name: lit, Reason: "not a valid boolean literal"}
		}
	case TypePoint:
		p, err := parsePoint(lit)
		if err != nil {
			return nil, err
		}
		return PointValue{Value: p}, nil
	case TypeRect:
		r, err := parseRect(lit)
		if err != nil {
			return nil, err
		}
		return RectValue{Value: r}, nil
	case TypeString:
		return StringValue{Value: lit}, nil
	}
	return nil, &DefinitionError{Name: lit, Reason: "unknown variable type"}
}

func parsePoint(lit string) (Point, error) {
	parts := strings.Split(lit, ",")
	if len(parts) != 2 {
		return Point{}, &DefinitionError{Name: lit, Reason: `point literal must be "x,y"`}
	}
	x, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return Point{}, &DefinitionError{Name: lit, Reason: `point literal must be "x,y" integers`}
	}
	return Point{X: x, Y: y}, nil
}

func parseRect(lit string) (Rect, error) {
	parts := strings.Split(lit, ",")
	if len(parts) != 4 {
		return Rect{}, &DefinitionError{Name: lit, Reason: `rect literal must be "x1,y1,x2,y2"`}
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, &DefinitionError{Name: lit, Reason: `rect literal must be "x1,y1,x2,y2" integers`}
		}
		vals[i] = n
	}
	return Rect{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}, nil
}
