package action

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/pipeline-go/internal/expr"
	"github.com/cwbudde/pipeline-go/internal/recognition"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

// targetContext distinguishes Swipe.end from every other target site,
// needed for the "%r in Swipe.end reuses the rect's (x2,y2)" rule (spec
// §4.4).
type targetContext int

const (
	contextClick targetContext = iota
	contextSwipeBegin
	contextSwipeEnd
)

var pointStringRe = regexp.MustCompile(`^\s*(-?\d+)\s*,\s*(-?\d+)\s*$`)
var pointVarRe = regexp.MustCompile(`%p[A-Za-z_][A-Za-z0-9_]*`)
var rectVarRe = regexp.MustCompile(`%r[A-Za-z_][A-Za-z0-9_]*`)

// resolvePoint implements the four coordinate-target forms of spec §4.4.
// ok is false when resolution fails (e.g. a boolean target with no
// successful recognition, or an unparseable string target).
func resolvePoint(tctx targetContext, t Target, rec recognition.Result, ee *expr.Engine) (variable.Point, bool) {
	switch t.Kind {
	case TargetRecognitionCenter:
		if !rec.Success {
			return variable.Point{}, false
		}
		return variable.Point{
			X: (rec.Box.X1 + rec.Box.X2) / 2,
			Y: (rec.Box.Y1 + rec.Box.Y2) / 2,
		}, true
	case TargetPoint:
		return t.Point, true
	case TargetBox:
		return variable.Point{X: t.Box.X, Y: t.Box.Y}, true // jitter applied by caller via Box fields at dispatch
	case TargetString:
		return resolveStringTarget(tctx, t.Raw, ee)
	default:
		return variable.Point{}, false
	}
}

func resolveStringTarget(tctx targetContext, raw string, ee *expr.Engine) (variable.Point, bool) {
	s := raw
	if strings.ContainsAny(raw, "%[{") {
		s = ee.Interpolate(raw)
	}

	if m := pointStringRe.FindStringSubmatch(s); m != nil {
		x, errX := strconv.Atoi(m[1])
		y, errY := strconv.Atoi(m[2])
		if errX == nil && errY == nil {
			return variable.Point{X: x, Y: y}, true
		}
	}

	if name := pointVarRe.FindString(s); name != "" {
		if v, ok := ee.Store().Get(name); ok {
			if pv, ok := v.(variable.PointValue); ok {
				return pv.Value, true
			}
		}
	}

	if tctx == contextSwipeEnd {
		if name := rectVarRe.FindString(s); name != "" {
			if v, ok := ee.Store().Get(name); ok {
				if rv, ok := v.(variable.RectValue); ok {
					return variable.Point{X: rv.Value.X2, Y: rv.Value.Y2}, true
				}
			}
		}
	}

	// Spec §9: a string that doesn't resolve as coordinates is documented
	// to "treat as a node name", but the source's fallback is a no-op that
	// just reuses the current recognition result, which this engine does
	// not implement (the cross-node lookup was never wired in the
	// original either). Reject the form explicitly rather than silently
	// reusing an unrelated result.
	return variable.Point{}, false
}

// jitterBox adds a box's own random spread (spec §4.4: "rand() % w" /
// "rand() % h" when positive) to an already-resolved box-origin point.
func jitterBox(p variable.Point, box Box, rng *rand.Rand) variable.Point {
	if box.W > 0 {
		p.X += rng.IntN(box.W)
	}
	if box.H > 0 {
		p.Y += rng.IntN(box.H)
	}
	return p
}

// applyOffset adds a fixed [dx,dy] plus a uniform random [0,rx)/[0,ry)
// jitter, per spec §4.4.
func applyOffset(p variable.Point, off Offset, rng *rand.Rand) variable.Point {
	p.X += off.DX
	p.Y += off.DY
	if off.RX > 0 {
		p.X += rng.IntN(off.RX)
	}
	if off.RY > 0 {
		p.Y += rng.IntN(off.RY)
	}
	return p
}
