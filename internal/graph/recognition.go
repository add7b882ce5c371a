package graph

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/cwbudde/pipeline-go/internal/recognition"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

func msDuration(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }

// parseRecognition accepts either a bare string (kind name, parameters read
// from the node's own top-level fields) or an object {"type": "...",
// ...params} (spec §4.3). A missing field defaults to DirectHit (spec
// §4.6). nodeVal is the whole node object, needed because the bare-string
// form's params live beside "recognition", not inside it
// (_examples/original_source/src/Node.cpp's `recognitionConfig = config`
// parses the full node when recognition is given by name alone; every
// example pipeline in the original uses this compact form).
func parseRecognition(nodeVal gjson.Result) (recognition.Config, error) {
	v := nodeVal.Get("recognition")
	if !v.Exists() {
		return recognition.NormalizeConfig(recognition.Config{Kind: recognition.DirectHit}), nil
	}
	if v.Type == gjson.String {
		cfg := recognition.Config{Kind: recognition.Kind(v.String())}
		return recognition.NormalizeConfig(parseRecognitionParams(cfg, nodeVal)), nil
	}

	cfg := recognition.Config{Kind: recognition.Kind(v.Get("type").String())}
	if cfg.Kind == "" {
		cfg.Kind = recognition.DirectHit
	}
	return recognition.NormalizeConfig(parseRecognitionParams(cfg, v)), nil
}

// parseRecognitionParams fills in cfg's parameters from src, which is
// either the object form's own sub-object or the whole node object for the
// bare-string form.
func parseRecognitionParams(cfg recognition.Config, src gjson.Result) recognition.Config {
	if roi := src.Get("roi"); roi.Exists() {
		cfg.ROI = rectFromArray(roi)
	}
	if off := src.Get("roi_offset"); off.Exists() {
		cfg.ROIOffset = [2]int{int(off.Get("0").Int()), int(off.Get("1").Int())}
	}
	cfg.Similarity = src.Get("similarity").Float()
	cfg.Direction = src.Get("direction").String()

	if tpl := src.Get("templates"); tpl.Exists() {
		for _, e := range tpl.Array() {
			cfg.Templates = append(cfg.Templates, e.String())
		}
	}
	cfg.Threshold = src.Get("threshold").Float()

	cfg.Colors = parseColorPoints(src.Get("colors"))
	if groups := src.Get("color_groups"); groups.Exists() {
		for _, g := range groups.Array() {
			cfg.ColorGroups = append(cfg.ColorGroups, recognition.ColorGroup{
				Points: parseColorPoints(g.Get("points")),
			})
		}
	}

	if exp := src.Get("ocr_expected"); exp.Exists() {
		for _, e := range exp.Array() {
			cfg.OCRExpected = append(cfg.OCRExpected, e.String())
		}
	}
	if repl := src.Get("replacements"); repl.Exists() && repl.IsObject() {
		cfg.Replacements = make(map[string]string)
		repl.ForEach(func(k, val gjson.Result) bool {
			cfg.Replacements[k.String()] = val.String()
			return true
		})
	}
	cfg.OrderBy = src.Get("order_by").String()
	cfg.Index = int(src.Get("index").Int())
	cfg.OnlyRec = src.Get("only_rec").Bool()
	cfg.Model = src.Get("model").String()

	return cfg
}

func parseColorPoints(v gjson.Result) []recognition.ColorPoint {
	if !v.Exists() {
		return nil
	}
	var out []recognition.ColorPoint
	for _, e := range v.Array() {
		out = append(out, recognition.ColorPoint{
			Point: pointFromArray(e.Get("point")),
			Color: e.Get("color").String(),
		})
	}
	return out
}

func pointFromArray(v gjson.Result) variable.Point {
	arr := v.Array()
	if len(arr) < 2 {
		return variable.Point{}
	}
	return variable.Point{X: int(arr[0].Int()), Y: int(arr[1].Int())}
}

func rectFromArray(v gjson.Result) variable.Rect {
	arr := v.Array()
	if len(arr) < 4 {
		return variable.Rect{}
	}
	return variable.Rect{
		X1: int(arr[0].Int()), Y1: int(arr[1].Int()),
		X2: int(arr[2].Int()), Y2: int(arr[3].Int()),
	}
}
