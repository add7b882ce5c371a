package graph

import (
	"github.com/tidwall/gjson"

	"github.com/cwbudde/pipeline-go/internal/action"
	"github.com/cwbudde/pipeline-go/internal/variable"
)

// parseAction accepts either a bare string (kind name, parameters read from
// the node's own top-level fields) or an object {"type": "...", ...params}
// (spec §4.4). A missing field defaults to DoNothing (spec §4.6). nodeVal
// is the whole node object: the bare-string form's params (target, begin,
// end, key, ...) live beside "action", not inside it
// (_examples/original_source/examples/structured_action_example.cpp and
// the original's bare-string call sites both read params off the node).
func parseAction(nodeVal gjson.Result) (action.Config, error) {
	v := nodeVal.Get("action")
	if !v.Exists() {
		return action.Config{Kind: action.DoNothing}, nil
	}
	if v.Type == gjson.String {
		cfg := action.Config{Kind: action.Kind(v.String())}
		return parseActionParams(cfg, nodeVal), nil
	}

	cfg := action.Config{Kind: action.Kind(v.Get("type").String())}
	if cfg.Kind == "" {
		cfg.Kind = action.DoNothing
	}
	return parseActionParams(cfg, v), nil
}

// parseActionParams fills in cfg's parameters from src, which is either the
// object form's own sub-object or the whole node object for the
// bare-string form.
func parseActionParams(cfg action.Config, src gjson.Result) action.Config {
	cfg.ClickTarget = parseTarget(src.Get("target"))
	cfg.ClickOffset = parseOffset(src.Get("target_offset"))

	cfg.SwipeBegin = parseTarget(src.Get("begin"))
	cfg.SwipeBeginOffset = parseOffset(src.Get("begin_offset"))
	cfg.SwipeEnd = parseTarget(src.Get("end"))
	cfg.SwipeEndOffset = parseOffset(src.Get("end_offset"))

	cfg.Key = src.Get("key").String()
	cfg.Text = src.Get("text").String()

	cfg.AppPackage = src.Get("app_package").String()
	cfg.AppActivity = src.Get("app_activity").String()

	cfg.Command = src.Get("command").String()
	if args := src.Get("command_args"); args.Exists() {
		for _, a := range args.Array() {
			cfg.CommandArgs = append(cfg.CommandArgs, a.String())
		}
	}

	return cfg
}

// parseTarget implements the four coordinate-target forms of spec §4.4:
// bool true (recognition-box center), [x,y], [x,y,w,h], or a string
// resolved at dispatch time (possibly through interpolation).
func parseTarget(v gjson.Result) action.Target {
	switch {
	case !v.Exists():
		return action.Target{Kind: action.TargetNone}
	case v.Type == gjson.True:
		return action.Target{Kind: action.TargetRecognitionCenter}
	case v.IsArray():
		arr := v.Array()
		switch len(arr) {
		case 2:
			return action.Target{
				Kind:  action.TargetPoint,
				Point: variable.Point{X: int(arr[0].Int()), Y: int(arr[1].Int())},
			}
		case 4:
			return action.Target{
				Kind: action.TargetBox,
				Box:  action.Box{X: int(arr[0].Int()), Y: int(arr[1].Int()), W: int(arr[2].Int()), H: int(arr[3].Int())},
			}
		default:
			return action.Target{Kind: action.TargetNone}
		}
	case v.Type == gjson.String:
		return action.Target{Kind: action.TargetString, Raw: v.String()}
	default:
		return action.Target{Kind: action.TargetNone}
	}
}

// parseOffset reads a "[dx,dy,rx,ry]" array (spec §4.4); a missing or
// short array yields the zero Offset (no adjustment).
func parseOffset(v gjson.Result) action.Offset {
	if !v.Exists() || !v.IsArray() {
		return action.Offset{}
	}
	arr := v.Array()
	if len(arr) < 4 {
		return action.Offset{}
	}
	return action.Offset{
		DX: int(arr[0].Int()), DY: int(arr[1].Int()),
		RX: int(arr[2].Int()), RY: int(arr[3].Int()),
	}
}
