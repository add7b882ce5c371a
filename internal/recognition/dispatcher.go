package recognition

import (
	"context"
	"fmt"

	"github.com/cwbudde/pipeline-go/internal/variable"
)

// Result is the outcome of one recognition attempt (spec §3). An
// unsuccessful result still carries defined, zero-valued numeric fields.
type Result struct {
	Success bool
	Box     variable.Rect
	Score   float64
	Text    string
}

// Vision is the external vision collaborator contract (spec §6):
// evaluate(params) -> {success, box, score, text}, plus a batch entry
// point for OCR.
type Vision interface {
	Recognize(ctx context.Context, kind Kind, cfg Config) (Result, error)
	RecognizeBatch(ctx context.Context, kind Kind, cfg Config) ([]Result, error)
}

// Dispatcher builds typed recognition requests from node config and
// delegates to a Vision collaborator.
type Dispatcher struct {
	vision Vision
}

// NewDispatcher returns a Dispatcher backed by vision.
func NewDispatcher(vision Vision) *Dispatcher {
	return &Dispatcher{vision: vision}
}

// Recognize performs a single recognition, applying defaults, the
// list-variant first-success search, and the inverse flip, in that order
// (spec §4.3).
func (d *Dispatcher) Recognize(ctx context.Context, cfg Config) (Result, error) {
	cfg = NormalizeConfig(cfg)

	var (
		res Result
		err error
	)
	switch cfg.Kind {
	case "", DirectHit:
		res = Result{Success: true}
	case FindColorList:
		res, err = d.firstSuccessfulColor(ctx, cfg)
	case FindMultiColorList:
		res, err = d.firstSuccessfulColorGroup(ctx, cfg)
	case OCR:
		res, err = d.ocrByIndex(ctx, cfg)
	default:
		res, err = d.vision.Recognize(ctx, cfg.Kind, cfg)
	}
	if err != nil {
		return Result{}, err
	}

	if cfg.Inverse {
		res.Success = !res.Success
	}
	return res, nil
}

// RecognizeBatch returns the full sequence of OCR matches before
// index-selection (spec §4.3's "additional entry point").
func (d *Dispatcher) RecognizeBatch(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Kind != OCR {
		return nil, fmt.Errorf("recognition: RecognizeBatch only supports OCR, got %q", cfg.Kind)
	}
	cfg = NormalizeConfig(cfg)
	results, err := d.vision.RecognizeBatch(ctx, OCR, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Inverse {
		for i := range results {
			results[i].Success = !results[i].Success
		}
	}
	return results, nil
}

// ocrByIndex backs the single-recognize OCR path: it runs the batch
// collaborator call and selects cfg.Index from the result sequence (spec
// §4.3: "single-recognize selects by index; negative indexes count from
// the end"). Note cfg here is already NormalizeConfig'd, and cfg.Inverse
// is applied by the caller (Recognize), so RecognizeBatch is called
// directly rather than through the public entry point to avoid flipping
// Success twice.
func (d *Dispatcher) ocrByIndex(ctx context.Context, cfg Config) (Result, error) {
	results, err := d.vision.RecognizeBatch(ctx, OCR, cfg)
	if err != nil {
		return Result{}, err
	}
	res, ok := SelectByIndex(results, cfg.Index)
	if !ok {
		return Result{Success: false}, nil
	}
	return res, nil
}

// SelectByIndex picks a batch result by index, where a negative index
// counts from the end (spec §4.3).
func SelectByIndex(results []Result, index int) (Result, bool) {
	n := len(results)
	if n == 0 {
		return Result{}, false
	}
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return Result{}, false
	}
	return results[index], true
}

// firstSuccessfulColor iterates cfg.Colors in order, returning the first
// inner result whose recognition succeeds (spec §4.3 "List variants").
func (d *Dispatcher) firstSuccessfulColor(ctx context.Context, cfg Config) (Result, error) {
	for _, c := range cfg.Colors {
		inner := cfg
		inner.Kind = FindColor
		inner.Colors = []ColorPoint{c}
		res, err := d.vision.Recognize(ctx, FindColor, inner)
		if err != nil {
			return Result{}, err
		}
		if res.Success {
			return res, nil
		}
	}
	return Result{Success: false}, nil
}

func (d *Dispatcher) firstSuccessfulColorGroup(ctx context.Context, cfg Config) (Result, error) {
	for _, g := range cfg.ColorGroups {
		inner := cfg
		inner.Kind = FindMultiColor
		inner.ColorGroups = []ColorGroup{g}
		res, err := d.vision.Recognize(ctx, FindMultiColor, inner)
		if err != nil {
			return Result{}, err
		}
		if res.Success {
			return res, nil
		}
	}
	return Result{Success: false}, nil
}
