// Package recognition implements the Recognition Dispatcher (spec §4.3):
// it turns a node's recognition config into a typed request, delegates to
// an external vision collaborator, and normalises the result.
package recognition

import "github.com/cwbudde/pipeline-go/internal/variable"

// Kind identifies one of the seven recognition strategies a node can use.
type Kind string

const (
	DirectHit          Kind = "DirectHit"
	TemplateMatch      Kind = "TemplateMatch"
	FindColor          Kind = "FindColor"
	FindMultiColor     Kind = "FindMultiColor"
	FindColorList      Kind = "FindColorList"
	FindMultiColorList Kind = "FindMultiColorList"
	OCR                Kind = "OCR"
)

// ColorPoint is a single (point, expected-color) descriptor used by
// FindColor and as an element of FindColorList / a multi-color group.
type ColorPoint struct {
	Point variable.Point
	Color string // "#RRGGBB" or similar, passed through to the vision collaborator verbatim
}

// ColorGroup is a set of ColorPoints that must all match for FindMultiColor
// to succeed.
type ColorGroup struct {
	Points []ColorPoint
}

// Config is the fully-resolved, typed recognition request built from a
// node's recognition field (spec §4.3). Which fields are meaningful
// depends on Kind; unused fields are left at their zero value.
type Config struct {
	Kind Kind

	// ROI is the zero Rect when the node config omits it; NormalizeConfig
	// leaves it unchanged and it reaches the vision collaborator as is.
	ROI       variable.Rect
	ROIOffset [2]int // dx, dy applied to ROI's origin before recognition

	Similarity float64 // default 1.0
	Direction  string

	Templates []string
	Threshold float64 // TemplateMatch default; see NormalizeConfig

	Colors      []ColorPoint // FindColor, and each entry of FindColorList
	ColorGroups []ColorGroup // FindMultiColor, and each entry of FindMultiColorList

	OCRExpected  []string
	Replacements map[string]string
	OrderBy      string
	Index        int // negative counts from the end of a batch result

	OnlyRec bool
	Model   string

	Inverse bool // flips Success after the vision call (spec §4.3 last line)
}

// defaultTemplateThreshold is the similarity threshold assumed for
// TemplateMatch when the node config omits one. The C++ original carries
// both 0.7 and 0.8 in different code paths (spec §9); this implementation
// picks 0.7, matching Recognition.cpp's primary single-match path, and
// documents the choice in DESIGN.md rather than silently picking one.
const defaultTemplateThreshold = 0.7

const defaultSimilarity = 1.0

// NormalizeConfig fills in similarity 1.0 and the template-match threshold
// when they are zero. It does not change ROI.
func NormalizeConfig(cfg Config) Config {
	if cfg.Similarity == 0 {
		cfg.Similarity = defaultSimilarity
	}
	if cfg.Kind == TemplateMatch && cfg.Threshold == 0 {
		cfg.Threshold = defaultTemplateThreshold
	}
	return cfg
}
