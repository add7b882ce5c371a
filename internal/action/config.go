// Package action implements the Action Dispatcher (spec §4.4): it
// resolves target descriptors into concrete coordinates, delegates to an
// external input collaborator, and records derived variables.
package action

import "github.com/cwbudde/pipeline-go/internal/variable"

// Kind identifies one of the nine action strategies a node can perform.
type Kind string

const (
	DoNothing Kind = "DoNothing"
	Click     Kind = "Click"
	Swipe     Kind = "Swipe"
	Key       Kind = "Key"
	Text      Kind = "Text"
	StartApp  Kind = "StartApp"
	StopApp   Kind = "StopApp"
	StopTask  Kind = "StopTask"
	Command   Kind = "Command"
)

// TargetKind tags which of the four coordinate-target forms (spec §4.4)
// a Target holds.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetRecognitionCenter
	TargetPoint
	TargetBox
	TargetString
)

// Box is the "[x,y,w,h]" target form: a point uniformly randomised within
// a w*h rectangle anchored at (x,y).
type Box struct{ X, Y, W, H int }

// Target is a coordinate descriptor for Click.target, Swipe.begin, or
// Swipe.end, in one of the four forms spec §4.4 defines.
type Target struct {
	Kind  TargetKind
	Point variable.Point
	Box   Box
	Raw   string // source string for the TargetString form, resolved at dispatch time
}

// Offset is a "[dx,dy,rx,ry]" additive/jitter offset (spec §4.4).
type Offset struct{ DX, DY, RX, RY int }

// Config is the fully-resolved, typed action request built from a node's
// action field.
type Config struct {
	Kind Kind

	ClickTarget Target
	ClickOffset Offset

	SwipeBegin       Target
	SwipeEnd         Target
	SwipeBeginOffset Offset
	SwipeEndOffset   Offset

	Key  string
	Text string

	AppPackage  string
	AppActivity string

	Command     string
	CommandArgs []string
}
