package graph

import "fmt"

// LoadError wraps a load-time failure (spec §7's "Load error" row):
// an unreadable file, malformed JSON, or a top-level value that is not an
// object. var_global definitions are not parsed at load time. Loading
// a well-formed document with dangling node references never produces a
// LoadError — those surface later as resolution failures (spec §7).
type LoadError struct {
	Path   string // empty for LoadString
	Reason string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("graph: load %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("graph: load: %s", e.Reason)
}
