// Package cue names the viewer events that have a sound.
package cue

import "fmt"

// Cue names a viewer event with its own sound.
type Cue int

const (
	Placed Cue = iota
	Loaded
	Failed
	Effect
)

func (c Cue) String() string {
	switch c {
	case Placed:
		return "placed"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Effect:
		return "effect"
	default:
		return fmt.Sprintf("cue(%d)", int(c))
	}
}
