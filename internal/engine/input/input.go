// Package input turns SDL2 events into viewer input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is one processed input event.
type Event struct {
	Type EventType

	// KeyName is the SDL key name ("R", "Tab", "Space"), matched against bindings.
	KeyName string

	Width, Height int

	MouseX, MouseY int
	DeltaX, DeltaY int
	Button         uint8
	Dragging       bool

	Wheel float32
}

// Input collects the events of one frame.
type Input struct {
	events []Event
	held   map[uint8]bool
}

func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true when the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := i.translate(event); ok {
			i.events = append(i.events, ev)
			if ev.Type == EventQuit {
				return true
			}
		}
	}
	return false
}

func (i *Input) translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		// Key repeat would toggle the same switch many times per press.
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{Type: EventKeyDown, KeyName: sdl.GetKeyName(e.Keysym.Sym)}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:     EventMouseMove,
			MouseX:   int(e.X),
			MouseY:   int(e.Y),
			DeltaX:   int(e.XRel),
			DeltaY:   int(e.YRel),
			Dragging: i.held[uint8(sdl.BUTTON_RIGHT)],
		}, true

	case *sdl.MouseButtonEvent:
		down := e.Type == sdl.MOUSEBUTTONDOWN
		i.held[e.Button] = down
		typ := EventMouseUp
		if down {
			typ = EventMouseDown
		}
		return Event{Type: typ, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: float32(e.Y)}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
