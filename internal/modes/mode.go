// Package modes implements the viewer's scene modes and switching between them.
package modes

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/controls"
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/internal/placement"
	"github.com/Faultbox/arviewer/internal/xr"
)

// Event is something a mode reports to the application, e.g. for audio cues.
type Event int

const (
	EventPlaced Event = iota
	EventLoaded
	EventLoadFailed
)

// Env is what every mode is built from.
type Env struct {
	Config   *config.Config
	Renderer backend.Renderer
	Panel    *controls.Panel
	Loader   placement.Loader
	Rand     *rand.Rand

	// Notify, if set, receives mode events.
	Notify func(Event)
}

func (e *Env) rng() *rand.Rand {
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return e.Rand
}

func (e *Env) notify(ev Event) {
	if e.Notify != nil {
		e.Notify(ev)
	}
}

// Mode is one scene setup.
type Mode interface {
	Name() string
	// Enter builds the mode's scene and returns the pipeline to run it.
	Enter(env *Env) (frame.Pipeline, error)
	// Exit removes every node the mode created and stops its session.
	Exit()
	// Frame returns the XR frame for a viewer ray, or nil when the mode runs
	// without a session.
	Frame(ray picking.Ray) xr.Frame
}

// Manager owns the active mode and swaps the scheduler's pipeline on change.
type Manager struct {
	env       *Env
	scheduler *frame.Scheduler
	modes     []Mode
	current   int
	active    bool
	log       *zap.Logger
}

// NewManager creates a manager cycling through modes in order.
func NewManager(env *Env, scheduler *frame.Scheduler, modes ...Mode) *Manager {
	return &Manager{
		env:       env,
		scheduler: scheduler,
		modes:     modes,
		log:       logger.Named("modes"),
	}
}

// Standard returns the showcase, spawn and model modes.
func Standard() []Mode {
	return []Mode{NewShowcase(), NewSpawn(), NewModel()}
}

// Current returns the active mode, or nil before the first Change.
func (m *Manager) Current() Mode {
	if !m.active {
		return nil
	}
	return m.modes[m.current]
}

// Change exits the active mode and enters the named one. The new pipeline
// takes effect at the next tick.
func (m *Manager) Change(name string) error {
	for i, mode := range m.modes {
		if mode.Name() == name {
			return m.enter(i)
		}
	}
	return fmt.Errorf("unknown mode %q", name)
}

// Next switches to the mode after the active one.
func (m *Manager) Next() error {
	if len(m.modes) == 0 {
		return fmt.Errorf("no modes")
	}
	return m.enter((m.current + 1) % len(m.modes))
}

func (m *Manager) enter(i int) error {
	m.Close()

	next := m.modes[i]
	p, err := next.Enter(m.env)
	if err != nil {
		return fmt.Errorf("entering %s mode: %w", next.Name(), err)
	}
	m.current, m.active = i, true
	m.scheduler.SetPipeline(p)
	m.log.Info("mode entered", zap.String("mode", next.Name()))
	return nil
}

// Frame returns the active mode's XR frame for ray.
func (m *Manager) Frame(ray picking.Ray) xr.Frame {
	if !m.active {
		return nil
	}
	return m.modes[m.current].Frame(ray)
}

// Close exits the active mode.
func (m *Manager) Close() {
	if !m.active {
		return
	}
	mode := m.modes[m.current]
	mode.Exit()
	m.active = false
	m.scheduler.SetPipeline(frame.Pipeline{})
	m.log.Info("mode exited", zap.String("mode", mode.Name()))
}
