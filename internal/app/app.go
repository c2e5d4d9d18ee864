// Package app wires the viewer together and runs its frame loop, either in a
// window or headless.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/assets"
	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/controls"
	"github.com/Faultbox/arviewer/internal/engine/audio/cue"
	"github.com/Faultbox/arviewer/internal/engine/camera"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/internal/modes"
)

// Player plays event cues.
type Player interface {
	Play(c cue.Cue) error
}

// App is one viewer instance bound to a renderer.
type App struct {
	cfg      *config.Config
	renderer backend.Renderer
	panel    *controls.Panel
	keymap   controls.Keymap
	sched    *frame.Scheduler
	manager  *modes.Manager
	audio    Player
	camera   *camera.Viewer
	log      *zap.Logger
}

// New builds the viewer around r. It does not enter a mode; Run does.
// sound may be nil.
func New(cfg *config.Config, r backend.Renderer, sound Player) (*App, error) {
	keymap, err := controls.NewKeymap(cfg.Controls.Bindings)
	if err != nil {
		return nil, fmt.Errorf("key bindings: %w", err)
	}

	a := &App{
		cfg:      cfg,
		renderer: r,
		panel:    controls.NewPanel(cfg),
		keymap:   keymap,
		sched:    frame.NewScheduler(frame.Pipeline{}),
		audio:    sound,
		camera:   camera.NewViewer(),
		log:      logger.Named("app"),
	}
	// Look slightly down so the centre ray meets the floor.
	a.camera.Pitch = -0.35

	env := &modes.Env{
		Config:   cfg,
		Renderer: r,
		Panel:    a.panel,
		Loader:   assets.NewLoader(cfg.Assets),
		Rand:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		Notify:   a.onModeEvent,
	}
	a.manager = modes.NewManager(env, a.sched, modes.Standard()...)

	a.panel.OnSelect = a.sched.Select
	a.panel.OnMode = func() {
		if err := a.manager.Next(); err != nil {
			a.log.Error("mode switch failed", zap.Error(err))
		}
	}
	a.panel.OnEffect = func() { a.play(cue.Effect) }
	return a, nil
}

// Panel returns the control panel.
func (a *App) Panel() *controls.Panel { return a.panel }

// Scheduler returns the frame scheduler.
func (a *App) Scheduler() *frame.Scheduler { return a.sched }

// Modes returns the mode manager.
func (a *App) Modes() *modes.Manager { return a.manager }

// Camera returns the viewer camera.
func (a *App) Camera() *camera.Viewer { return a.camera }

// Status returns the active mode followed by the panel settings.
func (a *App) Status() []string {
	mode := "none"
	if m := a.manager.Current(); m != nil {
		mode = m.Name()
	}
	return append([]string{"mode " + mode}, a.panel.Status()...)
}

// HandleKey applies the action bound to a key name. It reports whether the
// key was bound.
func (a *App) HandleKey(name string) bool {
	action, ok := a.keymap.Lookup(name)
	if !ok {
		return false
	}
	a.panel.Apply(action)
	return true
}

// Run enters the configured mode and ticks src until it is exhausted, ctx
// ends or Stop is called.
func (a *App) Run(ctx context.Context, src frame.Source) error {
	if err := a.manager.Change(a.cfg.Session.Mode); err != nil {
		_ = src.Close()
		return err
	}
	defer a.manager.Close()

	a.log.Info("frame loop started", zap.String("mode", a.cfg.Session.Mode))
	start := time.Now()
	err := a.sched.Run(ctx, src)
	a.log.Info("frame loop finished",
		zap.Uint64("ticks", a.sched.Ticks()),
		zap.Duration("elapsed", time.Since(start)))
	return err
}

// Stop ends Run after the current tick.
func (a *App) Stop() {
	a.sched.Stop()
}

func (a *App) onModeEvent(ev modes.Event) {
	switch ev {
	case modes.EventPlaced:
		a.play(cue.Placed)
	case modes.EventLoaded:
		a.play(cue.Loaded)
	case modes.EventLoadFailed:
		a.play(cue.Failed)
	}
}

func (a *App) play(c cue.Cue) {
	if a.audio == nil {
		return
	}
	if err := a.audio.Play(c); err != nil {
		a.log.Debug("cue not played", zap.Stringer("cue", c), zap.Error(err))
	}
}
