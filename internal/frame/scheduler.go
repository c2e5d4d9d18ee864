// Package frame drives the per-tick pipeline: surface refresh, reticle,
// placement, animation, sync and render.
package frame

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
)

// ErrExhausted is returned by a Source with no more ticks.
var ErrExhausted = errors.New("frame source exhausted")

// Tick is one frame's input.
type Tick struct {
	Timestamp float64 // milliseconds
	Frame     xr.Frame
	Camera    backend.Camera
}

// Source produces ticks. Next blocks until the next frame is due.
type Source interface {
	Next(ctx context.Context) (Tick, error)
	Close() error
}

// Placer reacts to select events.
type Placer interface {
	OnSelect(s xr.Sample) bool
}

// Poller is implemented by placers that finish work asynchronously.
type Poller interface {
	Poll() bool
}

// Settings exposes the global switches read each tick.
type Settings interface {
	Toggles() scene.Toggles
	Textures() bool
}

// Pipeline is the set of stages a tick runs through. Tracker, Reticle and
// Placer may be nil.
type Pipeline struct {
	Tracker  *xr.Tracker
	Reticle  *xr.Reticle
	Placer   Placer
	Engine   *anim.Engine
	Registry *scene.Registry
	Renderer backend.Renderer
	Settings Settings
}

// Scheduler runs a Pipeline once per tick.
type Scheduler struct {
	pipeline Pipeline
	next     *Pipeline
	log      *zap.Logger

	selections int
	ticks      uint64
	last       xr.Sample

	stopped  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
}

// NewScheduler creates a scheduler running p.
func NewScheduler(p Pipeline) *Scheduler {
	return &Scheduler{
		pipeline: p,
		log:      logger.Named("frame"),
		stop:     make(chan struct{}),
	}
}

// SetPipeline swaps the pipeline at the next tick boundary.
func (s *Scheduler) SetPipeline(p Pipeline) {
	s.next = &p
}

// Select queues a select event for the next placement stage.
func (s *Scheduler) Select() {
	s.selections++
}

// Sample returns the surface sample of the last tick.
func (s *Scheduler) Sample() xr.Sample {
	return s.last
}

// Ticks returns how many ticks have run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Tick runs every stage once, in order.
func (s *Scheduler) Tick(t Tick) {
	if s.next != nil {
		s.pipeline = *s.next
		s.next = nil
		s.selections = 0
	}
	p := &s.pipeline

	var sample xr.Sample
	if p.Tracker != nil {
		sample = p.Tracker.Refresh(t.Frame)
	}
	s.last = sample
	if p.Reticle != nil {
		p.Reticle.Update(sample)
	}

	if poller, ok := p.Placer.(Poller); ok {
		poller.Poll()
	}
	n := s.selections
	s.selections = 0
	if p.Placer != nil {
		for i := 0; i < n; i++ {
			p.Placer.OnSelect(sample)
		}
	}

	toggles, textures := scene.DefaultToggles(), true
	if p.Settings != nil {
		toggles, textures = p.Settings.Toggles(), p.Settings.Textures()
	}
	if p.Engine != nil && p.Registry != nil {
		p.Engine.Update(p.Registry, t.Timestamp, toggles)
	}

	if p.Renderer != nil {
		if p.Registry != nil {
			p.Registry.Sync(p.Renderer, textures)
		}
		p.Renderer.Render(t.Camera)
	}
	s.ticks++
}

// Run ticks until the source is exhausted, ctx is done or Stop is called.
// The source is closed on return.
func (s *Scheduler) Run(ctx context.Context, src Source) (err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing frame source: %w", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	for !s.stopped.Load() {
		t, err := src.Next(ctx)
		switch {
		case errors.Is(err, ErrExhausted):
			return nil
		case errors.Is(err, context.Canceled) && s.stopped.Load():
			return nil
		case err != nil:
			return err
		}
		s.Tick(t)
	}
	s.log.Debug("frame loop stopped", zap.Uint64("ticks", s.ticks))
	return nil
}

// Stop ends Run after the current tick. It is safe to call from any goroutine
// and more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stop)
	})
}
