package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/backend/memory"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/controls"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/xr"
)

const (
	defaultHeadlessFPS = 60

	// Scripted input for unattended runs.
	selectEvery = 60
	effectAt    = 30
)

// Summary describes a finished headless run.
type Summary struct {
	Ticks   uint64
	Frames  int
	Created int
	Removed int
	Live    int
}

// RunHeadless runs the viewer against the in-memory backend. It selects every
// selectEvery ticks and triggers the effect once, so every mode does visible
// work without a user.
func RunHeadless(ctx context.Context, cfg *config.Config, onStart func(*App)) (Summary, error) {
	r := memory.New()
	r.Resize(cfg.Graphics.Width, cfg.Graphics.Height)

	a, err := New(cfg, r, nil)
	if err != nil {
		return Summary{}, err
	}
	if onStart != nil {
		onStart(a)
	}

	fps := cfg.Graphics.FPSLimit
	if fps <= 0 {
		fps = defaultHeadlessFPS
	}
	src := frame.NewTickerSource(time.Second/time.Duration(fps), cfg.Graphics.Frames)
	src.Camera = a.camera.Camera(cfg.Graphics.Width, cfg.Graphics.Height)
	ray := a.camera.CenterRay()
	src.FrameFunc = func() xr.Frame { return a.manager.Frame(ray) }
	src.BeforeTick = func(n int) {
		switch {
		case n == effectAt:
			a.panel.Apply(controls.ActionEffect)
		case n > 0 && n%selectEvery == 0:
			a.panel.Apply(controls.ActionSelect)
		}
	}

	runErr := a.Run(ctx, src)

	created, removed := r.Stats()
	s := Summary{
		Ticks:   a.sched.Ticks(),
		Frames:  r.Frames(),
		Created: created,
		Removed: removed,
		Live:    r.Len(),
	}
	a.log.Info("headless run finished",
		zap.Uint64("ticks", s.Ticks),
		zap.Int("frames", s.Frames),
		zap.Int("nodes_created", s.Created),
		zap.Int("nodes_removed", s.Removed),
		zap.Int("nodes_live", s.Live))
	return s, runErr
}
