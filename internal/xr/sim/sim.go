// Package sim emulates an XR session on the desktop: a single horizontal
// surface that the viewer ray is tested against.
package sim

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/internal/xr"
	"github.com/Faultbox/arviewer/pkg/math"
)

// ErrSessionEnded is returned by requests made after End.
var ErrSessionEnded = errors.New("session ended")

// ErrUnsupportedSpace is returned for reference spaces the emulator lacks.
var ErrUnsupportedSpace = errors.New("unsupported reference space")

// Config describes the emulated surface.
type Config struct {
	SurfaceHeight float32
	SurfaceExtent float32
	Latency       time.Duration
}

// ConfigFrom reads the emulator settings from the application config.
func ConfigFrom(c config.SessionConfig) Config {
	return Config{
		SurfaceHeight: c.SurfaceHeight,
		SurfaceExtent: c.SurfaceExtent,
		Latency:       c.InitLatency,
	}
}

// Session is an emulated XR session.
type Session struct {
	cfg     Config
	done    chan struct{}
	endOnce sync.Once

	// FailRequests makes every request fail until cleared.
	FailRequests atomic.Bool

	sources atomic.Int32
}

// NewSession starts an emulated session.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

type space struct {
	kind    xr.SpaceKind
	session *Session
}

func (s *space) Kind() xr.SpaceKind { return s.kind }

type source struct {
	session   *Session
	cancelled atomic.Bool
}

func (s *source) Cancel() {
	if s.cancelled.CompareAndSwap(false, true) {
		s.session.sources.Add(-1)
	}
}

// RequestReferenceSpace implements xr.Session.
func (s *Session) RequestReferenceSpace(ctx context.Context, kind xr.SpaceKind) (xr.Space, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if kind != xr.SpaceViewer && kind != xr.SpaceLocal {
		return nil, ErrUnsupportedSpace
	}
	return &space{kind: kind, session: s}, nil
}

// RequestHitTestSource implements xr.Session.
func (s *Session) RequestHitTestSource(ctx context.Context, sp xr.Space) (xr.HitTestSource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if own, ok := sp.(*space); !ok || own.session != s || own.kind != xr.SpaceViewer {
		return nil, ErrUnsupportedSpace
	}
	s.sources.Add(1)
	return &source{session: s}, nil
}

// Done implements xr.Session.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// End closes the session.
func (s *Session) End() {
	s.endOnce.Do(func() { close(s.done) })
}

// LiveSources returns the number of hit-test sources not yet cancelled.
func (s *Session) LiveSources() int {
	return int(s.sources.Load())
}

func (s *Session) wait(ctx context.Context) error {
	if s.cfg.Latency > 0 {
		timer := time.NewTimer(s.cfg.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrSessionEnded
		case <-timer.C:
		}
	}
	select {
	case <-s.done:
		return ErrSessionEnded
	default:
	}
	if s.FailRequests.Load() {
		return errors.New("hit testing unavailable")
	}
	return nil
}

// Frame returns the frame seen along the given viewer ray.
func (s *Session) Frame(ray picking.Ray) *Frame {
	return &Frame{session: s, ray: ray}
}

// Frame is one tick of the emulated session.
type Frame struct {
	session *Session
	ray     picking.Ray
}

// HitTestResults implements xr.Frame.
func (f *Frame) HitTestResults(src xr.HitTestSource) []xr.HitResult {
	own, ok := src.(*source)
	if !ok || own.session != f.session || own.cancelled.Load() {
		return nil
	}
	p, ok := f.ray.IntersectPlaneY(f.session.cfg.SurfaceHeight)
	if !ok {
		return nil
	}
	ext := f.session.cfg.SurfaceExtent
	if p.X < -ext || p.X > ext || p.Z < -ext || p.Z > ext {
		return nil
	}
	return []xr.HitResult{hit{session: f.session, pose: xr.Pose{Position: p, Orientation: math.QuatIdentity()}}}
}

type hit struct {
	session *Session
	pose    xr.Pose
}

func (h hit) Pose(sp xr.Space) (xr.Pose, bool) {
	own, ok := sp.(*space)
	if !ok || own.session != h.session || own.kind != xr.SpaceLocal {
		return xr.Pose{}, false
	}
	return h.pose, true
}
