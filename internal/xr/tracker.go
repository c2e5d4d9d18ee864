package xr

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/logger"
)

// State is the hit-test acquisition state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type acquisition struct {
	source HitTestSource
	local  Space
	err    error
}

// Tracker turns a session's hit-test results into one Sample per tick.
//
// Acquiring the hit-test source is asynchronous. Refresh starts it once, polls
// it without blocking on later ticks and reports invalid samples until it
// completes. A failed acquisition is retried on the next tick.
type Tracker struct {
	log *zap.Logger

	session Session
	state   State
	pending chan acquisition
	cancel  context.CancelFunc

	source HitTestSource
	local  Space

	requests int
}

// NewTracker creates a tracker with no session.
func NewTracker() *Tracker {
	return &Tracker{log: logger.Named("xr")}
}

// Begin attaches a session, discarding any state from a previous one.
func (t *Tracker) Begin(s Session) {
	t.reset()
	t.session = s
	t.state = StateUninitialized
}

// End releases the hit-test source and marks the session ended. A request
// still in flight is cancelled and its result dropped.
func (t *Tracker) End() {
	if t.state == StateEnded && t.session == nil {
		return
	}
	t.reset()
	t.state = StateEnded
	t.log.Debug("hit-test session ended")
}

// State returns the acquisition state.
func (t *Tracker) State() State {
	return t.state
}

// Requests returns how many acquisitions have been started.
func (t *Tracker) Requests() int {
	return t.requests
}

// Refresh returns the surface under the viewer for this frame. A nil frame
// yields an invalid sample.
func (t *Tracker) Refresh(frame Frame) Sample {
	if t.session != nil {
		select {
		case <-t.session.Done():
			t.End()
		default:
		}
	}
	if frame == nil || t.session == nil {
		return Sample{}
	}

	switch t.state {
	case StateEnded:
		return Sample{}
	case StateUninitialized:
		t.acquire()
		return Sample{}
	case StateInitializing:
		if !t.poll() {
			return Sample{}
		}
	}

	results := frame.HitTestResults(t.source)
	if len(results) == 0 {
		return Sample{}
	}
	pose, ok := results[0].Pose(t.local)
	if !ok {
		return Sample{}
	}
	return Sample{Valid: true, Pose: pose}
}

func (t *Tracker) acquire() {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan acquisition, 1)

	t.cancel = cancel
	t.pending = ch
	t.state = StateInitializing
	t.requests++

	go func(s Session) {
		a := request(ctx, s)
		if a.err == nil && ctx.Err() != nil {
			a.source.Cancel()
			a = acquisition{err: ctx.Err()}
		}
		ch <- a
	}(t.session)
}

func request(ctx context.Context, s Session) acquisition {
	viewer, err := s.RequestReferenceSpace(ctx, SpaceViewer)
	if err != nil {
		return acquisition{err: fmt.Errorf("viewer space: %w", err)}
	}
	src, err := s.RequestHitTestSource(ctx, viewer)
	if err != nil {
		return acquisition{err: fmt.Errorf("hit-test source: %w", err)}
	}
	local, err := s.RequestReferenceSpace(ctx, SpaceLocal)
	if err != nil {
		src.Cancel()
		return acquisition{err: fmt.Errorf("local space: %w", err)}
	}
	return acquisition{source: src, local: local}
}

func (t *Tracker) poll() bool {
	select {
	case a := <-t.pending:
		t.pending = nil
		t.cancel()
		t.cancel = nil
		if a.err != nil {
			if !errors.Is(a.err, context.Canceled) {
				t.log.Warn("hit-test acquisition failed", zap.Error(a.err))
			}
			t.state = StateUninitialized
			return false
		}
		t.source = a.source
		t.local = a.local
		t.state = StateReady
		t.log.Info("hit-test source ready")
		return true
	default:
		return false
	}
}

func (t *Tracker) reset() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if t.source != nil {
		t.source.Cancel()
		t.source = nil
	}
	if t.pending != nil {
		go func(ch <-chan acquisition) {
			if a := <-ch; a.source != nil {
				a.source.Cancel()
			}
		}(t.pending)
		t.pending = nil
	}
	t.local = nil
	t.session = nil
}
