package xr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/arviewer/pkg/math"
)

type fakeSpace SpaceKind

func (s fakeSpace) Kind() SpaceKind { return SpaceKind(s) }

type fakeSource struct {
	mu        sync.Mutex
	cancelled bool
}

func (s *fakeSource) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

func (s *fakeSource) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

type fakeSession struct {
	gate chan struct{}
	done chan struct{}

	mu      sync.Mutex
	fail    error
	sources []*fakeSource
}

func newFakeSession(gated bool) *fakeSession {
	s := &fakeSession{done: make(chan struct{})}
	if gated {
		s.gate = make(chan struct{})
	}
	return s
}

func (s *fakeSession) wait(ctx context.Context) error {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail
}

func (s *fakeSession) RequestReferenceSpace(ctx context.Context, kind SpaceKind) (Space, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return fakeSpace(kind), nil
}

func (s *fakeSession) RequestHitTestSource(ctx context.Context, _ Space) (HitTestSource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	src := &fakeSource{}
	s.mu.Lock()
	s.sources = append(s.sources, src)
	s.mu.Unlock()
	return src, nil
}

func (s *fakeSession) Done() <-chan struct{} { return s.done }

func (s *fakeSession) setFail(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

func (s *fakeSession) liveSources() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, src := range s.sources {
		if !src.isCancelled() {
			n++
		}
	}
	return n
}

type fakeHit struct{ pose Pose }

func (h fakeHit) Pose(space Space) (Pose, bool) {
	if space == nil || space.Kind() != SpaceLocal {
		return Pose{}, false
	}
	return h.pose, true
}

type fakeFrame struct{ hits []HitResult }

func (f fakeFrame) HitTestResults(HitTestSource) []HitResult { return f.hits }

var surfacePose = Pose{Position: math.Vec3{X: 0.5, Y: -1, Z: -2}, Orientation: math.QuatIdentity()}

func hitFrame() fakeFrame {
	return fakeFrame{hits: []HitResult{fakeHit{pose: surfacePose}}}
}

func refreshUntil(t *testing.T, tr *Tracker, frame Frame, want State) Sample {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s := tr.Refresh(frame)
		if tr.State() == want {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("state = %v, want %v", tr.State(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRefreshWithoutFrameIsInvalid(t *testing.T) {
	tr := NewTracker()
	tr.Begin(newFakeSession(false))

	if s := tr.Refresh(nil); s.Valid {
		t.Error("nil frame produced a valid sample")
	}
	if tr.Requests() != 0 {
		t.Errorf("Requests() = %d, want 0", tr.Requests())
	}
}

func TestRefreshWithoutSessionIsInvalid(t *testing.T) {
	tr := NewTracker()
	if s := tr.Refresh(hitFrame()); s.Valid {
		t.Error("sample valid without a session")
	}
}

func TestAcquisitionIsNotDuplicated(t *testing.T) {
	sess := newFakeSession(true)
	tr := NewTracker()
	tr.Begin(sess)

	for i := 0; i < 10; i++ {
		if s := tr.Refresh(hitFrame()); s.Valid {
			t.Fatalf("tick %d: valid sample before acquisition completed", i)
		}
	}
	if tr.State() != StateInitializing {
		t.Errorf("state = %v, want initializing", tr.State())
	}
	if tr.Requests() != 1 {
		t.Errorf("Requests() = %d, want 1", tr.Requests())
	}

	close(sess.gate)
	s := refreshUntil(t, tr, hitFrame(), StateReady)
	if !s.Valid || s.Pose != surfacePose {
		t.Errorf("sample = %+v, want valid at %+v", s, surfacePose)
	}
	if tr.Requests() != 1 {
		t.Errorf("Requests() = %d after ready, want 1", tr.Requests())
	}
}

func TestReadyWithoutHitsIsInvalid(t *testing.T) {
	tr := NewTracker()
	tr.Begin(newFakeSession(false))
	refreshUntil(t, tr, hitFrame(), StateReady)

	if s := tr.Refresh(fakeFrame{}); s.Valid {
		t.Error("valid sample without hit results")
	}
	if s := tr.Refresh(hitFrame()); !s.Valid {
		t.Error("invalid sample with a hit result")
	}
}

func TestFailedAcquisitionRetries(t *testing.T) {
	sess := newFakeSession(false)
	sess.setFail(errors.New("not supported"))
	tr := NewTracker()
	tr.Begin(sess)

	refreshUntil(t, tr, hitFrame(), StateInitializing)
	refreshUntil(t, tr, hitFrame(), StateUninitialized)
	if tr.Requests() != 1 {
		t.Fatalf("Requests() = %d, want 1", tr.Requests())
	}

	sess.setFail(nil)
	refreshUntil(t, tr, hitFrame(), StateReady)
	if tr.Requests() != 2 {
		t.Errorf("Requests() = %d, want 2", tr.Requests())
	}
}

func TestSessionEndReleasesSource(t *testing.T) {
	sess := newFakeSession(false)
	tr := NewTracker()
	tr.Begin(sess)
	refreshUntil(t, tr, hitFrame(), StateReady)

	close(sess.done)
	if s := tr.Refresh(hitFrame()); s.Valid {
		t.Error("valid sample after session end")
	}
	if tr.State() != StateEnded {
		t.Errorf("state = %v, want ended", tr.State())
	}
	if sess.liveSources() != 0 {
		t.Errorf("live sources = %d, want 0", sess.liveSources())
	}

	tr.End()
	if s := tr.Refresh(hitFrame()); s.Valid {
		t.Error("valid sample after End")
	}
}

func TestEndDuringAcquisitionDropsResult(t *testing.T) {
	sess := newFakeSession(true)
	tr := NewTracker()
	tr.Begin(sess)
	tr.Refresh(hitFrame())

	tr.End()
	close(sess.gate)

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		if tr.Refresh(hitFrame()).Valid {
			t.Fatal("stale acquisition produced a valid sample")
		}
		time.Sleep(time.Millisecond)
	}
	if tr.State() != StateEnded {
		t.Errorf("state = %v, want ended", tr.State())
	}
	if sess.liveSources() != 0 {
		t.Errorf("live sources = %d, want 0", sess.liveSources())
	}
}

func TestBeginRestartsAfterEnd(t *testing.T) {
	tr := NewTracker()
	tr.Begin(newFakeSession(false))
	refreshUntil(t, tr, hitFrame(), StateReady)
	tr.End()

	tr.Begin(newFakeSession(false))
	if tr.State() != StateUninitialized {
		t.Fatalf("state = %v, want uninitialized", tr.State())
	}
	s := refreshUntil(t, tr, hitFrame(), StateReady)
	if !s.Valid {
		t.Error("new session did not produce samples")
	}
	if tr.Requests() != 2 {
		t.Errorf("Requests() = %d, want 2", tr.Requests())
	}
}

func TestStateString(t *testing.T) {
	if StateReady.String() != "ready" {
		t.Errorf("String() = %q", StateReady.String())
	}
	if State(9).String() != "state(9)" {
		t.Errorf("String() = %q", State(9).String())
	}
}
