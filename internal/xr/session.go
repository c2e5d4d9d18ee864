// Package xr tracks detected surfaces through an XR session's hit-test API and
// shows the placement reticle.
package xr

import (
	"context"

	"github.com/Faultbox/arviewer/pkg/math"
)

// SpaceKind names a reference space.
type SpaceKind string

const (
	SpaceViewer SpaceKind = "viewer"
	SpaceLocal  SpaceKind = "local"
)

// Space is a reference space handed out by a session.
type Space interface {
	Kind() SpaceKind
}

// HitTestSource is a subscription to per-frame hit-test results.
type HitTestSource interface {
	// Cancel releases the subscription. It is safe to call more than once.
	Cancel()
}

// Pose is a position and orientation.
type Pose struct {
	Position    math.Vec3
	Orientation math.Quat
}

// PoseFromMatrix extracts the pose of a rigid transform.
func PoseFromMatrix(m math.Mat4) Pose {
	pos, rot, _ := m.Decompose()
	return Pose{Position: pos, Orientation: rot}
}

// Matrix returns the pose as a transform with unit scale.
func (p Pose) Matrix() math.Mat4 {
	return math.Compose(p.Position, p.Orientation, math.Splat(1))
}

// HitResult is one intersection of the viewer ray with a detected surface.
type HitResult interface {
	// Pose resolves the hit in the given space.
	Pose(space Space) (Pose, bool)
}

// Frame is the per-tick view of an XR session.
type Frame interface {
	HitTestResults(src HitTestSource) []HitResult
}

// Session is an XR session capable of hit testing.
type Session interface {
	RequestReferenceSpace(ctx context.Context, kind SpaceKind) (Space, error)
	RequestHitTestSource(ctx context.Context, space Space) (HitTestSource, error)
	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// Sample is the tracker's answer for one tick.
type Sample struct {
	Valid bool
	Pose  Pose
}
