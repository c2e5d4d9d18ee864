package xr

import (
	"testing"

	"github.com/Faultbox/arviewer/internal/backend/memory"
	"github.com/Faultbox/arviewer/pkg/math"
)

func TestReticleFollowsSamples(t *testing.T) {
	r := memory.New()
	rt := NewReticle(r)

	n, ok := r.Node(rt.handle)
	if !ok {
		t.Fatal("reticle node missing")
	}
	if n.Visible {
		t.Error("reticle visible before any sample")
	}

	rt.Update(Sample{Valid: true, Pose: surfacePose})
	n, _ = r.Node(rt.handle)
	if !n.Visible || !rt.Visible() {
		t.Error("reticle hidden after valid sample")
	}
	if n.Transform.Translation() != surfacePose.Position {
		t.Errorf("reticle at %v, want %v", n.Transform.Translation(), surfacePose.Position)
	}

	rt.Update(Sample{})
	n, _ = r.Node(rt.handle)
	if n.Visible || rt.Visible() {
		t.Error("reticle visible after invalid sample")
	}
	if rt.Pose() != surfacePose {
		t.Errorf("last pose = %+v", rt.Pose())
	}

	rt.Remove()
	rt.Remove()
	if r.Len() != 0 {
		t.Errorf("renderer nodes = %d after Remove", r.Len())
	}
	rt.Update(Sample{Valid: true, Pose: surfacePose})
}

func TestPoseFromMatrix(t *testing.T) {
	q := math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.7)
	m := math.Compose(math.Vec3{X: 1, Y: 2, Z: 3}, q, math.Splat(1))

	p := PoseFromMatrix(m)
	if !p.Position.ApproxEqual(math.Vec3{X: 1, Y: 2, Z: 3}, 1e-5) {
		t.Errorf("position = %v", p.Position)
	}
	if !p.Orientation.SameRotation(q, 1e-4) {
		t.Errorf("orientation = %v, want %v", p.Orientation, q)
	}
}
