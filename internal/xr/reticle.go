package xr

import (
	stdmath "math"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Reticle is the ring drawn on the detected surface.
type Reticle struct {
	renderer backend.Renderer
	handle   backend.Handle
	visible  bool
	pose     Pose
}

// NewReticle creates a hidden reticle.
func NewReticle(r backend.Renderer) *Reticle {
	flat := math.QuatFromAxisAngle(math.Vec3{X: 1}, -stdmath.Pi/2)
	h := r.CreateNode(backend.Ring(0.15, 0.2).Rotated(flat), backend.Material{
		Color:   backend.RGB(0xffffff),
		Opacity: 1,
		Unlit:   true,
	})
	r.SetVisible(h, false)
	return &Reticle{renderer: r, handle: h}
}

// Update shows the reticle at a valid sample's pose and hides it otherwise.
func (rt *Reticle) Update(s Sample) {
	if rt.handle == backend.NoHandle {
		return
	}
	if s.Valid {
		rt.pose = s.Pose
		rt.renderer.SetTransform(rt.handle, s.Pose.Matrix())
	}
	if s.Valid != rt.visible {
		rt.visible = s.Valid
		rt.renderer.SetVisible(rt.handle, s.Valid)
	}
}

// Visible reports whether the reticle is shown.
func (rt *Reticle) Visible() bool {
	return rt.visible
}

// Pose returns the last pose the reticle was shown at.
func (rt *Reticle) Pose() Pose {
	return rt.pose
}

// Remove releases the reticle's node.
func (rt *Reticle) Remove() {
	if rt.handle == backend.NoHandle {
		return
	}
	rt.renderer.RemoveNode(rt.handle)
	rt.handle = backend.NoHandle
	rt.visible = false
}
