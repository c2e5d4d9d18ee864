// Package camera provides the desktop stand-in for the AR viewer's head pose.
package camera

import (
	gomath "math"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Viewer is a look-around camera standing at a fixed eye position.
type Viewer struct {
	Position math.Vec3

	Yaw   float32 // radians, 0 looks down -Z
	Pitch float32 // radians, positive looks up

	FOV       float32 // vertical, radians
	Near, Far float32

	MinPitch, MaxPitch float32
	MinFOV, MaxFOV     float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewViewer creates a camera at the origin looking down -Z with a 70 degree field of view.
func NewViewer() *Viewer {
	return &Viewer{
		FOV:             70 * gomath.Pi / 180,
		Near:            0.01,
		Far:             40,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		MinFOV:          20 * gomath.Pi / 180,
		MaxFOV:          100 * gomath.Pi / 180,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Forward returns the unit view direction.
func (c *Viewer) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: -cp * float32(gomath.Sin(float64(c.Yaw))),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: -cp * float32(gomath.Cos(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *Viewer) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Forward()), math.Vec3{Y: 1})
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Viewer) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// Camera returns the matrices for a width x height drawable.
func (c *Viewer) Camera(width, height int) backend.Camera {
	return backend.Camera{
		View:       c.ViewMatrix(),
		Projection: c.Projection(aspect(width, height)),
	}
}

// Ray returns the world ray through pixel (x, y).
func (c *Viewer) Ray(x, y float32, width, height int) picking.Ray {
	cam := c.Camera(width, height)
	inv := cam.Projection.Mul(cam.View).Inverse()
	return picking.ScreenToRay(x, y, float32(width), float32(height), inv)
}

// CenterRay is the ray along the view direction, the hit-test ray of a handheld session.
func (c *Viewer) CenterRay() picking.Ray {
	return picking.NewRay(c.Position, c.Forward())
}

// HandleDrag turns the camera by a mouse drag delta in pixels.
func (c *Viewer) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch -= deltaY * c.DragSensitivity
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom narrows or widens the field of view from a scroll delta.
func (c *Viewer) HandleZoom(delta float32) {
	c.FOV -= delta * c.FOV * c.ZoomSensitivity
	if c.FOV < c.MinFOV {
		c.FOV = c.MinFOV
	}
	if c.FOV > c.MaxFOV {
		c.FOV = c.MaxFOV
	}
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
