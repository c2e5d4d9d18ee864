// Package backend defines the rendering surface the viewer core draws through.
//
// The core never reads rendering output: it creates nodes, pushes transforms and
// materials, and asks for a frame to be drawn. Two implementations exist, the
// OpenGL renderer in internal/engine/glrender and the in-memory recorder in
// backend/memory used for headless runs and tests.
package backend

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/arviewer/pkg/math"
)

// Handle identifies a node owned by a Renderer. The zero Handle is never issued.
type Handle uint32

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// Camera holds the matrices a frame is rendered with.
type Camera struct {
	View       math.Mat4
	Projection math.Mat4
}

// Renderer is the rendering backend consumed by the viewer core.
type Renderer interface {
	// CreateNode adds a visible node to the scene.
	CreateNode(geo Geometry, mat Material) Handle
	// SetTransform sets the node's world matrix.
	SetTransform(h Handle, m math.Mat4)
	// SetMaterial replaces the node's material.
	SetMaterial(h Handle, mat Material)
	// SetVisible shows or hides a node without releasing it.
	SetVisible(h Handle, visible bool)
	// RemoveNode releases the node and its resources. Unknown handles are ignored.
	RemoveNode(h Handle)
	// Render draws every visible node.
	Render(cam Camera)
	// Resize updates the drawable size.
	Resize(width, height int)
}

// Material describes the appearance of a node.
type Material struct {
	Color             colorful.Color
	Emissive          colorful.Color
	EmissiveIntensity float32
	Metalness         float32
	Roughness         float32
	Transmission      float32
	Opacity           float32
	Transparent       bool
	Unlit             bool
	PointSize         float32 // Only used by point geometry
}

// Standard returns an opaque lit material of the given colour.
func Standard(c colorful.Color) Material {
	return Material{
		Color:     c,
		Roughness: 1,
		Opacity:   1,
	}
}

// Hex parses a #rrggbb colour, falling back to white for malformed input.
func Hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// RGB builds a colour from a 0xRRGGBB literal.
func RGB(v uint32) colorful.Color {
	return colorful.Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}
