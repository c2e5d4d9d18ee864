package backend

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/arviewer/pkg/math"
)

// GeometryKind enumerates the procedural shapes a renderer can build.
type GeometryKind int

const (
	GeometryBox GeometryKind = iota
	GeometryTorus
	GeometryTorusKnot
	GeometryCylinder
	GeometryOctahedron
	GeometryRing
	GeometryPoints
)

// String returns the shape name.
func (k GeometryKind) String() string {
	switch k {
	case GeometryBox:
		return "box"
	case GeometryTorus:
		return "torus"
	case GeometryTorusKnot:
		return "torus_knot"
	case GeometryCylinder:
		return "cylinder"
	case GeometryOctahedron:
		return "octahedron"
	case GeometryRing:
		return "ring"
	case GeometryPoints:
		return "points"
	default:
		return "unknown"
	}
}

// Geometry is a description of a shape; renderers turn it into GPU buffers.
// Which size fields apply depends on Kind.
type Geometry struct {
	Kind GeometryKind

	Radius float32 // torus, knot, cylinder, octahedron; ring outer radius
	Tube   float32 // torus and knot tube radius; ring inner radius
	Height float32 // cylinder height

	Min, Max math.Vec3 // box bounds

	// Orientation is baked into the vertices, e.g. to lay a ring flat.
	Orientation math.Quat

	Points      []math.Vec3
	PointColors []colorful.Color
}

// Box returns an axis-aligned box spanning min..max.
func Box(min, max math.Vec3) Geometry {
	return Geometry{Kind: GeometryBox, Min: min, Max: max, Orientation: math.QuatIdentity()}
}

// Torus returns a torus with the given ring and tube radii.
func Torus(radius, tube float32) Geometry {
	return Geometry{Kind: GeometryTorus, Radius: radius, Tube: tube, Orientation: math.QuatIdentity()}
}

// TorusKnot returns a (2,3) torus knot.
func TorusKnot(radius, tube float32) Geometry {
	return Geometry{Kind: GeometryTorusKnot, Radius: radius, Tube: tube, Orientation: math.QuatIdentity()}
}

// Cylinder returns a capped cylinder centred on the origin.
func Cylinder(radius, height float32) Geometry {
	return Geometry{Kind: GeometryCylinder, Radius: radius, Height: height, Orientation: math.QuatIdentity()}
}

// Octahedron returns a regular octahedron with the given circumradius.
func Octahedron(radius float32) Geometry {
	return Geometry{Kind: GeometryOctahedron, Radius: radius, Orientation: math.QuatIdentity()}
}

// Ring returns a flat annulus in the XY plane.
func Ring(inner, outer float32) Geometry {
	return Geometry{Kind: GeometryRing, Tube: inner, Radius: outer, Orientation: math.QuatIdentity()}
}

// PointCloud returns a point set; colors may be nil or match points in length.
func PointCloud(points []math.Vec3, colors []colorful.Color) Geometry {
	return Geometry{Kind: GeometryPoints, Points: points, PointColors: colors, Orientation: math.QuatIdentity()}
}

// Rotated returns a copy of g with an extra baked rotation.
func (g Geometry) Rotated(q math.Quat) Geometry {
	g.Orientation = q.Mul(g.Orientation)
	return g
}
