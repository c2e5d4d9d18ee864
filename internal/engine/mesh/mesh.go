// Package mesh builds vertex data for the procedural shapes the renderer draws.
package mesh

import (
	gomath "math"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Mesh is interleaved-ready vertex data. Points meshes have no indices.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Colors    []math.Vec3
	Indices   []uint32
	Points    bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Interleave packs position, normal and colour into one float slice of
// nine floats per vertex.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Positions)*9)
	for i, p := range m.Positions {
		n := math.Vec3{Y: 1}
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		c := math.Splat(1)
		if i < len(m.Colors) {
			c = m.Colors[i]
		}
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z, c.X, c.Y, c.Z)
	}
	return out
}

// Build generates the mesh for a geometry description.
func Build(g backend.Geometry) *Mesh {
	var m *Mesh
	switch g.Kind {
	case backend.GeometryBox:
		m = box(g.Min, g.Max)
	case backend.GeometryTorus:
		m = torus(g.Radius, g.Tube, 16, 48)
	case backend.GeometryTorusKnot:
		m = torusKnot(g.Radius, g.Tube, 128, 16, 2, 3)
	case backend.GeometryCylinder:
		m = cylinder(g.Radius, g.Height, 32)
	case backend.GeometryOctahedron:
		m = octahedron(g.Radius)
	case backend.GeometryRing:
		m = ring(g.Tube, g.Radius, 32)
	case backend.GeometryPoints:
		m = points(g)
	default:
		m = box(math.Splat(-0.5), math.Splat(0.5))
	}

	if g.Orientation != (math.Quat{}) && g.Orientation != math.QuatIdentity() {
		for i := range m.Positions {
			m.Positions[i] = g.Orientation.Rotate(m.Positions[i])
		}
		for i := range m.Normals {
			m.Normals[i] = g.Orientation.Rotate(m.Normals[i])
		}
	}
	return m
}

func (m *Mesh) add(p, n math.Vec3) uint32 {
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
	return uint32(len(m.Positions) - 1)
}

func (m *Mesh) quad(a, b, c, d uint32) {
	m.Indices = append(m.Indices, a, b, d, b, c, d)
}

func box(min, max math.Vec3) *Mesh {
	m := &Mesh{}
	faces := []struct {
		n       math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{X: 1}, [4]math.Vec3{{X: max.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: max.Z}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: min.X, Y: min.Y, Z: min.Z}, {X: min.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: min.Z}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: min.X, Y: max.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: min.Z}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: min.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: min.Z}, {X: max.X, Y: min.Y, Z: max.Z}, {X: min.X, Y: min.Y, Z: max.Z}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: min.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: min.Y, Z: max.Z}, {X: max.X, Y: max.Y, Z: max.Z}, {X: min.X, Y: max.Y, Z: max.Z}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: max.X, Y: min.Y, Z: min.Z}, {X: min.X, Y: min.Y, Z: min.Z}, {X: min.X, Y: max.Y, Z: min.Z}, {X: max.X, Y: max.Y, Z: min.Z}}},
	}
	for _, f := range faces {
		a := m.add(f.corners[0], f.n)
		b := m.add(f.corners[1], f.n)
		c := m.add(f.corners[2], f.n)
		d := m.add(f.corners[3], f.n)
		m.quad(a, b, c, d)
	}
	return m
}

func torus(radius, tube float32, radial, tubular int) *Mesh {
	m := &Mesh{}
	for j := 0; j <= radial; j++ {
		v := float64(j) / float64(radial) * 2 * gomath.Pi
		for i := 0; i <= tubular; i++ {
			u := float64(i) / float64(tubular) * 2 * gomath.Pi
			center := math.Vec3{X: radius * float32(gomath.Cos(u)), Y: radius * float32(gomath.Sin(u))}
			p := math.Vec3{
				X: (radius + tube*float32(gomath.Cos(v))) * float32(gomath.Cos(u)),
				Y: (radius + tube*float32(gomath.Cos(v))) * float32(gomath.Sin(u)),
				Z: tube * float32(gomath.Sin(v)),
			}
			m.add(p, p.Sub(center).Normalize())
		}
	}
	grid(m, radial, tubular)
	return m
}

// knotPoint is a point on a (p,q) torus knot curve.
func knotPoint(u float64, p, q int, radius float32) math.Vec3 {
	cu, su := gomath.Cos(u), gomath.Sin(u)
	quOverP := float64(q) / float64(p) * u
	cs := gomath.Cos(quOverP)
	return math.Vec3{
		X: radius * float32((2+cs)*0.5*cu),
		Y: radius * float32((2+cs)*su*0.5),
		Z: radius * float32(gomath.Sin(quOverP)*0.5),
	}
}

func torusKnot(radius, tube float32, tubular, radial, p, q int) *Mesh {
	m := &Mesh{}
	for i := 0; i <= tubular; i++ {
		u := float64(i) / float64(tubular) * float64(p) * 2 * gomath.Pi
		p1 := knotPoint(u, p, q, radius)
		p2 := knotPoint(u+0.01, p, q, radius)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n).Normalize()
		n = b.Cross(t).Normalize()

		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * 2 * gomath.Pi
			cx := -tube * float32(gomath.Cos(v))
			cy := tube * float32(gomath.Sin(v))
			pos := p1.Add(n.Scale(cx)).Add(b.Scale(cy))
			m.add(pos, pos.Sub(p1).Normalize())
		}
	}
	for i := 1; i <= tubular; i++ {
		for j := 1; j <= radial; j++ {
			a := uint32((radial+1)*(i-1) + (j - 1))
			b := uint32((radial+1)*i + (j - 1))
			c := uint32((radial+1)*i + j)
			d := uint32((radial+1)*(i-1) + j)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m
}

// grid indexes a (rows+1) x (cols+1) vertex lattice.
func grid(m *Mesh, rows, cols int) {
	for j := 1; j <= rows; j++ {
		for i := 1; i <= cols; i++ {
			a := uint32((cols+1)*j + i - 1)
			b := uint32((cols+1)*(j-1) + i - 1)
			c := uint32((cols+1)*(j-1) + i)
			d := uint32((cols+1)*j + i)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
}

func cylinder(radius, height float32, segments int) *Mesh {
	m := &Mesh{}
	half := height / 2

	for i := 0; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * gomath.Pi
		n := math.Vec3{X: float32(gomath.Sin(a)), Z: float32(gomath.Cos(a))}
		m.add(math.Vec3{X: n.X * radius, Y: half, Z: n.Z * radius}, n)
		m.add(math.Vec3{X: n.X * radius, Y: -half, Z: n.Z * radius}, n)
	}
	for i := 0; i < segments; i++ {
		top, bottom := uint32(2*i), uint32(2*i+1)
		nextTop, nextBottom := uint32(2*i+2), uint32(2*i+3)
		m.Indices = append(m.Indices, top, bottom, nextTop, bottom, nextBottom, nextTop)
	}

	for _, side := range []float32{1, -1} {
		n := math.Vec3{Y: side}
		center := m.add(math.Vec3{Y: half * side}, n)
		first := uint32(len(m.Positions))
		for i := 0; i <= segments; i++ {
			a := float64(i) / float64(segments) * 2 * gomath.Pi
			m.add(math.Vec3{X: radius * float32(gomath.Sin(a)), Y: half * side, Z: radius * float32(gomath.Cos(a))}, n)
		}
		for i := 0; i < segments; i++ {
			if side > 0 {
				m.Indices = append(m.Indices, center, first+uint32(i), first+uint32(i)+1)
			} else {
				m.Indices = append(m.Indices, center, first+uint32(i)+1, first+uint32(i))
			}
		}
	}
	return m
}

func octahedron(radius float32) *Mesh {
	m := &Mesh{}
	v := []math.Vec3{
		{X: radius}, {X: -radius}, {Y: radius}, {Y: -radius}, {Z: radius}, {Z: -radius},
	}
	faces := [8][3]int{
		{0, 2, 4}, {0, 4, 3}, {0, 3, 5}, {0, 5, 2},
		{1, 2, 5}, {1, 5, 3}, {1, 3, 4}, {1, 4, 2},
	}
	for _, f := range faces {
		a, b, c := v[f[0]], v[f[1]], v[f[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		m.Indices = append(m.Indices, m.add(a, n), m.add(b, n), m.add(c, n))
	}
	return m
}

func ring(inner, outer float32, segments int) *Mesh {
	m := &Mesh{}
	n := math.Vec3{Z: 1}
	for i := 0; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * gomath.Pi
		c, s := float32(gomath.Cos(a)), float32(gomath.Sin(a))
		m.add(math.Vec3{X: inner * c, Y: inner * s}, n)
		m.add(math.Vec3{X: outer * c, Y: outer * s}, n)
	}
	for i := 0; i < segments; i++ {
		in, out := uint32(2*i), uint32(2*i+1)
		nextIn, nextOut := uint32(2*i+2), uint32(2*i+3)
		m.Indices = append(m.Indices, in, out, nextOut, in, nextOut, nextIn)
	}
	return m
}

func points(g backend.Geometry) *Mesh {
	m := &Mesh{Points: true}
	m.Positions = append(m.Positions, g.Points...)
	for i := range g.Points {
		m.Normals = append(m.Normals, math.Vec3{Y: 1})
		c := math.Splat(1)
		if i < len(g.PointColors) {
			col := g.PointColors[i]
			c = math.Vec3{X: float32(col.R), Y: float32(col.G), Z: float32(col.B)}
		}
		m.Colors = append(m.Colors, c)
	}
	return m
}
