package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/arviewer/pkg/math"
)

// ErrNoScene is returned for documents without any node to show.
var ErrNoScene = errors.New("model has no nodes")

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
)

// ModelNode is one node of a model's scene graph, flattened.
type ModelNode struct {
	Name   string
	Parent int // -1 for roots
	World  math.Mat4

	// HasMesh marks nodes that carry geometry; Min and Max are its local bounds.
	HasMesh bool
	Min     math.Vec3
	Max     math.Vec3
}

// Model is a decoded scene hierarchy.
type Model struct {
	Name      string
	Generator string
	Nodes     []ModelNode
}

// MeshCount returns the number of mesh-bearing nodes.
func (m *Model) MeshCount() int {
	n := 0
	for _, node := range m.Nodes {
		if node.HasMesh {
			n++
		}
	}
	return n
}

// Parse decodes a glTF JSON or binary (GLB) document. Only the scene
// hierarchy and mesh bounds are read; buffers are not resolved.
func Parse(data []byte) (*Model, error) {
	raw := data
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		var err error
		if raw, err = glbJSON(data); err != nil {
			return nil, err
		}
	}

	var doc gltf.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing glTF: %w", err)
	}
	return build(&doc)
}

func glbJSON(data []byte) ([]byte, error) {
	var header struct {
		Magic, Version, Length uint32
	}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading GLB header: %w", err)
	}
	if header.Version != 2 {
		return nil, fmt.Errorf("unsupported GLB version %d", header.Version)
	}
	if int(header.Length) > len(data) {
		return nil, fmt.Errorf("GLB truncated: header says %d bytes, have %d", header.Length, len(data))
	}

	var chunk struct {
		Length, Type uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
		return nil, fmt.Errorf("reading GLB chunk: %w", err)
	}
	if chunk.Type != glbChunkJSON {
		return nil, fmt.Errorf("first GLB chunk is 0x%08x, want JSON", chunk.Type)
	}
	start := glbHeaderLen + 8
	end := start + int(chunk.Length)
	if end > len(data) {
		return nil, fmt.Errorf("GLB JSON chunk overruns file")
	}
	return data[start:end], nil
}

func build(doc *gltf.Document) (*Model, error) {
	if len(doc.Nodes) == 0 {
		return nil, ErrNoScene
	}

	m := &Model{Generator: doc.Asset.Generator}

	var roots []int
	if len(doc.Scenes) > 0 {
		sc := 0
		if doc.Scene != nil {
			sc = int(*doc.Scene)
		}
		if sc < 0 || sc >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene %d out of range", sc)
		}
		m.Name = doc.Scenes[sc].Name
		for _, n := range doc.Scenes[sc].Nodes {
			roots = append(roots, int(n))
		}
	} else {
		roots = rootNodes(doc)
	}

	visited := make(map[int]bool)
	var visit func(idx, parent int, parentWorld math.Mat4) error
	visit = func(idx, parent int, parentWorld math.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node %d out of range", idx)
		}
		if visited[idx] {
			return fmt.Errorf("node %d reached twice", idx)
		}
		visited[idx] = true

		n := doc.Nodes[idx]
		world := parentWorld.Mul(localMatrix(n))
		mn := ModelNode{Name: n.Name, Parent: parent, World: world}
		if n.Mesh != nil {
			mi := int(*n.Mesh)
			if mi < 0 || mi >= len(doc.Meshes) {
				return fmt.Errorf("node %d: mesh %d out of range", idx, mi)
			}
			mn.HasMesh = true
			mn.Min, mn.Max = meshBounds(doc, doc.Meshes[mi])
		}
		self := len(m.Nodes)
		m.Nodes = append(m.Nodes, mn)

		for _, c := range n.Children {
			if err := visit(int(c), self, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := visit(r, -1, math.Identity()); err != nil {
			return nil, err
		}
	}
	if len(m.Nodes) == 0 {
		return nil, ErrNoScene
	}
	return m, nil
}

func rootNodes(doc *gltf.Document) []int {
	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func localMatrix(n *gltf.Node) math.Mat4 {
	var zero [16]float64
	if n.Matrix != zero && n.Matrix != identity16 {
		return math.FromColumnMajor(n.Matrix)
	}

	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	r := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	if r == (math.Quat{}) {
		r = math.QuatIdentity()
	}
	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s == (math.Vec3{}) {
		s = math.Splat(1)
	}
	return math.Compose(t, r.Normalize(), s)
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// meshBounds unions the POSITION accessor bounds of every primitive.
func meshBounds(doc *gltf.Document, mesh *gltf.Mesh) (min, max math.Vec3) {
	first := true
	for _, p := range mesh.Primitives {
		idx, ok := p.Attributes[gltf.POSITION]
		if !ok || int(idx) >= len(doc.Accessors) {
			continue
		}
		acc := doc.Accessors[int(idx)]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		lo := math.Vec3{X: float32(acc.Min[0]), Y: float32(acc.Min[1]), Z: float32(acc.Min[2])}
		hi := math.Vec3{X: float32(acc.Max[0]), Y: float32(acc.Max[1]), Z: float32(acc.Max[2])}
		if first {
			min, max, first = lo, hi, false
			continue
		}
		min = math.Vec3{X: minf(min.X, lo.X), Y: minf(min.Y, lo.Y), Z: minf(min.Z, lo.Z)}
		max = math.Vec3{X: maxf(max.X, hi.X), Y: maxf(max.Y, hi.Y), Z: maxf(max.Z, hi.Z)}
	}
	if first {
		return math.Splat(-0.5), math.Splat(0.5)
	}
	return min, max
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
