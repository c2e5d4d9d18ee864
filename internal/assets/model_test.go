package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Faultbox/arviewer/pkg/math"
)

const sceneJSON = `{
  "asset": {"version": "2.0", "generator": "test"},
  "scene": 0,
  "scenes": [{"name": "Lantern", "nodes": [0]}],
  "nodes": [
    {"name": "root", "translation": [0, 1, 0], "children": [1, 2]},
    {"name": "body", "mesh": 0, "scale": [2, 2, 2]},
    {"name": "handle", "mesh": 0, "translation": [1, 0, 0]}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, 0, -1], "max": [1, 2, 1]}]
}`

func TestParseHierarchy(t *testing.T) {
	m, err := Parse([]byte(sceneJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if m.Name != "Lantern" || m.Generator != "test" {
		t.Errorf("Name=%q Generator=%q", m.Name, m.Generator)
	}
	if len(m.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(m.Nodes))
	}
	if m.MeshCount() != 2 {
		t.Errorf("MeshCount() = %d, want 2", m.MeshCount())
	}

	root, body, handle := m.Nodes[0], m.Nodes[1], m.Nodes[2]
	if root.Parent != -1 || body.Parent != 0 || handle.Parent != 0 {
		t.Errorf("parents = %d, %d, %d", root.Parent, body.Parent, handle.Parent)
	}
	if root.HasMesh {
		t.Error("root should not carry a mesh")
	}
	if got := handle.World.Translation(); !got.ApproxEqual(math.Vec3{X: 1, Y: 1}, 1e-6) {
		t.Errorf("handle world translation = %v", got)
	}
	if got := body.World.TransformVec3(math.Vec3{X: 1}); !got.ApproxEqual(math.Vec3{X: 2, Y: 1}, 1e-6) {
		t.Errorf("body transforms (1,0,0) to %v", got)
	}
	if body.Min != (math.Vec3{X: -1, Z: -1}) || body.Max != (math.Vec3{X: 1, Y: 2, Z: 1}) {
		t.Errorf("bounds = %v..%v", body.Min, body.Max)
	}
}

func TestParseWithoutScenes(t *testing.T) {
	doc := `{"asset": {"version": "2.0"}, "nodes": [{"name": "a", "children": [1]}, {"name": "b"}, {"name": "c"}]}`
	m, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(m.Nodes))
	}
	if m.Nodes[0].Name != "a" || m.Nodes[1].Name != "b" || m.Nodes[2].Name != "c" {
		t.Errorf("order = %q %q %q", m.Nodes[0].Name, m.Nodes[1].Name, m.Nodes[2].Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "hello"},
		{"no nodes", `{"asset": {"version": "2.0"}}`},
		{"bad child", `{"asset": {"version": "2.0"}, "nodes": [{"children": [5]}]}`},
		{"bad mesh", `{"asset": {"version": "2.0"}, "nodes": [{"mesh": 3}]}`},
		{"cycle", `{"asset": {"version": "2.0"}, "scenes": [{"nodes": [0]}], "nodes": [{"children": [1]}, {"children": [0]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Parse([]byte(`{"asset": {"version": "2.0"}}`)); !errors.Is(err, ErrNoScene) {
		t.Errorf("err = %v, want ErrNoScene", err)
	}
}

func makeGLB(t *testing.T, js string) []byte {
	t.Helper()
	payload := []byte(js)
	for len(payload)%4 != 0 {
		payload = append(payload, ' ')
	}

	var buf bytes.Buffer
	total := uint32(glbHeaderLen + 8 + len(payload))
	for _, v := range []uint32{glbMagic, 2, total, uint32(len(payload)), glbChunkJSON} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	buf.Write(payload)
	return buf.Bytes()
}

func TestParseGLB(t *testing.T) {
	m, err := Parse(makeGLB(t, sceneJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(m.Nodes))
	}
}

func TestParseGLBTruncated(t *testing.T) {
	glb := makeGLB(t, sceneJSON)
	if _, err := Parse(glb[:40]); err == nil {
		t.Error("expected error for truncated GLB")
	}
}
