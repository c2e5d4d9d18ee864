package memory

import (
	"testing"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/pkg/math"
)

func TestNodeLifecycle(t *testing.T) {
	r := New()

	h := r.CreateNode(backend.Torus(0.05, 0.02), backend.Standard(backend.RGB(0xff0000)))
	if h == backend.NoHandle {
		t.Fatal("CreateNode returned NoHandle")
	}

	n, ok := r.Node(h)
	if !ok {
		t.Fatal("node not found")
	}
	if !n.Visible {
		t.Error("new node should be visible")
	}
	if n.Transform != math.Identity() {
		t.Error("new node should have identity transform")
	}

	r.SetTransform(h, math.Translate(1, 2, 3))
	r.SetVisible(h, false)
	n, _ = r.Node(h)
	if n.Transform != math.Translate(1, 2, 3) {
		t.Errorf("transform = %v", n.Transform)
	}
	if n.Visible {
		t.Error("node should be hidden")
	}

	r.RemoveNode(h)
	r.RemoveNode(h)
	if _, ok := r.Node(h); ok {
		t.Error("node still present after RemoveNode")
	}
	created, removed := r.Stats()
	if created != 1 || removed != 1 {
		t.Errorf("Stats() = %d, %d, want 1, 1", created, removed)
	}
}

func TestHandlesAreUnique(t *testing.T) {
	r := New()
	seen := make(map[backend.Handle]bool)
	for i := 0; i < 10; i++ {
		h := r.CreateNode(backend.Octahedron(1), backend.Material{})
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
	if r.Len() != 10 {
		t.Errorf("Len() = %d, want 10", r.Len())
	}
}

func TestUnknownHandleIgnored(t *testing.T) {
	r := New()
	r.SetTransform(42, math.Identity())
	r.SetMaterial(42, backend.Material{})
	r.SetVisible(42, true)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRenderCountsFrames(t *testing.T) {
	r := New()
	r.Render(backend.Camera{})
	r.Render(backend.Camera{})
	if r.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", r.Frames())
	}
}
