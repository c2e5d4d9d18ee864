package scene

import (
	"testing"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/backend/memory"
	"github.com/Faultbox/arviewer/pkg/math"
)

func newTestObject(name string) *Object {
	return NewObject(name, KindSpawn, math.Vec3{}, backend.Standard(backend.RGB(0xff0000)))
}

func TestRegistryAddAssignsIDs(t *testing.T) {
	r := NewRegistry()
	a := r.Add(newTestObject("a"))
	b := r.Add(newTestObject("b"))
	if a == b {
		t.Fatalf("IDs not unique: %d %d", a, b)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if o, ok := r.Get(b); !ok || o.Name != "b" {
		t.Errorf("Get(%d) = %v, %v", b, o, ok)
	}
}

func TestRegistryAddDuringIterationIsDeferred(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestObject("a"))
	r.Add(newTestObject("b"))

	visited := 0
	r.Each(func(o *Object) {
		visited++
		r.Add(newTestObject("child-" + o.Name))
	})

	if visited != 2 {
		t.Errorf("visited %d objects, want 2", visited)
	}
	if r.Len() != 4 {
		t.Errorf("Len() after Each = %d, want 4", r.Len())
	}

	visited = 0
	r.Each(func(*Object) { visited++ })
	if visited != 4 {
		t.Errorf("second pass visited %d, want 4", visited)
	}
}

func TestRegistryRemoveDuringIterationIsDeferred(t *testing.T) {
	r := NewRegistry()
	ids := []ID{r.Add(newTestObject("a")), r.Add(newTestObject("b")), r.Add(newTestObject("c"))}

	visited := 0
	r.Each(func(o *Object) {
		visited++
		if o.ID == ids[0] {
			r.Remove(ids[1])
		}
	})
	if visited != 3 {
		t.Errorf("visited %d, want 3", visited)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if _, ok := r.Get(ids[1]); ok {
		t.Error("removed object still present")
	}
}

func TestRegistryNestedEach(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestObject("a"))

	r.Each(func(*Object) {
		r.Each(func(*Object) {
			r.Add(newTestObject("inner"))
		})
		if r.Len() != 1 {
			t.Errorf("Len() inside outer Each = %d, want 1", r.Len())
		}
	})
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistrySync(t *testing.T) {
	rd := memory.New()
	r := NewRegistry()

	o := newTestObject("torus")
	o.Transform.Position = math.Vec3{X: 1, Y: 2, Z: 3}
	o.Transform.Scale = math.Splat(2)
	h := rd.CreateNode(backend.Torus(0.05, 0.02), o.Materials[0])
	o.AddPart(h, math.Identity())
	r.Add(o)

	o.Appearance.Opacity = 0.25
	r.Sync(rd, true)

	n, _ := rd.Node(h)
	if n.Transform.Translation() != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("translation = %v", n.Transform.Translation())
	}
	if n.Transform[0] != 2 {
		t.Errorf("scale x = %f, want 2", n.Transform[0])
	}
	if n.Material.Opacity != 0.25 {
		t.Errorf("opacity = %f, want 0.25", n.Material.Opacity)
	}
}

func TestRegistryClearReleasesNodes(t *testing.T) {
	rd := memory.New()
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		o := newTestObject("o")
		o.AddPart(rd.CreateNode(backend.Octahedron(1), o.Materials[0]), math.Identity())
		r.Add(o)
	}

	r.Clear(rd)

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if rd.Len() != 0 {
		t.Errorf("renderer still holds %d nodes", rd.Len())
	}
}

func TestListEach(t *testing.T) {
	l := List{newTestObject("a"), newTestObject("b")}
	n := 0
	l.Each(func(*Object) { n++ })
	if n != 2 {
		t.Errorf("visited %d, want 2", n)
	}
}
