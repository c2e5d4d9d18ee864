package placement

import (
	"testing"

	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/backend/memory"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
	"github.com/Faultbox/arviewer/pkg/math"
)

var testRates = anim.Rates{Rotation: 0.01, Hue: 0.005}

var surface = xr.Sample{
	Valid: true,
	Pose: xr.Pose{
		Position:    math.Vec3{X: 0.3, Y: -1, Z: -1.5},
		Orientation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.5),
	},
}

func newController() (*Controller, *scene.Registry, *memory.Renderer, *SpawnSettings) {
	reg := scene.NewRegistry()
	r := memory.New()
	settings := &SpawnSettings{
		Color:      backend.RGB(0xff0000),
		Size:       1,
		Rotation:   true,
		ScalePulse: true,
		Material:   MaterialStandard,
	}
	return NewController(reg, r, settings, testRates), reg, r, settings
}

func TestInvalidSampleIsIgnored(t *testing.T) {
	c, reg, r, _ := newController()
	if c.OnSelect(xr.Sample{}) {
		t.Error("OnSelect accepted an invalid sample")
	}
	if reg.Len() != 0 || r.Len() != 0 {
		t.Errorf("registry=%d nodes=%d after invalid select", reg.Len(), r.Len())
	}
}

func TestSpawnAtSurfacePose(t *testing.T) {
	c, reg, r, _ := newController()
	if !c.OnSelect(surface) {
		t.Fatal("OnSelect rejected a valid sample")
	}
	if reg.Len() != 1 {
		t.Fatalf("registry = %d, want 1", reg.Len())
	}

	o := reg.Objects()[0]
	if o.Kind != scene.KindSpawn {
		t.Errorf("kind = %v", o.Kind)
	}
	if o.Transform.Position != surface.Pose.Position {
		t.Errorf("position = %v, want %v", o.Transform.Position, surface.Pose.Position)
	}
	if !o.Transform.Orientation.SameRotation(surface.Pose.Orientation, 1e-6) {
		t.Errorf("orientation = %v", o.Transform.Orientation)
	}
	if o.Spawn.OriginalScale != 1 || o.Spawn.ScaleDirection != 1 || !o.Spawn.ScalePulse {
		t.Errorf("spawn state = %+v", o.Spawn)
	}
	if o.Local == nil || o.Local.Speed != scene.SpeedNormal || o.Local.Direction != scene.Forward || !o.Local.Rotation {
		t.Errorf("local toggles = %+v", o.Local)
	}

	n, ok := r.Node(o.Parts[0].Handle)
	if !ok {
		t.Fatal("renderer node missing")
	}
	if n.Geometry.Kind != backend.GeometryTorus {
		t.Errorf("geometry = %v", n.Geometry.Kind)
	}
	if n.Transform.Translation() != surface.Pose.Position {
		t.Errorf("node at %v", n.Transform.Translation())
	}
}

func TestSettingsSnapshotAtSelect(t *testing.T) {
	c, reg, _, settings := newController()
	c.OnSelect(surface)

	settings.Color = backend.RGB(0x0000ff)
	settings.Size = 2
	settings.Rotation = false
	settings.Material = MaterialTransparent
	c.OnSelect(surface)

	objs := reg.Objects()
	first, second := objs[0], objs[1]
	if first.Materials[0].Color != backend.RGB(0xff0000) || first.Spawn.OriginalScale != 1 || !first.Local.Rotation {
		t.Errorf("first object changed after settings update: %+v", first.Spawn)
	}
	if second.Materials[0].Color != backend.RGB(0x0000ff) || second.Spawn.OriginalScale != 2 || second.Local.Rotation {
		t.Errorf("second object did not pick up new settings: %+v", second.Spawn)
	}
	if !second.Materials[0].Transparent || second.Materials[0].Opacity != 0.5 {
		t.Errorf("second material = %+v", second.Materials[0])
	}
	if second.Transform.Scale != math.Splat(2) {
		t.Errorf("second scale = %v", second.Transform.Scale)
	}
	if c.Placed() != 2 {
		t.Errorf("Placed() = %d", c.Placed())
	}
}

func TestSpawnedObjectsAnimateIndependently(t *testing.T) {
	c, reg, _, settings := newController()
	c.OnSelect(surface)
	settings.Rotation = false
	c.OnSelect(surface)

	e := anim.NewEngine(anim.Config{FastMultiplier: 2, ScaleStep: 0.01, EffectRate: 0.016}, nil)
	for i := 0; i < 200; i++ {
		e.Update(reg, float64(i)*16, scene.DefaultToggles())
	}

	objs := reg.Objects()
	if objs[0].Transform.Spin.Y == 0 {
		t.Error("first object should rotate")
	}
	if objs[1].Transform.Spin.Y != 0 {
		t.Error("second object should not rotate")
	}
	for _, o := range objs {
		if s := o.Transform.Scale.X; s < 0.8-1e-6 || s > 1.2+1e-6 {
			t.Errorf("%s scale %f outside [0.8, 1.2]", o.Name, s)
		}
	}
}

func TestMaterialKinds(t *testing.T) {
	c := backend.RGB(0x00ff00)

	if m := MaterialEmissive.Build(c); m.Emissive != c || m.EmissiveIntensity != 0.6 {
		t.Errorf("emissive = %+v", m)
	}
	if m := MaterialStandard.Build(c); m.Transparent || m.Opacity != 1 {
		t.Errorf("standard = %+v", m)
	}
	if k, err := ParseMaterialKind("transparent"); err != nil || k != MaterialTransparent {
		t.Errorf("ParseMaterialKind = %v, %v", k, err)
	}
	if _, err := ParseMaterialKind("velvet"); err == nil {
		t.Error("expected error for unknown material")
	}
	if MaterialTransparent.Next() != MaterialStandard {
		t.Errorf("Next() = %v", MaterialTransparent.Next())
	}
}
