package anim

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/backend/memory"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/pkg/math"
)

var testRates = Rates{Rotation: 0.01, Hue: 0.005}

func testConfig() Config {
	return Config{FastMultiplier: 2, ScaleStep: 0.01, EffectRate: 0.016}
}

func showcaseObject(m scene.Motion) *scene.Object {
	o := scene.NewObject("obj", scene.KindShowcase, math.Vec3{Z: -6}, backend.Standard(backend.RGB(0x00ff00)))
	o.Motion = m
	return o
}

func near(a, b, eps float32) bool {
	return float32(stdmath.Abs(float64(a-b))) <= eps
}

func TestRotationAccumulates(t *testing.T) {
	tests := []struct {
		name  string
		speed scene.SpeedMode
		dir   scene.Direction
		want  float32
	}{
		{"normal forward", scene.SpeedNormal, scene.Forward, -1.0},
		{"fast forward", scene.SpeedFast, scene.Forward, -2.0},
		{"normal backward", scene.SpeedNormal, scene.Backward, 1.0},
		{"fast backward", scene.SpeedFast, scene.Backward, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(testConfig(), nil)
			o := showcaseObject(CylinderMotion(testRates))
			g := scene.DefaultToggles()
			g.Speed = tt.speed
			g.Direction = tt.dir

			for i := 0; i < 100; i++ {
				e.Update(scene.List{o}, float64(i)*16, g)
			}
			if !near(o.Transform.Spin.Z, tt.want, 1e-4) {
				t.Errorf("spin.z = %f, want %f", o.Transform.Spin.Z, tt.want)
			}
			if o.Transform.Spin.X != 0 || o.Transform.Spin.Y != 0 {
				t.Errorf("unexpected spin on other axes: %v", o.Transform.Spin)
			}
		})
	}
}

func TestDirectionChangeKeepsEarlierTicks(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(CylinderMotion(testRates))
	g := scene.DefaultToggles()

	for i := 0; i < 50; i++ {
		e.Update(scene.List{o}, float64(i)*16, g)
	}
	mid := o.Transform.Spin.Z
	if !near(mid, -0.5, 1e-4) {
		t.Fatalf("spin.z after forward ticks = %f, want -0.5", mid)
	}

	g.Direction = scene.Backward
	e.Update(scene.List{o}, 50*16, g)
	if !near(o.Transform.Spin.Z-mid, 0.01, 1e-6) {
		t.Errorf("first backward step = %f, want 0.01", o.Transform.Spin.Z-mid)
	}
	for i := 51; i < 80; i++ {
		e.Update(scene.List{o}, float64(i)*16, g)
	}
	if !near(o.Transform.Spin.Z, -0.01*50+0.01*30, 1e-4) {
		t.Errorf("spin.z = %f, want %f", o.Transform.Spin.Z, -0.01*50+0.01*30)
	}
}

func TestSpeedChangeAppliesNextTick(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(TorusKnotMotion(testRates))
	g := scene.DefaultToggles()

	e.Update(scene.List{o}, 0, g)
	first := o.Transform.Spin.X

	g.Speed = scene.SpeedFast
	e.Update(scene.List{o}, 16, g)
	if !near(o.Transform.Spin.X-first, -0.02, 1e-6) {
		t.Errorf("fast step = %f, want -0.02", o.Transform.Spin.X-first)
	}
}

func TestTogglesOffFreezeObject(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(OctahedronMotion(testRates))
	before := o.Transform
	appearance := o.Appearance

	g := scene.Toggles{Speed: scene.SpeedNormal, Direction: scene.Forward}
	for i := 0; i < 50; i++ {
		e.Update(scene.List{o}, float64(i)*16, g)
	}
	if o.Transform != before {
		t.Errorf("transform changed with all toggles off: %+v", o.Transform)
	}
	if o.Appearance != appearance {
		t.Errorf("appearance changed with all toggles off: %+v", o.Appearance)
	}
}

func TestHueMonotonicWithWrap(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(TorusKnotMotion(testRates))
	g := scene.DefaultToggles()
	g.Speed = scene.SpeedFast

	prev := o.Appearance.Hue
	wraps := 0
	for i := 0; i < 550; i++ {
		e.Update(scene.List{o}, float64(i)*16, g)
		h := o.Appearance.Hue
		if h < 0 || h >= 1 {
			t.Fatalf("tick %d: hue %f out of [0,1)", i, h)
		}
		if h < prev {
			wraps++
			if prev+0.01-1 < h-1e-4 || prev+0.01-1 > h+1e-4 {
				t.Fatalf("tick %d: wrap from %f to %f is not a single step", i, prev, h)
			}
		}
		prev = h
	}
	if wraps != 5 {
		t.Errorf("wraps = %d, want 5", wraps)
	}
	if !o.Appearance.HueDriven {
		t.Error("hue-driven flag not set")
	}
}

func TestOpacityStaysInRange(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	m := CylinderMotion(testRates)
	m.OpacityAmplitude = 0.9
	o := showcaseObject(m)
	g := scene.DefaultToggles()
	g.Speed = scene.SpeedFast

	for i := 0; i < 2000; i++ {
		e.Update(scene.List{o}, float64(i)*7, g)
		if op := o.Appearance.Opacity; op < 0 || op > 1 {
			t.Fatalf("tick %d: opacity %f out of range", i, op)
		}
	}
}

func TestPulseFollowsTimestamp(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(CylinderMotion(testRates))
	g := scene.DefaultToggles()

	ts := stdmath.Pi / 2 / 0.002
	e.Update(scene.List{o}, ts, g)

	if !near(o.Transform.Scale.X, 1.2, 1e-4) {
		t.Errorf("scale = %f, want 1.2", o.Transform.Scale.X)
	}
	if !near(o.Transform.Position.Y, 0.5, 1e-4) {
		t.Errorf("y = %f, want 0.5", o.Transform.Position.Y)
	}
}

func TestHopNeverGoesBelowHome(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(OctahedronMotion(testRates))
	o.Home.Y = 1
	o.Transform.Position.Y = 1
	g := scene.DefaultToggles()

	for i := 0; i < 1000; i++ {
		e.Update(scene.List{o}, float64(i)*16, g)
		if y := o.Transform.Position.Y; y < 1 || y > 1.5+1e-6 {
			t.Fatalf("tick %d: y = %f", i, y)
		}
	}
}

func TestEmissiveDriven(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := showcaseObject(OctahedronMotion(testRates))
	g := scene.DefaultToggles()

	e.Update(scene.List{o}, 0, g)
	if !near(o.Appearance.EmissiveIntensity, 1.5, 1e-6) {
		t.Errorf("emissive = %f, want 1.5", o.Appearance.EmissiveIntensity)
	}
}

func spawnedObject(orig float32) *scene.Object {
	o := scene.NewObject("torus", scene.KindSpawn, math.Vec3{Y: -1}, backend.Standard(backend.RGB(0xff0000)))
	o.Motion = SpawnMotion(testRates)
	o.Transform.Scale = math.Splat(orig)
	o.Local = &scene.Toggles{Rotation: true, Speed: scene.SpeedNormal, Direction: scene.Forward}
	o.Spawn = scene.SpawnState{ScalePulse: true, OriginalScale: orig, ScaleDirection: 1}
	return o
}

func TestScalePulseReflects(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := spawnedObject(1)

	reversals := 0
	lastDir := o.Spawn.ScaleDirection
	for i := 0; i < 200; i++ {
		prev := o.Transform.Scale.X
		e.Update(scene.List{o}, float64(i)*16, scene.DefaultToggles())
		s := o.Transform.Scale.X
		if s < 0.8-1e-6 || s > 1.2+1e-6 {
			t.Fatalf("tick %d: scale %f outside [0.8, 1.2]", i, s)
		}
		if o.Spawn.ScaleDirection != lastDir {
			reversals++
			if !near(s, 1.2, 1e-5) && !near(s, 0.8, 1e-5) {
				t.Fatalf("tick %d: direction flipped mid-range at %f (prev %f)", i, s, prev)
			}
			lastDir = o.Spawn.ScaleDirection
		}
	}
	if reversals < 2 {
		t.Errorf("reversals = %d, want at least 2", reversals)
	}
}

func TestScalePulseRespectsOriginalScale(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := spawnedObject(2)
	for i := 0; i < 300; i++ {
		e.Update(scene.List{o}, 0, scene.DefaultToggles())
		if s := o.Transform.Scale.X; s < 1.6-1e-5 || s > 2.4+1e-5 {
			t.Fatalf("tick %d: scale %f outside [1.6, 2.4]", i, s)
		}
	}
}

func TestSpawnedObjectIgnoresGlobalToggles(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := spawnedObject(1)
	o.Spawn.ScalePulse = false

	g := scene.DefaultToggles()
	g.Speed = scene.SpeedFast
	g.Direction = scene.Backward
	g.Rotation = false

	for i := 0; i < 10; i++ {
		e.Update(scene.List{o}, 0, g)
	}
	if !near(o.Transform.Spin.Y, 0.1, 1e-5) {
		t.Errorf("spin.y = %f, want 0.1", o.Transform.Spin.Y)
	}
}

func TestModelMotion(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := scene.NewObject("model", scene.KindModel, math.Vec3{}, backend.Material{})
	o.Motion = ModelMotion(testRates)

	g := scene.DefaultToggles()
	g.Axis = scene.AxisZ
	g.Sway = true
	g.Jump = false

	e.Update(scene.List{o}, stdmath.Pi*1000, g)
	want := float32(stdmath.Sin(stdmath.Pi*0.5)) * 0.05
	if !near(o.Transform.Spin.Z, want, 1e-5) {
		t.Errorf("sway spin.z = %f, want %f", o.Transform.Spin.Z, want)
	}

	g.Sway = false
	g.Jump = true
	g.Rotation = false
	e.Update(scene.List{o}, 500, g)
	wantY := float32(stdmath.Sin(1.5)) * 0.005
	if !near(o.Transform.Position.Y, wantY, 1e-6) {
		t.Errorf("jump y = %f, want %f", o.Transform.Position.Y, wantY)
	}
}

func TestModelJumpDrifts(t *testing.T) {
	e := NewEngine(testConfig(), nil)
	o := scene.NewObject("model", scene.KindModel, math.Vec3{}, backend.Material{})
	o.Motion = ModelMotion(testRates)

	g := scene.DefaultToggles()
	g.Rotation = false
	g.Sway = false
	g.Jump = true

	var want, last float32
	for i := 1; i <= 100; i++ {
		ts := float64(i) * 16
		e.Update(scene.List{o}, ts, g)
		last = float32(stdmath.Sin(ts/1000*3)) * 0.005
		want += last
	}
	if !near(o.Transform.Position.Y, want, 1e-5) {
		t.Errorf("y = %f, want running sum %f", o.Transform.Position.Y, want)
	}
	if near(o.Transform.Position.Y, last, 1e-3) {
		t.Errorf("y = %f equals the last step alone", o.Transform.Position.Y)
	}
}

func TestSpecialSpeedWhileEffectActive(t *testing.T) {
	r := memory.New()
	field := r.CreateNode(backend.PointCloud(nil, nil), backend.Material{})
	burst := NewTimedBurst(r, field, backend.Material{}, 5, 3)
	e := NewEngine(testConfig(), burst)
	o := showcaseObject(TorusKnotMotion(testRates))
	g := scene.DefaultToggles()

	e.Update(scene.List{o}, 0, g)
	if !near(o.Transform.Spin.X, -0.01, 1e-6) {
		t.Fatalf("spin.x = %f before trigger", o.Transform.Spin.X)
	}

	Trigger(burst)
	e.Update(scene.List{o}, 16, g)
	if !near(o.Transform.Spin.X, -0.04, 1e-6) {
		t.Errorf("spin.x = %f, want -0.04 with special speed 3", o.Transform.Spin.X)
	}
	if !near(float32(burst.Timer()), 0.016*3, 1e-6) {
		t.Errorf("timer = %f, want %f", burst.Timer(), 0.016*3)
	}
}
