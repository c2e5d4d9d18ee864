package anim

import (
	stdmath "math"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Effect is a special effect layered over the base animation.
type Effect interface {
	Activate()
	Deactivate()
	// Tick advances the effect by dt timer units.
	Tick(dt float64)
	Active() bool
	// SpeedFactor is the extra multiplier applied to object motion while active.
	SpeedFactor() float64
}

// Toggler is implemented by effects whose trigger flips them on and off rather
// than restarting them.
type Toggler interface {
	Toggle()
}

// Trigger applies a control-panel press to e.
func Trigger(e Effect) {
	if t, ok := e.(Toggler); ok {
		t.Toggle()
		return
	}
	e.Activate()
}

// TimedBurst fades a particle node from fully opaque to invisible over a fixed
// duration, then switches itself off.
type TimedBurst struct {
	renderer backend.Renderer
	node     backend.Handle
	material backend.Material
	duration float64
	speed    float64

	active  bool
	timer   float64
	opacity float32
}

// NewTimedBurst creates a burst driving the opacity of node. The node's
// material is kept and only its opacity changes.
func NewTimedBurst(r backend.Renderer, node backend.Handle, mat backend.Material, duration, speed float64) *TimedBurst {
	b := &TimedBurst{
		renderer: r,
		node:     node,
		material: mat,
		duration: duration,
		speed:    speed,
	}
	b.push()
	return b
}

// Activate restarts the burst at full opacity.
func (b *TimedBurst) Activate() {
	b.active = true
	b.timer = 0
	b.opacity = 1
	b.push()
}

// Deactivate stops the burst and hides the particles.
func (b *TimedBurst) Deactivate() {
	b.active = false
	b.opacity = 0
	b.push()
}

// Tick implements Effect.
func (b *TimedBurst) Tick(dt float64) {
	if !b.active {
		return
	}
	b.timer += dt
	if b.timer >= b.duration {
		b.Deactivate()
		return
	}
	b.opacity = float32(1 - b.timer/b.duration)
	b.push()
}

// Active implements Effect.
func (b *TimedBurst) Active() bool { return b.active }

// SpeedFactor implements Effect.
func (b *TimedBurst) SpeedFactor() float64 { return b.speed }

// Timer returns the accumulated timer value.
func (b *TimedBurst) Timer() float64 { return b.timer }

// Opacity returns the current particle opacity.
func (b *TimedBurst) Opacity() float32 { return b.opacity }

func (b *TimedBurst) push() {
	m := b.material
	m.Opacity = b.opacity
	m.Transparent = true
	b.renderer.SetMaterial(b.node, m)
	b.renderer.SetVisible(b.node, b.opacity > 0)
}

// Targets resolves objects for effects that follow them.
type Targets interface {
	scene.Sequence
	Get(id scene.ID) (*scene.Object, bool)
}

// SparkleAttach hangs a ring of sparkles on every target until switched off.
type SparkleAttach struct {
	renderer backend.Renderer
	targets  Targets
	rng      *rand.Rand

	active   bool
	attached map[scene.ID]backend.Handle
}

const sparklesPerTarget = 100

// NewSparkleAttach creates the effect. rng may be nil.
func NewSparkleAttach(r backend.Renderer, targets Targets, rng *rand.Rand) *SparkleAttach {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &SparkleAttach{
		renderer: r,
		targets:  targets,
		rng:      rng,
		attached: make(map[scene.ID]backend.Handle),
	}
}

// Activate attaches sparkles to every target that has none.
func (s *SparkleAttach) Activate() {
	s.active = true
	s.targets.Each(func(o *scene.Object) {
		if _, ok := s.attached[o.ID]; ok {
			return
		}
		h := s.renderer.CreateNode(s.cloud(), backend.Material{
			Color:       colorful.Color{R: 1, G: 1, B: 1},
			Opacity:     0.5,
			Transparent: true,
			Unlit:       true,
			PointSize:   0.03,
		})
		s.renderer.SetTransform(h, o.Transform.Matrix())
		s.attached[o.ID] = h
	})
}

// Deactivate removes every sparkle node.
func (s *SparkleAttach) Deactivate() {
	for id, h := range s.attached {
		s.renderer.RemoveNode(h)
		delete(s.attached, id)
	}
	s.active = false
}

// Toggle implements Toggler.
func (s *SparkleAttach) Toggle() {
	if s.active {
		s.Deactivate()
		return
	}
	s.Activate()
}

// Tick keeps the sparkles on their targets and drops those whose target is gone.
func (s *SparkleAttach) Tick(float64) {
	for id, h := range s.attached {
		o, ok := s.targets.Get(id)
		if !ok {
			s.renderer.RemoveNode(h)
			delete(s.attached, id)
			continue
		}
		s.renderer.SetTransform(h, o.Transform.Matrix())
	}
}

// Active implements Effect.
func (s *SparkleAttach) Active() bool { return s.active }

// SpeedFactor implements Effect. Sparkles do not change object motion.
func (s *SparkleAttach) SpeedFactor() float64 { return 1 }

// Attached returns the number of targets currently carrying sparkles.
func (s *SparkleAttach) Attached() int { return len(s.attached) }

func (s *SparkleAttach) cloud() backend.Geometry {
	points := make([]math.Vec3, sparklesPerTarget)
	colors := make([]colorful.Color, sparklesPerTarget)
	for i := range points {
		angle := s.rng.Float64() * 2 * stdmath.Pi
		radius := 0.3 + s.rng.Float64()*0.2
		q := math.QuatFromAxisAngle(math.Vec3{Y: 1}, float32(angle))
		p := q.Rotate(math.Vec3{X: float32(radius)})
		p.Y = float32(s.rng.Float64()-0.5) * 0.4
		points[i] = p
		colors[i] = colorful.Hsv(s.rng.Float64()*360, 0.6, 1)
	}
	return backend.PointCloud(points, colors)
}

// ParticleField builds the cloud the burst effect fades: count points spread
// through a cube of the given half-size around the origin.
func ParticleField(rng *rand.Rand, count int, half float32) backend.Geometry {
	points := make([]math.Vec3, count)
	colors := make([]colorful.Color, count)
	for i := range points {
		points[i] = math.Vec3{
			X: (float32(rng.Float64())*2 - 1) * half,
			Y: (float32(rng.Float64())*2 - 1) * half,
			Z: (float32(rng.Float64())*2 - 1) * half,
		}
		colors[i] = colorful.Hsl(rng.Float64()*360, 1, 0.6)
	}
	return backend.PointCloud(points, colors)
}
