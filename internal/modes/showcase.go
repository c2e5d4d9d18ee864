package modes

import (
	"fmt"

	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
	"github.com/Faultbox/arviewer/pkg/math"
)

const (
	fieldPoints = 300
	fieldHalf   = 5
)

var fieldOrigin = math.Vec3{Z: -8}

// Showcase shows three animated primitives and a special effect.
type Showcase struct {
	env      *Env
	registry *scene.Registry
	effect   anim.Effect
	field    backend.Handle
}

// NewShowcase creates the showcase mode.
func NewShowcase() *Showcase { return &Showcase{} }

// Name returns the mode name.
func (s *Showcase) Name() string { return "showcase" }

// Registry returns the mode's objects while it is active.
func (s *Showcase) Registry() *scene.Registry { return s.registry }

// Effect returns the mode's special effect while it is active.
func (s *Showcase) Effect() anim.Effect { return s.effect }

// Enter creates the primitives and the effect.
func (s *Showcase) Enter(env *Env) (frame.Pipeline, error) {
	s.env = env
	s.registry = scene.NewRegistry()
	cfg := env.Config
	rates := anim.RatesFrom(cfg.Animation)
	r := env.Renderer

	s.add("torus-knot", backend.TorusKnot(0.4, 0.15), math.Vec3{X: -2, Z: -6},
		backend.Material{
			Color: backend.RGB(0x1e90ff), Emissive: backend.RGB(0xff4500), EmissiveIntensity: 3,
			Metalness: 0.5, Roughness: 0.2, Opacity: 1,
		},
		backend.Material{
			Color: backend.RGB(0x00ff00), Metalness: 0.5, Roughness: 0.2, Opacity: 1, Transparent: true,
		},
		anim.TorusKnotMotion(rates))

	s.add("cylinder", backend.Cylinder(0.4, 1.5), math.Vec3{Z: -6},
		backend.Material{
			Color: backend.RGB(0xff69b4), Emissive: backend.RGB(0xff4500), EmissiveIntensity: 3,
			Metalness: 0.8, Roughness: 0.4, Transmission: 0.8, Opacity: 0.5, Transparent: true,
		},
		backend.Material{
			Color: backend.RGB(0x00ff00), Metalness: 0.8, Roughness: 0.4, Transmission: 0.8, Opacity: 0.5, Transparent: true,
		},
		anim.CylinderMotion(rates))

	s.add("octahedron", backend.Octahedron(0.6), math.Vec3{X: 2, Z: -6},
		backend.Material{
			Color: backend.RGB(0x32cd32), Emissive: backend.RGB(0xff4500), EmissiveIntensity: 3,
			Metalness: 1, Roughness: 0.3, Opacity: 1,
		},
		backend.Material{
			Color: backend.RGB(0x00ff00), Metalness: 1, Roughness: 0.3, Opacity: 1,
		},
		anim.OctahedronMotion(rates))

	switch cfg.Session.Effect {
	case "burst":
		mat := backend.Material{
			Color:       backend.RGB(0xffffff),
			Transparent: true,
			Unlit:       true,
			PointSize:   0.1,
		}
		s.field = r.CreateNode(anim.ParticleField(env.rng(), fieldPoints, fieldHalf), mat)
		r.SetTransform(s.field, math.Translate(fieldOrigin.X, fieldOrigin.Y, fieldOrigin.Z))
		s.effect = anim.NewTimedBurst(r, s.field, mat, cfg.Animation.EffectDuration, cfg.Animation.SpecialSpeed)
	case "sparkle":
		s.effect = anim.NewSparkleAttach(r, s.registry, env.rng())
	default:
		s.Exit()
		return frame.Pipeline{}, fmt.Errorf("unknown effect %q", cfg.Session.Effect)
	}
	env.Panel.SetEffect(s.effect)

	return frame.Pipeline{
		Engine:   anim.NewEngine(anim.ConfigFrom(cfg.Animation), s.effect),
		Registry: s.registry,
		Renderer: r,
		Settings: env.Panel,
	}, nil
}

func (s *Showcase) add(name string, geo backend.Geometry, pos math.Vec3, textured, plain backend.Material, motion scene.Motion) {
	o := scene.NewObject(name, scene.KindShowcase, pos, textured)
	o.Materials[1] = plain
	o.Motion = motion
	h := s.env.Renderer.CreateNode(geo, textured)
	s.env.Renderer.SetTransform(h, o.Transform.Matrix())
	o.AddPart(h, math.Identity())
	s.registry.Add(o)
}

// Exit removes every node the mode created.
func (s *Showcase) Exit() {
	if s.env == nil {
		return
	}
	if s.effect != nil {
		s.effect.Deactivate()
		s.effect = nil
	}
	s.env.Panel.SetEffect(nil)
	if s.field != backend.NoHandle {
		s.env.Renderer.RemoveNode(s.field)
		s.field = backend.NoHandle
	}
	s.registry.Clear(s.env.Renderer)
	s.env = nil
}

// Frame returns nil; the showcase has no surface tracking.
func (s *Showcase) Frame(picking.Ray) xr.Frame { return nil }
