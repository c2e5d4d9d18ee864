package modes

import (
	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/placement"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
)

// Spawn places a small torus on the detected surface at every select.
type Spawn struct {
	arSession
	env        *Env
	registry   *scene.Registry
	controller *placement.Controller
}

// NewSpawn creates the spawn mode.
func NewSpawn() *Spawn { return &Spawn{} }

// Name returns the mode name.
func (s *Spawn) Name() string { return "spawn" }

// Registry returns the placed objects while the mode is active.
func (s *Spawn) Registry() *scene.Registry { return s.registry }

// Enter sets up surface tracking and the reticle.
func (s *Spawn) Enter(env *Env) (frame.Pipeline, error) {
	s.env = env
	s.registry = scene.NewRegistry()
	s.start(env)

	s.controller = placement.NewController(s.registry, env.Renderer, env.Panel.Spawn(), anim.RatesFrom(env.Config.Animation))
	s.controller.OnPlaced = func(*scene.Object) { env.notify(EventPlaced) }

	return frame.Pipeline{
		Tracker:  s.tracker,
		Reticle:  s.reticle,
		Placer:   s.controller,
		Engine:   anim.NewEngine(anim.ConfigFrom(env.Config.Animation), nil),
		Registry: s.registry,
		Renderer: env.Renderer,
		Settings: env.Panel,
	}, nil
}

// Exit removes the reticle and every placed object.
func (s *Spawn) Exit() {
	if s.env == nil {
		return
	}
	s.stop()
	s.registry.Clear(s.env.Renderer)
	s.controller = nil
	s.env = nil
}

// Frame builds the tracking frame for ray.
func (s *Spawn) Frame(ray picking.Ray) xr.Frame { return s.frame(ray) }
