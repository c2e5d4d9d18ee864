package modes

import (
	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/placement"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
)

// Model places one loaded glTF model on the detected surface, replacing it on
// every select.
type Model struct {
	arSession
	env      *Env
	registry *scene.Registry
	placer   *placement.ModelPlacer
}

// NewModel creates the model mode.
func NewModel() *Model { return &Model{} }

// Name returns the mode name.
func (m *Model) Name() string { return "model" }

// Placer returns the model placer while the mode is active.
func (m *Model) Placer() *placement.ModelPlacer { return m.placer }

// Enter sets up surface tracking and the model placer.
func (m *Model) Enter(env *Env) (frame.Pipeline, error) {
	m.env = env
	m.registry = scene.NewRegistry()
	m.start(env)

	cfg := env.Config
	m.placer = placement.NewModelPlacer(m.registry, env.Renderer, env.Loader, env.Panel.Model(),
		anim.RatesFrom(cfg.Animation), cfg.Assets.Timeout)
	m.placer.OnLoaded = func(err error) {
		if err != nil {
			env.notify(EventLoadFailed)
			return
		}
		env.notify(EventLoaded)
	}
	env.Panel.OnVariant = m.placer.ApplyVariant

	return frame.Pipeline{
		Tracker:  m.tracker,
		Reticle:  m.reticle,
		Placer:   m.placer,
		Engine:   anim.NewEngine(anim.ConfigFrom(cfg.Animation), nil),
		Registry: m.registry,
		Renderer: env.Renderer,
		Settings: env.Panel,
	}, nil
}

// Exit removes the reticle and the placed model.
func (m *Model) Exit() {
	if m.env == nil {
		return
	}
	m.env.Panel.OnVariant = nil
	m.stop()
	m.placer.Close()
	m.registry.Clear(m.env.Renderer)
	m.placer = nil
	m.env = nil
}

// Frame builds the tracking frame for ray.
func (m *Model) Frame(ray picking.Ray) xr.Frame { return m.frame(ray) }
