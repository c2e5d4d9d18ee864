package placement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/assets"
	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Loader fetches a model.
type Loader interface {
	Load(ctx context.Context, location string) (*assets.Model, error)
}

// ModelSettings are the control-panel values for model placement.
type ModelSettings struct {
	Location string
	Variant  Variant
	Scale    float32
}

type loadResult struct {
	model    *assets.Model
	location string
	err      error
}

// ModelPlacer keeps at most one loaded model in the scene. Each select
// releases the current model and starts loading a replacement, which Poll
// places at the selected pose once it arrives.
type ModelPlacer struct {
	registry *scene.Registry
	renderer backend.Renderer
	loader   Loader
	settings *ModelSettings
	motion   scene.Motion
	timeout  time.Duration
	log      *zap.Logger

	current scene.ID
	pending chan loadResult
	cancel  context.CancelFunc
	pose    xr.Pose

	// OnLoaded, if set, is called after a model is placed or fails to load.
	OnLoaded func(err error)
}

// NewModelPlacer creates a placer. timeout bounds each load.
func NewModelPlacer(reg *scene.Registry, r backend.Renderer, loader Loader, settings *ModelSettings, rates anim.Rates, timeout time.Duration) *ModelPlacer {
	return &ModelPlacer{
		registry: reg,
		renderer: r,
		loader:   loader,
		settings: settings,
		motion:   anim.ModelMotion(rates),
		timeout:  timeout,
		log:      logger.Named("placement"),
	}
}

// OnSelect releases the current model and starts loading a new one at the
// sample's pose. A load still in flight is abandoned.
func (p *ModelPlacer) OnSelect(s xr.Sample) bool {
	if !s.Valid {
		return false
	}
	p.Release()
	p.abandon()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), p.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	ch := make(chan loadResult, 1)
	location := p.settings.Location

	p.cancel = cancel
	p.pending = ch
	p.pose = s.Pose

	go func() {
		m, err := p.loader.Load(ctx, location)
		ch <- loadResult{model: m, location: location, err: err}
	}()

	p.log.Info("loading model", zap.String("location", location))
	return true
}

// Poll places a finished load. It never blocks and reports whether a model
// was placed.
func (p *ModelPlacer) Poll() bool {
	if p.pending == nil {
		return false
	}
	select {
	case res := <-p.pending:
		p.pending = nil
		p.cancel()
		p.cancel = nil
		if res.err != nil {
			p.log.Error("model load failed", zap.String("location", res.location), zap.Error(res.err))
			if p.OnLoaded != nil {
				p.OnLoaded(res.err)
			}
			return false
		}
		p.place(res.model, res.location)
		if p.OnLoaded != nil {
			p.OnLoaded(nil)
		}
		return true
	default:
		return false
	}
}

// Loading reports whether a load is in flight.
func (p *ModelPlacer) Loading() bool {
	return p.pending != nil
}

// Current returns the placed model, if any.
func (p *ModelPlacer) Current() (*scene.Object, bool) {
	if p.current == 0 {
		return nil, false
	}
	return p.registry.Get(p.current)
}

// ApplyVariant re-applies the configured variant to the placed model.
func (p *ModelPlacer) ApplyVariant() {
	o, ok := p.Current()
	if !ok {
		return
	}
	v := p.settings.Variant
	o.Model.Variant = string(v)
	for _, part := range o.Parts {
		p.renderer.SetMaterial(part.Handle, v.Apply(o.Materials[0]))
	}
}

// Release removes the placed model and its renderer nodes.
func (p *ModelPlacer) Release() {
	if p.current == 0 {
		return
	}
	p.registry.Release(p.renderer, p.current)
	p.current = 0
}

// Close abandons any load and releases the model.
func (p *ModelPlacer) Close() {
	p.abandon()
	p.Release()
}

func (p *ModelPlacer) abandon() {
	if p.pending == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	p.pending = nil
}

func (p *ModelPlacer) place(m *assets.Model, location string) {
	scale := p.settings.Scale
	if scale <= 0 {
		scale = 1
	}
	variant := p.settings.Variant

	o := scene.NewObject(m.Name, scene.KindModel, p.pose.Position, ModelMaterial())
	o.Transform.Orientation = p.pose.Orientation
	o.Transform.Scale = math.Splat(scale)
	o.Motion = p.motion
	o.Model = scene.ModelState{URL: location, Variant: string(variant)}

	world := o.Transform.Matrix()
	for _, n := range m.Nodes {
		if !n.HasMesh {
			continue
		}
		h := p.renderer.CreateNode(backend.Box(n.Min, n.Max), variant.Apply(o.Materials[0]))
		p.renderer.SetTransform(h, world.Mul(n.World))
		o.AddPart(h, n.World)
	}
	p.current = p.registry.Add(o)

	p.log.Info("model placed",
		zap.String("name", m.Name),
		zap.Int("meshes", len(o.Parts)),
		zap.String("variant", string(variant)))
}
