// Package placement turns select events on a detected surface into scene
// objects: procedural primitives or a loaded model.
package placement

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/internal/xr"
	"github.com/Faultbox/arviewer/pkg/math"
)

// SpawnSettings are the control-panel values a new primitive is created from.
type SpawnSettings struct {
	Color      colorful.Color
	Size       float32
	Rotation   bool
	ScalePulse bool
	Material   MaterialKind
}

// SpawnSettingsFrom reads the initial spawn settings from config.
func SpawnSettingsFrom(c config.PlacementConfig) SpawnSettings {
	kind, err := ParseMaterialKind(c.Material)
	if err != nil {
		kind = MaterialStandard
	}
	return SpawnSettings{
		Color:      backend.Hex(c.Color),
		Size:       float32(c.Size),
		Rotation:   c.Rotation,
		ScalePulse: c.ScalePulse,
		Material:   kind,
	}
}

// Controller places a primitive on every valid select.
type Controller struct {
	registry *scene.Registry
	renderer backend.Renderer
	settings *SpawnSettings
	geometry backend.Geometry
	motion   scene.Motion
	log      *zap.Logger

	placed int

	// OnPlaced, if set, is called after each object is added.
	OnPlaced func(o *scene.Object)
}

// NewController creates a controller spawning small tori. settings is read at
// every select, so later changes affect only objects placed afterwards.
func NewController(reg *scene.Registry, r backend.Renderer, settings *SpawnSettings, rates anim.Rates) *Controller {
	return &Controller{
		registry: reg,
		renderer: r,
		settings: settings,
		geometry: backend.Torus(0.05, 0.02),
		motion:   anim.SpawnMotion(rates),
		log:      logger.Named("placement"),
	}
}

// OnSelect places an object at the sample's pose. Invalid samples are ignored.
func (c *Controller) OnSelect(s xr.Sample) bool {
	if !s.Valid {
		return false
	}
	st := *c.settings

	c.placed++
	o := scene.NewObject(fmt.Sprintf("torus-%d", c.placed), scene.KindSpawn, s.Pose.Position, st.Material.Build(st.Color))
	o.Transform.Orientation = s.Pose.Orientation
	o.Transform.Scale = math.Splat(st.Size)
	o.Motion = c.motion
	o.Local = &scene.Toggles{
		Rotation:  st.Rotation,
		Speed:     scene.SpeedNormal,
		Direction: scene.Forward,
	}
	o.Spawn = scene.SpawnState{
		ScalePulse:     st.ScalePulse,
		OriginalScale:  st.Size,
		ScaleDirection: 1,
	}

	h := c.renderer.CreateNode(c.geometry, o.Materials[0])
	c.renderer.SetTransform(h, o.Transform.Matrix())
	o.AddPart(h, math.Identity())
	c.registry.Add(o)

	c.log.Debug("object placed",
		zap.String("name", o.Name),
		zap.String("material", string(st.Material)),
		zap.Float32("size", st.Size),
		zap.Float32("x", s.Pose.Position.X),
		zap.Float32("y", s.Pose.Position.Y),
		zap.Float32("z", s.Pose.Position.Z))
	if c.OnPlaced != nil {
		c.OnPlaced(o)
	}
	return true
}

// Placed returns how many objects the controller has created.
func (c *Controller) Placed() int {
	return c.placed
}
