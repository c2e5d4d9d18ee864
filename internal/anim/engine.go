// Package anim advances the per-frame animation of scene objects and drives the
// special effects.
package anim

import (
	stdmath "math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/scene"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Config holds the animation constants.
type Config struct {
	FastMultiplier float32
	ScaleStep      float32
	EffectRate     float64
}

// ConfigFrom extracts the animation constants from the application config.
func ConfigFrom(c config.AnimationConfig) Config {
	return Config{
		FastMultiplier: float32(c.FastMultiplier),
		ScaleStep:      float32(c.ScaleStep),
		EffectRate:     c.EffectRate,
	}
}

// DefaultConfig returns the constants used when nothing is configured.
func DefaultConfig() Config {
	return ConfigFrom(config.Default().Animation)
}

// Engine applies one animation step per tick.
type Engine struct {
	cfg    Config
	effect Effect
}

// NewEngine creates an engine. effect may be nil.
func NewEngine(cfg Config, effect Effect) *Engine {
	return &Engine{cfg: cfg, effect: effect}
}

// Effect returns the engine's special effect, or nil.
func (e *Engine) Effect() Effect {
	return e.effect
}

// SpeedFactor maps a speed mode to its multiplier.
func (e *Engine) SpeedFactor(m scene.SpeedMode) float32 {
	if m == scene.SpeedFast {
		return e.cfg.FastMultiplier
	}
	return 1
}

// Update advances every object by one tick. timestamp is in milliseconds and
// drives the oscillations; rotation and hue advance by a fixed step per call.
func (e *Engine) Update(objects scene.Sequence, timestamp float64, global scene.Toggles) {
	special := float32(1)
	if e.effect != nil && e.effect.Active() {
		special = float32(e.effect.SpeedFactor())
	}

	objects.Each(func(o *scene.Object) {
		t := o.Toggles(global)
		s := e.SpeedFactor(t.Speed) * special

		switch o.Kind {
		case scene.KindShowcase:
			e.showcase(o, t, timestamp, s)
		case scene.KindSpawn:
			e.spawned(o, t, s)
		case scene.KindModel:
			e.model(o, t, timestamp, s)
		}
	})

	if e.effect != nil {
		e.effect.Tick(e.cfg.EffectRate * float64(e.SpeedFactor(global.Speed)) * e.effect.SpeedFactor())
	}
}

func (e *Engine) showcase(o *scene.Object, t scene.Toggles, ts float64, s float32) {
	m := &o.Motion
	tr := &o.Transform

	if t.Rotation {
		spin(tr, m.Axes, m.RotationRate*s*t.Direction.Sign())
	}

	if t.PulseMove {
		switch m.Pulse {
		case scene.PulseScale:
			tr.Scale = math.Splat(1 + m.PulseAmplitude*wave(ts, m.PulseFrequency, s))
		case scene.PulseScaleBob:
			tr.Scale = math.Splat(1 + m.PulseAmplitude*wave(ts, m.PulseFrequency, s))
			tr.Position.Y = o.Home.Y + m.BobAmplitude*wave(ts, m.PulseFrequency, s)
			if m.OpacityFrequency > 0 {
				o.Appearance.Opacity = clamp01(m.OpacityBase + m.OpacityAmplitude*wave(ts, m.OpacityFrequency, s))
			}
		case scene.PulseHop:
			tr.Position.Y = o.Home.Y + absf(wave(ts, m.PulseFrequency, s))*m.PulseAmplitude
		}
	}

	if t.ColorEmit {
		if m.HueRate > 0 {
			o.Appearance.Hue = wrapHue(o.Appearance.Hue + m.HueRate*s)
			o.Appearance.Color = colorful.Hsl(float64(o.Appearance.Hue)*360, 1, 0.5)
			o.Appearance.HueDriven = true
		}
		if m.EmissiveFrequency > 0 {
			o.Appearance.EmissiveIntensity = m.EmissiveBase + wave(ts, m.EmissiveFrequency, s)
		}
	}
}

func (e *Engine) spawned(o *scene.Object, t scene.Toggles, s float32) {
	if t.Rotation {
		spin(&o.Transform, o.Motion.Axes, o.Motion.RotationRate*s*t.Direction.Sign())
	}
	if o.Spawn.ScalePulse {
		o.Transform.Scale = math.Splat(stepPulse(&o.Spawn, o.Transform.Scale.X, e.cfg.ScaleStep))
	}
}

func (e *Engine) model(o *scene.Object, t scene.Toggles, ts float64, s float32) {
	tr := &o.Transform
	if t.Rotation {
		spin(tr, t.Axis, o.Motion.RotationRate*s*t.Direction.Sign())
	}
	elapsed := ts / 1000
	if t.Jump {
		tr.Position.Y += float32(stdmath.Sin(elapsed*3)) * 0.005
	}
	if t.Sway {
		tr.Spin.Z = float32(stdmath.Sin(elapsed*0.5)) * 0.05
	}
}

// stepPulse moves the scale one fixed step and reflects at 0.8 and 1.2 times
// the original scale, clamping to the boundary it crossed.
func stepPulse(st *scene.SpawnState, cur, step float32) float32 {
	lo, hi := st.OriginalScale*0.8, st.OriginalScale*1.2
	if st.ScaleDirection == 0 {
		st.ScaleDirection = 1
	}
	next := cur + st.ScaleDirection*step
	switch {
	case next > hi:
		next = hi
		st.ScaleDirection = -1
	case next < lo:
		next = lo
		st.ScaleDirection = 1
	}
	return next
}

func spin(tr *scene.Transform, axes scene.Axis, delta float32) {
	if axes&scene.AxisX != 0 {
		tr.Spin.X += delta
	}
	if axes&scene.AxisY != 0 {
		tr.Spin.Y += delta
	}
	if axes&scene.AxisZ != 0 {
		tr.Spin.Z += delta
	}
}

func wave(ts, freq float64, s float32) float32 {
	return float32(stdmath.Sin(ts * freq * float64(s)))
}

func wrapHue(h float32) float32 {
	for h >= 1 {
		h--
	}
	for h < 0 {
		h++
	}
	return h
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
