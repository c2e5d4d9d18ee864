// Package controls maps named control-panel actions onto the settings read by
// the animation engine and the placement controllers.
package controls

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/arviewer/internal/anim"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/internal/placement"
	"github.com/Faultbox/arviewer/internal/scene"
)

// Action names one control.
type Action string

const (
	ActionRotation      Action = "rotation"
	ActionPulse         Action = "pulse"
	ActionColor         Action = "color"
	ActionSpeed         Action = "speed"
	ActionTextures      Action = "textures"
	ActionDirection     Action = "direction"
	ActionEffect        Action = "effect"
	ActionSpawnRotation Action = "spawn_rotation"
	ActionScalePulse    Action = "scale_pulse"
	ActionMaterial      Action = "material"
	ActionSizeUp        Action = "size_up"
	ActionSizeDown      Action = "size_down"
	ActionNextColor     Action = "next_color"
	ActionVariant       Action = "variant"
	ActionJump          Action = "jump"
	ActionModelRotation Action = "model_rotation"
	ActionAxis          Action = "axis"
	ActionSway          Action = "sway"
	ActionMode          Action = "mode"
	ActionSelect        Action = "select"
)

var actions = map[Action]bool{
	ActionRotation: true, ActionPulse: true, ActionColor: true, ActionSpeed: true,
	ActionTextures: true, ActionDirection: true, ActionEffect: true,
	ActionSpawnRotation: true, ActionScalePulse: true, ActionMaterial: true,
	ActionSizeUp: true, ActionSizeDown: true, ActionNextColor: true,
	ActionVariant: true, ActionJump: true, ActionModelRotation: true,
	ActionAxis: true, ActionSway: true, ActionMode: true, ActionSelect: true,
}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if !actions[a] {
		return "", fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// Actions returns every action name, sorted.
func Actions() []Action {
	out := make([]Action, 0, len(actions))
	for a := range actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

const (
	sizeStep = 0.25
	minSize  = 0.25
	maxSize  = 3
)

// Palette is the colour cycle offered for spawned objects.
var Palette = []colorful.Color{
	{R: 1, G: 0, B: 0},
	{R: 0, G: 1, B: 0},
	{R: 0, G: 0, B: 1},
	{R: 1, G: 1, B: 0},
	{R: 1, G: 0, B: 1},
	{R: 0, G: 1, B: 1},
}

// Panel holds every user-adjustable setting. Each action changes exactly one
// of them; the frame loop reads them on the next tick.
type Panel struct {
	toggles  scene.Toggles
	textures bool
	spawn    placement.SpawnSettings
	model    placement.ModelSettings
	palette  int

	effect anim.Effect

	// Hooks run for actions that reach outside the panel.
	OnSelect  func()
	OnMode    func()
	OnVariant func()
	OnEffect  func()

	log *zap.Logger
}

// NewPanel creates a panel seeded from config.
func NewPanel(cfg *config.Config) *Panel {
	variant, err := placement.ParseVariant(cfg.Placement.ModelVariant)
	if err != nil {
		variant = placement.VariantRealistic
	}
	return &Panel{
		toggles:  scene.DefaultToggles(),
		textures: true,
		spawn:    placement.SpawnSettingsFrom(cfg.Placement),
		model: placement.ModelSettings{
			Location: cfg.Assets.ModelURL,
			Variant:  variant,
			Scale:    float32(cfg.Placement.ModelScale),
		},
		log: logger.Named("controls"),
	}
}

// Toggles returns the global animation switches.
func (p *Panel) Toggles() scene.Toggles { return p.toggles }

// Textures reports whether textured materials are selected.
func (p *Panel) Textures() bool { return p.textures }

// Spawn returns the live spawn settings read by the placement controller.
func (p *Panel) Spawn() *placement.SpawnSettings { return &p.spawn }

// Model returns the live model settings read by the model placer.
func (p *Panel) Model() *placement.ModelSettings { return &p.model }

// SetEffect sets the effect the effect action triggers; nil disables it.
func (p *Panel) SetEffect(e anim.Effect) { p.effect = e }

// Apply performs one action.
func (p *Panel) Apply(a Action) {
	t := &p.toggles
	switch a {
	case ActionRotation:
		t.Rotation = !t.Rotation
	case ActionPulse:
		t.PulseMove = !t.PulseMove
	case ActionColor:
		t.ColorEmit = !t.ColorEmit
	case ActionSpeed:
		if t.Speed == scene.SpeedFast {
			t.Speed = scene.SpeedNormal
		} else {
			t.Speed = scene.SpeedFast
		}
	case ActionTextures:
		p.textures = !p.textures
	case ActionDirection:
		t.Direction = t.Direction.Reversed()
	case ActionEffect:
		if p.effect == nil {
			return
		}
		anim.Trigger(p.effect)
		if p.OnEffect != nil {
			p.OnEffect()
		}
	case ActionSpawnRotation:
		p.spawn.Rotation = !p.spawn.Rotation
	case ActionScalePulse:
		p.spawn.ScalePulse = !p.spawn.ScalePulse
	case ActionMaterial:
		p.spawn.Material = p.spawn.Material.Next()
	case ActionSizeUp:
		p.spawn.Size = clampSize(p.spawn.Size + sizeStep)
	case ActionSizeDown:
		p.spawn.Size = clampSize(p.spawn.Size - sizeStep)
	case ActionNextColor:
		p.palette = (p.palette + 1) % len(Palette)
		p.spawn.Color = Palette[p.palette]
	case ActionVariant:
		p.model.Variant = p.model.Variant.Next()
		if p.OnVariant != nil {
			p.OnVariant()
		}
	case ActionJump:
		t.Jump = !t.Jump
	case ActionModelRotation:
		t.Rotation = !t.Rotation
	case ActionAxis:
		t.Axis = t.Axis.Next()
	case ActionSway:
		t.Sway = !t.Sway
	case ActionMode:
		if p.OnMode != nil {
			p.OnMode()
		}
	case ActionSelect:
		if p.OnSelect != nil {
			p.OnSelect()
		}
	default:
		p.log.Warn("unknown action", zap.String("action", string(a)))
		return
	}
	p.log.Debug("action", zap.String("action", string(a)), zap.Object("state", p))
}

// Status returns one "name value" line per setting for on-screen display.
func (p *Panel) Status() []string {
	t := p.toggles
	return []string{
		"rotation " + onOff(t.Rotation),
		"pulse " + onOff(t.PulseMove),
		"color " + onOff(t.ColorEmit),
		"speed " + t.Speed.String(),
		"direction " + t.Direction.String(),
		"textures " + onOff(p.textures),
		"jump " + onOff(t.Jump),
		"sway " + onOff(t.Sway),
		"axis " + t.Axis.String(),
		"material " + string(p.spawn.Material),
		fmt.Sprintf("size %.2f", p.spawn.Size),
		"spawn color " + p.spawn.Color.Hex(),
		"variant " + string(p.model.Variant),
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (p *Panel) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("rotation", p.toggles.Rotation)
	enc.AddBool("pulse", p.toggles.PulseMove)
	enc.AddBool("color", p.toggles.ColorEmit)
	enc.AddString("speed", p.toggles.Speed.String())
	enc.AddInt("direction", int(p.toggles.Direction))
	enc.AddBool("textures", p.textures)
	enc.AddString("material", string(p.spawn.Material))
	enc.AddFloat32("size", p.spawn.Size)
	enc.AddString("color_hex", p.spawn.Color.Hex())
	enc.AddString("variant", string(p.model.Variant))
	enc.AddString("axis", p.toggles.Axis.String())
	return nil
}

func clampSize(s float32) float32 {
	if s < minSize {
		return minSize
	}
	if s > maxSize {
		return maxSize
	}
	return s
}
