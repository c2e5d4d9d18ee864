package scene

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/pkg/math"
)

// ID identifies an object within a Registry.
type ID uint64

// Kind tags which animation rules apply to an object.
type Kind uint8

const (
	KindShowcase Kind = iota
	KindSpawn
	KindModel
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindShowcase:
		return "showcase"
	case KindSpawn:
		return "spawn"
	case KindModel:
		return "model"
	default:
		return "unknown"
	}
}

// Transform is an object's pose. The rendered rotation is Orientation followed
// by the accumulated per-axis Spin angles.
type Transform struct {
	Position    math.Vec3
	Orientation math.Quat
	Spin        math.Vec3
	Scale       math.Vec3
}

// NewTransform returns a transform at position with identity rotation and unit scale.
func NewTransform(position math.Vec3) Transform {
	return Transform{
		Position:    position,
		Orientation: math.QuatIdentity(),
		Scale:       math.Splat(1),
	}
}

// Rotation returns the combined rotation.
func (t Transform) Rotation() math.Quat {
	return t.Orientation.Mul(math.QuatFromEuler(t.Spin))
}

// Matrix returns the world matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Rotation(), t.Scale)
}

// PulseKind selects the position/scale oscillation of a showcase object.
type PulseKind uint8

const (
	PulseNone PulseKind = iota
	PulseScale
	PulseScaleBob
	PulseHop
)

// Motion is the per-class animation profile.
type Motion struct {
	Axes         Axis
	RotationRate float32 // radians per tick before speed and direction

	Pulse          PulseKind
	PulseAmplitude float32 // scale amplitude, or hop height for PulseHop
	PulseFrequency float64 // radians per millisecond
	BobAmplitude   float32

	OpacityBase      float32
	OpacityAmplitude float32
	OpacityFrequency float64

	HueRate float32

	EmissiveBase      float32
	EmissiveFrequency float64
}

// Appearance is the animated overlay on an object's base material.
type Appearance struct {
	Hue               float32
	HueDriven         bool
	Color             colorful.Color
	EmissiveIntensity float32
	Opacity           float32
}

// Part is a renderer node belonging to an object, placed relative to it.
type Part struct {
	Handle backend.Handle
	Local  math.Mat4
}

// SpawnState is the per-object state of a placed primitive.
type SpawnState struct {
	ScalePulse     bool
	OriginalScale  float32
	ScaleDirection float32
}

// ModelState describes a placed model.
type ModelState struct {
	URL     string
	Variant string
}

// Object is an animatable scene object.
type Object struct {
	ID   ID
	Name string
	Kind Kind

	Transform Transform
	Home      math.Vec3

	// Materials holds the textured and plain variants of the base material.
	Materials  [2]backend.Material
	Appearance Appearance
	Motion     Motion

	// Local overrides the global toggles when set.
	Local *Toggles

	Spawn SpawnState
	Model ModelState

	Parts []Part
}

// NewObject creates an object at position using mat for both material variants.
func NewObject(name string, kind Kind, position math.Vec3, mat backend.Material) *Object {
	return &Object{
		Name:      name,
		Kind:      kind,
		Transform: NewTransform(position),
		Home:      position,
		Materials: [2]backend.Material{mat, mat},
		Appearance: Appearance{
			Color:             mat.Color,
			EmissiveIntensity: mat.EmissiveIntensity,
			Opacity:           mat.Opacity,
		},
	}
}

// Toggles returns the switches governing this object.
func (o *Object) Toggles(global Toggles) Toggles {
	if o.Local != nil {
		return *o.Local
	}
	return global
}

// Material returns the base material for the texture setting with the
// animated appearance applied.
func (o *Object) Material(textures bool) backend.Material {
	m := o.Materials[1]
	if textures {
		m = o.Materials[0]
	}
	if o.Appearance.HueDriven {
		m.Color = o.Appearance.Color
	}
	m.EmissiveIntensity = o.Appearance.EmissiveIntensity
	m.Opacity = o.Appearance.Opacity
	return m
}

// AddPart attaches a renderer node at the given local offset.
func (o *Object) AddPart(h backend.Handle, local math.Mat4) {
	o.Parts = append(o.Parts, Part{Handle: h, Local: local})
}
