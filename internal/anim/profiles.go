package anim

import (
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/scene"
)

// Rates are the configurable per-tick rates the class profiles are built from.
type Rates struct {
	Rotation float32
	Hue      float32
}

// RatesFrom reads the rates from the application config.
func RatesFrom(c config.AnimationConfig) Rates {
	return Rates{
		Rotation: float32(c.RotationRate),
		Hue:      float32(c.HueRate),
	}
}

// TorusKnotMotion spins about X, breathes in scale and cycles its hue.
func TorusKnotMotion(r Rates) scene.Motion {
	return scene.Motion{
		Axes:           scene.AxisX,
		RotationRate:   -r.Rotation,
		Pulse:          scene.PulseScale,
		PulseAmplitude: 0.1,
		PulseFrequency: 0.002,
		HueRate:        r.Hue,
	}
}

// CylinderMotion rolls about Z, bobs vertically and fades in and out.
func CylinderMotion(r Rates) scene.Motion {
	return scene.Motion{
		Axes:             scene.AxisZ,
		RotationRate:     -r.Rotation,
		Pulse:            scene.PulseScaleBob,
		PulseAmplitude:   0.2,
		PulseFrequency:   0.002,
		BobAmplitude:     0.5,
		OpacityBase:      0.5,
		OpacityAmplitude: 0.2,
		OpacityFrequency: 0.003,
	}
}

// OctahedronMotion tumbles about X and Y, hops and pulses its glow.
func OctahedronMotion(r Rates) scene.Motion {
	return scene.Motion{
		Axes:              scene.AxisX | scene.AxisY,
		RotationRate:      -r.Rotation,
		Pulse:             scene.PulseHop,
		PulseAmplitude:    0.5,
		PulseFrequency:    0.005,
		EmissiveBase:      1.5,
		EmissiveFrequency: 0.003,
	}
}

// SpawnMotion turns placed primitives about their vertical axis.
func SpawnMotion(r Rates) scene.Motion {
	return scene.Motion{
		Axes:         scene.AxisY,
		RotationRate: r.Rotation,
	}
}

// ModelMotion is the profile of a placed model; the axis comes from the toggles.
func ModelMotion(r Rates) scene.Motion {
	return scene.Motion{
		RotationRate: r.Rotation,
	}
}
