// Package lighting describes the light rig shared by every viewer mode.
package lighting

import (
	stdmath "math"

	"github.com/Faultbox/arviewer/pkg/math"
)

// Hemisphere blends a sky colour on upward-facing surfaces into a ground
// colour on downward-facing ones.
type Hemisphere struct {
	Sky       math.Vec3
	Ground    math.Vec3
	Intensity float32
}

// Directional is a light infinitely far away along Direction.
type Directional struct {
	Direction math.Vec3 // towards the light, normalized
	Color     math.Vec3
	Intensity float32
}

// Rig is the complete set of lights uploaded once per frame.
type Rig struct {
	Ambient          math.Vec3
	AmbientIntensity float32
	Hemisphere       Hemisphere
	Sun              Directional
}

// Default returns a white ambient fill, a faintly blue hemisphere and a
// key light from the upper right front.
func Default() Rig {
	white := math.Vec3{X: 1, Y: 1, Z: 1}
	return Rig{
		Ambient:          white,
		AmbientIntensity: 0.3,
		Hemisphere: Hemisphere{
			Sky:       white,
			Ground:    math.Vec3{X: 0xbb / 255.0, Y: 0xbb / 255.0, Z: 1},
			Intensity: 0.4,
		},
		Sun: Directional{
			Direction: math.Vec3{X: 5, Y: 5, Z: 5}.Normalize(),
			Color:     white,
			Intensity: 1,
		},
	}
}

// SunDirection converts an azimuth around +Y and an elevation above the
// horizon, both in degrees, into a unit vector pointing at the light.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * stdmath.Pi / 180
	el := float64(elevation) * stdmath.Pi / 180
	return math.Vec3{
		X: float32(stdmath.Cos(el) * stdmath.Sin(az)),
		Y: float32(stdmath.Sin(el)),
		Z: float32(stdmath.Cos(el) * stdmath.Cos(az)),
	}
}

// Irradiance returns the light reaching a surface with unit normal n before
// material colour is applied. The fragment shader computes the same sum.
func (r Rig) Irradiance(n math.Vec3) math.Vec3 {
	out := r.Ambient.Scale(r.AmbientIntensity)

	t := (n.Y + 1) * 0.5
	hemi := r.Hemisphere.Ground.Scale(1 - t).Add(r.Hemisphere.Sky.Scale(t))
	out = out.Add(hemi.Scale(r.Hemisphere.Intensity))

	d := n.Dot(r.Sun.Direction)
	if d > 0 {
		out = out.Add(r.Sun.Color.Scale(d * r.Sun.Intensity))
	}
	return out
}
