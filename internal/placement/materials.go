package placement

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/arviewer/internal/backend"
)

// MaterialKind selects the material of spawned primitives.
type MaterialKind string

const (
	MaterialStandard    MaterialKind = "standard"
	MaterialEmissive    MaterialKind = "emissive"
	MaterialTransparent MaterialKind = "transparent"
)

var materialKinds = []MaterialKind{MaterialStandard, MaterialEmissive, MaterialTransparent}

// ParseMaterialKind validates a material name.
func ParseMaterialKind(s string) (MaterialKind, error) {
	for _, k := range materialKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown material %q", s)
}

// Next cycles to the following material kind.
func (k MaterialKind) Next() MaterialKind {
	for i, m := range materialKinds {
		if m == k {
			return materialKinds[(i+1)%len(materialKinds)]
		}
	}
	return MaterialStandard
}

// Build returns the material of kind k in colour c.
func (k MaterialKind) Build(c colorful.Color) backend.Material {
	m := backend.Standard(c)
	switch k {
	case MaterialEmissive:
		m.Emissive = c
		m.EmissiveIntensity = 0.6
	case MaterialTransparent:
		m.Transparent = true
		m.Opacity = 0.5
	}
	return m
}

// Variant is a fixed appearance applied to every mesh of a placed model.
type Variant string

const (
	VariantRealistic Variant = "realistic"
	VariantGold      Variant = "gold"
	VariantGlass     Variant = "glass"
	VariantChrome    Variant = "chrome"
	VariantGlow      Variant = "glow"
)

var variants = []Variant{VariantRealistic, VariantGold, VariantGlass, VariantChrome, VariantGlow}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown model variant %q", s)
}

// Next cycles to the following variant.
func (v Variant) Next() Variant {
	for i, x := range variants {
		if x == v {
			return variants[(i+1)%len(variants)]
		}
	}
	return VariantRealistic
}

// ModelMaterial is the material loaded models are drawn with before any
// variant is applied.
func ModelMaterial() backend.Material {
	return backend.Material{
		Color:     backend.RGB(0xbbbbbb),
		Roughness: 0.8,
		Opacity:   1,
	}
}

// Apply returns base with the variant's appearance. The realistic variant
// leaves base untouched.
func (v Variant) Apply(base backend.Material) backend.Material {
	switch v {
	case VariantGold:
		return backend.Material{Color: backend.RGB(0xffd700), Metalness: 1, Roughness: 0.2, Opacity: 1}
	case VariantGlass:
		return backend.Material{
			Color:        backend.RGB(0x99ccff),
			Transmission: 1,
			Transparent:  true,
			Opacity:      0.4,
		}
	case VariantChrome:
		return backend.Material{Color: backend.RGB(0xcccccc), Metalness: 1, Opacity: 1}
	case VariantGlow:
		return backend.Material{
			Color:             backend.RGB(0xff00ff),
			Emissive:          backend.RGB(0xff00ff),
			EmissiveIntensity: 1,
			Roughness:         1,
			Opacity:           1,
		}
	default:
		return base
	}
}
