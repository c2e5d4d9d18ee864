// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/arviewer/internal/logger"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Session   SessionConfig   `yaml:"session"`
	Animation AnimationConfig `yaml:"animation"`
	Placement PlacementConfig `yaml:"placement"`
	Assets    AssetsConfig    `yaml:"assets"`
	Audio     AudioConfig     `yaml:"audio"`
	Controls  ControlsConfig  `yaml:"controls"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Headless   bool `yaml:"headless"` // Run against the in-memory backend without a window
	Frames     int  `yaml:"frames"`   // Frames to run in headless mode (0 = until interrupted)
}

// SessionConfig selects the scene mode and configures the emulated AR session.
type SessionConfig struct {
	Mode          string        `yaml:"mode"`           // showcase, spawn or model
	Effect        string        `yaml:"effect"`         // burst or sparkle
	SurfaceHeight float32       `yaml:"surface_height"` // Y of the emulated detected plane
	SurfaceExtent float32       `yaml:"surface_extent"` // Half-size of the plane; hits outside are misses
	InitLatency   time.Duration `yaml:"init_latency"`   // Delay before reference spaces resolve
}

// AnimationConfig holds the procedural animation constants.
type AnimationConfig struct {
	RotationRate   float64 `yaml:"rotation_rate"`   // Radians per tick
	FastMultiplier float64 `yaml:"fast_multiplier"` // Speed factor in fast mode
	HueRate        float64 `yaml:"hue_rate"`        // Hue advance per tick
	SpecialSpeed   float64 `yaml:"special_speed"`   // Rotation multiplier while an effect runs
	EffectRate     float64 `yaml:"effect_rate"`     // Effect timer advance per tick
	EffectDuration float64 `yaml:"effect_duration"` // Timer value at which a burst expires
	ScaleStep      float64 `yaml:"scale_step"`      // Spawned-object scale pulse step per tick
}

// PlacementConfig holds the initial spawn and model placement settings.
type PlacementConfig struct {
	Color        string  `yaml:"color"`    // Hex colour of spawned tori
	Size         float64 `yaml:"size"`     // Uniform scale of spawned tori
	Rotation     bool    `yaml:"rotation"` // Spawned tori rotate
	ScalePulse   bool    `yaml:"scale_pulse"`
	Material     string  `yaml:"material"`      // standard, emissive or transparent
	ModelVariant string  `yaml:"model_variant"` // realistic, gold, glass, chrome or glow
	ModelScale   float64 `yaml:"model_scale"`
}

// AssetsConfig holds remote model settings.
type AssetsConfig struct {
	ModelURL string        `yaml:"model_url"`
	CacheDir string        `yaml:"cache_dir"` // Empty disables the on-disk cache
	Timeout  time.Duration `yaml:"timeout"`
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// ControlsConfig maps control panel actions to SDL key names.
type ControlsConfig struct {
	Bindings map[string]string `yaml:"bindings"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"` // log file as JSON lines
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Headless:   false,
			Frames:     0,
		},
		Session: SessionConfig{
			Mode:          "showcase",
			Effect:        "burst",
			SurfaceHeight: -1,
			SurfaceExtent: 4,
			InitLatency:   150 * time.Millisecond,
		},
		Animation: AnimationConfig{
			RotationRate:   0.01,
			FastMultiplier: 2,
			HueRate:        0.005,
			SpecialSpeed:   1.5,
			EffectRate:     0.016,
			EffectDuration: 5,
			ScaleStep:      0.01,
		},
		Placement: PlacementConfig{
			Color:        "#ff0000",
			Size:         1,
			Rotation:     false,
			ScalePulse:   false,
			Material:     "standard",
			ModelVariant: "realistic",
			ModelScale:   0.5,
		},
		Assets: AssetsConfig{
			ModelURL: "https://universitylpnubucket.s3.eu-north-1.amazonaws.com/task4/scene.gltf",
			CacheDir: "",
			Timeout:  30 * time.Second,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Controls: ControlsConfig{
			Bindings: DefaultBindings(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultBindings returns the default action → key name mapping.
func DefaultBindings() map[string]string {
	return map[string]string{
		"rotation":       "R",
		"pulse":          "P",
		"color":          "C",
		"speed":          "S",
		"textures":       "T",
		"direction":      "D",
		"effect":         "E",
		"spawn_rotation": "1",
		"scale_pulse":    "2",
		"material":       "M",
		"size_up":        "=",
		"size_down":      "-",
		"next_color":     "N",
		"variant":        "V",
		"jump":           "J",
		"model_rotation": "3",
		"axis":           "X",
		"sway":           "W",
		"mode":           "Tab",
		"select":         "Space",
	}
}

// Validate reports settings that no mode can run with.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Session.Mode {
	case "showcase", "spawn", "model":
	default:
		return fmt.Errorf("unknown session mode %q", c.Session.Mode)
	}
	switch c.Session.Effect {
	case "burst", "sparkle":
	default:
		return fmt.Errorf("unknown effect %q", c.Session.Effect)
	}
	if c.Animation.EffectDuration <= 0 {
		return fmt.Errorf("effect_duration must be positive, got %v", c.Animation.EffectDuration)
	}
	if c.Animation.ScaleStep <= 0 {
		return fmt.Errorf("scale_step must be positive, got %v", c.Animation.ScaleStep)
	}
	if c.Placement.Size <= 0 {
		return fmt.Errorf("placement size must be positive, got %v", c.Placement.Size)
	}
	return nil
}
