// Package audio plays short synthesized cues for viewer events.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/engine/audio/cue"
	"github.com/Faultbox/arviewer/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by Play before Init succeeded.
var ErrNotInitialized = errors.New("audio not initialized")

// note is one tone of a cue.
type note struct {
	freq float64
	dur  time.Duration
}

var cues = map[cue.Cue][]note{
	cue.Placed: {{660, 60 * time.Millisecond}},
	cue.Loaded: {{523.25, 80 * time.Millisecond}, {783.99, 120 * time.Millisecond}},
	cue.Failed: {{220, 200 * time.Millisecond}},
	cue.Effect: {{880, 50 * time.Millisecond}, {1174.66, 50 * time.Millisecond}, {1760, 90 * time.Millisecond}},
}

// Manager owns the speaker and mixes cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	enabled     bool
	sampleRate  beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	log         *zap.Logger
}

// New creates a manager from the audio config. Nothing is opened until Init.
func New(cfg config.AudioConfig) *Manager {
	return &Manager{
		enabled:    cfg.Enabled,
		sampleRate: DefaultSampleRate,
		volume:     clamp(cfg.Volume, 0, 1),
		mixer:      &beep.Mixer{},
		log:        logger.Named("audio"),
	}
}

// Init opens the speaker. It is a no-op when audio is disabled.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized || !m.enabled {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)), zap.Float64("volume", m.volume))
	return nil
}

// Close stops playback and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	m.volume = clamp(vol, 0, 1)
	m.mu.Unlock()
}

func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Play queues a cue on the mixer.
func (m *Manager) Play(c cue.Cue) error {
	m.mu.RLock()
	initialized, vol, sr := m.initialized, m.volume, m.sampleRate
	m.mu.RUnlock()

	if !initialized {
		if !m.enabled {
			return nil
		}
		return ErrNotInitialized
	}

	notes, ok := cues[c]
	if !ok {
		return fmt.Errorf("unknown cue %s", c)
	}

	s := &effects.Volume{
		Streamer: sequence(sr, notes),
		Base:     2,
		Volume:   gain(vol),
		Silent:   vol <= 0,
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()

	m.log.Debug("cue played", zap.Stringer("cue", c))
	return nil
}

// sequence plays the notes back to back.
func sequence(sr beep.SampleRate, notes []note) beep.Streamer {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		streamers = append(streamers, Tone(sr, n.freq, n.dur))
	}
	return beep.Seq(streamers...)
}

// Tone is a sine wave with a short linear attack and release so notes do not click.
func Tone(sr beep.SampleRate, freq float64, dur time.Duration) beep.Streamer {
	total := sr.N(dur)
	ramp := sr.N(5 * time.Millisecond)
	if ramp*2 > total {
		ramp = total / 2
	}
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for ; n < len(samples) && pos < total; n++ {
			v := math.Sin(2*math.Pi*freq*float64(pos)/float64(sr)) * envelope(pos, total, ramp)
			samples[n][0], samples[n][1] = v, v
			pos++
		}
		return n, true
	})
}

func envelope(pos, total, ramp int) float64 {
	if ramp <= 0 {
		return 1
	}
	if pos < ramp {
		return float64(pos) / float64(ramp)
	}
	if rem := total - pos; rem < ramp {
		return float64(rem) / float64(ramp)
	}
	return 1
}

// gain converts a 0-1 volume to the base-2 exponent effects.Volume expects;
// halving the volume is one step down.
func gain(vol float64) float64 {
	if vol <= 0 {
		return -10
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
