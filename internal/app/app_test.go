package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/arviewer/internal/backend/memory"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/engine/audio/cue"
)

const boxModel = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "box", "mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, 0, -1], "max": [1, 2, 1]}]
}`

func testConfig(t *testing.T, mode string, frames int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Session.Mode = mode
	cfg.Session.InitLatency = 0
	cfg.Graphics.Headless = true
	cfg.Graphics.Frames = frames
	cfg.Graphics.FPSLimit = 1000
	cfg.Audio.Enabled = false

	path := filepath.Join(t.TempDir(), "box.gltf")
	if err := os.WriteFile(path, []byte(boxModel), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Assets.ModelURL = path
	return cfg
}

func TestHeadlessModes(t *testing.T) {
	tests := []struct {
		mode       string
		frames     int
		minCreated int
	}{
		{"showcase", 40, 4},
		{"spawn", 130, 3}, // reticle and two tori
		{"model", 130, 2}, // reticle and at least one model mesh
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			sum, err := RunHeadless(context.Background(), testConfig(t, tt.mode, tt.frames), nil)
			if err != nil {
				t.Fatalf("RunHeadless: %v", err)
			}
			if sum.Ticks != uint64(tt.frames) || sum.Frames != tt.frames {
				t.Errorf("ticks = %d frames = %d, want %d", sum.Ticks, sum.Frames, tt.frames)
			}
			if sum.Created < tt.minCreated {
				t.Errorf("created = %d, want at least %d", sum.Created, tt.minCreated)
			}
			if sum.Live != 0 || sum.Created != sum.Removed {
				t.Errorf("nodes leaked: created %d removed %d live %d", sum.Created, sum.Removed, sum.Live)
			}
		})
	}
}

func TestHeadlessStop(t *testing.T) {
	cfg := testConfig(t, "showcase", 0)
	done := make(chan struct{})
	var sum Summary
	var err error
	go func() {
		defer close(done)
		sum, err = RunHeadless(context.Background(), cfg, func(a *App) {
			time.AfterFunc(50*time.Millisecond, a.Stop)
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RunHeadless did not stop")
	}
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if sum.Ticks == 0 {
		t.Error("no ticks ran before Stop")
	}
}

func TestHeadlessUnknownMode(t *testing.T) {
	if _, err := RunHeadless(context.Background(), testConfig(t, "vr", 5), nil); err == nil {
		t.Error("RunHeadless succeeded with an unknown mode")
	}
}

type recordingPlayer struct {
	played []cue.Cue
}

func (p *recordingPlayer) Play(c cue.Cue) error {
	p.played = append(p.played, c)
	return nil
}

func TestHandleKey(t *testing.T) {
	player := &recordingPlayer{}
	a, err := New(config.Default(), memory.New(), player)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !a.HandleKey("r") {
		t.Fatal("r is bound to rotation")
	}
	if a.Panel().Toggles().Rotation {
		t.Error("rotation still on after pressing r")
	}
	if a.HandleKey("F12") {
		t.Error("F12 reported as bound")
	}

	a.HandleKey("Space")
	a.HandleKey("space")
	// Selections are consumed by the next tick; none has run yet.
	if a.Scheduler().Ticks() != 0 {
		t.Errorf("ticks = %d, want 0", a.Scheduler().Ticks())
	}
}

func TestEffectKeyPlaysCue(t *testing.T) {
	player := &recordingPlayer{}
	cfg := testConfig(t, "showcase", 0)
	a, err := New(cfg, memory.New(), player)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Modes().Change("showcase"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	defer a.Modes().Close()

	a.HandleKey("E")
	if len(player.played) != 1 || player.played[0] != cue.Effect {
		t.Errorf("played = %v, want [effect]", player.played)
	}
}

func TestConflictingBindings(t *testing.T) {
	cfg := config.Default()
	cfg.Controls.Bindings = map[string]string{"rotation": "R", "pulse": "r"}
	if _, err := New(cfg, memory.New(), nil); err == nil {
		t.Error("New accepted two actions on one key")
	}
}

func TestStatus(t *testing.T) {
	a, err := New(config.Default(), memory.New(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := a.Status()[0]; got != "mode none" {
		t.Errorf("status before Run = %q", got)
	}

	if err := a.Modes().Change("spawn"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	defer a.Modes().Close()
	status := a.Status()
	if status[0] != "mode spawn" {
		t.Errorf("status[0] = %q, want mode spawn", status[0])
	}
	if len(status) != 1+len(a.Panel().Status()) {
		t.Errorf("status has %d lines", len(status))
	}
}
