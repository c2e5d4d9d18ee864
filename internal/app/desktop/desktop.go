// Package desktop runs the viewer in an SDL window with the OpenGL renderer.
package desktop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/app"
	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/engine/audio"
	"github.com/Faultbox/arviewer/internal/engine/glrender"
	"github.com/Faultbox/arviewer/internal/engine/input"
	"github.com/Faultbox/arviewer/internal/engine/screenshot"
	"github.com/Faultbox/arviewer/internal/engine/ui2d"
	"github.com/Faultbox/arviewer/internal/engine/window"
	"github.com/Faultbox/arviewer/internal/frame"
	"github.com/Faultbox/arviewer/internal/logger"
)

const title = "AR Viewer"

// RunWindow opens a window and runs the viewer in it. It must be called from
// the main goroutine.
func RunWindow(ctx context.Context, cfg *config.Config, onStart func(*app.App)) error {
	win, err := window.New(window.ConfigFrom(title, cfg.Graphics))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	width, height := win.Size()
	r, err := glrender.New(glrender.Config{Width: width, Height: height})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Close()

	font := ui2d.NewFont()
	hud, err := ui2d.New(width, height, font)
	if err != nil {
		return fmt.Errorf("failed to create overlay: %w", err)
	}
	defer hud.Close()

	sound := audio.New(cfg.Audio)
	if err := sound.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
	}
	defer sound.Close()

	a, err := app.New(cfg, r, sound)
	if err != nil {
		return err
	}
	if onStart != nil {
		onStart(a)
	}

	src := &windowSource{
		app:     a,
		r:       r,
		win:     win,
		log:     logger.Named("desktop"),
		in:      input.New(),
		shots:   screenshot.New("screenshots", "arviewer"),
		hud:     hud,
		batch:   ui2d.NewBatch(font),
		layout:  ui2d.DefaultOverlay(),
		showHUD: true,
		start:   time.Now(),
		width:   width,
		height:  height,
	}
	if cfg.Graphics.FPSLimit > 0 {
		src.minFrame = time.Second / time.Duration(cfg.Graphics.FPSLimit)
	}
	return a.Run(ctx, src)
}

// windowSource turns SDL frames into ticks. Input is handled before each tick
// so control changes apply to the tick that follows.
type windowSource struct {
	app *app.App
	r   *glrender.Renderer
	win *window.Window
	in  *input.Input
	log *zap.Logger

	shots   *screenshot.Capturer
	capture bool

	hud     *ui2d.Renderer
	batch   *ui2d.Batch
	layout  ui2d.Overlay
	showHUD bool

	start    time.Time
	last     time.Time
	minFrame time.Duration
	frames   int
	fpsCount int
	fpsTimer time.Time

	width, height int
}

func (s *windowSource) Next(ctx context.Context) (frame.Tick, error) {
	if err := ctx.Err(); err != nil {
		return frame.Tick{}, err
	}
	if s.frames > 0 {
		if s.showHUD {
			s.drawHUD()
		}
		if s.capture {
			s.saveScreenshot()
		}
		s.win.SwapBuffers()
		s.countFPS()
	}
	if s.minFrame > 0 && !s.last.IsZero() {
		if wait := s.minFrame - time.Since(s.last); wait > 0 {
			time.Sleep(wait)
		}
	}
	s.last = time.Now()

	if s.in.Update() {
		return frame.Tick{}, frame.ErrExhausted
	}
	for _, ev := range s.in.Events() {
		if done := s.handle(ev); done {
			return frame.Tick{}, frame.ErrExhausted
		}
	}

	s.frames++
	cam := s.app.Camera()
	return frame.Tick{
		Timestamp: float64(time.Since(s.start)) / float64(time.Millisecond),
		Frame:     s.app.Modes().Frame(cam.CenterRay()),
		Camera:    cam.Camera(s.width, s.height),
	}, nil
}

// handle applies one input event and reports whether the viewer should quit.
func (s *windowSource) handle(ev input.Event) bool {
	switch ev.Type {
	case input.EventWindowResize:
		s.width, s.height = s.win.Size()
		s.r.Resize(s.width, s.height)
		s.hud.Resize(s.width, s.height)
	case input.EventKeyDown:
		if ev.KeyName == "Escape" {
			return true
		}
		if s.app.HandleKey(ev.KeyName) {
			return false
		}
		switch ev.KeyName {
		case "F12":
			s.capture = true
		case "F1":
			s.showHUD = !s.showHUD
		default:
			s.log.Debug("unbound key", zap.String("key", ev.KeyName))
		}
	case input.EventMouseDown:
		if ev.Button == 1 {
			s.app.Scheduler().Select()
		}
	case input.EventMouseMove:
		if ev.Dragging {
			s.app.Camera().HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
		}
	case input.EventMouseWheel:
		s.app.Camera().HandleZoom(ev.Wheel)
	}
	return false
}

func (s *windowSource) drawHUD() {
	status := s.app.Status()
	lines := make([]ui2d.Line, len(status))
	for i, text := range status {
		lines[i] = ui2d.Line{Text: text}
	}
	lines[0].Color = ui2d.ColorHighlight
	lines = append(lines, ui2d.Line{Text: "F1 overlay  F12 screenshot  Esc quit", Color: ui2d.ColorTextDim})

	s.batch.Reset()
	s.layout.Layout(s.batch, lines)
	s.hud.Draw(s.batch)
}

func (s *windowSource) saveScreenshot() {
	s.capture = false
	pixels, w, h := s.r.ReadPixels()
	path, err := s.shots.Save(pixels, w, h)
	if err != nil {
		s.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	s.log.Info("screenshot saved", zap.String("path", path))
}

func (s *windowSource) countFPS() {
	if s.fpsTimer.IsZero() {
		s.fpsTimer = time.Now()
	}
	s.fpsCount++
	if time.Since(s.fpsTimer) >= time.Second {
		s.log.Debug("fps", zap.Int("count", s.fpsCount))
		s.win.SetTitle(fmt.Sprintf("%s - %d FPS", title, s.fpsCount))
		s.fpsCount = 0
		s.fpsTimer = time.Now()
	}
}

func (s *windowSource) Close() error {
	return nil
}
