package frame

import (
	"context"
	"time"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/xr"
)

// TickerSource produces ticks at a fixed interval without a display.
type TickerSource struct {
	ticker *time.Ticker
	start  time.Time
	limit  int
	count  int

	// FrameFunc supplies the XR frame for each tick; nil yields no frame.
	FrameFunc func() xr.Frame
	// Camera is reported with every tick.
	Camera backend.Camera
	// BeforeTick runs before each tick is returned.
	BeforeTick func(n int)
}

// NewTickerSource ticks every interval, limit times (0 = no limit).
func NewTickerSource(interval time.Duration, limit int) *TickerSource {
	return &TickerSource{
		ticker: time.NewTicker(interval),
		start:  time.Now(),
		limit:  limit,
	}
}

// Next implements Source.
func (s *TickerSource) Next(ctx context.Context) (Tick, error) {
	if s.limit > 0 && s.count >= s.limit {
		return Tick{}, ErrExhausted
	}
	select {
	case <-ctx.Done():
		return Tick{}, ctx.Err()
	case now := <-s.ticker.C:
		if s.BeforeTick != nil {
			s.BeforeTick(s.count)
		}
		s.count++
		t := Tick{
			Timestamp: float64(now.Sub(s.start)) / float64(time.Millisecond),
			Camera:    s.Camera,
		}
		if s.FrameFunc != nil {
			t.Frame = s.FrameFunc()
		}
		return t, nil
	}
}

// Close implements Source.
func (s *TickerSource) Close() error {
	s.ticker.Stop()
	return nil
}
