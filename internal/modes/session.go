package modes

import (
	"github.com/Faultbox/arviewer/internal/engine/picking"
	"github.com/Faultbox/arviewer/internal/xr"
	"github.com/Faultbox/arviewer/internal/xr/sim"
)

// arSession is the emulated session, tracker and reticle shared by the
// placement modes.
type arSession struct {
	session *sim.Session
	tracker *xr.Tracker
	reticle *xr.Reticle
}

func (a *arSession) start(env *Env) {
	a.session = sim.NewSession(sim.ConfigFrom(env.Config.Session))
	a.tracker = xr.NewTracker()
	a.tracker.Begin(a.session)
	a.reticle = xr.NewReticle(env.Renderer)
}

func (a *arSession) stop() {
	if a.session == nil {
		return
	}
	a.tracker.End()
	a.session.End()
	a.reticle.Remove()
	a.session, a.tracker, a.reticle = nil, nil, nil
}

func (a *arSession) frame(ray picking.Ray) xr.Frame {
	if a.session == nil {
		return nil
	}
	return a.session.Frame(ray)
}

// Session returns the emulated session while the mode is active.
func (a *arSession) Session() *sim.Session { return a.session }

// Tracker returns the surface tracker while the mode is active.
func (a *arSession) Tracker() *xr.Tracker { return a.tracker }
