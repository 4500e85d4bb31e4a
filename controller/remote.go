package controller

import (
	"github.com/vidstack/elements/engine"
	"github.com/vidstack/elements/util"
)

// Intent queue keys. One pending action per key: rapid-fire intents of the same
// kind coalesce to the newest while the session is not ready.
const (
	keyPaused     = "paused"
	keyTime       = "time"
	keyVolume     = "volume"
	keyMuted      = "muted"
	keyFullscreen = "fullscreen"
	keyLoop       = "loop"
)

// Remote is the consumer-facing facade for playback intents. Every method goes
// through the session queue: before the engine is ready intents are held and
// coalesced, afterwards they pass straight through. Methods never block and
// never return errors — failures land in the state record.
type Remote struct {
	c *Controller
}

// Play requests playback to start. A rejection before playback ever started is
// recorded as an autoplay error rather than a session error.
func (r *Remote) Play() {
	r.c.queue.Queue(keyPaused, func() error {
		if err := r.c.eng.Play(); err != nil {
			if !r.c.state.Started.Get() {
				return &autoplayError{err: err}
			}
			return err
		}
		return nil
	})
}

// Pause requests playback to suspend.
func (r *Remote) Pause() {
	r.c.queue.Queue(keyPaused, func() error {
		return r.c.eng.Pause()
	})
}

// TogglePaused inverts the suspension state as it is when the intent runs.
func (r *Remote) TogglePaused() {
	r.c.queue.Queue(keyPaused, func() error {
		if r.c.state.Paused.Get() {
			return r.c.eng.Play()
		}
		return r.c.eng.Pause()
	})
}

// Seek requests an absolute position in seconds. Queued seeks coalesce to the
// newest target.
func (r *Remote) Seek(seconds float64) {
	r.c.queue.Queue(keyTime, func() error {
		return r.c.eng.Seek(seconds)
	})
}

// SeekBy requests a relative jump from the position at run time.
func (r *Remote) SeekBy(delta float64) {
	r.c.queue.Queue(keyTime, func() error {
		target := r.c.state.CurrentTime.Get() + delta
		if target < 0 {
			target = 0
		}
		return r.c.eng.Seek(target)
	})
}

// SetVolume requests an engine volume in the range 0 to 1.
func (r *Remote) SetVolume(volume float64) {
	volume = util.Clamp(volume, 0, 1)
	r.c.queue.Queue(keyVolume, func() error {
		return r.c.eng.SetVolume(volume)
	})
}

// ChangeVolumeBy requests a relative volume adjustment from the level at run
// time.
func (r *Remote) ChangeVolumeBy(delta float64) {
	r.c.queue.Queue(keyVolume, func() error {
		return r.c.eng.SetVolume(util.Clamp(r.c.state.Volume.Get()+delta, 0, 1))
	})
}

// Mute requests audio muting.
func (r *Remote) Mute() {
	r.c.queue.Queue(keyMuted, func() error {
		return r.c.eng.SetMuted(true)
	})
}

// Unmute requests audio unmuting.
func (r *Remote) Unmute() {
	r.c.queue.Queue(keyMuted, func() error {
		return r.c.eng.SetMuted(false)
	})
}

// ToggleMuted inverts the mute state as it is when the intent runs.
func (r *Remote) ToggleMuted() {
	r.c.queue.Queue(keyMuted, func() error {
		return r.c.eng.SetMuted(!r.c.state.Muted.Get())
	})
}

// SetLoop requests restart-on-end behavior. Looping is handled by the session
// itself, so the intent only records the preference.
func (r *Remote) SetLoop(loop bool) {
	r.c.queue.Queue(keyLoop, func() error {
		r.c.state.Loop.Set(loop)
		return nil
	})
}

// ToggleLoop inverts the loop preference as it is when the intent runs.
func (r *Remote) ToggleLoop() {
	r.c.queue.Queue(keyLoop, func() error {
		r.c.state.Loop.Set(!r.c.state.Loop.Get())
		return nil
	})
}

// EnterFullscreen requests a fullscreen surface. Engines without the
// capability report ErrFullscreenUnsupported through the state record.
func (r *Remote) EnterFullscreen() {
	r.setFullscreen(true)
}

// ExitFullscreen requests leaving fullscreen.
func (r *Remote) ExitFullscreen() {
	r.setFullscreen(false)
}

// ToggleFullscreen inverts the fullscreen state as it is when the intent runs.
func (r *Remote) ToggleFullscreen() {
	r.c.queue.Queue(keyFullscreen, func() error {
		return r.applyFullscreen(!r.c.state.Fullscreen.Get())
	})
}

func (r *Remote) setFullscreen(active bool) {
	r.c.queue.Queue(keyFullscreen, func() error {
		return r.applyFullscreen(active)
	})
}

func (r *Remote) applyFullscreen(active bool) error {
	fe, ok := r.c.eng.(engine.FullscreenEngine)
	if !ok {
		return engine.ErrFullscreenUnsupported
	}
	return fe.SetFullscreen(active)
}
