// Package controller coordinates a playback engine, the authoritative media
// state, and the intent queue into a single session. Consumers never talk to
// the engine directly: intents flow in through the Remote facade, observations
// flow out through the state record.
package controller

import (
	"errors"
	"sync"

	"github.com/vidstack/elements/engine"
	"github.com/vidstack/elements/log"
	"github.com/vidstack/elements/media"
	"github.com/vidstack/elements/request"
	"github.com/vidstack/elements/scope"
)

// Readiness tracks the session lifecycle.
type Readiness int

const (
	// NotReady means no source has produced a playable engine yet. Intents
	// are queued.
	NotReady Readiness = iota
	// Ready means the engine accepted the source and queued intents have been
	// flushed.
	Ready
	// SourceChanging means a new source is loading; intents queue again until
	// the engine reports it playable.
	SourceChanging
	// Disconnected is terminal: the session was closed or the engine died.
	Disconnected
)

func (r Readiness) String() string {
	switch r {
	case NotReady:
		return "not-ready"
	case Ready:
		return "ready"
	case SourceChanging:
		return "source-changing"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ErrDisconnected is reported when a source change reaches a closed session.
var ErrDisconnected = errors.New("controller: session disconnected")

// StateKey provides the session state record through a scope tree.
var StateKey = scope.NewKey[*media.State]("media.state")

// RemoteKey provides the session intent facade through a scope tree.
var RemoteKey = scope.NewKey[*Remote]("media.remote")

// Controller owns one playback session: a fresh state record, the intent
// queue, and the engine it drives. It registers itself as the engine's event
// listener on construction.
type Controller struct {
	eng   engine.Engine
	state *media.State
	queue *request.Queue

	mu        sync.Mutex
	readiness Readiness
	loaded    bool
	flushed   bool
	closed    bool
	attached  *scope.Scope
}

// New builds a session around the given engine.
func New(eng engine.Engine) *Controller {
	c := &Controller{
		eng:   eng,
		state: media.NewState(),
	}
	c.queue = request.NewQueue(c.recordFailure)
	eng.OnEvent(c.handleEvent)
	return c
}

// State exposes the session's authoritative state record.
func (c *Controller) State() *media.State {
	return c.state
}

// Remote exposes the consumer-facing intent facade.
func (c *Controller) Remote() *Remote {
	return &Remote{c: c}
}

// Queue exposes the intent queue, mainly for flush synchronization.
func (c *Controller) Queue() *request.Queue {
	return c.queue
}

// ReadyState reports the current lifecycle phase.
func (c *Controller) ReadyState() Readiness {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readiness
}

// Attach provides the session's state and remote on the given scope so nested
// consumers can bind without a controller reference. Close withdraws both.
func (c *Controller) Attach(s *scope.Scope) {
	c.mu.Lock()
	c.attached = s
	c.mu.Unlock()

	StateKey.Provide(s, c.state)
	RemoteKey.Provide(s, c.Remote())
}

// ChangeSource attaches a new source to the session. The first load keeps the
// initial configuration; every later change stops the queue, discards stale
// intents, and soft-resets the per-source state before loading.
func (c *Controller) ChangeSource(src engine.Source) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDisconnected
	}
	first := !c.loaded
	c.loaded = true
	c.flushed = false
	if !first {
		c.readiness = SourceChanging
	}
	c.mu.Unlock()

	if !first {
		c.queue.Stop()
		c.queue.Reset()
		c.state.SoftReset()
	}

	c.state.CurrentSrc.Set(src.URL)

	if err := c.eng.Load(src); err != nil {
		c.state.Error.Set(err)
		return err
	}
	return nil
}

// Close tears the session down: pending intents are discarded, flush waiters
// released, state hard-reset, the engine closed, and any scope provision
// withdrawn. Idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.readiness = Disconnected
	attached := c.attached
	c.attached = nil
	c.mu.Unlock()

	c.queue.Destroy()
	c.state.HardReset()

	if attached != nil {
		StateKey.Remove(attached)
		RemoteKey.Remove(attached)
	}

	err := c.eng.Close()
	if err != nil {
		log.Error("engine close: ", err)
	}
	return err
}

// handleEvent is the single engine listener. Engines deliver events
// sequentially, so state writes here need no extra ordering.
func (c *Controller) handleEvent(e engine.Event) {
	s := c.state

	switch e.Type {
	case engine.CanPlay:
		s.CanPlay.Set(true)
		c.becomeReady()

	case engine.CanPlayThrough:
		s.CanPlay.Set(true)
		s.CanPlayThrough.Set(true)
		c.becomeReady()

	case engine.TimeUpdate:
		if v, ok := e.Value.(float64); ok {
			s.CurrentTime.Set(v)
		}

	case engine.DurationChange:
		if v, ok := e.Value.(float64); ok {
			s.Duration.Set(v)
		}

	case engine.Progress:
		if v, ok := e.Value.(media.TimeRanges); ok {
			s.Buffered.Set(v)
		}

	case engine.SeekableChange:
		if v, ok := e.Value.(media.TimeRanges); ok {
			s.Seekable.Set(v)
		}

	case engine.Play:
		s.Paused.Set(false)
		s.Ended.Set(false)

	case engine.Pause:
		s.Paused.Set(true)
		s.Playing.Set(false)
		s.Waiting.Set(false)

	case engine.Playing:
		s.Paused.Set(false)
		s.Playing.Set(true)
		s.Waiting.Set(false)
		s.Started.Set(true)

	case engine.Waiting:
		s.Waiting.Set(true)
		s.Playing.Set(false)

	case engine.Seeking:
		if v, ok := e.Value.(bool); ok {
			s.Seeking.Set(v)
		} else {
			s.Seeking.Set(true)
		}

	case engine.Seeked:
		s.Seeking.Set(false)

	case engine.Ended:
		if s.Loop.Get() {
			// Restart instead of finishing. Errors surface like any other
			// engine failure.
			if err := c.eng.Seek(0); err != nil {
				s.Error.Set(err)
				return
			}
			if err := c.eng.Play(); err != nil {
				s.Error.Set(err)
			}
			return
		}
		s.Ended.Set(true)
		s.Playing.Set(false)
		s.Paused.Set(true)

	case engine.VolumeChange:
		if v, ok := e.Value.(float64); ok {
			s.Volume.Set(v)
		}

	case engine.MutedChange:
		if v, ok := e.Value.(bool); ok {
			s.Muted.Set(v)
		}

	case engine.FullscreenChange:
		if v, ok := e.Value.(bool); ok {
			s.Fullscreen.Set(v)
		}

	case engine.MediaTypeChange:
		if v, ok := e.Value.(media.Type); ok {
			s.MediaType.Set(v)
		}

	case engine.EngineError:
		if err, ok := e.Value.(error); ok {
			log.Error("engine: ", err)
			s.Error.Set(err)
		}

	case engine.Closed:
		c.disconnect()
	}
}

// becomeReady flips the session to Ready and flushes queued intents exactly
// once per source-load cycle.
func (c *Controller) becomeReady() {
	c.mu.Lock()
	if c.closed || c.flushed {
		c.mu.Unlock()
		return
	}
	c.flushed = true
	c.readiness = Ready
	c.mu.Unlock()

	c.queue.Start()
}

// disconnect marks the session terminal when the engine goes away on its own.
func (c *Controller) disconnect() {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.mu.Unlock()

	if !alreadyClosed {
		log.Warn("engine terminated, disconnecting session")
		_ = c.Close()
	}
}

// recordFailure is the queue's error handler: intent failures land in the
// state record instead of propagating, and the flush batch continues.
func (c *Controller) recordFailure(key string, err error) {
	log.Errorf("intent %q failed: %v", key, err)

	var autoplay *autoplayError
	if errors.As(err, &autoplay) {
		c.state.AutoplayError.Set(autoplay.err)
		return
	}
	c.state.Error.Set(err)
}

// autoplayError wraps a play rejection that happened before playback ever
// started, mirroring browser autoplay policy failures.
type autoplayError struct {
	err error
}

func (e *autoplayError) Error() string {
	return "autoplay blocked: " + e.err.Error()
}

func (e *autoplayError) Unwrap() error {
	return e.err
}
