package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/vidstack/elements/controller"
	"github.com/vidstack/elements/internal/ui"
	"github.com/vidstack/elements/media"
	"github.com/vidstack/elements/reactive"
)

// refreshMsg signals that a bound state field changed and the view is stale.
type refreshMsg struct{}

// transportBubble renders one playback session as a transport bar. The state
// and remote references come and go with their scope bindings; the view
// degrades to a placeholder while nothing is bound.
type transportBubble struct {
	mu     sync.Mutex
	state  *media.State
	remote *controller.Remote

	// sawSession flips once a state binds; a later detach then quits the view
	// instead of idling on the placeholder.
	sawSession bool

	keymap *transportKeymap

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	// refresh coalesces change notifications from the reactive fields into a
	// single pending redraw. Signals never block the notifying subscriber.
	refresh chan struct{}

	width, height int
}

func newBubble() *transportBubble {
	return &transportBubble{
		keymap:    newTransportKeymap(),
		progressC: progress.New(progress.WithDefaultGradient()),
		helpC:     help.New(),
		notifier:  &ui.Model{},
		refresh:   make(chan struct{}, 1),
	}
}

// attachState wires the bound session state into the view and subscribes the
// rendered fields. The returned detach cancels every subscription.
func (b *transportBubble) attachState(s *media.State) func() {
	b.mu.Lock()
	b.state = s
	b.sawSession = true
	b.mu.Unlock()

	cancels := []func(){
		subscribe(s.Paused, b.signal),
		subscribe(s.Playing, b.signal),
		subscribe(s.Waiting, b.signal),
		subscribe(s.Seeking, b.signal),
		subscribe(s.Ended, b.signal),
		subscribe(s.CurrentTime, b.signal),
		subscribe(s.Duration, b.signal),
		subscribe(s.Volume, b.signal),
		subscribe(s.Muted, b.signal),
		subscribe(s.Loop, b.signal),
		subscribe(s.Fullscreen, b.signal),
		subscribe(s.CurrentSrc, b.signal),
		subscribe(s.Error, b.signal),
		subscribe(s.AutoplayError, b.signal),
		subscribeDerived(s.BufferedAmount, b.signal),
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}

		b.mu.Lock()
		b.state = nil
		b.mu.Unlock()
		b.signal()
	}
}

// attachRemote wires the bound intent facade.
func (b *transportBubble) attachRemote(r *controller.Remote) func() {
	b.mu.Lock()
	b.remote = r
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		b.remote = nil
		b.mu.Unlock()
	}
}

// signal marks the view stale without blocking the caller.
func (b *transportBubble) signal() {
	select {
	case b.refresh <- struct{}{}:
	default:
	}
}

func (b *transportBubble) snapshot() (*media.State, *controller.Remote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.remote
}

func (b *transportBubble) sessionGone() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sawSession && b.state == nil
}

func subscribe[T any](f *reactive.Field[T], signal func()) func() {
	return f.Subscribe(func(T) { signal() })
}

func subscribeDerived[T any](d *reactive.Derived[T], signal func()) func() {
	return d.Subscribe(func(T) { signal() })
}
