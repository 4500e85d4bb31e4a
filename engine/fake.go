package engine

import (
	"fmt"
	"strings"
	"sync"
)

// Fake is a scripted in-process engine used by tests. Commands are recorded
// and surfaced through Calls; state transitions are driven manually with Emit.
type Fake struct {
	mu sync.Mutex

	listener Listener
	closed   bool

	// Calls records every command in arrival order, e.g. "load", "play",
	// "seek(30)".
	Calls []string

	// Loaded holds the last source passed to Load.
	Loaded Source

	// Fail, when set, is returned by every subsequent command. FailOn
	// restricts it to commands whose recorded name starts with the prefix.
	Fail   error
	FailOn string
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	if f.Fail != nil && (f.FailOn == "" || strings.HasPrefix(call, f.FailOn)) {
		return f.Fail
	}
	return nil
}

func (f *Fake) Load(src Source) error {
	f.mu.Lock()
	f.Loaded = src
	f.mu.Unlock()
	return f.record("load")
}

func (f *Fake) Play() error  { return f.record("play") }
func (f *Fake) Pause() error { return f.record("pause") }

func (f *Fake) Seek(seconds float64) error {
	return f.record(call("seek", seconds))
}

func (f *Fake) SetVolume(volume float64) error {
	return f.record(call("volume", volume))
}

func (f *Fake) SetMuted(muted bool) error {
	if muted {
		return f.record("mute")
	}
	return f.record("unmute")
}

func (f *Fake) SetFullscreen(active bool) error {
	if active {
		return f.record("fullscreen")
	}
	return f.record("windowed")
}

func (f *Fake) OnEvent(fn Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = fn
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *Fake) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func call(name string, arg any) string {
	return fmt.Sprintf("%s(%v)", name, arg)
}

// Emit delivers an event to the registered listener, mimicking the serialized
// delivery real engines guarantee.
func (f *Fake) Emit(e Event) {
	f.mu.Lock()
	fn := f.listener
	f.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}
