// Package engine defines a unified abstraction layer for media playback engines.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package engine

import (
	"errors"

	"github.com/vidstack/elements/media"
)

// Source identifies a playable media resource.
type Source struct {
	// Direct URL to the stream/file, or a local path.
	URL string
	// Display title for the playback window.
	Title string
	// HTTP headers required to stream.
	Headers map[string]string
}

// EventType enumerates the notifications an engine reports to its controller.
type EventType int

const (
	// CanPlay signals the engine has loaded enough of the source to accept
	// playback commands.
	CanPlay EventType = iota + 1
	// CanPlayThrough signals the engine estimates uninterrupted playback.
	CanPlayThrough
	// TimeUpdate carries the current playback position (float64 seconds).
	TimeUpdate
	// DurationChange carries the total source length (float64 seconds).
	DurationChange
	// Progress carries the buffered ranges (media.TimeRanges).
	Progress
	// SeekableChange carries the seekable ranges (media.TimeRanges).
	SeekableChange
	// Play signals playback was unsuspended.
	Play
	// Pause signals playback was suspended.
	Pause
	// Playing signals frames are being produced after a play or stall.
	Playing
	// Waiting signals playback stalled pending data.
	Waiting
	// Seeking carries the in-seek flag (bool).
	Seeking
	// Seeked signals a seek completed.
	Seeked
	// Ended signals the source played to completion.
	Ended
	// VolumeChange carries the engine volume (float64, 0-1).
	VolumeChange
	// MutedChange carries the mute flag (bool).
	MutedChange
	// FullscreenChange carries the fullscreen flag (bool).
	FullscreenChange
	// MediaTypeChange carries the detected resource classification (media.Type).
	MediaTypeChange
	// EngineError carries a playback failure (error).
	EngineError
	// Closed signals the engine process or handler terminated.
	Closed
)

// Event is a single engine notification. Value carries the payload documented
// on the corresponding EventType, and is nil for bare signals.
type Event struct {
	Type  EventType
	Value any
}

// Listener receives engine events. Engines deliver events sequentially; a
// listener is never invoked concurrently with itself.
type Listener func(Event)

// Engine encapsulates the required capabilities for a media playback backend.
// State flows one way: commands in through the methods, observations out
// through the registered listener.
type Engine interface {
	// Load attaches a source and begins loading it. Loading an engine that
	// already has a source replaces it.
	Load(src Source) error

	// Play unsuspends playback.
	Play() error

	// Pause suspends playback.
	Pause() error

	// Seek transitions the playback position to an absolute timestamp in seconds.
	Seek(seconds float64) error

	// SetVolume sets the engine volume in the range 0 to 1.
	SetVolume(volume float64) error

	// SetMuted toggles audio muting.
	SetMuted(muted bool) error

	// OnEvent registers the single event listener. Must be called before Load.
	OnEvent(fn Listener)

	// Close terminates the playback engine and releases all associated system resources.
	Close() error
}

// FullscreenEngine is an optional capability for engines that can present a
// fullscreen surface.
type FullscreenEngine interface {
	SetFullscreen(active bool) error
}

// ErrFullscreenUnsupported is reported when a fullscreen intent reaches an
// engine without the capability.
var ErrFullscreenUnsupported = errors.New("engine does not support fullscreen")

// ErrNoEngine is reported when no registered factory accepts a source.
var ErrNoEngine = errors.New("no engine accepts the source")

// ranges is a shorthand used by engines synthesizing buffered spans.
func ranges(start, end float64) media.TimeRanges {
	if end <= start {
		return nil
	}
	return media.TimeRanges{{Start: start, End: end}}
}
