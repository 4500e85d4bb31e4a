package media

import (
	"math"

	"github.com/vidstack/elements/reactive"
)

// State is the authoritative record of a playback session. Exactly one instance
// exists per active session, owned by the controller; consumers hold a reference
// through scope propagation and subscribe to individual fields. Engine event
// handlers are the only writers — UI consumers issue intents through the request
// queue instead of mutating fields directly.
type State struct {
	// Session-scoped fields survive source changes.
	Autoplay   *reactive.Field[bool]
	Volume     *reactive.Field[float64]
	Muted      *reactive.Field[bool]
	Controls   *reactive.Field[bool]
	Loop       *reactive.Field[bool]
	Fullscreen *reactive.Field[bool]
	ViewType   *reactive.Field[ViewType]

	// Source-scoped fields reset when a new source is attached.
	CurrentSrc     *reactive.Field[string]
	CurrentTime    *reactive.Field[float64]
	Duration       *reactive.Field[float64]
	Buffered       *reactive.Field[TimeRanges]
	Seekable       *reactive.Field[TimeRanges]
	Paused         *reactive.Field[bool]
	Playing        *reactive.Field[bool]
	Seeking        *reactive.Field[bool]
	Started        *reactive.Field[bool]
	Waiting        *reactive.Field[bool]
	Ended          *reactive.Field[bool]
	CanPlay        *reactive.Field[bool]
	CanPlayThrough *reactive.Field[bool]
	MediaType      *reactive.Field[Type]
	Error          *reactive.Field[error]
	AutoplayError  *reactive.Field[error]

	// Derived fields are read-only projections of the above.
	BufferedAmount *reactive.Derived[float64]
	SeekableAmount *reactive.Derived[float64]
	IsAudioView    *reactive.Derived[bool]
	IsVideoView    *reactive.Derived[bool]
}

// eqFloat treats NaN as equal to NaN so resetting an unknown duration stays a
// no-op write.
func eqFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func eqRanges(a, b TimeRanges) bool {
	return a.Equal(b)
}

func eqError(a, b error) bool {
	return a == b
}

// NewState creates a state record with every field at its declared default.
func NewState() *State {
	s := &State{
		Autoplay:   reactive.New(false),
		Volume:     reactive.NewFunc(1.0, eqFloat),
		Muted:      reactive.New(false),
		Controls:   reactive.New(false),
		Loop:       reactive.New(false),
		Fullscreen: reactive.New(false),
		ViewType:   reactive.New(ViewUnknown),

		CurrentSrc:     reactive.New(""),
		CurrentTime:    reactive.NewFunc(0, eqFloat),
		Duration:       reactive.NewFunc(math.NaN(), eqFloat),
		Buffered:       reactive.NewFunc(TimeRanges(nil), eqRanges),
		Seekable:       reactive.NewFunc(TimeRanges(nil), eqRanges),
		Paused:         reactive.New(true),
		Playing:        reactive.New(false),
		Seeking:        reactive.New(false),
		Started:        reactive.New(false),
		Waiting:        reactive.New(false),
		Ended:          reactive.New(false),
		CanPlay:        reactive.New(false),
		CanPlayThrough: reactive.New(false),
		MediaType:      reactive.New(TypeUnknown),
		Error:          reactive.NewFunc(error(nil), eqError),
		AutoplayError:  reactive.NewFunc(error(nil), eqError),
	}

	s.BufferedAmount = reactive.DeriveFunc(func() float64 {
		return rangeAmount(s.Buffered.Get(), s.Duration.Get())
	}, eqFloat, s.Buffered, s.Duration)

	s.SeekableAmount = reactive.DeriveFunc(func() float64 {
		return rangeAmount(s.Seekable.Get(), s.Duration.Get())
	}, eqFloat, s.Seekable, s.Duration)

	s.IsAudioView = reactive.Derive(func() bool {
		return s.ViewType.Get() == ViewAudio
	}, s.ViewType)

	s.IsVideoView = reactive.Derive(func() bool {
		return s.ViewType.Get() == ViewVideo
	}, s.ViewType)

	return s
}

// rangeAmount is the end of the last range, clamped to the duration when the
// duration is known and shorter.
func rangeAmount(ranges TimeRanges, duration float64) float64 {
	amount := ranges.End()
	if !math.IsNaN(duration) && duration >= 0 && duration < amount {
		return duration
	}
	return amount
}

// sourceScoped lists every field tied to the current media resource.
func (s *State) sourceScoped() []resettable {
	return []resettable{
		s.CurrentSrc, s.CurrentTime, s.Duration, s.Buffered, s.Seekable,
		s.Paused, s.Playing, s.Seeking, s.Started, s.Waiting, s.Ended,
		s.CanPlay, s.CanPlayThrough, s.MediaType, s.Error, s.AutoplayError,
	}
}

// sessionScoped lists every field that survives source changes.
func (s *State) sessionScoped() []resettable {
	return []resettable{
		s.Autoplay, s.Volume, s.Muted, s.Controls, s.Loop, s.Fullscreen,
		s.ViewType,
	}
}

// resettable is the reset face shared by all field types.
type resettable interface{ Reset() }

// SoftReset restores every source-scoped field to its default, leaving
// session-scoped fields (volume, muted, fullscreen, ...) untouched. Triggered on
// source changes after the initial load.
func (s *State) SoftReset() {
	for _, f := range s.sourceScoped() {
		f.Reset()
	}
}

// HardReset restores every non-derived field to its default. Triggered on
// provider teardown.
func (s *State) HardReset() {
	for _, f := range s.sourceScoped() {
		f.Reset()
	}
	for _, f := range s.sessionScoped() {
		f.Reset()
	}
}
