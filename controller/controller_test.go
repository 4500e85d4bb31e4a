package controller

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidstack/elements/engine"
	"github.com/vidstack/elements/media"
	"github.com/vidstack/elements/scope"
)

func TestControllerLifecycle(t *testing.T) {
	Convey("Controller lifecycle", t, func() {
		fake := engine.NewFake()
		c := New(fake)
		remote := c.Remote()

		Convey("Should start not ready with intents queued", func() {
			So(c.ReadyState(), ShouldEqual, NotReady)

			remote.Play()
			remote.SetVolume(0.5)

			So(c.Queue().Size(), ShouldEqual, 2)
			So(fake.Calls, ShouldBeEmpty)
		})

		Convey("Should flush queued intents when the engine reports playable", func() {
			remote.SetVolume(0.5)
			remote.Play()

			So(c.ChangeSource(engine.Source{URL: "clip.mp4"}), ShouldBeNil)
			fake.Emit(engine.Event{Type: engine.CanPlay})

			So(c.ReadyState(), ShouldEqual, Ready)
			So(c.State().CanPlay.Get(), ShouldBeTrue)
			So(fake.Calls, ShouldResemble, []string{"load", "volume(0.5)", "play"})
		})

		Convey("Should coalesce a play followed by a pause into a single pause", func() {
			remote.Play()
			remote.Pause()

			So(c.Queue().Size(), ShouldEqual, 1)

			So(c.ChangeSource(engine.Source{URL: "clip.mp4"}), ShouldBeNil)
			fake.Emit(engine.Event{Type: engine.CanPlay})

			So(fake.Calls, ShouldResemble, []string{"load", "pause"})
		})

		Convey("Should pass intents straight through once ready", func() {
			So(c.ChangeSource(engine.Source{URL: "clip.mp4"}), ShouldBeNil)
			fake.Emit(engine.Event{Type: engine.CanPlay})

			remote.Seek(42)
			So(c.Queue().Size(), ShouldEqual, 0)
			So(fake.Calls, ShouldResemble, []string{"load", "seek(42)"})
		})

		Convey("Should release flush waiters on readiness", func() {
			waiter := c.Queue().WaitForFlush()
			So(c.ChangeSource(engine.Source{URL: "clip.mp4"}), ShouldBeNil)
			fake.Emit(engine.Event{Type: engine.CanPlay})

			select {
			case <-waiter:
			default:
				t.Fatal("flush waiter not released")
			}
		})
	})
}

func TestChangeSource(t *testing.T) {
	Convey("Change source", t, func() {
		fake := engine.NewFake()
		c := New(fake)
		remote := c.Remote()

		Convey("Should keep initial configuration on the first load", func() {
			c.State().Volume.Set(0.3)

			So(c.ChangeSource(engine.Source{URL: "first.mp4"}), ShouldBeNil)

			So(c.State().Volume.Get(), ShouldEqual, 0.3)
			So(c.State().CurrentSrc.Get(), ShouldEqual, "first.mp4")
			So(c.ReadyState(), ShouldEqual, NotReady)
		})

		Convey("Should soft-reset and re-queue on a later change", func() {
			So(c.ChangeSource(engine.Source{URL: "first.mp4"}), ShouldBeNil)
			fake.Emit(engine.Event{Type: engine.CanPlay})
			fake.Emit(engine.Event{Type: engine.TimeUpdate, Value: 12.0})
			fake.Emit(engine.Event{Type: engine.Playing})
			c.State().Volume.Set(0.3)

			So(c.ChangeSource(engine.Source{URL: "second.mp4"}), ShouldBeNil)

			So(c.ReadyState(), ShouldEqual, SourceChanging)
			So(c.State().CurrentTime.Get(), ShouldEqual, 0)
			So(c.State().Playing.Get(), ShouldBeFalse)
			So(c.State().CanPlay.Get(), ShouldBeFalse)
			So(c.State().CurrentSrc.Get(), ShouldEqual, "second.mp4")
			// Session fields survive.
			So(c.State().Volume.Get(), ShouldEqual, 0.3)

			Convey("And intents queue until the new source is playable", func() {
				before := len(fake.Calls)
				remote.Play()
				So(fake.Calls, ShouldHaveLength, before)

				fake.Emit(engine.Event{Type: engine.CanPlay})
				So(c.ReadyState(), ShouldEqual, Ready)
				So(fake.Calls[len(fake.Calls)-1], ShouldEqual, "play")
			})
		})

		Convey("Should discard intents staled by the change", func() {
			So(c.ChangeSource(engine.Source{URL: "first.mp4"}), ShouldBeNil)
			fake.Emit(engine.Event{Type: engine.CanPlay})

			c.Queue().Stop()
			remote.Seek(55)
			So(c.Queue().Size(), ShouldEqual, 1)

			So(c.ChangeSource(engine.Source{URL: "second.mp4"}), ShouldBeNil)
			So(c.Queue().Size(), ShouldEqual, 0)

			fake.Emit(engine.Event{Type: engine.CanPlay})
			So(fake.Calls, ShouldNotContain, "seek(55)")
		})
	})
}

func TestEventMapping(t *testing.T) {
	Convey("Event mapping", t, func() {
		fake := engine.NewFake()
		c := New(fake)
		s := c.State()

		Convey("Playback signals", func() {
			fake.Emit(engine.Event{Type: engine.Play})
			So(s.Paused.Get(), ShouldBeFalse)

			fake.Emit(engine.Event{Type: engine.Playing})
			So(s.Playing.Get(), ShouldBeTrue)
			So(s.Started.Get(), ShouldBeTrue)

			fake.Emit(engine.Event{Type: engine.Waiting})
			So(s.Waiting.Get(), ShouldBeTrue)
			So(s.Playing.Get(), ShouldBeFalse)

			fake.Emit(engine.Event{Type: engine.Pause})
			So(s.Paused.Get(), ShouldBeTrue)
			So(s.Waiting.Get(), ShouldBeFalse)
		})

		Convey("Timing and ranges", func() {
			fake.Emit(engine.Event{Type: engine.DurationChange, Value: 120.0})
			fake.Emit(engine.Event{Type: engine.TimeUpdate, Value: 7.5})
			fake.Emit(engine.Event{Type: engine.Progress, Value: media.TimeRanges{{Start: 0, End: 30}}})

			So(s.Duration.Get(), ShouldEqual, 120.0)
			So(s.CurrentTime.Get(), ShouldEqual, 7.5)
			So(s.BufferedAmount.Get(), ShouldEqual, 30.0)
		})

		Convey("Seek flags", func() {
			fake.Emit(engine.Event{Type: engine.Seeking, Value: true})
			So(s.Seeking.Get(), ShouldBeTrue)

			fake.Emit(engine.Event{Type: engine.Seeked})
			So(s.Seeking.Get(), ShouldBeFalse)
		})

		Convey("Session properties", func() {
			fake.Emit(engine.Event{Type: engine.VolumeChange, Value: 0.25})
			fake.Emit(engine.Event{Type: engine.MutedChange, Value: true})
			fake.Emit(engine.Event{Type: engine.FullscreenChange, Value: true})
			fake.Emit(engine.Event{Type: engine.MediaTypeChange, Value: media.TypeVideo})

			So(s.Volume.Get(), ShouldEqual, 0.25)
			So(s.Muted.Get(), ShouldBeTrue)
			So(s.Fullscreen.Get(), ShouldBeTrue)
			So(s.MediaType.Get(), ShouldEqual, media.TypeVideo)
		})

		Convey("Ended without loop finishes playback", func() {
			fake.Emit(engine.Event{Type: engine.Playing})
			fake.Emit(engine.Event{Type: engine.Ended})

			So(s.Ended.Get(), ShouldBeTrue)
			So(s.Paused.Get(), ShouldBeTrue)
			So(s.Playing.Get(), ShouldBeFalse)
		})

		Convey("Ended with loop restarts from zero", func() {
			s.Loop.Set(true)
			fake.Emit(engine.Event{Type: engine.Ended})

			So(s.Ended.Get(), ShouldBeFalse)
			So(fake.Calls, ShouldResemble, []string{"seek(0)", "play"})
		})

		Convey("Engine errors land in the state record", func() {
			boom := errors.New("decode failure")
			fake.Emit(engine.Event{Type: engine.EngineError, Value: boom})
			So(s.Error.Get(), ShouldEqual, boom)
		})
	})
}

func TestIntentFailures(t *testing.T) {
	Convey("Intent failures", t, func() {
		fake := engine.NewFake()
		c := New(fake)
		remote := c.Remote()

		So(c.ChangeSource(engine.Source{URL: "clip.mp4"}), ShouldBeNil)
		fake.Emit(engine.Event{Type: engine.CanPlay})

		Convey("Play rejection before start is an autoplay error", func() {
			fake.Fail = errors.New("user gesture required")
			remote.Play()

			So(c.State().AutoplayError.Get(), ShouldNotBeNil)
			So(c.State().Error.Get(), ShouldBeNil)
		})

		Convey("Play rejection after start is a session error", func() {
			fake.Emit(engine.Event{Type: engine.Playing})

			fake.Fail = errors.New("ipc gone")
			remote.Play()

			So(c.State().Error.Get(), ShouldNotBeNil)
			So(c.State().AutoplayError.Get(), ShouldBeNil)
		})

		Convey("Fullscreen on an incapable engine is reported, not fatal", func() {
			incapable := &bareEngine{}
			bare := New(incapable)
			bare.Queue().Start()

			bare.Remote().EnterFullscreen()

			So(bare.State().Error.Get(), ShouldEqual, engine.ErrFullscreenUnsupported)
			So(bare.ReadyState(), ShouldNotEqual, Disconnected)
		})

		Convey("A failing intent does not halt the flush batch", func() {
			So(c.ChangeSource(engine.Source{URL: "next.mp4"}), ShouldBeNil)

			fake.Fail = errors.New("ipc gone")
			fake.FailOn = "play"
			remote.Play()
			remote.SetVolume(0.8)

			fake.Emit(engine.Event{Type: engine.CanPlay})
			So(c.State().Error.Get(), ShouldBeNil) // recorded as autoplay, batch continued
			So(c.State().AutoplayError.Get(), ShouldNotBeNil)
			So(fake.Calls[len(fake.Calls)-1], ShouldEqual, "volume(0.8)")
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Close", t, func() {
		fake := engine.NewFake()
		c := New(fake)
		remote := c.Remote()

		Convey("Should tear the session down idempotently", func() {
			c.State().Volume.Set(0.4)
			remote.Play()
			waiter := c.Queue().WaitForFlush()

			So(c.Close(), ShouldBeNil)

			So(c.ReadyState(), ShouldEqual, Disconnected)
			So(fake.IsClosed(), ShouldBeTrue)
			So(c.State().Volume.Get(), ShouldEqual, 1.0)
			So(fake.Calls, ShouldBeEmpty)

			select {
			case <-waiter:
			default:
				t.Fatal("flush waiter not released")
			}

			So(c.Close(), ShouldBeNil)
		})

		Convey("Should reject source changes after close", func() {
			So(c.Close(), ShouldBeNil)
			So(c.ChangeSource(engine.Source{URL: "clip.mp4"}), ShouldEqual, ErrDisconnected)
		})

		Convey("Should disconnect when the engine dies on its own", func() {
			fake.Emit(engine.Event{Type: engine.Closed})
			So(c.ReadyState(), ShouldEqual, Disconnected)
		})
	})
}

func TestScopeAttachment(t *testing.T) {
	Convey("Scope attachment", t, func() {
		fake := engine.NewFake()
		c := New(fake)

		root := scope.New()
		host := root.Child()
		consumer := host.Child()

		c.Attach(host)

		Convey("Should resolve state and remote from nested consumers", func() {
			So(StateKey.Lookup(consumer).MustGet(), ShouldEqual, c.State())
			So(RemoteKey.Lookup(consumer).IsPresent(), ShouldBeTrue)
		})

		Convey("Should detach bound consumers on close", func() {
			attached := false
			binding := StateKey.Bind(consumer, func(*media.State) func() {
				attached = true
				return func() { attached = false }
			})
			defer binding.Close()

			So(attached, ShouldBeTrue)

			So(c.Close(), ShouldBeNil)
			So(attached, ShouldBeFalse)
			So(StateKey.Lookup(consumer).IsAbsent(), ShouldBeTrue)
		})
	})
}

// bareEngine implements Engine without the fullscreen capability.
type bareEngine struct{}

func (*bareEngine) Load(engine.Source) error { return nil }
func (*bareEngine) Play() error              { return nil }
func (*bareEngine) Pause() error             { return nil }
func (*bareEngine) Seek(float64) error       { return nil }
func (*bareEngine) SetVolume(float64) error  { return nil }
func (*bareEngine) SetMuted(bool) error      { return nil }
func (*bareEngine) OnEvent(engine.Listener)  {}
func (*bareEngine) Close() error             { return nil }
