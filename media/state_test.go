package media

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStateDefaults(t *testing.T) {
	Convey("A fresh state record", t, func() {
		s := NewState()

		Convey("Reads safe defaults before the engine is ready", func() {
			So(s.Paused.Get(), ShouldBeTrue)
			So(s.CurrentTime.Get(), ShouldEqual, 0)
			So(math.IsNaN(s.Duration.Get()), ShouldBeTrue)
			So(s.Volume.Get(), ShouldEqual, 1.0)
			So(s.CanPlay.Get(), ShouldBeFalse)
			So(s.Error.Get(), ShouldBeNil)
		})

		Convey("Derived fields compute from defaults without panicking", func() {
			So(s.BufferedAmount.Get(), ShouldEqual, 0)
			So(s.SeekableAmount.Get(), ShouldEqual, 0)
			So(s.IsAudioView.Get(), ShouldBeFalse)
			So(s.IsVideoView.Get(), ShouldBeFalse)
		})
	})
}

func TestDerivedFields(t *testing.T) {
	Convey("BufferedAmount", t, func() {
		s := NewState()
		s.Buffered.Set(TimeRanges{{Start: 0, End: 15}})
		s.Duration.Set(15)

		So(s.BufferedAmount.Get(), ShouldEqual, 15)

		Convey("Is bounded by the buffered end, not the duration", func() {
			s.Duration.Set(25)
			So(s.BufferedAmount.Get(), ShouldEqual, 15)
		})

		Convey("But never exceeds a shorter known duration", func() {
			s.Duration.Set(10)
			So(s.BufferedAmount.Get(), ShouldEqual, 10)
		})
	})

	Convey("View projections track ViewType", t, func() {
		s := NewState()

		var audio []bool
		s.IsAudioView.Subscribe(func(v bool) { audio = append(audio, v) })
		So(audio, ShouldResemble, []bool{false})

		s.ViewType.Set(ViewAudio)
		So(audio, ShouldResemble, []bool{false, true})
		So(s.IsVideoView.Get(), ShouldBeFalse)

		s.ViewType.Set(ViewVideo)
		So(s.IsAudioView.Get(), ShouldBeFalse)
		So(s.IsVideoView.Get(), ShouldBeTrue)
	})
}

func TestResets(t *testing.T) {
	Convey("Given a session mid-playback", t, func() {
		s := NewState()
		s.Volume.Set(0.5)
		s.Muted.Set(true)
		s.Fullscreen.Set(true)
		s.Duration.Set(120)
		s.CurrentTime.Set(37.5)
		s.Paused.Set(false)
		s.Playing.Set(true)
		s.Started.Set(true)
		s.CanPlay.Set(true)
		s.MediaType.Set(TypeVideo)
		s.Error.Set(errors.New("decode stall"))

		Convey("SoftReset clears only source-scoped fields", func() {
			s.SoftReset()

			So(math.IsNaN(s.Duration.Get()), ShouldBeTrue)
			So(s.CurrentTime.Get(), ShouldEqual, 0)
			So(s.Paused.Get(), ShouldBeTrue)
			So(s.Playing.Get(), ShouldBeFalse)
			So(s.Started.Get(), ShouldBeFalse)
			So(s.CanPlay.Get(), ShouldBeFalse)
			So(s.MediaType.Get(), ShouldEqual, TypeUnknown)
			So(s.Error.Get(), ShouldBeNil)

			// Session-scoped fields are untouched.
			So(s.Volume.Get(), ShouldEqual, 0.5)
			So(s.Muted.Get(), ShouldBeTrue)
			So(s.Fullscreen.Get(), ShouldBeTrue)
		})

		Convey("HardReset clears every non-derived field", func() {
			s.HardReset()

			So(s.Volume.Get(), ShouldEqual, 1.0)
			So(s.Muted.Get(), ShouldBeFalse)
			So(s.Fullscreen.Get(), ShouldBeFalse)
			So(math.IsNaN(s.Duration.Get()), ShouldBeTrue)
			So(s.Paused.Get(), ShouldBeTrue)
		})
	})
}

func TestTimeRanges(t *testing.T) {
	Convey("TimeRanges", t, func() {
		tr := TimeRanges{{Start: 0, End: 10}, {Start: 20, End: 30}}

		Convey("End returns the last range end", func() {
			So(tr.End(), ShouldEqual, 30)
			So(TimeRanges(nil).End(), ShouldEqual, 0)
		})

		Convey("Contains checks range membership", func() {
			So(tr.Contains(5), ShouldBeTrue)
			So(tr.Contains(15), ShouldBeFalse)
			So(tr.Contains(30), ShouldBeTrue)
		})

		Convey("Equal compares element-wise", func() {
			So(tr.Equal(TimeRanges{{0, 10}, {20, 30}}), ShouldBeTrue)
			So(tr.Equal(TimeRanges{{0, 10}}), ShouldBeFalse)
			So(TimeRanges(nil).Equal(TimeRanges{}), ShouldBeTrue)
		})
	})
}
