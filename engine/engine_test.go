package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidstack/elements/key"
	"github.com/vidstack/elements/media"
)

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Sanitize media target", t, func() {
		Convey("Should accept http and https URLs", func() {
			for _, link := range []string{
				"http://example.com/video.mp4",
				"https://cdn.example.com/stream.m3u8?token=abc",
			} {
				out, err := sanitizeMediaTarget(link)
				So(err, ShouldBeNil)
				So(out, ShouldEqual, link)
			}
		})

		Convey("Should clean local paths", func() {
			out, err := sanitizeMediaTarget("./media/../media/clip.mkv")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "media/clip.mkv")
		})

		Convey("Should reject flag-like targets", func() {
			_, err := sanitizeMediaTarget("--script=evil.lua")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject unsupported schemes", func() {
			_, err := sanitizeMediaTarget("ftp://example.com/a.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject control characters", func() {
			_, err := sanitizeMediaTarget("http://example.com/a\n.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject empty input", func() {
			_, err := sanitizeMediaTarget("   ")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSanitizeTitle(t *testing.T) {
	Convey("Sanitize title", t, func() {
		So(sanitizeTitle("  My\tShow\nS01E02 \x00"), ShouldEqual, "My Show S01E02")
	})
}

func TestTypeDetection(t *testing.T) {
	Convey("Type detection", t, func() {
		Convey("By extension", func() {
			So(typeFromExtension("https://x.test/master.m3u8?sig=1"), ShouldEqual, media.TypeHLS)
			So(typeFromExtension("/music/song.flac"), ShouldEqual, media.TypeAudio)
			So(typeFromExtension("movie.MKV"), ShouldEqual, media.TypeVideo)
			So(typeFromExtension("https://x.test/watch"), ShouldEqual, media.TypeUnknown)
		})

		Convey("By content type", func() {
			So(typeFromContentType("application/vnd.apple.mpegURL; charset=utf-8"), ShouldEqual, media.TypeHLS)
			So(typeFromContentType("audio/mpeg"), ShouldEqual, media.TypeAudio)
			So(typeFromContentType("video/mp4"), ShouldEqual, media.TypeVideo)
			So(typeFromContentType("text/html"), ShouldEqual, media.TypeUnknown)
		})
	})
}

func TestProber(t *testing.T) {
	Convey("Prober", t, func() {
		prober := &Prober{Cache: NewMemoryProbeCache()}

		Convey("Should classify by extension without touching the cache miss path twice", func() {
			src := Source{URL: "https://x.test/clip.webm"}
			So(prober.Detect(src), ShouldEqual, media.TypeVideo)

			cached, ok := prober.Cache.Get(src.URL)
			So(ok, ShouldBeTrue)
			So(cached, ShouldEqual, media.TypeVideo)
		})

		Convey("Should prefer a cached classification", func() {
			prober.Cache.Set("https://x.test/watch", media.TypeHLS)
			So(prober.Detect(Source{URL: "https://x.test/watch"}), ShouldEqual, media.TypeHLS)
		})

		Convey("Should report unknown for unclassifiable sources", func() {
			viper.Set(key.ProbeNetwork, false)
			defer viper.Set(key.ProbeNetwork, nil)

			So(prober.Detect(Source{URL: "https://x.test/watch"}), ShouldEqual, media.TypeUnknown)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		prober := &Prober{Cache: NewMemoryProbeCache()}
		registry := NewRegistry(prober)

		generic := &Factory{
			Name:   "generic",
			Create: func() Engine { return NewFake() },
		}
		streaming := &Factory{
			Name:   "streaming",
			HLS:    true,
			Create: func() Engine { return NewFake() },
		}
		registry.Register(generic)
		registry.Register(streaming)

		Convey("Should resolve in registration order for plain sources", func() {
			f, mt, err := registry.Resolve(Source{URL: "clip.mp4"})
			So(err, ShouldBeNil)
			So(mt, ShouldEqual, media.TypeVideo)
			So(f, ShouldEqual, generic)
		})

		Convey("Should prefer HLS-capable backends for stream manifests", func() {
			f, mt, err := registry.Resolve(Source{URL: "https://x.test/live.m3u8"})
			So(err, ShouldBeNil)
			So(mt, ShouldEqual, media.TypeHLS)
			So(f, ShouldEqual, streaming)
		})

		Convey("Should honor the configured engine when capable", func() {
			viper.Set(key.PlayerEngine, "streaming")
			defer viper.Set(key.PlayerEngine, nil)

			f, _, err := registry.Resolve(Source{URL: "clip.mp4"})
			So(err, ShouldBeNil)
			So(f, ShouldEqual, streaming)
		})

		Convey("Should skip backends that reject the media type", func() {
			audioOnly := NewRegistry(prober)
			audioOnly.Register(&Factory{
				Name:    "audio-only",
				CanPlay: func(t media.Type) bool { return t == media.TypeAudio },
				Create:  func() Engine { return NewFake() },
			})

			_, _, err := audioOnly.Resolve(Source{URL: "clip.mp4"})
			So(err, ShouldEqual, ErrNoEngine)

			f, _, err := audioOnly.Resolve(Source{URL: "song.mp3"})
			So(err, ShouldBeNil)
			So(f.Name, ShouldEqual, "audio-only")
		})
	})
}

func TestFake(t *testing.T) {
	Convey("Fake engine", t, func() {
		fake := NewFake()

		Convey("Should record commands in order", func() {
			So(fake.Load(Source{URL: "clip.mp4"}), ShouldBeNil)
			So(fake.Play(), ShouldBeNil)
			So(fake.Seek(30), ShouldBeNil)
			So(fake.SetVolume(0.5), ShouldBeNil)
			So(fake.SetMuted(true), ShouldBeNil)

			So(fake.Calls, ShouldResemble, []string{
				"load", "play", "seek(30)", "volume(0.5)", "mute",
			})
			So(fake.Loaded.URL, ShouldEqual, "clip.mp4")
		})

		Convey("Should deliver events to the listener", func() {
			var got []Event
			fake.OnEvent(func(e Event) { got = append(got, e) })

			fake.Emit(Event{Type: CanPlay})
			fake.Emit(Event{Type: TimeUpdate, Value: 12.5})

			So(got, ShouldHaveLength, 2)
			So(got[0].Type, ShouldEqual, CanPlay)
			So(got[1].Value, ShouldEqual, 12.5)
		})

		Convey("Should surface scripted failures", func() {
			fake.Fail = ErrNoEngine
			So(fake.Play(), ShouldEqual, ErrNoEngine)
		})
	})
}

func TestRanges(t *testing.T) {
	Convey("Ranges helper", t, func() {
		So(ranges(0, 10), ShouldResemble, media.TimeRanges{{Start: 0, End: 10}})
		So(ranges(5, 5), ShouldBeNil)
	})
}
