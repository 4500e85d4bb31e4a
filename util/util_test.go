package util

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "engine", "engines"), ShouldEqual, "1 engine")
		So(Quantify(2, "engine", "engines"), ShouldEqual, "2 engines")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatTime(t *testing.T) {
	Convey("FormatTime", t, func() {
		So(FormatTime(0), ShouldEqual, "00:00")
		So(FormatTime(65), ShouldEqual, "01:05")
		So(FormatTime(3671), ShouldEqual, "1:01:11")
		So(FormatTime(math.NaN()), ShouldEqual, "--:--")
		So(FormatTime(-3), ShouldEqual, "--:--")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(0.5, 0.0, 1.0), ShouldEqual, 0.5)
		So(Clamp(-1.0, 0.0, 1.0), ShouldEqual, 0.0)
		So(Clamp(7, 0, 5), ShouldEqual, 5)
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}
