package scope

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLookup(t *testing.T) {
	Convey("Given a provider above nested scopes", t, func() {
		root := New()
		middle := root.Child()
		leaf := middle.Child()

		root.Provide("session", "root-value")

		Convey("Descendants resolve the nearest ancestor value", func() {
			v, ok := leaf.Lookup("session")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "root-value")
		})

		Convey("A nearer provider shadows the ancestor", func() {
			middle.Provide("session", "middle-value")

			v, _ := leaf.Lookup("session")
			So(v, ShouldEqual, "middle-value")

			v, _ = root.Lookup("session")
			So(v, ShouldEqual, "root-value")
		})

		Convey("Unknown keys do not resolve", func() {
			_, ok := leaf.Lookup("missing")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestBind(t *testing.T) {
	Convey("Given a consumer bound in a nested scope", t, func() {
		root := New()
		leaf := root.Child().Child()

		var attached []string
		var detached []string
		bind := func() *Binding {
			return leaf.Bind("record", func(v any) func() {
				name := v.(string)
				attached = append(attached, name)
				return func() { detached = append(detached, name) }
			})
		}

		Convey("Attach fires immediately when a value already resolves", func() {
			root.Provide("record", "first")
			b := bind()

			So(attached, ShouldResemble, []string{"first"})
			So(b.Attached(), ShouldBeTrue)
		})

		Convey("Attach fires when a provider appears later", func() {
			b := bind()
			So(b.Attached(), ShouldBeFalse)

			root.Provide("record", "late")
			So(attached, ShouldResemble, []string{"late"})
		})

		Convey("A provider swap detaches then re-attaches", func() {
			root.Provide("record", "old")
			bind()

			root.Provide("record", "new")
			So(detached, ShouldResemble, []string{"old"})
			So(attached, ShouldResemble, []string{"old", "new"})
		})

		Convey("A nearer provider shadows and triggers a rebind", func() {
			root.Provide("record", "far")
			bind()

			leaf.Provide("record", "near")
			So(detached, ShouldResemble, []string{"far"})
			So(attached, ShouldResemble, []string{"far", "near"})
		})

		Convey("Removal detaches, falling back to an ancestor if any", func() {
			root.Provide("record", "outer")
			leaf.Provide("record", "inner")
			b := bind()
			So(attached, ShouldResemble, []string{"inner"})

			leaf.Remove("record")
			So(detached, ShouldResemble, []string{"inner"})
			So(attached, ShouldResemble, []string{"inner", "outer"})

			root.Remove("record")
			So(detached, ShouldResemble, []string{"inner", "outer"})
			So(b.Attached(), ShouldBeFalse)
		})

		Convey("Slice-valued providers swap cleanly", func() {
			var seen [][]float64
			leaf.Bind("ranges", func(v any) func() {
				seen = append(seen, v.([]float64))
				return nil
			})

			So(func() { root.Provide("ranges", []float64{0, 10}) }, ShouldNotPanic)
			So(func() { root.Provide("ranges", []float64{0, 20}) }, ShouldNotPanic)

			So(seen, ShouldHaveLength, 2)
			So(seen[1], ShouldResemble, []float64{0, 20})
		})

		Convey("Close detaches unconditionally and is idempotent", func() {
			root.Provide("record", "value")
			b := bind()

			b.Close()
			So(detached, ShouldResemble, []string{"value"})
			So(b.Attached(), ShouldBeFalse)

			b.Close()
			So(detached, ShouldResemble, []string{"value"})

			Convey("And a closed binding ignores later providers", func() {
				root.Provide("record", "again")
				So(attached, ShouldResemble, []string{"value"})
			})
		})
	})
}

func TestTypedKey(t *testing.T) {
	Convey("Typed keys", t, func() {
		type record struct{ name string }
		key := NewKey[*record]("record")

		root := New()
		leaf := root.Child()

		Convey("Lookup returns None when nothing resolves", func() {
			So(key.Lookup(leaf).IsAbsent(), ShouldBeTrue)
		})

		Convey("Provide and Lookup round-trip through the tree", func() {
			key.Provide(root, &record{name: "session"})

			got := key.Lookup(leaf)
			So(got.IsPresent(), ShouldBeTrue)
			So(got.MustGet().name, ShouldEqual, "session")
		})

		Convey("Bind receives typed values", func() {
			var names []string
			key.Bind(leaf, func(r *record) func() {
				names = append(names, r.name)
				return nil
			})

			key.Provide(root, &record{name: "a"})
			key.Provide(root, &record{name: "b"})
			So(names, ShouldResemble, []string{"a", "b"})
		})
	})
}
