package roster_test

import (
	"errors"
	"testing"

	"github.com/okian/teesheet/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestRoster_New(t *testing.T) {
	Convey("Given a list of golfers", t, func() {
		Convey("When the roster divides evenly", func() {
			r, err := roster.New(names(8), 4, 2)

			Convey("Then it should build equal groups", func() {
				So(err, ShouldBeNil)
				So(r.Len(), ShouldEqual, 8)
				So(r.GroupCount(), ShouldEqual, 2)
				So(r.GroupSizes(), ShouldResemble, []int{4, 4})
				So(r.Days(), ShouldEqual, 2)
				So(r.Uneven(), ShouldBeFalse)
			})
		})

		Convey("When the roster does not divide evenly", func() {
			r, err := roster.New(names(10), 4, 1)

			Convey("Then group sizes should differ by at most one", func() {
				So(err, ShouldBeNil)
				So(r.GroupSizes(), ShouldResemble, []int{4, 3, 3})
				So(r.Uneven(), ShouldBeTrue)
				So(r.Sizing(), ShouldEqual, roster.Balanced)
			})
		})

		Convey("When strict sizing is requested for an uneven roster", func() {
			r, err := roster.New(names(10), 4, 1, roster.WithStrictSizing())

			Convey("Then it should fail with a config error", func() {
				So(r, ShouldBeNil)
				So(errors.Is(err, roster.ErrInvalidConfig), ShouldBeTrue)
				var cfgErr *roster.ConfigError
				So(errors.As(err, &cfgErr), ShouldBeTrue)
				So(cfgErr.Field, ShouldEqual, "group_size")
			})
		})

		Convey("When ids carry surrounding whitespace", func() {
			r, err := roster.New([]string{" ann ", "bob"}, 2, 1)

			Convey("Then they should be trimmed and indexed", func() {
				So(err, ShouldBeNil)
				So(r.Golfers(), ShouldResemble, []string{"ann", "bob"})
				i, ok := r.Index("ann")
				So(ok, ShouldBeTrue)
				So(i, ShouldEqual, 0)
				So(r.ID(1), ShouldEqual, "bob")
			})
		})

		Convey("When the caller mutates returned slices", func() {
			r, err := roster.New(names(4), 2, 1)
			So(err, ShouldBeNil)
			golfers := r.Golfers()
			golfers[0] = "zzz"
			sizes := r.GroupSizes()
			sizes[0] = 99

			Convey("Then the roster should be unaffected", func() {
				So(r.ID(0), ShouldEqual, "a")
				So(r.GroupSizes()[0], ShouldEqual, 2)
			})
		})
	})
}

func TestRoster_Validation(t *testing.T) {
	cases := []struct {
		name      string
		golfers   []string
		groupSize int
		days      int
		field     string
	}{
		{"no golfers", nil, 4, 1, "golfers"},
		{"zero group size", names(4), 0, 1, "group_size"},
		{"negative group size", names(4), -2, 1, "group_size"},
		{"group larger than roster", names(3), 4, 1, "group_size"},
		{"zero days", names(4), 2, 0, "days"},
		{"empty id", []string{"a", "  "}, 2, 1, "golfers"},
		{"duplicate id", []string{"a", "b", "a", "c"}, 2, 1, "golfers"},
	}

	Convey("Given structurally invalid roster input", t, func() {
		for _, tc := range cases {
			Convey("When "+tc.name, func() {
				r, err := roster.New(tc.golfers, tc.groupSize, tc.days)

				Convey("Then New should return a ConfigError", func() {
					So(r, ShouldBeNil)
					So(errors.Is(err, roster.ErrInvalidConfig), ShouldBeTrue)
					var cfgErr *roster.ConfigError
					So(errors.As(err, &cfgErr), ShouldBeTrue)
					So(cfgErr.Field, ShouldEqual, tc.field)
				})
			})
		}
	})
}

func TestRoster_Numbered(t *testing.T) {
	Convey("Given an instance shape of 3 groups of 3 over 3 days", t, func() {
		r, err := roster.Numbered(3, 3, 3)

		Convey("Then golfers should be numbered from zero", func() {
			So(err, ShouldBeNil)
			So(r.Golfers(), ShouldResemble, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"})
			So(r.GroupCount(), ShouldEqual, 3)
			So(r.Sizing(), ShouldEqual, roster.Strict)
			So(r.IDs([]int{2, 5}), ShouldResemble, []string{"2", "5"})
		})
	})

	Convey("Given a non-positive group count", t, func() {
		_, err := roster.Numbered(0, 3, 3)
		So(errors.Is(err, roster.ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("Given a shape whose golfer count overflows an int", t, func() {
		var (
			r   *roster.Roster
			err error
		)
		So(func() { r, err = roster.Numbered(3037000500, 3037000500, 1) }, ShouldNotPanic)

		Convey("Then it should be rejected on the groups field", func() {
			So(r, ShouldBeNil)
			var cfgErr *roster.ConfigError
			So(errors.As(err, &cfgErr), ShouldBeTrue)
			So(cfgErr.Field, ShouldEqual, "groups")
		})
	})

	Convey("Given a shape just above the golfer cap", t, func() {
		_, err := roster.Numbered(roster.MaxNumberedGolfers/4+1, 4, 1)
		So(errors.Is(err, roster.ErrInvalidConfig), ShouldBeTrue)
	})
}
