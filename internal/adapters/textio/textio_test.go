package textio_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/teesheet/internal/adapters/textio"
	"github.com/okian/teesheet/internal/domain/roster"
	"github.com/okian/teesheet/internal/domain/scheduler"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadInstance(t *testing.T) {
	Convey("Given an instance file", t, func() {
		Convey("When it holds three integers across lines", func() {
			inst, err := textio.ReadInstance(strings.NewReader("3\n3 4\n"))

			Convey("Then they should map to groups, size and days", func() {
				So(err, ShouldBeNil)
				So(inst, ShouldResemble, textio.Instance{Groups: 3, GroupSize: 3, Days: 4})
			})

			Convey("And it should build the numbered roster", func() {
				r, err := inst.Roster()
				So(err, ShouldBeNil)
				So(r.Len(), ShouldEqual, 9)
				So(r.ID(0), ShouldEqual, "0")
				So(r.ID(8), ShouldEqual, "8")
				So(r.Days(), ShouldEqual, 4)
			})
		})

		Convey("When it is written and read back", func() {
			var buf bytes.Buffer
			in := textio.Instance{Groups: 8, GroupSize: 4, Days: 10}
			So(textio.WriteInstance(&buf, in), ShouldBeNil)
			out, err := textio.ReadInstance(&buf)

			Convey("Then it should round-trip", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, in)
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When it is truncated", func() {
			_, err := textio.ReadInstance(strings.NewReader("3 3"))
			So(errors.Is(err, textio.ErrMalformedInstance), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "days")
		})

		Convey("When it holds a non-integer", func() {
			_, err := textio.ReadInstance(strings.NewReader("3 x 3"))
			So(errors.Is(err, textio.ErrMalformedInstance), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "group size")
		})

		Convey("When its numbers describe an invalid roster", func() {
			inst, err := textio.ReadInstance(strings.NewReader("0 3 3"))
			So(err, ShouldBeNil)
			_, err = inst.Roster()
			So(errors.Is(err, roster.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestReadRoster(t *testing.T) {
	Convey("Given a YAML roster file", t, func() {
		Convey("When it is well formed", func() {
			f, err := textio.ReadRoster(strings.NewReader(`
golfers: [alice, bob, carol, dave]
group_size: 2
days: 3
seed: 7
`))

			Convey("Then it should decode and build a roster", func() {
				So(err, ShouldBeNil)
				So(f.Golfers, ShouldResemble, []string{"alice", "bob", "carol", "dave"})
				So(*f.Seed, ShouldEqual, int64(7))
				So(f.Strict, ShouldBeFalse)

				r, err := f.Roster()
				So(err, ShouldBeNil)
				So(r.GroupCount(), ShouldEqual, 2)
			})
		})

		Convey("When it is strict and uneven", func() {
			f, err := textio.ReadRoster(strings.NewReader("golfers: [a, b, c]\ngroup_size: 2\ndays: 1\nstrict: true\n"))
			So(err, ShouldBeNil)
			_, err = f.Roster()
			So(errors.Is(err, roster.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When it carries an unknown key", func() {
			_, err := textio.ReadRoster(strings.NewReader("golfers: [a, b]\ngroup_size: 2\ndays: 1\nweeks: 4\n"))
			So(errors.Is(err, textio.ErrMalformedRoster), ShouldBeTrue)
		})

		Convey("When it is empty", func() {
			_, err := textio.ReadRoster(strings.NewReader(""))
			So(errors.Is(err, textio.ErrMalformedRoster), ShouldBeTrue)
		})

		Convey("When it is written and read back", func() {
			seed := int64(3)
			in := textio.RosterFile{Golfers: []string{"x", "y"}, GroupSize: 2, Days: 2, Seed: &seed, Strict: true}
			var buf bytes.Buffer
			So(textio.WriteRoster(&buf, in), ShouldBeNil)
			out, err := textio.ReadRoster(&buf)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, in)
		})
	})
}

func TestSolution(t *testing.T) {
	Convey("Given a scheduled 9 golfer instance", t, func() {
		inst := textio.Instance{Groups: 3, GroupSize: 3, Days: 2}
		r, err := inst.Roster()
		So(err, ShouldBeNil)
		s, err := scheduler.New(r, scheduler.WithRetryLimit(500))
		So(err, ShouldBeNil)
		res, err := s.Run(context.Background())
		So(err, ShouldBeNil)

		Convey("When the schedule is written", func() {
			var buf bytes.Buffer
			So(textio.WriteSchedule(&buf, res.Schedule), ShouldBeNil)
			text := buf.String()

			Convey("Then the layout should be objective, group lines and a blank line per day", func() {
				lines := strings.Split(text, "\n")
				So(lines[0], ShouldEqual, "0")
				So(len(strings.Fields(lines[1])), ShouldEqual, 3)
				So(lines[4], ShouldEqual, "")
				So(lines[8], ShouldEqual, "")
				So(strings.HasSuffix(text, "\n\n"), ShouldBeTrue)
			})

			Convey("Then reading it back should restore every group", func() {
				sol, err := textio.ReadSolution(strings.NewReader(text))
				So(err, ShouldBeNil)
				So(sol.Objective, ShouldEqual, res.Schedule.Objective())
				So(len(sol.Days), ShouldEqual, 2)
				for i, d := range res.Schedule.Days() {
					So(sol.Days[i], ShouldResemble, d.Groups)
				}
			})
		})
	})

	Convey("Given solution text with trailing spaces and no final blank line", t, func() {
		sol, err := textio.ReadSolution(strings.NewReader("2\n0 1 \n2 3 \n\n0 1 \n2 3 "))

		Convey("Then it should still parse", func() {
			So(err, ShouldBeNil)
			So(sol.Objective, ShouldEqual, 2)
			So(sol.Days, ShouldResemble, [][][]string{
				{{"0", "1"}, {"2", "3"}},
				{{"0", "1"}, {"2", "3"}},
			})
		})
	})

	Convey("Given malformed solution text", t, func() {
		_, err := textio.ReadSolution(strings.NewReader(""))
		So(errors.Is(err, textio.ErrMalformedSolution), ShouldBeTrue)
		_, err = textio.ReadSolution(strings.NewReader("abc\n0 1\n"))
		So(errors.Is(err, textio.ErrMalformedSolution), ShouldBeTrue)
	})
}
