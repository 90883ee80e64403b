package assign_test

import (
	"sort"
	"testing"

	"github.com/okian/teesheet/internal/domain/assign"
	"github.com/okian/teesheet/internal/domain/history"
	"github.com/okian/teesheet/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func numbered(t *testing.T, groups, size, days int) *roster.Roster {
	t.Helper()
	r, err := roster.Numbered(groups, size, days)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	return r
}

// assertPartition checks that groups cover every roster index exactly once
// with the roster's group sizes.
func assertPartition(r *roster.Roster, groups [][]int) {
	So(len(groups), ShouldEqual, r.GroupCount())
	var all []int
	var sizes []int
	for _, g := range groups {
		all = append(all, g...)
		sizes = append(sizes, len(g))
	}
	sort.Ints(all)
	want := make([]int, r.Len())
	for i := range want {
		want[i] = i
	}
	So(all, ShouldResemble, want)

	expected := r.GroupSizes()
	sort.Ints(sizes)
	sort.Ints(expected)
	So(sizes, ShouldResemble, expected)
}

func TestAssigner_Assign(t *testing.T) {
	Convey("Given 8 golfers in groups of 4 and no history", t, func() {
		r := numbered(t, 2, 4, 1)
		a := assign.New()

		Convey("When assigning a day", func() {
			c := a.Assign(r, history.New(r.Len()), 7)

			Convey("Then it should be a perfect partition", func() {
				assertPartition(r, c.Groups)
				So(c.Cost, ShouldEqual, 0)
				So(c.Perfect(), ShouldBeTrue)
				So(c.Seed, ShouldEqual, int64(7))
			})
		})

		Convey("When assigning twice with the same seed", func() {
			first := a.Assign(r, history.New(r.Len()), 99)
			second := a.Assign(r, history.New(r.Len()), 99)

			Convey("Then the candidates should be identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given 9 golfers in groups of 3 after one committed day", t, func() {
		r := numbered(t, 3, 3, 3)
		h := history.New(r.Len())
		for _, g := range [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}} {
			h.Commit(1, g)
		}
		a := assign.New()

		Convey("Then every attempt should partition the roster", func() {
			for seed := int64(0); seed < 20; seed++ {
				c := a.Assign(r, h.Snapshot(), seed)
				assertPartition(r, c.Groups)
				So(c.Cost, ShouldEqual, assign.Cost(c.Groups, h))
			}
		})

		Convey("Then some attempt should avoid every repeat", func() {
			best := -1
			for seed := int64(0); seed < 20; seed++ {
				c := a.Assign(r, h.Snapshot(), seed)
				if best == -1 || c.Cost < best {
					best = c.Cost
				}
			}
			So(best, ShouldEqual, 0)
		})

		Convey("Then the swap repair should never make an attempt worse", func() {
			greedyOnly := assign.New(assign.WithSwapPasses(0))
			So(greedyOnly.SwapPasses(), ShouldEqual, 0)
			for seed := int64(0); seed < 20; seed++ {
				repaired := a.Assign(r, h, seed)
				raw := greedyOnly.Assign(r, h, seed)
				So(repaired.Cost, ShouldBeLessThanOrEqualTo, raw.Cost)
			}
		})
	})

	Convey("Given a single group of 4 that has already met", t, func() {
		r := numbered(t, 1, 4, 2)
		h := history.New(r.Len())
		h.Commit(1, []int{0, 1, 2, 3})

		Convey("When assigning the next day", func() {
			c := assign.New().Assign(r, h, 1)

			Convey("Then the forced group should cost all six pairs", func() {
				So(c.Groups, ShouldResemble, [][]int{{0, 1, 2, 3}})
				So(c.Cost, ShouldEqual, 6)
				So(c.Perfect(), ShouldBeFalse)
			})
		})
	})

	Convey("Given an uneven roster of 10 golfers in groups of 4", t, func() {
		golfers := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		r, err := roster.New(golfers, 4, 1)
		So(err, ShouldBeNil)

		Convey("Then the attempt should respect the balanced sizes", func() {
			c := assign.New().Assign(r, history.New(r.Len()), 3)
			assertPartition(r, c.Groups)
		})
	})
}

func TestDeriveSeed(t *testing.T) {
	Convey("Given a base seed", t, func() {
		seen := map[int64]bool{}
		for day := 1; day <= 5; day++ {
			for attempt := 0; attempt < 50; attempt++ {
				seen[assign.DeriveSeed(42, day, attempt)] = true
			}
		}

		Convey("Then derived seeds should be distinct and stable", func() {
			So(len(seen), ShouldEqual, 250)
			So(assign.DeriveSeed(42, 3, 9), ShouldEqual, assign.DeriveSeed(42, 3, 9))
			So(assign.DeriveSeed(42, 3, 9), ShouldNotEqual, assign.DeriveSeed(43, 3, 9))
		})
	})
}
