package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/teesheet/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryIndex(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new in-memory index", t, func() {
		d := dedupe.NewInMemoryIndex()

		Convey("Then it should start empty", func() {
			So(d.Size(), ShouldEqual, int64(0))
		})

		Convey("When a request id is claimed for the first time", func() {
			jobID, dup := d.Claim(ctx, "req-1", "job-1")

			Convey("Then the new job should be bound", func() {
				So(dup, ShouldBeFalse)
				So(jobID, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, int64(1))
			})

			Convey("And it is claimed again with another job", func() {
				jobID, dup := d.Claim(ctx, "req-1", "job-2")

				Convey("Then the original job should be returned", func() {
					So(dup, ShouldBeTrue)
					So(jobID, ShouldEqual, "job-1")
					So(d.Size(), ShouldEqual, int64(1))
				})
			})

			Convey("And it is released", func() {
				d.Release(ctx, "req-1")

				Convey("Then it can be claimed afresh", func() {
					So(d.Size(), ShouldEqual, int64(0))
					jobID, dup := d.Claim(ctx, "req-1", "job-3")
					So(dup, ShouldBeFalse)
					So(jobID, ShouldEqual, "job-3")
				})
			})
		})

		Convey("When an unknown id is released", func() {
			d.Release(ctx, "missing")

			Convey("Then nothing should change", func() {
				So(d.Size(), ShouldEqual, int64(0))
			})
		})
	})

	Convey("Given a bounded index", t, func() {
		d := dedupe.NewInMemoryIndex(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			d.Claim(ctx, fmt.Sprintf("req-%d", i), fmt.Sprintf("job-%d", i))
		}

		Convey("When a fourth id is claimed", func() {
			d.Claim(ctx, "req-4", "job-4")

			Convey("Then the oldest binding should be evicted", func() {
				So(d.Size(), ShouldEqual, int64(3))
				_, dup := d.Claim(ctx, "req-2", "x")
				So(dup, ShouldBeTrue)
				_, dup = d.Claim(ctx, "req-4", "x")
				So(dup, ShouldBeTrue)
			})

			Convey("And the evicted id should be claimable again", func() {
				jobID, dup := d.Claim(ctx, "req-1", "job-5")
				So(dup, ShouldBeFalse)
				So(jobID, ShouldEqual, "job-5")
			})
		})

		Convey("When a middle id is released and more are claimed", func() {
			d.Release(ctx, "req-2")
			d.Claim(ctx, "req-4", "job-4")
			d.Claim(ctx, "req-5", "job-5")

			Convey("Then eviction should still drop the oldest remaining", func() {
				So(d.Size(), ShouldEqual, int64(3))
				_, dup := d.Claim(ctx, "req-3", "x")
				So(dup, ShouldBeTrue)
				_, dup = d.Claim(ctx, "req-5", "x")
				So(dup, ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded index", t, func() {
		d := dedupe.NewInMemoryIndex(dedupe.WithMaxSize(0))
		for i := 0; i < 100; i++ {
			d.Claim(ctx, fmt.Sprintf("req-%d", i), "job")
		}

		Convey("Then nothing should be evicted", func() {
			So(d.Size(), ShouldEqual, int64(100))
		})
	})

	Convey("Given concurrent claims of the same request id", t, func() {
		d := dedupe.NewInMemoryIndex()
		const workers = 32
		var wg sync.WaitGroup
		results := make([]bool, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, dup := d.Claim(ctx, "shared", fmt.Sprintf("job-%d", i))
				results[i] = dup
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one claim should win", func() {
			winners := 0
			for _, dup := range results {
				if !dup {
					winners++
				}
			}
			So(winners, ShouldEqual, 1)
			So(d.Size(), ShouldEqual, int64(1))
		})
	})
}
