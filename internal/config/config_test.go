package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/teesheet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1_024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxStoredRuns, convey.ShouldEqual, 1_000)
			convey.So(cfg.RetryLimit, convey.ShouldEqual, 200)
			convey.So(cfg.SwapPasses, convey.ShouldEqual, 50)
			convey.So(cfg.Parallelism, convey.ShouldEqual, 4)
			convey.So(cfg.DefaultSeed, convey.ShouldEqual, int64(42))
			convey.So(cfg.MaxGolfers, convey.ShouldEqual, 1_000)
			convey.So(cfg.MaxDays, convey.ShouldEqual, 365)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }, "addr"},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }, "queue_size"},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }, "worker_count"},
			{"negative dedupe", func(c *config.Config) { c.DedupeSize = -1 }, "dedupe_size"},
			{"zero stored runs", func(c *config.Config) { c.MaxStoredRuns = 0 }, "max_stored_runs"},
			{"zero retries", func(c *config.Config) { c.RetryLimit = 0 }, "retry_limit"},
			{"negative swaps", func(c *config.Config) { c.SwapPasses = -1 }, "swap_passes"},
			{"zero parallelism", func(c *config.Config) { c.Parallelism = 0 }, "parallelism"},
			{"zero max golfers", func(c *config.Config) { c.MaxGolfers = 0 }, "max_golfers"},
			{"zero max days", func(c *config.Config) { c.MaxDays = 0 }, "max_days"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it should fail naming the key", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}

		convey.Convey("When swap passes are zero", func() {
			cfg := config.New()
			cfg.SwapPasses = 0

			convey.Convey("Then greedy-only assignment is allowed", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
