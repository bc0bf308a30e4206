package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/clubboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 500)
			convey.So(cfg.TallyQueueSize, convey.ShouldEqual, 1_000)
			convey.So(cfg.TallyWorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.TallyOnStart, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad values", t, func() {
		convey.Convey("When the sqlite driver has no DSN", func() {
			cfg := config.New()
			cfg.StoreDriver = config.DriverSQLite

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the driver is unknown", func() {
			cfg := config.New()
			cfg.StoreDriver = "airtable"

			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "unknown store_driver")
		})

		convey.Convey("When the leaderboard limit is zero", func() {
			cfg := config.New()
			cfg.MaxLeaderboardLimit = 0

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the log format is unknown", func() {
			cfg := config.New()
			cfg.LogFormat = "xml"

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When postgres has a DSN", func() {
			cfg := config.New()
			cfg.StoreDriver = config.DriverPostgres
			cfg.StoreDSN = "host=localhost user=club dbname=club"

			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
