package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithMetricPrefix("x"),
				WithHistogramBuckets([]float64{1, 10}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				m.tallyJobsProcessed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_x_tally_jobs_processed_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
				So(m.enabled, ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording tally jobs", func() {
			before := testutil.ToFloat64(globalManager.tallyJobsFailed)
			RecordTallyJob(3, 1.5, nil)
			RecordTallyJob(0, 0.5, errors.New("store down"))

			Convey("Then failures are counted separately", func() {
				So(testutil.ToFloat64(globalManager.tallyJobsFailed), ShouldEqual, before+1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateStoreCounts(12, 4)
			UpdateQueueSize(7)

			Convey("Then the values are exposed", func() {
				So(testutil.ToFloat64(globalManager.membersTotal), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.eventsTotal), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
			})
		})

		Convey("When recording HTTP traffic", func() {
			So(func() {
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
				RecordErrorByEndpoint("events", "POST", "client_error")
				RecordAuthFailure("expired")
				RecordQueueRejected("full")
				RecordStoreOperation("list_members", 0.2)
			}, ShouldNotPanic)
		})

		Convey("Then the registry is the custom one", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
