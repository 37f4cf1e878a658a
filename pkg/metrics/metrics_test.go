package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording refresh cycle metrics", func() {
			So(func() {
				RecordRefreshStarted()
				RecordRefreshFailed()
				RecordRefreshSkipped()
				RecordRefreshDuration(250 * time.Millisecond)
			}, ShouldNotPanic)
		})

		Convey("When recording ingestion and snapshot metrics", func() {
			So(func() {
				UpdateRowCounts("leads", 100, 3)
				UpdateRowCounts("rentals", 40, 0)
				UpdateSnapshotRefreshed(time.Now())
				UpdateSnapshotAge(90 * time.Second)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("data", "GET", "200")
				RecordHTTPRequestDuration("data", "GET", 5*time.Millisecond)
				RecordHTTPError("data", "server_error")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("Then the registry serves the custom metric set", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
