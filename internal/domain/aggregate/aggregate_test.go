package aggregate_test

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nxscrypto/bayview-dashboard/internal/domain/aggregate"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lead(date time.Time, status model.LeadStatus) model.LeadRecord {
	return model.LeadRecord{Date: date, Source: "Google", Status: status}
}

func TestRate(t *testing.T) {
	Convey("Given booked and total counts", t, func() {
		So(aggregate.Rate(2, 3), ShouldEqual, 0.667)
		So(aggregate.Rate(1, 2), ShouldEqual, 0.5)
		So(aggregate.Rate(3, 3), ShouldEqual, 1)

		Convey("Zero total yields zero, not NaN", func() {
			So(aggregate.Rate(0, 0), ShouldEqual, 0)
		})
	})
}

func TestBuildEmpty(t *testing.T) {
	Convey("Given no records at all", t, func() {
		s := aggregate.NewBuilder().Build(nil, nil)

		Convey("Then every group is zero-valued, never nil slices", func() {
			So(s.Overview.TotalLeads, ShouldEqual, 0)
			So(s.Overview.BookingRate, ShouldEqual, 0)
			So(s.Overview.Monthly, ShouldNotBeNil)
			So(s.Revenue.Total, ShouldEqual, 0)
			So(s.Rental.Tenants, ShouldNotBeNil)
			So(s.Forecast.Months, ShouldNotBeNil)
			So(s.Forecast.Low, ShouldEqual, 0)
		})
	})
}

func TestBuildOverview(t *testing.T) {
	Convey("Given leads spread over several months", t, func() {
		leads := []model.LeadRecord{
			lead(day(2025, 3, 1), model.StatusBooked),
			lead(day(2025, 3, 15), model.StatusLost),
			lead(day(2025, 5, 20), model.StatusBooked),
			lead(day(2025, 6, 10), model.StatusNew),
		}
		s := aggregate.NewBuilder().Build(leads, nil)

		Convey("Then totals and the rate are computed", func() {
			So(s.Overview.TotalLeads, ShouldEqual, 4)
			So(s.Overview.Booked, ShouldEqual, 2)
			So(s.Overview.BookingRate, ShouldEqual, 0.5)
		})

		Convey("And trailing windows anchor at the latest record date", func() {
			// latest = June 10; 30-day window reaches back to May 11
			So(s.Overview.Last30Days, ShouldEqual, 2)
			// 90-day window reaches back to March 12
			So(s.Overview.Last90Days, ShouldEqual, 3)
		})

		Convey("And monthly buckets are sorted ascending", func() {
			So(len(s.Overview.Monthly), ShouldEqual, 3)
			So(s.Overview.Monthly[0].Month, ShouldEqual, "2025-03")
			So(s.Overview.Monthly[0].Leads, ShouldEqual, 2)
			So(s.Overview.Monthly[0].Booked, ShouldEqual, 1)
			So(s.Overview.Monthly[2].Month, ShouldEqual, "2025-06")
		})
	})
}

func TestBuildMarketingAndTeam(t *testing.T) {
	Convey("Given leads across channels and team members", t, func() {
		leads := []model.LeadRecord{
			{Date: day(2025, 1, 1), Channel: "Google Ads", TeamMember: "Ann", Status: model.StatusBooked},
			{Date: day(2025, 1, 2), Channel: "Google Ads", TeamMember: "Ann", Status: model.StatusLost},
			{Date: day(2025, 1, 3), Channel: "Google Ads", TeamMember: "Bob", Status: model.StatusBooked},
			{Date: day(2025, 1, 4), Channel: "Mailers", TeamMember: "Bob", Status: model.StatusLost},
			{Date: day(2025, 1, 5), Channel: "", TeamMember: ""},
		}
		s := aggregate.NewBuilder().Build(leads, nil)

		Convey("Then channels are ranked by lead count", func() {
			So(len(s.Marketing), ShouldEqual, 2)
			So(s.Marketing[0].Channel, ShouldEqual, "Google Ads")
			So(s.Marketing[0].Leads, ShouldEqual, 3)
			So(s.Marketing[0].Booked, ShouldEqual, 2)
			So(s.Marketing[0].BookingRate, ShouldEqual, 0.667)
			So(s.Marketing[1].Channel, ShouldEqual, "Mailers")
		})

		Convey("And leads without a channel or member are excluded", func() {
			var channelTotal int
			for _, c := range s.Marketing {
				channelTotal += c.Leads
			}
			So(channelTotal, ShouldEqual, 4)
			So(len(s.Team), ShouldEqual, 2)
		})

		Convey("And equal lead counts break ties by name", func() {
			So(s.Team[0].Name, ShouldEqual, "Ann")
			So(s.Team[1].Name, ShouldEqual, "Bob")
		})
	})
}

func TestTwoOfThreeBooked(t *testing.T) {
	Convey("Given three leads in one month, two of them booked", t, func() {
		leads := []model.LeadRecord{
			{Date: day(2025, 4, 1), Channel: "Google Ads", Status: model.StatusBooked},
			{Date: day(2025, 4, 10), Channel: "Google Ads", Status: model.StatusBooked},
			{Date: day(2025, 4, 20), Channel: "Mailers", Status: model.StatusLost},
		}
		s := aggregate.NewBuilder().Build(leads, nil)

		Convey("Then the overview rate rounds to 0.667", func() {
			So(s.Overview.BookingRate, ShouldEqual, 0.667)
		})

		Convey("And the marketing groups account for all three leads", func() {
			var total int
			for _, c := range s.Marketing {
				total += c.Leads
			}
			So(total, ShouldEqual, 3)
		})
	})
}

func TestBuildRevenueAndRental(t *testing.T) {
	Convey("Given lead and rental revenue in overlapping months", t, func() {
		leads := []model.LeadRecord{
			{Date: day(2025, 1, 10), Revenue: 100.25},
			{Date: day(2025, 1, 20), Revenue: 50.25},
			{Date: day(2025, 2, 5), Revenue: 0}, // no revenue recorded
		}
		rentals := []model.RentalRecord{
			{WeekStart: day(2025, 1, 6), Tenant: "Dr. Lee", Revenue: 400},
			{WeekStart: day(2025, 1, 13), Tenant: "Dr. Lee", Revenue: 400},
			{WeekStart: day(2025, 1, 13), Tenant: "Dr. Kim", Revenue: 200},
		}
		s := aggregate.NewBuilder().Build(leads, rentals)

		Convey("Then totals are rounded to cents", func() {
			So(s.Revenue.LeadTotal, ShouldEqual, 150.5)
			So(s.Revenue.RentalTotal, ShouldEqual, 1000)
			So(s.Revenue.Total, ShouldEqual, 1150.5)
		})

		Convey("And monthly buckets combine both streams", func() {
			So(len(s.Revenue.Monthly), ShouldEqual, 1)
			So(s.Revenue.Monthly[0].Month, ShouldEqual, "2025-01")
			So(s.Revenue.Monthly[0].Lead, ShouldEqual, 150.5)
			So(s.Revenue.Monthly[0].Rental, ShouldEqual, 1000)
		})

		Convey("And rental stats count distinct weeks", func() {
			So(s.Rental.TotalRevenue, ShouldEqual, 1000)
			So(s.Rental.WeeksTracked, ShouldEqual, 2)
			So(s.Rental.AvgPerWeek, ShouldEqual, 500)
			So(s.Rental.Tenants[0].Tenant, ShouldEqual, "Dr. Lee")
			So(s.Rental.Tenants[0].Weeks, ShouldEqual, 2)
			So(s.Rental.Tenants[0].AvgPerWeek, ShouldEqual, 400)
		})
	})
}

func TestBuildForecast(t *testing.T) {
	Convey("Given three months of combined revenue", t, func() {
		leads := []model.LeadRecord{
			{Date: day(2025, 1, 1), Revenue: 900},
			{Date: day(2025, 2, 1), Revenue: 1000},
			{Date: day(2025, 3, 1), Revenue: 1100},
		}
		s := aggregate.NewBuilder().Build(leads, nil)

		Convey("Then the base is the trailing moving average", func() {
			So(s.Forecast.BaseMonthly, ShouldEqual, 1000)
		})

		Convey("And the projection starts the month after the last bucket", func() {
			So(len(s.Forecast.Months), ShouldEqual, 3)
			So(s.Forecast.Months[0].Month, ShouldEqual, "2025-04")
			So(s.Forecast.Months[2].Month, ShouldEqual, "2025-06")
		})

		Convey("And scenario ordering holds", func() {
			So(s.Forecast.Low, ShouldBeLessThanOrEqualTo, s.Forecast.Medium)
			So(s.Forecast.Medium, ShouldBeLessThanOrEqualTo, s.Forecast.High)
			So(s.Forecast.Low, ShouldEqual, 2250)
			So(s.Forecast.Medium, ShouldEqual, 3000)
			So(s.Forecast.High, ShouldEqual, 3750)
		})
	})

	Convey("Given misordered multipliers", t, func() {
		b := aggregate.NewBuilder(aggregate.WithForecastMultipliers(2.0, 0.5, 1.0))
		leads := []model.LeadRecord{{Date: day(2025, 1, 1), Revenue: 100}}
		s := b.Build(leads, nil)

		Convey("Then they are reordered so low <= medium <= high", func() {
			So(s.Forecast.Low, ShouldBeLessThanOrEqualTo, s.Forecast.Medium)
			So(s.Forecast.Medium, ShouldBeLessThanOrEqualTo, s.Forecast.High)
		})
	})
}

func TestBuildDeterminism(t *testing.T) {
	Convey("Given the same inputs twice", t, func() {
		leads := []model.LeadRecord{
			{Date: day(2025, 1, 1), Channel: "A", TeamMember: "Ann", Status: model.StatusBooked, Revenue: 100},
			{Date: day(2025, 2, 1), Channel: "B", TeamMember: "Bob", Status: model.StatusLost, Revenue: 50},
			{Date: day(2025, 3, 1), Channel: "A", TeamMember: "Cal", Status: model.StatusBooked},
		}
		rentals := []model.RentalRecord{
			{WeekStart: day(2025, 1, 6), Tenant: "T1", Revenue: 300},
			{WeekStart: day(2025, 1, 6), Tenant: "T2", Revenue: 300},
		}
		b := aggregate.NewBuilder()

		Convey("Then the snapshots marshal to identical bytes", func() {
			first, err := json.Marshal(b.Build(leads, rentals))
			So(err, ShouldBeNil)
			second, err := json.Marshal(b.Build(leads, rentals))
			So(err, ShouldBeNil)
			So(string(second), ShouldEqual, string(first))
		})
	})
}
