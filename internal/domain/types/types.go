// Package types contains the JSON-facing shapes shared across the application.
package types

import "time"

// Snapshot is the complete computed set of dashboard metrics as of one
// refresh cycle. All slices are sorted deterministically so the same inputs
// marshal to identical bytes.
type Snapshot struct {
	Overview  Overview       `json:"overview"`
	Marketing []ChannelStats `json:"marketing"`
	Team      []TeamStats    `json:"team"`
	Revenue   RevenueStats   `json:"revenue"`
	Rental    RentalStats    `json:"rental"`
	Forecast  Forecast       `json:"forecast"`
}

// Overview summarizes the full lead set.
type Overview struct {
	TotalLeads  int          `json:"total_leads"`
	Booked      int          `json:"booked"`
	BookingRate float64      `json:"booking_rate"` // booked/total rounded to 3 decimals, 0 when no leads
	Last30Days  int          `json:"last_30_days"` // anchored at the latest record date, not wall clock
	Last90Days  int          `json:"last_90_days"`
	Monthly     []MonthLeads `json:"monthly"`
}

// MonthLeads is the lead/booked trend for one calendar month.
type MonthLeads struct {
	Month  string `json:"month"` // "2006-01"
	Leads  int    `json:"leads"`
	Booked int    `json:"booked"`
}

// ChannelStats groups leads by marketing channel. Channels with zero leads
// are never emitted.
type ChannelStats struct {
	Channel     string  `json:"channel"`
	Leads       int     `json:"leads"`
	Booked      int     `json:"booked"`
	BookingRate float64 `json:"booking_rate"`
}

// TeamStats groups leads by assigned team member.
type TeamStats struct {
	Name        string  `json:"name"`
	Leads       int     `json:"leads"`
	Booked      int     `json:"booked"`
	BookingRate float64 `json:"booking_rate"`
}

// RevenueStats sums lead and rental revenue by month.
type RevenueStats struct {
	LeadTotal   float64        `json:"lead_total"`
	RentalTotal float64        `json:"rental_total"`
	Total       float64        `json:"total"`
	Monthly     []MonthRevenue `json:"monthly"`
}

// MonthRevenue is combined revenue for one calendar month.
type MonthRevenue struct {
	Month  string  `json:"month"`
	Lead   float64 `json:"lead"`
	Rental float64 `json:"rental"`
	Total  float64 `json:"total"`
}

// RentalStats summarizes room-rental activity.
type RentalStats struct {
	TotalRevenue float64        `json:"total_revenue"`
	WeeksTracked int            `json:"weeks_tracked"`
	AvgPerWeek   float64        `json:"avg_per_week"`
	Tenants      []TenantRental `json:"tenants"`
}

// TenantRental is per-tenant rental totals.
type TenantRental struct {
	Tenant     string  `json:"tenant"`
	Revenue    float64 `json:"revenue"`
	Weeks      int     `json:"weeks"`
	AvgPerWeek float64 `json:"avg_per_week"`
}

// Forecast projects combined revenue three months forward. The scenario
// ordering low <= medium <= high holds for every generated forecast.
type Forecast struct {
	BaseMonthly float64         `json:"base_monthly"` // trailing moving average the scenarios scale
	Months      []ForecastMonth `json:"months"`
	Low         float64         `json:"low"` // 3-month scenario totals
	Medium      float64         `json:"medium"`
	High        float64         `json:"high"`
}

// ForecastMonth is one projected month.
type ForecastMonth struct {
	Month  string  `json:"month"`
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// RefreshState labels the coordinator's position in the refresh cycle.
type RefreshState string

// Refresh coordinator states.
const (
	StateIdle        RefreshState = "idle"
	StateFetching    RefreshState = "fetching"
	StateAggregating RefreshState = "aggregating"
	StateDone        RefreshState = "done"
	StateFailed      RefreshState = "failed"
)

// Status describes the outcome of the most recent refresh cycle. It is
// replaced alongside the snapshot and also updated on failed cycles, so the
// status endpoint reflects "last refresh failed" while readers keep seeing
// the previous snapshot.
type Status struct {
	State        RefreshState `json:"state"`
	CycleID      string       `json:"cycle_id,omitempty"`
	LastRefresh  time.Time    `json:"last_refresh,omitzero"`
	LeadRows     int          `json:"lead_rows"`
	RentalRows   int          `json:"rental_rows"`
	LeadsSkipped int          `json:"leads_skipped"`
	RentalsSkip  int          `json:"rentals_skipped"`
	LastError    string       `json:"last_error,omitempty"`
}
