// Package aggregate computes dashboard metrics from normalized records.
//
// Build is a pure function of its inputs: the same record sets always
// produce a byte-identical snapshot. Empty inputs produce an all-zero
// snapshot, never an error — numeric edge cases degrade to zero.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/nxscrypto/bayview-dashboard/internal/domain/model"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/normalize"
	"github.com/nxscrypto/bayview-dashboard/internal/domain/types"
)

// Default forecast configuration constants. The exact coefficients are a
// configuration concern; only low <= medium <= high is contractual.
const (
	defaultLowMultiplier  = 0.75
	defaultMedMultiplier  = 1.0
	defaultHighMultiplier = 1.25
	defaultTrendMonths    = 3
	defaultHorizonMonths  = 3

	shortWindowDays = 30
	longWindowDays  = 90
)

// Builder computes metric snapshots. Safe for concurrent use; it carries
// only immutable configuration.
type Builder struct {
	lowMult       float64
	medMult       float64
	highMult      float64
	trendMonths   int
	horizonMonths int
}

// NewBuilder constructs a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		lowMult:       defaultLowMultiplier,
		medMult:       defaultMedMultiplier,
		highMult:      defaultHighMultiplier,
		trendMonths:   defaultTrendMonths,
		horizonMonths: defaultHorizonMonths,
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	// The scenario ordering is an invariant, not a configuration choice.
	mults := []float64{b.lowMult, b.medMult, b.highMult}
	sort.Float64s(mults)
	b.lowMult, b.medMult, b.highMult = mults[0], mults[1], mults[2]

	return b
}

// Build computes the full snapshot from one refresh cycle's records.
func (b *Builder) Build(leads []model.LeadRecord, rentals []model.RentalRecord) types.Snapshot {
	revenue := buildRevenue(leads, rentals)
	return types.Snapshot{
		Overview:  buildOverview(leads),
		Marketing: buildMarketing(leads),
		Team:      buildTeam(leads),
		Revenue:   revenue,
		Rental:    buildRental(rentals),
		Forecast:  b.buildForecast(revenue.Monthly),
	}
}

// Rate returns booked/total rounded to 3 decimals, 0 when total is 0.
func Rate(booked, total int) float64 {
	if total == 0 {
		return 0
	}
	return round3(float64(booked) / float64(total))
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }

func buildOverview(leads []model.LeadRecord) types.Overview {
	o := types.Overview{Monthly: []types.MonthLeads{}}
	o.TotalLeads = len(leads)

	// Trailing windows anchor at the latest record date so historical
	// exports reproduce the same numbers.
	var latest time.Time
	for _, l := range leads {
		if l.Booked() {
			o.Booked++
		}
		if l.Date.After(latest) {
			latest = l.Date
		}
	}
	o.BookingRate = Rate(o.Booked, o.TotalLeads)

	monthly := map[string]*types.MonthLeads{}
	for _, l := range leads {
		if !l.Date.Before(latest.AddDate(0, 0, -shortWindowDays)) {
			o.Last30Days++
		}
		if !l.Date.Before(latest.AddDate(0, 0, -longWindowDays)) {
			o.Last90Days++
		}
		key := normalize.MonthKey(l.Date)
		m, ok := monthly[key]
		if !ok {
			m = &types.MonthLeads{Month: key}
			monthly[key] = m
		}
		m.Leads++
		if l.Booked() {
			m.Booked++
		}
	}
	for _, m := range monthly {
		o.Monthly = append(o.Monthly, *m)
	}
	sort.Slice(o.Monthly, func(i, j int) bool { return o.Monthly[i].Month < o.Monthly[j].Month })
	return o
}

func buildMarketing(leads []model.LeadRecord) []types.ChannelStats {
	byChannel := map[string]*types.ChannelStats{}
	for _, l := range leads {
		if l.Channel == "" {
			continue
		}
		c, ok := byChannel[l.Channel]
		if !ok {
			c = &types.ChannelStats{Channel: l.Channel}
			byChannel[l.Channel] = c
		}
		c.Leads++
		if l.Booked() {
			c.Booked++
		}
	}
	out := make([]types.ChannelStats, 0, len(byChannel))
	for _, c := range byChannel {
		c.BookingRate = Rate(c.Booked, c.Leads)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Leads != out[j].Leads {
			return out[i].Leads > out[j].Leads
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

func buildTeam(leads []model.LeadRecord) []types.TeamStats {
	byMember := map[string]*types.TeamStats{}
	for _, l := range leads {
		if l.TeamMember == "" {
			continue
		}
		t, ok := byMember[l.TeamMember]
		if !ok {
			t = &types.TeamStats{Name: l.TeamMember}
			byMember[l.TeamMember] = t
		}
		t.Leads++
		if l.Booked() {
			t.Booked++
		}
	}
	out := make([]types.TeamStats, 0, len(byMember))
	for _, t := range byMember {
		t.BookingRate = Rate(t.Booked, t.Leads)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Leads != out[j].Leads {
			return out[i].Leads > out[j].Leads
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func buildRevenue(leads []model.LeadRecord, rentals []model.RentalRecord) types.RevenueStats {
	rs := types.RevenueStats{Monthly: []types.MonthRevenue{}}
	monthly := map[string]*types.MonthRevenue{}

	bucket := func(key string) *types.MonthRevenue {
		m, ok := monthly[key]
		if !ok {
			m = &types.MonthRevenue{Month: key}
			monthly[key] = m
		}
		return m
	}

	for _, l := range leads {
		if l.Revenue <= 0 {
			continue
		}
		bucket(normalize.MonthKey(l.Date)).Lead += l.Revenue
		rs.LeadTotal += l.Revenue
	}
	for _, r := range rentals {
		bucket(normalize.MonthKey(r.WeekStart)).Rental += r.Revenue
		rs.RentalTotal += r.Revenue
	}

	for _, m := range monthly {
		m.Lead = round2(m.Lead)
		m.Rental = round2(m.Rental)
		m.Total = round2(m.Lead + m.Rental)
		rs.Monthly = append(rs.Monthly, *m)
	}
	sort.Slice(rs.Monthly, func(i, j int) bool { return rs.Monthly[i].Month < rs.Monthly[j].Month })

	rs.LeadTotal = round2(rs.LeadTotal)
	rs.RentalTotal = round2(rs.RentalTotal)
	rs.Total = round2(rs.LeadTotal + rs.RentalTotal)
	return rs
}

func buildRental(rentals []model.RentalRecord) types.RentalStats {
	rs := types.RentalStats{Tenants: []types.TenantRental{}}
	byTenant := map[string]*types.TenantRental{}
	weeks := map[string]struct{}{}

	for _, r := range rentals {
		t, ok := byTenant[r.Tenant]
		if !ok {
			t = &types.TenantRental{Tenant: r.Tenant}
			byTenant[r.Tenant] = t
		}
		t.Revenue += r.Revenue
		t.Weeks++
		rs.TotalRevenue += r.Revenue
		weeks[r.WeekStart.Format(time.DateOnly)] = struct{}{}
	}

	for _, t := range byTenant {
		t.Revenue = round2(t.Revenue)
		if t.Weeks > 0 {
			t.AvgPerWeek = round2(t.Revenue / float64(t.Weeks))
		}
		rs.Tenants = append(rs.Tenants, *t)
	}
	sort.Slice(rs.Tenants, func(i, j int) bool {
		if rs.Tenants[i].Revenue != rs.Tenants[j].Revenue {
			return rs.Tenants[i].Revenue > rs.Tenants[j].Revenue
		}
		return rs.Tenants[i].Tenant < rs.Tenants[j].Tenant
	})

	rs.TotalRevenue = round2(rs.TotalRevenue)
	rs.WeeksTracked = len(weeks)
	if rs.WeeksTracked > 0 {
		rs.AvgPerWeek = round2(rs.TotalRevenue / float64(rs.WeeksTracked))
	}
	return rs
}

// buildForecast extrapolates combined revenue forward as a moving average
// of the trailing trend months scaled by the scenario multipliers. No data
// yields a zero forecast rather than an error.
func (b *Builder) buildForecast(monthly []types.MonthRevenue) types.Forecast {
	f := types.Forecast{Months: []types.ForecastMonth{}}
	if len(monthly) == 0 {
		return f
	}

	trend := monthly
	if len(trend) > b.trendMonths {
		trend = trend[len(trend)-b.trendMonths:]
	}
	var sum float64
	for _, m := range trend {
		sum += m.Total
	}
	f.BaseMonthly = round2(sum / float64(len(trend)))

	// Project from the month after the latest observed bucket.
	last, err := time.Parse("2006-01", monthly[len(monthly)-1].Month)
	if err != nil {
		return types.Forecast{Months: []types.ForecastMonth{}}
	}
	for i := 1; i <= b.horizonMonths; i++ {
		m := types.ForecastMonth{
			Month:  normalize.MonthKey(last.AddDate(0, i, 0)),
			Low:    round2(f.BaseMonthly * b.lowMult),
			Medium: round2(f.BaseMonthly * b.medMult),
			High:   round2(f.BaseMonthly * b.highMult),
		}
		f.Months = append(f.Months, m)
		f.Low = round2(f.Low + m.Low)
		f.Medium = round2(f.Medium + m.Medium)
		f.High = round2(f.High + m.High)
	}
	return f
}
