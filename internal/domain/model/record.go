// Package model contains domain records passed between layers.
package model

import "time"

// LeadStatus is the normalized outcome of a client inquiry.
type LeadStatus string

// Normalized lead statuses. Raw sheet outcomes collapse into these four.
const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusBooked    LeadStatus = "booked"
	StatusLost      LeadStatus = "lost"
)

// LeadRecord is one client inquiry parsed from the intake sheet.
// Immutable once parsed; discarded and rebuilt on the next refresh.
type LeadRecord struct {
	Date       time.Time  // intake date
	Source     string     // canonical referral source, e.g. "Google"
	TeamMember string     // assigned team member, empty when unassigned
	Status     LeadStatus // normalized outcome
	Channel    string     // marketing channel, empty when none recorded
	Service    string     // canonical service type
	Location   string     // canonical office location
	Revenue    float64    // optional revenue value, 0 when absent
}

// Booked reports whether the lead reached booked status.
func (l LeadRecord) Booked() bool {
	return l.Status == StatusBooked
}

// RentalRecord is one week of room-rental activity for one tenant.
type RentalRecord struct {
	WeekStart time.Time
	Tenant    string
	Location  string
	Rooms     int
	Revenue   float64
}
