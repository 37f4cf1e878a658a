// Package normalize turns raw CSV rows into typed domain records.
//
// The sheets are externally controlled, so everything here is tolerant:
// columns are resolved by header name rather than position, malformed rows
// are dropped and counted, and currency parsing degrades to zero. A single
// bad row never fails a refresh.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/nxscrypto/bayview-dashboard/internal/domain/model"
)

// Date sanity window. The practice opened in 2017; anything outside the
// window is treated as a data-entry error and the row is dropped.
const (
	minYear        = 2017
	maxYearsAhead  = 1
	dateFormatUS   = "1/2/2006"
	dateFormatISO  = "2006-01-02"
	monthKeyFormat = "2006-01"
)

// dateFormats are tried in order; the sheets mix both.
var dateFormats = []string{dateFormatUS, dateFormatISO}

// ParseDate parses a sheet date in either m/d/Y or ISO form. The second
// return value is false for empty, malformed, or out-of-window dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < minYear || t.Year() > time.Now().Year()+maxYearsAhead {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// ParseAmount parses a currency cell, stripping symbols and separators.
// Returns 0 on anything unparseable.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	r := strings.NewReplacer("$", "", ",", "", " ", "")
	v, err := strconv.ParseFloat(r.Replace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FoldKey case-normalizes a grouping key: trimmed, lowercased, internal
// whitespace collapsed. Inconsistent source data must not fragment groups.
func FoldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TitleCase renders a folded key for display, capitalizing each word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Source collapses raw referral-source spellings into canonical names.
func Source(s string) string {
	folded := FoldKey(s)
	if folded == "" {
		return "Unknown"
	}
	switch {
	case strings.Contains(folded, "google"):
		return "Google"
	case strings.Contains(folded, "psychology today"):
		return "Psychology Today"
	case strings.Contains(folded, "doctor"), strings.Contains(folded, "physician"), strings.Contains(folded, "pediatrician"):
		return "Doctors"
	case strings.Contains(folded, "previous client"):
		return "Previous Clients"
	case strings.Contains(folded, "yelp"):
		return "Yelp"
	case strings.Contains(folded, "social media"), strings.Contains(folded, "instagram"), strings.Contains(folded, "facebook"):
		return "Social Media"
	case strings.Contains(folded, "school"):
		return "Schools"
	case strings.Contains(folded, "colleague"):
		return "Colleagues"
	case strings.Contains(folded, "family") && strings.Contains(folded, "friend"):
		return "Family/Friends"
	}
	return TitleCase(folded)
}

// Status collapses raw outcome text into one of the four lead statuses.
func Status(s string) model.LeadStatus {
	folded := FoldKey(s)
	switch {
	case folded == "booked", folded == "boked": // recurring sheet typo
		return model.StatusBooked
	case containsAny(folded, "no response", "never booked", "no answer", "did not book",
		"not interested", "wrong number", "insurance", "looking for", "lost"):
		return model.StatusLost
	case containsAny(folded, "called", "contacted", "email", "left message", "left msg", "voicemail"):
		return model.StatusContacted
	}
	return model.StatusNew
}

// Location collapses office-location spellings.
func Location(s string) string {
	folded := FoldKey(s)
	if folded == "" {
		return "Unknown"
	}
	switch {
	case containsAny(folded, "fort", "ftl", "lauderdale"):
		return "Fort Lauderdale"
	case strings.Contains(folded, "coral"), folded == "cs":
		return "Coral Springs"
	case strings.Contains(folded, "plantation"), folded == "pl":
		return "Plantation"
	case strings.Contains(folded, "tele"):
		return "Telehealth"
	}
	return TitleCase(folded)
}

// Service collapses service-type spellings.
func Service(s string) string {
	folded := FoldKey(s)
	if folded == "" {
		return ""
	}
	switch {
	case strings.Contains(folded, "individual"):
		return "Individual Therapy"
	case strings.Contains(folded, "couple"):
		return "Couples Therapy"
	case containsAny(folded, "adolescent", "teen"):
		return "Adolescent Therapy"
	case strings.Contains(folded, "child"):
		return "Child Therapy"
	case containsAny(folded, "testing", "evaluation"):
		return "Testing Evaluation"
	case strings.Contains(folded, "family"):
		return "Family Therapy"
	case strings.Contains(folded, "group"):
		return "Group Therapy"
	}
	return TitleCase(folded)
}

// teamJunk are cell values that mean "nobody assigned", not a person.
var teamJunk = map[string]struct{}{
	"no response": {}, "no answer": {}, "no": {}, "yes": {},
	"n/a": {}, "none": {}, "x": {}, "-": {},
}

// TeamMember returns the canonical member name, or "" when the cell does
// not actually name a person.
func TeamMember(s string) string {
	folded := FoldKey(s)
	if folded == "" {
		return ""
	}
	if _, junk := teamJunk[folded]; junk {
		return ""
	}
	return TitleCase(folded)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// columns resolves header names to indices, tolerating schema drift.
// Matching is case-insensitive on the folded header text.
type columns map[string]int

func resolveColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := FoldKey(h)
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

// get returns the cell for the first alias present in both the header and
// the row. Missing columns and short rows yield "".
func (c columns) get(row []string, aliases ...string) string {
	for _, a := range aliases {
		idx, ok := c[a]
		if !ok || idx >= len(row) {
			continue
		}
		return row[idx]
	}
	return ""
}

// Leads parses the lead-intake CSV into records. Rows without a parseable
// date are dropped and counted; nothing here returns an error.
func Leads(rows [][]string) ([]model.LeadRecord, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	cols := resolveColumns(rows[0])

	leads := make([]model.LeadRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		date, ok := ParseDate(cols.get(row, "date", "intake date", "created"))
		if !ok {
			skipped++
			continue
		}
		leads = append(leads, model.LeadRecord{
			Date:       date,
			Source:     Source(cols.get(row, "referral source", "source")),
			TeamMember: TeamMember(cols.get(row, "referred to", "team member", "assigned to")),
			Status:     Status(cols.get(row, "referral outcome", "outcome", "status")),
			Channel:    channel(cols.get(row, "marketing program", "marketing channel", "marketing")),
			Service:    Service(cols.get(row, "service type", "service")),
			Location:   Location(cols.get(row, "location", "office")),
			Revenue:    ParseAmount(cols.get(row, "revenue", "value")),
		})
	}
	return leads, skipped
}

// channel canonicalizes the marketing channel; empty means no channel.
func channel(s string) string {
	folded := FoldKey(s)
	if folded == "" || folded == "no" || folded == "none" {
		return ""
	}
	return TitleCase(folded)
}

// Rentals parses the room-rental CSV into weekly records. Rows missing a
// week-start date or tenant, and rows with non-positive revenue, are
// dropped and counted.
func Rentals(rows [][]string) ([]model.RentalRecord, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	cols := resolveColumns(rows[0])

	rentals := make([]model.RentalRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		week, ok := ParseDate(cols.get(row, "week start", "week", "start date", "date"))
		if !ok {
			skipped++
			continue
		}
		tenant := TeamMember(cols.get(row, "therapist", "tenant", "name"))
		if tenant == "" {
			skipped++
			continue
		}
		revenue := ParseAmount(cols.get(row, "amount", "revenue", "total"))
		if revenue <= 0 {
			skipped++
			continue
		}
		rooms := 0
		if v, err := strconv.Atoi(strings.TrimSpace(cols.get(row, "rooms", "rooms rented"))); err == nil && v > 0 {
			rooms = v
		}
		rentals = append(rentals, model.RentalRecord{
			WeekStart: week,
			Tenant:    tenant,
			Location:  Location(cols.get(row, "location", "office")),
			Rooms:     rooms,
			Revenue:   revenue,
		})
	}
	return rentals, skipped
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// MonthKey formats a date as the month bucket key used across aggregations.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyFormat)
}
