package catalog

import (
	"time"

	"github.com/selim/opphub/internal/models"
	"github.com/selim/opphub/internal/upstream"
)

// Date window names accepted on the events endpoint.
const (
	WindowThisWeek  = "thisWeek"
	WindowNextMonth = "nextMonth"
)

// closingSoonWindow is how far ahead a deadline may be and still count as
// closing soon. Real date arithmetic, never month-name matching.
const closingSoonWindow = 30 * 24 * time.Hour

// Filters is an immutable snapshot of every filter a catalog page offers.
// A change produces a new value; mutation in place is never part of the
// contract.
type Filters struct {
	Search      string
	Location    string
	Level       string
	Categories  []models.Tag
	Price       string // "", "free", "paid"
	Format      string // "", "online", "inPerson"
	DateWindow  string // "", WindowThisWeek, WindowNextMonth
	ClosingSoon bool
}

// EmptyFilters is the canonical all-clear state; every reset action reuses
// it rather than clearing fields one by one.
var EmptyFilters = Filters{}

// Query returns the server-delegated subset of the filter state. Category
// tags and date windows are refined locally and deliberately absent here;
// everything the backend understands is pushed down so the fetched set stays
// small.
func (f Filters) Query() upstream.Query {
	return upstream.Query{
		Search:      f.Search,
		Country:     f.Location,
		Level:       f.Level,
		Format:      f.Format,
		Price:       f.Price,
		ClosingSoon: f.ClosingSoon,
	}
}

// Apply runs the local refinement stage over an already-fetched set and
// returns the refined subset in input order. The input slice is never
// mutated, so applying the same filters twice yields the same result.
func (f Filters) Apply(items []models.Opportunity, now time.Time) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(items))
	for _, item := range items {
		if f.matches(item, now) {
			out = append(out, item)
		}
	}
	return out
}

func (f Filters) matches(item models.Opportunity, now time.Time) bool {
	// Categories are OR-ed: with none active everything passes; with any
	// active, at least one must intersect the record's derived tags.
	if len(f.Categories) > 0 {
		matched := false
		for _, want := range f.Categories {
			if item.HasTag(want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.DateWindow != "" {
		from, until, ok := windowBounds(f.DateWindow, now)
		if ok {
			at := eventTime(item)
			if at.Before(from) || at.After(until) {
				return false
			}
		}
	}

	return true
}

// windowBounds resolves a named date window relative to now.
// thisWeek spans [today 00:00, today+7d]; nextMonth spans the whole next
// calendar month.
func windowBounds(window string, now time.Time) (from, until time.Time, ok bool) {
	switch window {
	case WindowThisWeek:
		from = startOfDay(now)
		return from, from.AddDate(0, 0, 7), true
	case WindowNextMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
		return first, first.AddDate(0, 1, 0).Add(-time.Second), true
	}
	return time.Time{}, time.Time{}, false
}

// eventTime picks the instant a record is filtered and sorted on: start
// date, then deadline, then the zero time. A record with neither date is
// treated as maximally old, not as an error.
func eventTime(item models.Opportunity) time.Time {
	if item.StartAt != nil {
		return *item.StartAt
	}
	if item.DeadlineAt != nil {
		return *item.DeadlineAt
	}
	return time.Time{}
}

// ClosingSoon reports whether a record's deadline falls within the
// closing-soon window of now. Records with no parsed deadline never count.
func ClosingSoon(item models.Opportunity, now time.Time) bool {
	if item.DeadlineAt == nil {
		return false
	}
	d := *item.DeadlineAt
	return !d.Before(now) && !d.After(now.Add(closingSoonWindow))
}

// Chip is a removable filter label rendered above the result list.
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Chips renders the active filter set as display chips, mirroring the
// order filters appear in the sidebar.
func (f Filters) Chips() []Chip {
	var chips []Chip
	for _, tag := range f.Categories {
		chips = append(chips, Chip{Key: "category", Label: string(tag)})
	}
	switch f.Level {
	case "Licence":
		chips = append(chips, Chip{Key: "level", Label: "Undergraduate"})
	case "Master":
		chips = append(chips, Chip{Key: "level", Label: "Master's Degree"})
	case "Doctorat":
		chips = append(chips, Chip{Key: "level", Label: "PhD"})
	}
	switch f.Price {
	case "free":
		chips = append(chips, Chip{Key: "price", Label: "Free Only"})
	case "paid":
		chips = append(chips, Chip{Key: "price", Label: "Paid Only"})
	}
	switch f.Format {
	case "online":
		chips = append(chips, Chip{Key: "format", Label: "Online"})
	case "inPerson":
		chips = append(chips, Chip{Key: "format", Label: "In Person"})
	}
	switch f.DateWindow {
	case WindowThisWeek:
		chips = append(chips, Chip{Key: "date", Label: "This Week"})
	case WindowNextMonth:
		chips = append(chips, Chip{Key: "date", Label: "Next Month"})
	}
	if f.ClosingSoon {
		chips = append(chips, Chip{Key: "closingSoon", Label: "Closing Soon"})
	}
	if f.Location != "" {
		chips = append(chips, Chip{Key: "location", Label: f.Location})
	}
	return chips
}
