package habit

import (
	"sort"
	"time"
)

// Status is the habit lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

const dateLayout = "2006-01-02"

// State is the read model for one habit, folded from its history. Checks
// maps check dates (YYYY-MM-DD) to presence; unchecking removes the day.
type State struct {
	Created     bool                `json:"-"`
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Frequency   string              `json:"frequency"`
	Status      Status              `json:"status"`
	Checks      map[string]struct{} `json:"-"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// CheckedOn reports whether the habit was checked on the given date.
func (s State) CheckedOn(date string) bool {
	_, ok := s.Checks[date]
	return ok
}

// Streak counts consecutive checked days ending on asOf or the day
// before. The result is a pure function of (state, asOf): replaying the
// same history with the same date always yields the same streak.
func (s State) Streak(asOf time.Time) int {
	day := asOf.UTC().Truncate(24 * time.Hour)
	if !s.CheckedOn(day.Format(dateLayout)) {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for s.CheckedOn(day.Format(dateLayout)) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// TotalChecks returns the number of checked days.
func (s State) TotalChecks() int {
	return len(s.Checks)
}

// CheckDates returns the checked dates in ascending order.
func (s State) CheckDates() []string {
	dates := make([]string, 0, len(s.Checks))
	for date := range s.Checks {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
