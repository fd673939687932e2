package contact

import "time"

// Status is the contact lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

const dateLayout = "2006-01-02"

// State is the read model for one contact, folded from its history.
type State struct {
	Created       bool      `json:"-"`
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	FrequencyDays int       `json:"frequency_days,omitempty"`
	LastContact   string    `json:"last_contact,omitempty"`
	Touches       int       `json:"touches"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Overdue reports whether the contact is due for a touch as of the given
// date. A contact with no cadence is never overdue; one with a cadence but
// no recorded touch always is.
func (s State) Overdue(asOf time.Time) bool {
	if s.FrequencyDays <= 0 || s.Status == StatusArchived {
		return false
	}
	if s.LastContact == "" {
		return true
	}
	last, err := time.Parse(dateLayout, s.LastContact)
	if err != nil {
		return true
	}
	due := last.AddDate(0, 0, s.FrequencyDays)
	day := asOf.UTC().Truncate(24 * time.Hour)
	return !day.Before(due)
}
