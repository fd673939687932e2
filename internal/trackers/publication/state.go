package publication

import "time"

// Status is the publication lifecycle status. Transitions are strict:
// draft -> submitted -> accepted | rejected, accepted -> published, and
// rejected -> submitted for resubmissions. Everything else is rejected
// before any event is emitted.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// State is the read model for one publication, folded from its history.
type State struct {
	Created     bool      `json:"-"`
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Venue       string    `json:"venue,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	URL         string    `json:"url,omitempty"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at,omitzero"`
	DecidedAt   time.Time `json:"decided_at,omitzero"`
	PublishedAt time.Time `json:"published_at,omitzero"`
	Submissions int       `json:"submissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanTransition reports whether the status machine allows moving to next.
func (s Status) CanTransition(next Status) bool {
	switch next {
	case StatusSubmitted:
		return s == StatusDraft || s == StatusRejected
	case StatusAccepted, StatusRejected:
		return s == StatusSubmitted
	case StatusPublished:
		return s == StatusAccepted
	default:
		return false
	}
}
