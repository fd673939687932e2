package note

import "time"

// Status is the note lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// State is the read model for one note, folded from its history.
type State struct {
	Created   bool      `json:"-"`
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether the note carries the given tag.
func (s State) HasTag(tag string) bool {
	for _, have := range s.Tags {
		if have == tag {
			return true
		}
	}
	return false
}
