package task

import "time"

// Status is the task lifecycle status.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Closed reports whether the status is terminal.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// State is the read model for one task, folded from its history.
type State struct {
	Created          bool      `json:"-"`
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Priority         string    `json:"priority"`
	DueDate          string    `json:"due_date,omitempty"`
	ScheduledDate    string    `json:"scheduled_date,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	GoalID           int64     `json:"goal_id,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
	ActualMinutes    int       `json:"actual_minutes"`
	Status           Status    `json:"status"`
	CompletedAt      time.Time `json:"completed_at,omitzero"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
