package goal

import "time"

// Status is the goal lifecycle status.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ProgressEntry is one logged measurement against a goal.
type ProgressEntry struct {
	Value float64   `json:"value"`
	Note  string    `json:"note,omitempty"`
	At    time.Time `json:"at"`
}

// State is the read model for one goal, folded from its history.
type State struct {
	Created      bool            `json:"-"`
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Area         string          `json:"area,omitempty"`
	ParentID     int64           `json:"parent_id,omitempty"`
	TargetDate   string          `json:"target_date,omitempty"`
	TargetValue  float64         `json:"target_value,omitempty"`
	CurrentValue float64         `json:"current_value"`
	Status       Status          `json:"status"`
	Progress     []ProgressEntry `json:"progress,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// KeyResult is the read model for one key result.
type KeyResult struct {
	Created      bool      `json:"-"`
	ID           int64     `json:"id"`
	GoalID       int64     `json:"goal_id"`
	Title        string    `json:"title"`
	TargetValue  float64   `json:"target_value,omitempty"`
	CurrentValue float64   `json:"current_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Milestone is the read model for one milestone.
type Milestone struct {
	Created     bool      `json:"-"`
	ID          int64     `json:"id"`
	GoalID      int64     `json:"goal_id"`
	Title       string    `json:"title"`
	DueDate     string    `json:"due_date,omitempty"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	CreatedAt   time.Time `json:"created_at"`
}
