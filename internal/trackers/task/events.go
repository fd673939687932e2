// Package task tracks actionable work items as folds over the event log.
package task

import "github.com/atlasos/atlas/internal/spine/event"

// EntityType is the log entity type for tasks.
const EntityType = "task"

const (
	EventCreated    event.Type = "TASK_CREATED"
	EventUpdated    event.Type = "TASK_UPDATED"
	EventCompleted  event.Type = "TASK_COMPLETED"
	EventCancelled  event.Type = "TASK_CANCELLED"
	EventTimeLogged event.Type = "TASK_TIME_LOGGED"
)

// EventTypes returns the task vocabulary for registry registration.
func EventTypes() []event.Type {
	return []event.Type{EventCreated, EventUpdated, EventCompleted, EventCancelled, EventTimeLogged}
}

// CreatePayload carries the initial task facts.
type CreatePayload struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	DueDate          string   `json:"due_date,omitempty"`
	ScheduledDate    string   `json:"scheduled_date,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	GoalID           int64    `json:"goal_id,omitempty"`
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
}

// UpdatePayload carries field-level task updates.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// CompletePayload closes a task. The status change and the completion
// timestamp travel in one payload; the two facts are inseparable.
type CompletePayload struct {
	CompletedAt string `json:"completed_at"`
}

// TimeLoggedPayload records minutes spent on a task.
type TimeLoggedPayload struct {
	Minutes int    `json:"minutes"`
	Note    string `json:"note,omitempty"`
}
