// Package goal tracks long-horizon goals, their key results, and
// milestones as folds over the event log.
package goal

import "github.com/atlasos/atlas/internal/spine/event"

const (
	// EntityType is the log entity type for goals.
	EntityType = "goal"
	// EntityTypeKeyResult is the log entity type for key results.
	EntityTypeKeyResult = "key_result"
	// EntityTypeMilestone is the log entity type for milestones.
	EntityTypeMilestone = "milestone"
)

const (
	EventDefined            event.Type = "GOAL_DEFINED"
	EventTargetSet          event.Type = "GOAL_TARGET_SET"
	EventUpdated            event.Type = "GOAL_UPDATED"
	EventAreaSet            event.Type = "GOAL_AREA_SET"
	EventParentSet          event.Type = "GOAL_PARENT_SET"
	EventArchived           event.Type = "GOAL_ARCHIVED"
	EventProgressLogged     event.Type = "PROGRESS_LOGGED"
	EventKeyResultAdded     event.Type = "KEY_RESULT_ADDED"
	EventKeyResultUpdated   event.Type = "KEY_RESULT_UPDATED"
	EventMilestoneAdded     event.Type = "MILESTONE_ADDED"
	EventMilestoneCompleted event.Type = "MILESTONE_COMPLETED"
)

// EventTypes returns the goal vocabulary for registry registration.
func EventTypes() []event.Type {
	return []event.Type{
		EventDefined,
		EventTargetSet,
		EventUpdated,
		EventAreaSet,
		EventParentSet,
		EventArchived,
		EventProgressLogged,
	}
}

// KeyResultEventTypes returns the key result vocabulary.
func KeyResultEventTypes() []event.Type {
	return []event.Type{EventKeyResultAdded, EventKeyResultUpdated}
}

// MilestoneEventTypes returns the milestone vocabulary.
func MilestoneEventTypes() []event.Type {
	return []event.Type{EventMilestoneAdded, EventMilestoneCompleted}
}

// DefinePayload carries the initial goal facts.
type DefinePayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Area        string `json:"area,omitempty"`
}

// TargetPayload sets the measurable target for a goal.
type TargetPayload struct {
	TargetDate  string  `json:"target_date,omitempty"`
	TargetValue float64 `json:"target_value,omitempty"`
}

// UpdatePayload carries field-level goal updates.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// AreaPayload assigns a goal to a life area.
type AreaPayload struct {
	Area string `json:"area"`
}

// ParentPayload links a goal under a parent goal.
type ParentPayload struct {
	ParentID int64 `json:"parent_id"`
}

// ProgressPayload records a progress measurement against a goal.
type ProgressPayload struct {
	Value float64 `json:"value"`
	Note  string  `json:"note,omitempty"`
}

// KeyResultAddPayload creates a key result under a goal.
type KeyResultAddPayload struct {
	GoalID      int64   `json:"goal_id"`
	Title       string  `json:"title"`
	TargetValue float64 `json:"target_value,omitempty"`
}

// KeyResultUpdatePayload moves a key result's current value.
type KeyResultUpdatePayload struct {
	CurrentValue float64 `json:"current_value"`
}

// MilestoneAddPayload creates a milestone under a goal.
type MilestoneAddPayload struct {
	GoalID  int64  `json:"goal_id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date,omitempty"`
}

// MilestoneCompletePayload marks a milestone done. The completion
// timestamp travels in the payload with the status change; the two facts
// are inseparable.
type MilestoneCompletePayload struct {
	CompletedAt string `json:"completed_at"`
}
