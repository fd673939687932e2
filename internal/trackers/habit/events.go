// Package habit tracks recurring habits and their check-ins as folds over
// the event log. Habit state derives from events only; there is no
// side-table of checks.
package habit

import "github.com/atlasos/atlas/internal/spine/event"

// EntityType is the log entity type for habits.
const EntityType = "habit"

const (
	EventDefined   event.Type = "HABIT_DEFINED"
	EventUpdated   event.Type = "HABIT_UPDATED"
	EventArchived  event.Type = "HABIT_ARCHIVED"
	EventChecked   event.Type = "HABIT_CHECKED"
	EventUnchecked event.Type = "HABIT_UNCHECKED"
)

// EventTypes returns the habit vocabulary for registry registration.
func EventTypes() []event.Type {
	return []event.Type{EventDefined, EventUpdated, EventArchived, EventChecked, EventUnchecked}
}

// DefinePayload carries the initial habit facts.
type DefinePayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
}

// UpdatePayload carries field-level habit updates.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// CheckPayload records one dated completion. The date is the fact; the
// append timestamp is merely when it was recorded.
type CheckPayload struct {
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}

// UncheckPayload retracts a dated completion.
type UncheckPayload struct {
	Date string `json:"date"`
}
