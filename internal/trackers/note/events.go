// Package note tracks free-form knowledge notes as folds over the event
// log.
package note

import "github.com/atlasos/atlas/internal/spine/event"

// EntityType is the log entity type for notes.
const EntityType = "note"

const (
	EventCreated  event.Type = "NOTE_CREATED"
	EventUpdated  event.Type = "NOTE_UPDATED"
	EventArchived event.Type = "NOTE_ARCHIVED"
	EventTagged   event.Type = "NOTE_TAGGED"
)

// EventTypes returns the note vocabulary for registry registration.
func EventTypes() []event.Type {
	return []event.Type{EventCreated, EventUpdated, EventArchived, EventTagged}
}

// CreatePayload carries the initial note facts.
type CreatePayload struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdatePayload carries field-level note updates.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// TagPayload replaces the full tag set. Tags are one fact; partial tag
// edits would make histories ambiguous.
type TagPayload struct {
	Tags []string `json:"tags"`
}
