// Package contact tracks people and when they were last reached as folds
// over the event log.
package contact

import "github.com/atlasos/atlas/internal/spine/event"

// EntityType is the log entity type for contacts.
const EntityType = "contact"

const (
	EventAdded    event.Type = "CONTACT_ADDED"
	EventUpdated  event.Type = "CONTACT_UPDATED"
	EventArchived event.Type = "CONTACT_ARCHIVED"
	EventTouched  event.Type = "CONTACT_TOUCHED"
)

// EventTypes returns the contact vocabulary for registry registration.
func EventTypes() []event.Type {
	return []event.Type{EventAdded, EventUpdated, EventArchived, EventTouched}
}

// AddPayload carries the initial contact facts. FrequencyDays is how often
// the contact should be reached; zero means no cadence.
type AddPayload struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Company       string `json:"company,omitempty"`
	Notes         string `json:"notes,omitempty"`
	FrequencyDays int    `json:"frequency_days,omitempty"`
}

// UpdatePayload carries field-level contact updates.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// TouchPayload records one interaction with the contact.
type TouchPayload struct {
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}
