// Package publication tracks papers and articles through their submission
// lifecycle as folds over the event log.
package publication

import "github.com/atlasos/atlas/internal/spine/event"

// EntityType is the log entity type for publications.
const EntityType = "publication"

const (
	EventCreated   event.Type = "PUB_CREATED"
	EventUpdated   event.Type = "PUB_UPDATED"
	EventSubmitted event.Type = "PUB_SUBMITTED"
	EventAccepted  event.Type = "PUB_ACCEPTED"
	EventRejected  event.Type = "PUB_REJECTED"
	EventPublished event.Type = "PUB_PUBLISHED"
)

// EventTypes returns the publication vocabulary for registry registration.
func EventTypes() []event.Type {
	return []event.Type{EventCreated, EventUpdated, EventSubmitted, EventAccepted, EventRejected, EventPublished}
}

// CreatePayload carries the initial publication facts.
type CreatePayload struct {
	Title   string   `json:"title"`
	Venue   string   `json:"venue,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// UpdatePayload carries field-level publication updates.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// SubmitPayload records a submission to a venue.
type SubmitPayload struct {
	Venue       string `json:"venue"`
	SubmittedAt string `json:"submitted_at"`
}

// DecisionPayload records an accept or reject from the venue.
type DecisionPayload struct {
	Note      string `json:"note,omitempty"`
	DecidedAt string `json:"decided_at"`
}

// PublishPayload records the final publication facts.
type PublishPayload struct {
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at"`
}
