// Package event defines the immutable event record at the heart of the
// Atlas event spine. Every tracker's visible state is a projection
// computed from the ordered log of these records; nothing else is
// authoritative.
package event

import (
	"encoding/json"
	"strings"
	"time"
)

// Type identifies the kind of a domain event (e.g. "GOAL_DEFINED").
type Type string

// Event is one immutable fact in the append-only log.
type Event struct {
	// ID is the global sequence number, assigned by storage on append.
	// IDs are strictly increasing and never reused; ID order is the
	// canonical replay order.
	ID int64 `json:"id"`
	// Type identifies the kind of event.
	Type Type `json:"event_type"`
	// EntityType names the logical aggregate kind ("goal", "task", ...).
	EntityType string `json:"entity_type"`
	// EntityID identifies one instance of EntityType. An entity exists
	// exactly when at least one event references it.
	EntityID int64 `json:"entity_id"`
	// Payload holds event-specific data as JSON, stored verbatim.
	Payload json.RawMessage `json:"payload"`
	// Timestamp is when the event was appended. Informational only;
	// ID remains the ordering authority.
	Timestamp time.Time `json:"timestamp"`
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}
