// Package storage defines the persistence contract for the event log.
package storage

import (
	"context"
	"time"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Filter narrows a log read. Zero-valued fields match everything.
type Filter struct {
	EntityType string
	EntityID   int64
	EventType  event.Type
	Since      time.Time
}

// EventStore persists and reads the append-only event log. Appended events
// receive a store-assigned id that is strictly increasing across the whole
// log; reads return events ordered by that id.
type EventStore interface {
	// Append persists the events atomically and returns them with their
	// assigned ids and normalized timestamps. Either every event in the
	// batch is persisted or none is.
	Append(ctx context.Context, events ...event.Event) ([]event.Event, error)

	// List returns up to limit events matching the filter with id greater
	// than afterID, in id order. A limit of zero or less means no cap.
	List(ctx context.Context, filter Filter, afterID int64, limit int) ([]event.Event, error)

	// Explain returns the full history for one entity in id order. An
	// entity with no events yields an empty slice, not an error.
	Explain(ctx context.Context, entityType string, entityID int64) ([]event.Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter Filter) (int64, error)

	// NextEntityID allocates the next id for a new entity of the given
	// type, derived from the log itself.
	NextEntityID(ctx context.Context, entityType string) (int64, error)

	// Close releases the underlying resources.
	Close() error
}
