package event

import (
	"encoding/json"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
)

// Registry tracks the event vocabulary each entity type may append.
// Trackers register their vocabularies at startup; the store validates
// every append against the registry so a misrouted or misspelled event
// never reaches the log.
type Registry struct {
	vocabularies map[string]map[Type]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{vocabularies: make(map[string]map[Type]struct{})}
}

// Register records the event types an entity type may append.
// Registering the same entity type twice merges the vocabularies.
func (r *Registry) Register(entityType string, types ...Type) {
	if r == nil || entityType == "" {
		return
	}
	vocabulary, ok := r.vocabularies[entityType]
	if !ok {
		vocabulary = make(map[Type]struct{}, len(types))
		r.vocabularies[entityType] = vocabulary
	}
	for _, t := range types {
		if t.IsValid() {
			vocabulary[t] = struct{}{}
		}
	}
}

// EntityTypes returns the registered entity type names.
func (r *Registry) EntityTypes() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.vocabularies))
	for name := range r.vocabularies {
		names = append(names, name)
	}
	return names
}

// ValidateForAppend checks an event against the registry and returns a
// normalized copy ready for storage. Validation failures never reach
// the log.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	if !evt.Type.IsValid() {
		return Event{}, apperrors.New(apperrors.CodeEventTypeEmpty, "event type is required")
	}
	if evt.EntityID <= 0 {
		return Event{}, apperrors.New(apperrors.CodeEntityIDInvalid, "entity id must be positive")
	}
	if r != nil {
		vocabulary, ok := r.vocabularies[evt.EntityType]
		if !ok {
			return Event{}, apperrors.WithMetadata(apperrors.CodeEntityTypeUnknown,
				"entity type is not registered",
				map[string]string{"entity_type": evt.EntityType})
		}
		if _, ok := vocabulary[evt.Type]; !ok {
			return Event{}, apperrors.WithMetadata(apperrors.CodeEventTypeUnknown,
				"event type is not registered for entity type",
				map[string]string{"entity_type": evt.EntityType, "event_type": string(evt.Type)})
		}
	}
	if len(evt.Payload) == 0 {
		evt.Payload = json.RawMessage(`{}`)
	}
	if !json.Valid(evt.Payload) {
		return Event{}, apperrors.New(apperrors.CodePayloadInvalid, "payload must be valid JSON")
	}
	return evt, nil
}
