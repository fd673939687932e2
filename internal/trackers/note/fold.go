package note

import (
	"encoding/json"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Fold applies an event to note state. Unknown event types are skipped.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case EventCreated:
		state.Created = true
		state.ID = evt.EntityID
		state.Status = StatusActive
		state.CreatedAt = evt.Timestamp
		var payload CreatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Title = payload.Title
		state.Content = payload.Content
		state.Tags = payload.Tags
	case EventUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "title":
				state.Title = value
			case "content":
				state.Content = value
			}
		}
	case EventArchived:
		state.Status = StatusArchived
	case EventTagged:
		var payload TagPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Tags = payload.Tags
	default:
		return state
	}
	state.UpdatedAt = evt.Timestamp
	return state
}
