package habit

import (
	"encoding/json"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Fold applies an event to habit state. Unknown event types are skipped.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case EventDefined:
		state.Created = true
		state.ID = evt.EntityID
		state.Status = StatusActive
		state.Checks = make(map[string]struct{})
		state.CreatedAt = evt.Timestamp
		var payload DefinePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Name = payload.Name
		state.Description = payload.Description
		state.Frequency = payload.Frequency
	case EventUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "name":
				state.Name = value
			case "description":
				state.Description = value
			case "frequency":
				state.Frequency = value
			}
		}
	case EventArchived:
		state.Status = StatusArchived
	case EventChecked:
		var payload CheckPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		if state.Checks == nil {
			state.Checks = make(map[string]struct{})
		}
		state.Checks[payload.Date] = struct{}{}
	case EventUnchecked:
		var payload UncheckPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		delete(state.Checks, payload.Date)
	default:
		return state
	}
	state.UpdatedAt = evt.Timestamp
	return state
}
