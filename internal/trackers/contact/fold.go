package contact

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Fold applies an event to contact state. Unknown event types are skipped.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case EventAdded:
		state.Created = true
		state.ID = evt.EntityID
		state.Status = StatusActive
		state.CreatedAt = evt.Timestamp
		var payload AddPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Name = payload.Name
		state.Email = payload.Email
		state.Phone = payload.Phone
		state.Company = payload.Company
		state.Notes = payload.Notes
		state.FrequencyDays = payload.FrequencyDays
	case EventUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "name":
				state.Name = value
			case "email":
				state.Email = value
			case "phone":
				state.Phone = value
			case "company":
				state.Company = value
			case "notes":
				state.Notes = value
			case "frequency_days":
				if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
					state.FrequencyDays = parsed
				}
			}
		}
	case EventArchived:
		state.Status = StatusArchived
	case EventTouched:
		var payload TouchPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		if payload.Date > state.LastContact {
			state.LastContact = payload.Date
		}
		state.Touches++
	default:
		return state
	}
	state.UpdatedAt = evt.Timestamp
	return state
}
