package publication

import (
	"encoding/json"
	"time"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Fold applies an event to publication state. Unknown event types are
// skipped.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case EventCreated:
		state.Created = true
		state.ID = evt.EntityID
		state.Status = StatusDraft
		state.CreatedAt = evt.Timestamp
		var payload CreatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Title = payload.Title
		state.Venue = payload.Venue
		state.Authors = payload.Authors
		state.Notes = payload.Notes
	case EventUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "title":
				state.Title = value
			case "venue":
				state.Venue = value
			case "notes":
				state.Notes = value
			case "url":
				state.URL = value
			}
		}
	case EventSubmitted:
		state.Status = StatusSubmitted
		state.Submissions++
		var payload SubmitPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		if payload.Venue != "" {
			state.Venue = payload.Venue
		}
		state.SubmittedAt = parseOr(payload.SubmittedAt, evt.Timestamp)
	case EventAccepted:
		state.Status = StatusAccepted
		var payload DecisionPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.DecidedAt = parseOr(payload.DecidedAt, evt.Timestamp)
	case EventRejected:
		state.Status = StatusRejected
		var payload DecisionPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.DecidedAt = parseOr(payload.DecidedAt, evt.Timestamp)
	case EventPublished:
		state.Status = StatusPublished
		var payload PublishPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.URL = payload.URL
		state.PublishedAt = parseOr(payload.PublishedAt, evt.Timestamp)
	default:
		return state
	}
	state.UpdatedAt = evt.Timestamp
	return state
}

func parseOr(value string, fallback time.Time) time.Time {
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return at.UTC()
	}
	return fallback
}
