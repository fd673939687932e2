package task

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Fold applies an event to task state. Unknown event types are skipped.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case EventCreated:
		state.Created = true
		state.ID = evt.EntityID
		state.Status = StatusOpen
		state.CreatedAt = evt.Timestamp
		var payload CreatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Title = payload.Title
		state.Description = payload.Description
		state.Priority = payload.Priority
		state.DueDate = payload.DueDate
		state.ScheduledDate = payload.ScheduledDate
		state.Tags = payload.Tags
		state.GoalID = payload.GoalID
		state.EstimatedMinutes = payload.EstimatedMinutes
	case EventUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "title":
				state.Title = value
			case "description":
				state.Description = value
			case "priority":
				state.Priority = value
			case "due_date":
				state.DueDate = value
			case "scheduled_date":
				state.ScheduledDate = value
			case "goal_id":
				if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
					state.GoalID = parsed
				}
			case "estimated_minutes":
				if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
					state.EstimatedMinutes = parsed
				}
			}
		}
	case EventCompleted:
		state.Status = StatusCompleted
		var payload CompletePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		if at, err := time.Parse(time.RFC3339, payload.CompletedAt); err == nil {
			state.CompletedAt = at.UTC()
		} else {
			state.CompletedAt = evt.Timestamp
		}
	case EventCancelled:
		state.Status = StatusCancelled
	case EventTimeLogged:
		var payload TimeLoggedPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.ActualMinutes += payload.Minutes
	default:
		return state
	}
	state.UpdatedAt = evt.Timestamp
	return state
}
