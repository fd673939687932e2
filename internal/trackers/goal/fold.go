package goal

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/atlasos/atlas/internal/spine/event"
)

// Fold applies an event to goal state. Unknown event types are skipped so
// vocabulary growth never breaks old projections.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case EventDefined:
		state.Created = true
		state.ID = evt.EntityID
		state.Status = StatusActive
		state.CreatedAt = evt.Timestamp
		var payload DefinePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Title = payload.Title
		state.Description = payload.Description
		state.Area = payload.Area
	case EventTargetSet:
		var payload TargetPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.TargetDate = payload.TargetDate
		state.TargetValue = payload.TargetValue
	case EventUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "title":
				state.Title = value
			case "description":
				state.Description = value
			case "current_value":
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
					state.CurrentValue = parsed
				}
			}
		}
	case EventAreaSet:
		var payload AreaPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.Area = payload.Area
	case EventParentSet:
		var payload ParentPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.ParentID = payload.ParentID
	case EventArchived:
		state.Status = StatusArchived
	case EventProgressLogged:
		var payload ProgressPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		state.CurrentValue = payload.Value
		state.Progress = append(state.Progress, ProgressEntry{
			Value: payload.Value,
			Note:  payload.Note,
			At:    evt.Timestamp,
		})
	default:
		return state
	}
	state.UpdatedAt = evt.Timestamp
	return state
}

// FoldKeyResult applies an event to key result state.
func FoldKeyResult(kr KeyResult, evt event.Event) KeyResult {
	switch evt.Type {
	case EventKeyResultAdded:
		kr.Created = true
		kr.ID = evt.EntityID
		kr.CreatedAt = evt.Timestamp
		var payload KeyResultAddPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		kr.GoalID = payload.GoalID
		kr.Title = payload.Title
		kr.TargetValue = payload.TargetValue
	case EventKeyResultUpdated:
		var payload KeyResultUpdatePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		kr.CurrentValue = payload.CurrentValue
	default:
		return kr
	}
	kr.UpdatedAt = evt.Timestamp
	return kr
}

// FoldMilestone applies an event to milestone state.
func FoldMilestone(ms Milestone, evt event.Event) Milestone {
	switch evt.Type {
	case EventMilestoneAdded:
		ms.Created = true
		ms.ID = evt.EntityID
		ms.CreatedAt = evt.Timestamp
		var payload MilestoneAddPayload
		_ = json.Unmarshal(evt.Payload, &payload)
		ms.GoalID = payload.GoalID
		ms.Title = payload.Title
		ms.DueDate = payload.DueDate
	case EventMilestoneCompleted:
		ms.Completed = true
		var payload MilestoneCompletePayload
		_ = json.Unmarshal(evt.Payload, &payload)
		if at, err := time.Parse(time.RFC3339, payload.CompletedAt); err == nil {
			ms.CompletedAt = at.UTC()
		} else {
			ms.CompletedAt = evt.Timestamp
		}
	}
	return ms
}
