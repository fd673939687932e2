package task

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
)

const (
	CommandCreate   command.Type = "task.create"
	CommandUpdate   command.Type = "task.update"
	CommandComplete command.Type = "task.complete"
	CommandCancel   command.Type = "task.cancel"
	CommandLogTime  command.Type = "task.log_time"
)

var priorities = map[string]struct{}{
	"low": {}, "medium": {}, "high": {}, "urgent": {},
}

// Decide returns the decision for a task command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandCreate:
		var payload CreatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeTaskTitleEmpty,
				Message: "task title is required",
			})
		}
		payload.Priority = strings.ToLower(strings.TrimSpace(payload.Priority))
		if payload.Priority == "" {
			payload.Priority = "medium"
		}
		if _, ok := priorities[payload.Priority]; !ok {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeTaskUpdateEmpty,
				Message: "task priority is invalid: " + payload.Priority,
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventCreated, payloadJSON, now().UTC()))

	case CommandUpdate:
		if rejection, ok := requireOpenTask(state); !ok {
			return command.Reject(rejection)
		}
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeTaskUpdateEmpty,
				Message: "task update requires fields",
			})
		}
		normalized := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "title":
				trimmed := strings.TrimSpace(value)
				if trimmed == "" {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeTaskTitleEmpty,
						Message: "task title is required",
					})
				}
				normalized[key] = trimmed
			case "priority":
				lowered := strings.ToLower(strings.TrimSpace(value))
				if _, ok := priorities[lowered]; !ok {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeTaskUpdateEmpty,
						Message: "task priority is invalid: " + value,
					})
				}
				normalized[key] = lowered
			case "description", "due_date", "scheduled_date", "goal_id", "estimated_minutes":
				normalized[key] = strings.TrimSpace(value)
			default:
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeTaskUpdateEmpty,
					Message: "task update field is invalid: " + key,
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalized})
		return command.Accept(command.NewEvent(cmd, EventUpdated, payloadJSON, now().UTC()))

	case CommandComplete:
		if rejection, ok := requireOpenTask(state); !ok {
			return command.Reject(rejection)
		}
		payloadJSON, _ := json.Marshal(CompletePayload{CompletedAt: now().UTC().Format(time.RFC3339)})
		return command.Accept(command.NewEvent(cmd, EventCompleted, payloadJSON, now().UTC()))

	case CommandCancel:
		if rejection, ok := requireOpenTask(state); !ok {
			return command.Reject(rejection)
		}
		return command.Accept(command.NewEvent(cmd, EventCancelled, []byte(`{}`), now().UTC()))

	case CommandLogTime:
		if !state.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeTaskNotFound,
				Message: "task does not exist",
			})
		}
		var payload TimeLoggedPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if payload.Minutes <= 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeTaskMinutesInvalid,
				Message: "logged minutes must be positive",
			})
		}
		payload.Note = strings.TrimSpace(payload.Note)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTimeLogged, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func requireOpenTask(state State) (command.Rejection, bool) {
	if !state.Created {
		return command.Rejection{
			Code:    apperrors.CodeTaskNotFound,
			Message: "task does not exist",
		}, false
	}
	if state.Status.Closed() {
		return command.Rejection{
			Code:    apperrors.CodeTaskAlreadyClosed,
			Message: "task is already " + string(state.Status),
		}, false
	}
	return command.Rejection{}, true
}
