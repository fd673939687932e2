package habit

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
)

const (
	CommandDefine  command.Type = "habit.define"
	CommandUpdate  command.Type = "habit.update"
	CommandArchive command.Type = "habit.archive"
	CommandCheck   command.Type = "habit.check"
	CommandUncheck command.Type = "habit.uncheck"
)

var frequencies = map[string]struct{}{
	"daily": {}, "weekly": {},
}

// Decide returns the decision for a habit command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandDefine:
		var payload DefinePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Name = strings.TrimSpace(payload.Name)
		if payload.Name == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitNameEmpty,
				Message: "habit name is required",
			})
		}
		payload.Frequency = strings.ToLower(strings.TrimSpace(payload.Frequency))
		if payload.Frequency == "" {
			payload.Frequency = "daily"
		}
		if _, ok := frequencies[payload.Frequency]; !ok {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitFrequencyInvalid,
				Message: "habit frequency must be daily or weekly",
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventDefined, payloadJSON, now().UTC()))

	case CommandUpdate:
		if rejection, ok := requireLiveHabit(state); !ok {
			return command.Reject(rejection)
		}
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitNameEmpty,
				Message: "habit update requires fields",
			})
		}
		normalized := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "name":
				trimmed := strings.TrimSpace(value)
				if trimmed == "" {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeHabitNameEmpty,
						Message: "habit name is required",
					})
				}
				normalized[key] = trimmed
			case "description":
				normalized[key] = value
			case "frequency":
				lowered := strings.ToLower(strings.TrimSpace(value))
				if _, ok := frequencies[lowered]; !ok {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeHabitFrequencyInvalid,
						Message: "habit frequency must be daily or weekly",
					})
				}
				normalized[key] = lowered
			default:
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeHabitNameEmpty,
					Message: "habit update field is invalid: " + key,
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalized})
		return command.Accept(command.NewEvent(cmd, EventUpdated, payloadJSON, now().UTC()))

	case CommandArchive:
		if !state.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitNotFound,
				Message: "habit does not exist",
			})
		}
		if state.Status == StatusArchived {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitArchived,
				Message: "habit is already archived",
			})
		}
		return command.Accept(command.NewEvent(cmd, EventArchived, []byte(`{}`), now().UTC()))

	case CommandCheck:
		if rejection, ok := requireLiveHabit(state); !ok {
			return command.Reject(rejection)
		}
		var payload CheckPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		date, rejection, ok := normalizeDate(payload.Date, now)
		if !ok {
			return command.Reject(rejection)
		}
		if state.CheckedOn(date) {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitAlreadyChecked,
				Message: "habit is already checked for " + date,
			})
		}
		payload.Date = date
		payload.Note = strings.TrimSpace(payload.Note)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventChecked, payloadJSON, now().UTC()))

	case CommandUncheck:
		if rejection, ok := requireLiveHabit(state); !ok {
			return command.Reject(rejection)
		}
		var payload UncheckPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		date, rejection, ok := normalizeDate(payload.Date, now)
		if !ok {
			return command.Reject(rejection)
		}
		if !state.CheckedOn(date) {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeHabitNotChecked,
				Message: "habit is not checked for " + date,
			})
		}
		payloadJSON, _ := json.Marshal(UncheckPayload{Date: date})
		return command.Accept(command.NewEvent(cmd, EventUnchecked, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func requireLiveHabit(state State) (command.Rejection, bool) {
	if !state.Created {
		return command.Rejection{
			Code:    apperrors.CodeHabitNotFound,
			Message: "habit does not exist",
		}, false
	}
	if state.Status == StatusArchived {
		return command.Rejection{
			Code:    apperrors.CodeHabitArchived,
			Message: "habit is archived",
		}, false
	}
	return command.Rejection{}, true
}

// normalizeDate defaults an empty date to today and validates the layout.
func normalizeDate(date string, now func() time.Time) (string, command.Rejection, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return now().UTC().Format(dateLayout), command.Rejection{}, true
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", command.Rejection{
			Code:    apperrors.CodeHabitDateInvalid,
			Message: "check date must be YYYY-MM-DD",
		}, false
	}
	return date, command.Rejection{}, true
}
