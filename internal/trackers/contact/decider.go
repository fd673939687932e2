package contact

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
)

const (
	CommandAdd     command.Type = "contact.add"
	CommandUpdate  command.Type = "contact.update"
	CommandArchive command.Type = "contact.archive"
	CommandTouch   command.Type = "contact.touch"
)

// Decide returns the decision for a contact command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	switch cmd.Type {
	case CommandAdd:
		var payload AddPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Name = strings.TrimSpace(payload.Name)
		if payload.Name == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeContactNameEmpty,
				Message: "contact name is required",
			})
		}
		if payload.FrequencyDays < 0 {
			payload.FrequencyDays = 0
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventAdded, payloadJSON, now().UTC()))

	case CommandUpdate:
		if rejection, ok := requireLiveContact(state); !ok {
			return command.Reject(rejection)
		}
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeContactNameEmpty,
				Message: "contact update requires fields",
			})
		}
		normalized := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "name":
				trimmed := strings.TrimSpace(value)
				if trimmed == "" {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeContactNameEmpty,
						Message: "contact name is required",
					})
				}
				normalized[key] = trimmed
			case "email", "phone", "company", "notes":
				normalized[key] = strings.TrimSpace(value)
			case "frequency_days":
				if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeContactDateInvalid,
						Message: "frequency days must be a number",
					})
				}
				normalized[key] = strings.TrimSpace(value)
			default:
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeContactNameEmpty,
					Message: "contact update field is invalid: " + key,
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalized})
		return command.Accept(command.NewEvent(cmd, EventUpdated, payloadJSON, now().UTC()))

	case CommandArchive:
		if !state.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeContactNotFound,
				Message: "contact does not exist",
			})
		}
		if state.Status == StatusArchived {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeContactArchived,
				Message: "contact is already archived",
			})
		}
		return command.Accept(command.NewEvent(cmd, EventArchived, []byte(`{}`), now().UTC()))

	case CommandTouch:
		if rejection, ok := requireLiveContact(state); !ok {
			return command.Reject(rejection)
		}
		var payload TouchPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Date = strings.TrimSpace(payload.Date)
		if payload.Date == "" {
			payload.Date = now().UTC().Format(dateLayout)
		} else if _, err := time.Parse(dateLayout, payload.Date); err != nil {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeContactDateInvalid,
				Message: "touch date must be YYYY-MM-DD",
			})
		}
		payload.Note = strings.TrimSpace(payload.Note)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTouched, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func requireLiveContact(state State) (command.Rejection, bool) {
	if !state.Created {
		return command.Rejection{
			Code:    apperrors.CodeContactNotFound,
			Message: "contact does not exist",
		}, false
	}
	if state.Status == StatusArchived {
		return command.Rejection{
			Code:    apperrors.CodeContactArchived,
			Message: "contact is archived",
		}, false
	}
	return command.Rejection{}, true
}
