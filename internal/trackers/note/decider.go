package note

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
)

const (
	CommandCreate  command.Type = "note.create"
	CommandUpdate  command.Type = "note.update"
	CommandArchive command.Type = "note.archive"
	CommandTag     command.Type = "note.tag"
)

// Decide returns the decision for a note command against current state.
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
				Code:    apperrors.CodeNoteTitleEmpty,
				Message: "note title is required",
			})
		}
		payload.Tags = normalizeTags(payload.Tags)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventCreated, payloadJSON, now().UTC()))

	case CommandUpdate:
		if rejection, ok := requireLiveNote(state); !ok {
			return command.Reject(rejection)
		}
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeNoteUpdateEmpty,
				Message: "note update requires fields",
			})
		}
		normalized := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "title":
				trimmed := strings.TrimSpace(value)
				if trimmed == "" {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodeNoteTitleEmpty,
						Message: "note title is required",
					})
				}
				normalized[key] = trimmed
			case "content":
				normalized[key] = value
			default:
				return command.Reject(command.Rejection{
					Code:    apperrors.CodeNoteUpdateEmpty,
					Message: "note update field is invalid: " + key,
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalized})
		return command.Accept(command.NewEvent(cmd, EventUpdated, payloadJSON, now().UTC()))

	case CommandArchive:
		if !state.Created {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeNoteNotFound,
				Message: "note does not exist",
			})
		}
		if state.Status == StatusArchived {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodeNoteArchived,
				Message: "note is already archived",
			})
		}
		return command.Accept(command.NewEvent(cmd, EventArchived, []byte(`{}`), now().UTC()))

	case CommandTag:
		if rejection, ok := requireLiveNote(state); !ok {
			return command.Reject(rejection)
		}
		var payload TagPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Tags = normalizeTags(payload.Tags)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventTagged, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func requireLiveNote(state State) (command.Rejection, bool) {
	if !state.Created {
		return command.Rejection{
			Code:    apperrors.CodeNoteNotFound,
			Message: "note does not exist",
		}, false
	}
	if state.Status == StatusArchived {
		return command.Rejection{
			Code:    apperrors.CodeNoteArchived,
			Message: "note is archived",
		}, false
	}
	return command.Rejection{}, true
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
