package publication

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
)

const (
	CommandCreate  command.Type = "publication.create"
	CommandUpdate  command.Type = "publication.update"
	CommandSubmit  command.Type = "publication.submit"
	CommandAccept  command.Type = "publication.accept"
	CommandReject  command.Type = "publication.reject"
	CommandPublish command.Type = "publication.publish"
)

// Decide returns the decision for a publication command against current
// state.
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
				Code:    apperrors.CodePublicationTitleEmpty,
				Message: "publication title is required",
			})
		}
		payload.Venue = strings.TrimSpace(payload.Venue)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventCreated, payloadJSON, now().UTC()))

	case CommandUpdate:
		if !state.Created {
			return command.Reject(notFound())
		}
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodePublicationUpdateEmpty,
				Message: "publication update requires fields",
			})
		}
		normalized := make(map[string]string, len(payload.Fields))
		for key, value := range payload.Fields {
			switch key {
			case "title":
				trimmed := strings.TrimSpace(value)
				if trimmed == "" {
					return command.Reject(command.Rejection{
						Code:    apperrors.CodePublicationTitleEmpty,
						Message: "publication title is required",
					})
				}
				normalized[key] = trimmed
			case "venue", "notes", "url":
				normalized[key] = strings.TrimSpace(value)
			default:
				return command.Reject(command.Rejection{
					Code:    apperrors.CodePublicationUpdateEmpty,
					Message: "publication update field is invalid: " + key,
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalized})
		return command.Accept(command.NewEvent(cmd, EventUpdated, payloadJSON, now().UTC()))

	case CommandSubmit:
		if !state.Created {
			return command.Reject(notFound())
		}
		if !state.Status.CanTransition(StatusSubmitted) {
			return command.Reject(badTransition(state.Status, StatusSubmitted))
		}
		var payload SubmitPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Venue = strings.TrimSpace(payload.Venue)
		if payload.Venue == "" && state.Venue == "" {
			return command.Reject(command.Rejection{
				Code:    apperrors.CodePublicationInvalidVenue,
				Message: "submission venue is required",
			})
		}
		payload.SubmittedAt = now().UTC().Format(time.RFC3339)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventSubmitted, payloadJSON, now().UTC()))

	case CommandAccept, CommandReject:
		if !state.Created {
			return command.Reject(notFound())
		}
		target, eventType := StatusAccepted, EventAccepted
		if cmd.Type == CommandReject {
			target, eventType = StatusRejected, EventRejected
		}
		if !state.Status.CanTransition(target) {
			return command.Reject(badTransition(state.Status, target))
		}
		var payload DecisionPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Note = strings.TrimSpace(payload.Note)
		payload.DecidedAt = now().UTC().Format(time.RFC3339)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventType, payloadJSON, now().UTC()))

	case CommandPublish:
		if !state.Created {
			return command.Reject(notFound())
		}
		if !state.Status.CanTransition(StatusPublished) {
			return command.Reject(badTransition(state.Status, StatusPublished))
		}
		var payload PublishPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.URL = strings.TrimSpace(payload.URL)
		payload.PublishedAt = now().UTC().Format(time.RFC3339)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, EventPublished, payloadJSON, now().UTC()))
	}

	return command.Decision{}
}

func notFound() command.Rejection {
	return command.Rejection{
		Code:    apperrors.CodePublicationNotFound,
		Message: "publication does not exist",
	}
}

func badTransition(from, to Status) command.Rejection {
	return command.Rejection{
		Code:    apperrors.CodePublicationInvalidTransition,
		Message: "cannot move publication from " + string(from) + " to " + string(to),
	}
}
