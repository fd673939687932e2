// Package command defines the command envelope shared by every tracker
// decider and the pure decision type they return.
package command

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
)

// Type identifies the command type string.
type Type string

// Command captures the canonical command envelope. EntityID is zero for
// commands that create a new entity; the service layer allocates the id
// before deciding.
type Command struct {
	Type        Type
	EntityType  string
	EntityID    int64
	PayloadJSON json.RawMessage
}

// Normalize trims the envelope strings and defaults an empty payload to an
// empty JSON object. Deciders assume a normalized command.
func Normalize(cmd Command) (Command, error) {
	cmd.Type = Type(strings.TrimSpace(string(cmd.Type)))
	if cmd.Type == "" {
		return Command{}, apperrors.New(apperrors.CodeEventTypeEmpty, "command type is required")
	}
	cmd.EntityType = strings.TrimSpace(cmd.EntityType)
	if len(cmd.PayloadJSON) == 0 {
		cmd.PayloadJSON = json.RawMessage(`{}`)
	}
	if !json.Valid(cmd.PayloadJSON) {
		return Command{}, apperrors.New(apperrors.CodePayloadInvalid, "command payload must be valid JSON")
	}
	return cmd, nil
}

// NewEvent builds an event.Event by copying the entity addressing from a
// command. Callers supply the event-specific type, payload, and timestamp.
// This keeps per-decider boilerplate down and forwards new envelope fields
// automatically.
func NewEvent(cmd Command, eventType event.Type, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		Type:       eventType,
		EntityType: cmd.EntityType,
		EntityID:   cmd.EntityID,
		Payload:    payloadJSON,
		Timestamp:  now,
	}
}
