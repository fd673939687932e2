package command

import (
	"testing"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
)

func TestNormalizeDefaultsPayload(t *testing.T) {
	cmd, err := Normalize(Command{Type: " goal.define ", EntityType: " goal "})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cmd.Type != "goal.define" {
		t.Fatalf("type = %q", cmd.Type)
	}
	if cmd.EntityType != "goal" {
		t.Fatalf("entity type = %q", cmd.EntityType)
	}
	if string(cmd.PayloadJSON) != `{}` {
		t.Fatalf("payload = %s", cmd.PayloadJSON)
	}
}

func TestNormalizeRejectsMalformedPayload(t *testing.T) {
	_, err := Normalize(Command{Type: "goal.define", PayloadJSON: []byte(`{`)})
	if apperrors.CodeOf(err) != apperrors.CodePayloadInvalid {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodePayloadInvalid)
	}
}

func TestNormalizeRejectsEmptyType(t *testing.T) {
	_, err := Normalize(Command{Type: "  "})
	if apperrors.CodeOf(err) != apperrors.CodeEventTypeEmpty {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeEventTypeEmpty)
	}
}

func TestNewEventCopiesEnvelope(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cmd := Command{Type: "task.create", EntityType: "task", EntityID: 7}

	evt := NewEvent(cmd, "TASK_CREATED", []byte(`{"title":"Write report"}`), now)
	if evt.EntityType != "task" || evt.EntityID != 7 {
		t.Fatalf("entity addressing not copied: %+v", evt)
	}
	if evt.Type != "TASK_CREATED" {
		t.Fatalf("type = %q", evt.Type)
	}
	if !evt.Timestamp.Equal(now) {
		t.Fatalf("timestamp = %v", evt.Timestamp)
	}
}

func TestDecisionErr(t *testing.T) {
	if err := Accept(event.Event{Type: "TASK_CREATED"}).Err(); err != nil {
		t.Fatalf("accept err = %v", err)
	}
	d := Reject(Rejection{Code: apperrors.CodeTaskTitleEmpty, Message: "title is required"})
	if !d.Rejected() {
		t.Fatal("expected rejected decision")
	}
	if apperrors.CodeOf(d.Err()) != apperrors.CodeTaskTitleEmpty {
		t.Fatalf("code = %s", apperrors.CodeOf(d.Err()))
	}
}
