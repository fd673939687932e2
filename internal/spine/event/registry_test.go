package event

import (
	"errors"
	"testing"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
)

func TestValidateForAppendAcceptsRegisteredEvent(t *testing.T) {
	r := NewRegistry()
	r.Register("goal", "GOAL_DEFINED", "GOAL_UPDATED")

	evt, err := r.ValidateForAppend(Event{
		Type:       "GOAL_DEFINED",
		EntityType: "goal",
		EntityID:   1,
		Payload:    []byte(`{"title":"Launch MVP"}`),
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if string(evt.Payload) != `{"title":"Launch MVP"}` {
		t.Fatalf("payload changed: %s", evt.Payload)
	}
}

func TestValidateForAppendDefaultsEmptyPayload(t *testing.T) {
	r := NewRegistry()
	r.Register("goal", "GOAL_ARCHIVED")

	evt, err := r.ValidateForAppend(Event{Type: "GOAL_ARCHIVED", EntityType: "goal", EntityID: 2})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if string(evt.Payload) != `{}` {
		t.Fatalf("expected empty object payload, got %s", evt.Payload)
	}
}

func TestValidateForAppendRejections(t *testing.T) {
	r := NewRegistry()
	r.Register("goal", "GOAL_DEFINED")

	tests := []struct {
		name string
		evt  Event
		code apperrors.Code
	}{
		{
			name: "blank event type",
			evt:  Event{Type: " ", EntityType: "goal", EntityID: 1},
			code: apperrors.CodeEventTypeEmpty,
		},
		{
			name: "non-positive entity id",
			evt:  Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 0},
			code: apperrors.CodeEntityIDInvalid,
		},
		{
			name: "unregistered entity type",
			evt:  Event{Type: "GOAL_DEFINED", EntityType: "meeting", EntityID: 1},
			code: apperrors.CodeEntityTypeUnknown,
		},
		{
			name: "unregistered event type",
			evt:  Event{Type: "GOAL_EXPLODED", EntityType: "goal", EntityID: 1},
			code: apperrors.CodeEventTypeUnknown,
		},
		{
			name: "malformed payload",
			evt:  Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 1, Payload: []byte(`{`)},
			code: apperrors.CodePayloadInvalid,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.ValidateForAppend(tc.evt)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, apperrors.New(tc.code, "")) {
				t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), tc.code)
			}
		})
	}
}

func TestRegisterMergesVocabularies(t *testing.T) {
	r := NewRegistry()
	r.Register("task", "TASK_CREATED")
	r.Register("task", "TASK_COMPLETED")

	if _, err := r.ValidateForAppend(Event{Type: "TASK_COMPLETED", EntityType: "task", EntityID: 1}); err != nil {
		t.Fatalf("expected merged vocabulary to accept event: %v", err)
	}
}
