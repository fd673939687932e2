package contact

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage/sqlite"
)

func fixedNow() time.Time {
	return time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	registry := event.NewRegistry()
	registry.Register(EntityType, EventTypes()...)
	svc := NewService(store, registry)
	svc.now = fixedNow
	return svc
}

func TestOverdue(t *testing.T) {
	asOf := fixedNow()
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"no cadence", State{Created: true, Status: StatusActive, LastContact: "2025-01-01"}, false},
		{"cadence never touched", State{Created: true, Status: StatusActive, FrequencyDays: 30}, true},
		{"recently touched", State{Created: true, Status: StatusActive, FrequencyDays: 30, LastContact: "2025-04-10"}, false},
		{"due today", State{Created: true, Status: StatusActive, FrequencyDays: 10, LastContact: "2025-04-10"}, true},
		{"long overdue", State{Created: true, Status: StatusActive, FrequencyDays: 7, LastContact: "2025-02-01"}, true},
		{"archived", State{Created: true, Status: StatusArchived, FrequencyDays: 7, LastContact: "2025-02-01"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.Overdue(asOf); got != tc.want {
				t.Fatalf("overdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFoldTouchKeepsLatestDate(t *testing.T) {
	state := Fold(State{}, event.Event{ID: 1, Type: EventAdded, EntityID: 1, Payload: []byte(`{"name":"Ada"}`)})
	state = Fold(state, event.Event{ID: 2, Type: EventTouched, EntityID: 1, Payload: []byte(`{"date":"2025-04-15"}`)})
	// A backfilled older touch must not move the last contact backwards.
	state = Fold(state, event.Event{ID: 3, Type: EventTouched, EntityID: 1, Payload: []byte(`{"date":"2025-04-01"}`)})
	if state.LastContact != "2025-04-15" {
		t.Fatalf("last contact = %q, want 2025-04-15", state.LastContact)
	}
	if state.Touches != 2 {
		t.Fatalf("touches = %d, want 2", state.Touches)
	}
}

func TestServiceTouchAndOverdueListing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	ada, err := s.Add(ctx, AddPayload{Name: "Ada", FrequencyDays: 7})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	grace, err := s.Add(ctx, AddPayload{Name: "Grace", FrequencyDays: 30})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(ctx, AddPayload{Name: "Linus"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := s.Touch(ctx, ada.ID, "2025-04-01", "coffee"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if _, err := s.Touch(ctx, grace.ID, "2025-04-18", ""); err != nil {
		t.Fatalf("touch: %v", err)
	}

	overdue, err := s.Overdue(ctx, fixedNow())
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != ada.ID {
		t.Fatalf("overdue: %+v", overdue)
	}
}

func TestServiceArchiveStopsTouches(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	c, err := s.Add(ctx, AddPayload{Name: "Ada"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Archive(ctx, c.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := s.Touch(ctx, c.ID, "", ""); apperrors.CodeOf(err) != apperrors.CodeContactArchived {
		t.Fatalf("touch archived code = %s", apperrors.CodeOf(err))
	}
}

func TestServiceAddRequiresName(t *testing.T) {
	s := newTestService(t)

	_, err := s.Add(context.Background(), AddPayload{Name: "   "})
	if apperrors.CodeOf(err) != apperrors.CodeContactNameEmpty {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}
