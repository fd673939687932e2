package goal

import (
	"testing"
	"time"

	"github.com/atlasos/atlas/internal/spine/event"
)

func TestFoldDefineThenProgress(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	history := []event.Event{
		{ID: 1, Type: EventDefined, EntityType: EntityType, EntityID: 3,
			Payload: []byte(`{"title":"Run a marathon","area":"health"}`), Timestamp: base},
		{ID: 2, Type: EventTargetSet, EntityType: EntityType, EntityID: 3,
			Payload: []byte(`{"target_date":"2025-10-01","target_value":42.2}`), Timestamp: base.Add(time.Minute)},
		{ID: 3, Type: EventProgressLogged, EntityType: EntityType, EntityID: 3,
			Payload: []byte(`{"value":10,"note":"first long run"}`), Timestamp: base.Add(2 * time.Minute)},
		{ID: 4, Type: EventProgressLogged, EntityType: EntityType, EntityID: 3,
			Payload: []byte(`{"value":21.1}`), Timestamp: base.Add(3 * time.Minute)},
	}

	state := State{}
	for _, evt := range history {
		state = Fold(state, evt)
	}

	if !state.Created || state.ID != 3 {
		t.Fatalf("state not created: %+v", state)
	}
	if state.Title != "Run a marathon" || state.Area != "health" {
		t.Fatalf("define fields: %+v", state)
	}
	if state.TargetDate != "2025-10-01" || state.TargetValue != 42.2 {
		t.Fatalf("target fields: %+v", state)
	}
	if state.CurrentValue != 21.1 {
		t.Fatalf("current value = %v, want 21.1", state.CurrentValue)
	}
	if len(state.Progress) != 2 {
		t.Fatalf("progress entries = %d, want 2", len(state.Progress))
	}
	if state.Status != StatusActive {
		t.Fatalf("status = %s", state.Status)
	}
}

func TestFoldIsDeterministic(t *testing.T) {
	history := []event.Event{
		{ID: 1, Type: EventDefined, EntityID: 1, Payload: []byte(`{"title":"Read 20 books"}`)},
		{ID: 2, Type: EventUpdated, EntityID: 1, Payload: []byte(`{"fields":{"description":"fiction only"}}`)},
		{ID: 3, Type: EventArchived, EntityID: 1},
	}
	fold := func() State {
		state := State{}
		for _, evt := range history {
			state = Fold(state, evt)
		}
		return state
	}
	first, second := fold(), fold()
	if first.Title != second.Title || first.Status != second.Status || first.Description != second.Description {
		t.Fatalf("folds diverged: %+v vs %+v", first, second)
	}
	if first.Status != StatusArchived {
		t.Fatalf("status = %s, want archived", first.Status)
	}
}

func TestFoldSkipsUnknownEventTypes(t *testing.T) {
	state := Fold(State{}, event.Event{ID: 1, Type: "SOMETHING_ELSE", EntityID: 1})
	if state.Created {
		t.Fatalf("unknown event mutated state: %+v", state)
	}
}

func TestFoldMilestoneCompletedAt(t *testing.T) {
	at := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	ms := FoldMilestone(Milestone{}, event.Event{
		ID: 1, Type: EventMilestoneAdded, EntityID: 9,
		Payload: []byte(`{"goal_id":3,"title":"Half marathon","due_date":"2025-06-01"}`),
	})
	ms = FoldMilestone(ms, event.Event{
		ID: 2, Type: EventMilestoneCompleted, EntityID: 9,
		Payload: []byte(`{"completed_at":"` + at.Format(time.RFC3339) + `"}`),
	})
	if !ms.Completed {
		t.Fatal("milestone not completed")
	}
	if !ms.CompletedAt.Equal(at) {
		t.Fatalf("completed at = %v, want %v", ms.CompletedAt, at)
	}
	if ms.GoalID != 3 {
		t.Fatalf("goal id = %d", ms.GoalID)
	}
}
