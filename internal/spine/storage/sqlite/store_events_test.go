package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Append(ctx, event.Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 1})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := s.Append(ctx,
		event.Event{Type: "TASK_CREATED", EntityType: "task", EntityID: 1},
		event.Event{Type: "TASK_COMPLETED", EntityType: "task", EntityID: 1},
	)
	if err != nil {
		t.Fatalf("append batch: %v", err)
	}

	ids := []int64{first[0].ID, second[0].ID, second[1].ID}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not strictly increasing: %v", ids)
		}
	}
}

func TestAppendPreservesPayloadBytes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Key order and spacing must survive the round trip untouched.
	payload := []byte(`{"zeta":1,"alpha":{"nested":  [3, 2, 1]},"note":"café ☕"}`)
	if _, err := s.Append(ctx, event.Event{
		Type: "NOTE_CREATED", EntityType: "note", EntityID: 1, Payload: payload,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	history, err := s.Explain(ctx, "note", 1)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d", len(history))
	}
	if !bytes.Equal([]byte(history[0].Payload), payload) {
		t.Fatalf("payload changed:\n got %s\nwant %s", history[0].Payload, payload)
	}
}

func TestAppendDefaultsTimestampAndPayload(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	appended, err := s.Append(ctx, event.Event{Type: "HABIT_DEFINED", EntityType: "habit", EntityID: 1})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if appended[0].Timestamp.Before(before) {
		t.Fatalf("timestamp not defaulted: %v", appended[0].Timestamp)
	}
	if string(appended[0].Payload) != `{}` {
		t.Fatalf("payload = %s", appended[0].Payload)
	}
}

func TestExplainReturnsHistoryInOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	types := []event.Type{"GOAL_DEFINED", "GOAL_TARGET_SET", "PROGRESS_LOGGED", "GOAL_ARCHIVED"}
	for _, typ := range types {
		if _, err := s.Append(ctx, event.Event{Type: typ, EntityType: "goal", EntityID: 5}); err != nil {
			t.Fatalf("append %s: %v", typ, err)
		}
	}
	// Interleave another entity to make sure filtering holds.
	if _, err := s.Append(ctx, event.Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 6}); err != nil {
		t.Fatalf("append other: %v", err)
	}

	history, err := s.Explain(ctx, "goal", 5)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(history) != len(types) {
		t.Fatalf("history length = %d, want %d", len(history), len(types))
	}
	for i, evt := range history {
		if evt.Type != types[i] {
			t.Fatalf("event %d = %s, want %s", i, evt.Type, types[i])
		}
		if i > 0 && history[i].ID <= history[i-1].ID {
			t.Fatalf("history not in id order: %v", history)
		}
	}
}

func TestExplainEmptyHistory(t *testing.T) {
	s := openTestStore(t)

	history, err := s.Explain(context.Background(), "goal", 99)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d events", len(history))
	}
}

func TestExplainRejectsInvalidEntityID(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Explain(context.Background(), "goal", 0)
	if apperrors.CodeOf(err) != apperrors.CodeEntityIDInvalid {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeEntityIDInvalid)
	}
}

func TestListFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seed := []event.Event{
		{Type: "TASK_CREATED", EntityType: "task", EntityID: 1, Timestamp: base},
		{Type: "TASK_COMPLETED", EntityType: "task", EntityID: 1, Timestamp: base.Add(time.Hour)},
		{Type: "TASK_CREATED", EntityType: "task", EntityID: 2, Timestamp: base.Add(2 * time.Hour)},
		{Type: "NOTE_CREATED", EntityType: "note", EntityID: 1, Timestamp: base.Add(3 * time.Hour)},
	}
	if _, err := s.Append(ctx, seed...); err != nil {
		t.Fatalf("append: %v", err)
	}

	tests := []struct {
		name   string
		filter storage.Filter
		want   int
	}{
		{"all", storage.Filter{}, 4},
		{"by entity type", storage.Filter{EntityType: "task"}, 3},
		{"by entity", storage.Filter{EntityType: "task", EntityID: 1}, 2},
		{"by event type", storage.Filter{EventType: "TASK_CREATED"}, 2},
		{"since", storage.Filter{Since: base.Add(90 * time.Minute)}, 2},
		{"combined", storage.Filter{EntityType: "task", EventType: "TASK_CREATED", Since: base.Add(time.Hour)}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events, err := s.List(ctx, tc.filter, 0, 0)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(events) != tc.want {
				t.Fatalf("got %d events, want %d", len(events), tc.want)
			}
		})
	}
}

func TestListPagination(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if _, err := s.Append(ctx, event.Event{Type: "PROGRESS_LOGGED", EntityType: "goal", EntityID: 1}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	page, err := s.List(ctx, storage.Filter{}, 0, 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("first page length = %d", len(page))
	}
	rest, err := s.List(ctx, storage.Filter{}, page[1].ID, 0)
	if err != nil {
		t.Fatalf("rest: %v", err)
	}
	if len(rest) != 3 {
		t.Fatalf("rest length = %d", len(rest))
	}
	if rest[0].ID <= page[1].ID {
		t.Fatalf("page boundary overlap: %d <= %d", rest[0].ID, page[1].ID)
	}
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	total, err := s.Count(ctx, storage.Filter{})
	if err != nil {
		t.Fatalf("count empty: %v", err)
	}
	if total != 0 {
		t.Fatalf("empty count = %d", total)
	}

	if _, err := s.Append(ctx,
		event.Event{Type: "CONTACT_ADDED", EntityType: "contact", EntityID: 1},
		event.Event{Type: "CONTACT_ADDED", EntityType: "contact", EntityID: 2},
		event.Event{Type: "INTERACTION_LOGGED", EntityType: "contact", EntityID: 1},
	); err != nil {
		t.Fatalf("append: %v", err)
	}

	total, err = s.Count(ctx, storage.Filter{EntityType: "contact"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 3 {
		t.Fatalf("count = %d, want 3", total)
	}
	added, err := s.Count(ctx, storage.Filter{EventType: "CONTACT_ADDED"})
	if err != nil {
		t.Fatalf("count by type: %v", err)
	}
	if added != 2 {
		t.Fatalf("count by type = %d, want 2", added)
	}
}

func TestNextEntityID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.NextEntityID(ctx, "goal")
	if err != nil {
		t.Fatalf("next id on empty log: %v", err)
	}
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}

	if _, err := s.Append(ctx,
		event.Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 1},
		event.Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 4},
	); err != nil {
		t.Fatalf("append: %v", err)
	}

	id, err = s.NextEntityID(ctx, "goal")
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != 5 {
		t.Fatalf("next id = %d, want 5", id)
	}

	// Allocation is per entity type.
	id, err = s.NextEntityID(ctx, "task")
	if err != nil {
		t.Fatalf("next task id: %v", err)
	}
	if id != 1 {
		t.Fatalf("task id = %d, want 1", id)
	}
}

func TestAppendIsAtomic(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Append(ctx, event.Event{Type: "GOAL_DEFINED", EntityType: "goal", EntityID: 1}); err == nil {
		t.Fatal("expected append with canceled context to fail")
	}
	total, err := s.Count(context.Background(), storage.Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 0 {
		t.Fatalf("count = %d, want 0", total)
	}
}

func TestAppendConcurrentIDsUniqueAndIncreasing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const workers = 8
	const perWorker = 20

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []int64
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(entityID int64) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				appended, err := s.Append(ctx, event.Event{
					Type:       "TASK_CREATED",
					EntityType: "task",
					EntityID:   entityID,
					Payload:    []byte(`{}`),
				})
				if err != nil {
					t.Errorf("append from worker %d: %v", entityID, err)
					return
				}
				mu.Lock()
				ids = append(ids, appended[0].ID)
				mu.Unlock()
			}
		}(int64(w + 1))
	}
	wg.Wait()

	if len(ids) != workers*perWorker {
		t.Fatalf("appended %d events, want %d", len(ids), workers*perWorker)
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			t.Fatalf("non-positive id %d assigned", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = struct{}{}
	}

	// The log itself must read back in strictly increasing id order.
	events, err := s.List(ctx, storage.Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != workers*perWorker {
		t.Fatalf("log holds %d events, want %d", len(events), workers*perWorker)
	}
	for i := 1; i < len(events); i++ {
		if events[i].ID <= events[i-1].ID {
			t.Fatalf("ids not strictly increasing: %d then %d", events[i-1].ID, events[i].ID)
		}
	}
}
