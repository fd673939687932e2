package note

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage/sqlite"
)

func fixedNow() time.Time {
	return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
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
	return NewService(store, registry)
}

func TestDecideCreateNormalizesTags(t *testing.T) {
	decision := Decide(State{}, command.Command{
		Type:        CommandCreate,
		EntityType:  EntityType,
		EntityID:    1,
		PayloadJSON: []byte(`{"title":"Go patterns","tags":["Go"," go ","","Design"]}`),
	}, fixedNow)
	if decision.Rejected() {
		t.Fatalf("rejected: %+v", decision.Rejections)
	}
	state := Fold(State{}, decision.Events[0])
	want := []string{"design", "go"}
	if !reflect.DeepEqual(state.Tags, want) {
		t.Fatalf("tags = %v, want %v", state.Tags, want)
	}
}

func TestDecideArchivedNoteRejectsMutation(t *testing.T) {
	archived := State{Created: true, ID: 1, Status: StatusArchived}
	for _, cmdType := range []command.Type{CommandUpdate, CommandTag} {
		decision := Decide(archived, command.Command{
			Type:        cmdType,
			EntityType:  EntityType,
			EntityID:    1,
			PayloadJSON: []byte(`{"fields":{"title":"x"},"tags":["x"]}`),
		}, fixedNow)
		if decision.Rejections[0].Code != apperrors.CodeNoteArchived {
			t.Fatalf("%s code = %s", cmdType, decision.Rejections[0].Code)
		}
	}
}

func TestServiceSearchAndTags(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, CreatePayload{Title: "Go patterns", Content: "accept interfaces", Tags: []string{"go"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	cooking, err := s.Create(ctx, CreatePayload{Title: "Sourdough", Content: "feed the starter", Tags: []string{"cooking"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, CreatePayload{Title: "Go errors", Content: "wrap with context", Tags: []string{"go"}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := s.Search(ctx, "go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("search hits = %d, want 2", len(found))
	}

	byTag, err := s.ByTag(ctx, "cooking")
	if err != nil {
		t.Fatalf("by tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != cooking.ID {
		t.Fatalf("by tag: %+v", byTag)
	}

	tags, err := s.Tags(ctx)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"cooking", "go"}) {
		t.Fatalf("tags = %v", tags)
	}
}

func TestServiceArchiveExcludesFromQueries(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	note, err := s.Create(ctx, CreatePayload{Title: "Old idea"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Archive(ctx, note.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	live, err := s.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(live) != 0 {
		t.Fatalf("live notes = %d, want 0", len(live))
	}
	all, err := s.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all notes = %d, want 1", len(all))
	}

	if _, err := s.Update(ctx, note.ID, map[string]string{"title": "New idea"}); apperrors.CodeOf(err) != apperrors.CodeNoteArchived {
		t.Fatalf("update archived code = %s", apperrors.CodeOf(err))
	}
	if _, err := s.Tag(ctx, note.ID, []string{"x"}); apperrors.CodeOf(err) != apperrors.CodeNoteArchived {
		t.Fatalf("tag archived code = %s", apperrors.CodeOf(err))
	}
}

func TestServiceTagReplacesSet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	note, err := s.Create(ctx, CreatePayload{Title: "Reading list", Tags: []string{"books", "fiction"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	note, err = s.Tag(ctx, note.ID, []string{"books", "history"})
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if !reflect.DeepEqual(note.Tags, []string{"books", "history"}) {
		t.Fatalf("tags = %v", note.Tags)
	}
}
