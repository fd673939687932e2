package note

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/projection"
	"github.com/atlasos/atlas/internal/spine/storage"
)

// Service handles note commands and queries over the event log.
type Service struct {
	store    storage.EventStore
	registry *event.Registry
	now      func() time.Time
}

// NewService creates a note service.
func NewService(store storage.EventStore, registry *event.Registry) *Service {
	return &Service{store: store, registry: registry, now: time.Now}
}

// Create creates a new note and returns its folded state.
func (s *Service) Create(ctx context.Context, payload CreatePayload) (State, error) {
	id, err := s.store.NextEntityID(ctx, EntityType)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(payload)
	return s.execute(ctx, State{}, command.Command{
		Type:        CommandCreate,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Update applies field-level changes to a live note.
func (s *Service) Update(ctx context.Context, id int64, fields map[string]string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(UpdatePayload{Fields: fields})
	return s.execute(ctx, state, command.Command{
		Type:        CommandUpdate,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Archive marks a note archived. Archived notes reject updates and tags.
func (s *Service) Archive(ctx context.Context, id int64) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	return s.execute(ctx, state, command.Command{
		Type:       CommandArchive,
		EntityType: EntityType,
		EntityID:   id,
	})
}

// Tag replaces the full tag set of a note.
func (s *Service) Tag(ctx context.Context, id int64, tags []string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(TagPayload{Tags: tags})
	return s.execute(ctx, state, command.Command{
		Type:        CommandTag,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Get returns the folded state of one note.
func (s *Service) Get(ctx context.Context, id int64) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if !state.Created {
		return State{}, apperrors.New(apperrors.CodeNoteNotFound, "note does not exist")
	}
	return state, nil
}

// List folds every note, ordered by id. Archived notes are included only
// when includeArchived is set.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]State, error) {
	return s.fold(ctx, func(state State) bool {
		return includeArchived || state.Status != StatusArchived
	})
}

// Search returns live notes whose title or content contains the query,
// case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]State, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	return s.fold(ctx, func(state State) bool {
		if state.Status == StatusArchived {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(state.Title), query) ||
			strings.Contains(strings.ToLower(state.Content), query)
	})
}

// ByTag returns live notes carrying the given tag.
func (s *Service) ByTag(ctx context.Context, tag string) ([]State, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return s.fold(ctx, func(state State) bool {
		return state.Status != StatusArchived && state.HasTag(tag)
	})
}

// Tags returns every tag in use across live notes, sorted.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	notes, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, n := range notes {
		for _, tag := range n.Tags {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func (s *Service) fold(ctx context.Context, keep func(State) bool) ([]State, error) {
	states := make(map[int64]State)
	_, err := projection.Replay(ctx, s.store, projection.ApplierFunc(func(_ context.Context, evt event.Event) error {
		states[evt.EntityID] = Fold(states[evt.EntityID], evt)
		return nil
	}), storage.Filter{EntityType: EntityType})
	if err != nil {
		return nil, err
	}
	out := make([]State, 0, len(states))
	for _, state := range states {
		if state.Created && keep(state) {
			out = append(out, state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Service) load(ctx context.Context, id int64) (State, error) {
	history, err := s.store.Explain(ctx, EntityType, id)
	if err != nil {
		return State{}, err
	}
	state := State{}
	for _, evt := range history {
		state = Fold(state, evt)
	}
	return state, nil
}

func (s *Service) execute(ctx context.Context, state State, cmd command.Command) (State, error) {
	decision := Decide(state, cmd, s.now)
	if err := decision.Err(); err != nil {
		return State{}, err
	}
	validated := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		valid, err := s.registry.ValidateForAppend(evt)
		if err != nil {
			return State{}, err
		}
		validated = append(validated, valid)
	}
	appended, err := s.store.Append(ctx, validated...)
	if err != nil {
		return State{}, err
	}
	for _, evt := range appended {
		state = Fold(state, evt)
	}
	return state, nil
}
