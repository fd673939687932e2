package habit

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/projection"
	"github.com/atlasos/atlas/internal/spine/storage"
)

// Service handles habit commands and queries over the event log.
type Service struct {
	store    storage.EventStore
	registry *event.Registry
	now      func() time.Time
}

// NewService creates a habit service.
func NewService(store storage.EventStore, registry *event.Registry) *Service {
	return &Service{store: store, registry: registry, now: time.Now}
}

// Define creates a new habit and returns its folded state.
func (s *Service) Define(ctx context.Context, payload DefinePayload) (State, error) {
	id, err := s.store.NextEntityID(ctx, EntityType)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(payload)
	return s.execute(ctx, State{}, command.Command{
		Type:        CommandDefine,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Update applies field-level changes to a live habit.
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

// Archive marks a habit archived.
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

// Check records a dated completion. An empty date means today; checking
// the same date twice is rejected.
func (s *Service) Check(ctx context.Context, id int64, date, note string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(CheckPayload{Date: date, Note: note})
	return s.execute(ctx, state, command.Command{
		Type:        CommandCheck,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Uncheck retracts a dated completion.
func (s *Service) Uncheck(ctx context.Context, id int64, date string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(UncheckPayload{Date: date})
	return s.execute(ctx, state, command.Command{
		Type:        CommandUncheck,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Get returns the folded state of one habit.
func (s *Service) Get(ctx context.Context, id int64) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if !state.Created {
		return State{}, apperrors.New(apperrors.CodeHabitNotFound, "habit does not exist")
	}
	return state, nil
}

// List folds every habit, ordered by id. Archived habits are included
// only when includeArchived is set.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]State, error) {
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
		if !state.Created {
			continue
		}
		if !includeArchived && state.Status == StatusArchived {
			continue
		}
		out = append(out, state)
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
