package publication

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

// Service handles publication commands and queries over the event log.
type Service struct {
	store    storage.EventStore
	registry *event.Registry
	now      func() time.Time
}

// NewService creates a publication service.
func NewService(store storage.EventStore, registry *event.Registry) *Service {
	return &Service{store: store, registry: registry, now: time.Now}
}

// Create creates a new publication in draft status.
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

// Update applies field-level changes to a publication.
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

// Submit moves a draft or rejected publication to submitted.
func (s *Service) Submit(ctx context.Context, id int64, venue string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(SubmitPayload{Venue: venue})
	return s.execute(ctx, state, command.Command{
		Type:        CommandSubmit,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Accept records a venue acceptance.
func (s *Service) Accept(ctx context.Context, id int64, note string) (State, error) {
	return s.decide(ctx, id, CommandAccept, note)
}

// Reject records a venue rejection.
func (s *Service) Reject(ctx context.Context, id int64, note string) (State, error) {
	return s.decide(ctx, id, CommandReject, note)
}

// Publish moves an accepted publication to published.
func (s *Service) Publish(ctx context.Context, id int64, url string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(PublishPayload{URL: url})
	return s.execute(ctx, state, command.Command{
		Type:        CommandPublish,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Get returns the folded state of one publication.
func (s *Service) Get(ctx context.Context, id int64) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if !state.Created {
		return State{}, apperrors.New(apperrors.CodePublicationNotFound, "publication does not exist")
	}
	return state, nil
}

// List folds every publication, ordered by id. An empty status matches
// everything.
func (s *Service) List(ctx context.Context, status Status) ([]State, error) {
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
		if status != "" && state.Status != status {
			continue
		}
		out = append(out, state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Service) decide(ctx context.Context, id int64, cmdType command.Type, note string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(DecisionPayload{Note: note})
	return s.execute(ctx, state, command.Command{
		Type:        cmdType,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
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
