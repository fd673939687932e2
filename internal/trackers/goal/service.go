package goal

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

// Service handles goal commands and queries over the event log.
type Service struct {
	store    storage.EventStore
	registry *event.Registry
	now      func() time.Time
}

// NewService creates a goal service.
func NewService(store storage.EventStore, registry *event.Registry) *Service {
	return &Service{store: store, registry: registry, now: time.Now}
}

// Define creates a new goal and returns its folded state.
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

// SetTarget sets the measurable target for a goal.
func (s *Service) SetTarget(ctx context.Context, id int64, payload TargetPayload) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(payload)
	return s.execute(ctx, state, command.Command{
		Type:        CommandSetTarget,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Update applies field-level changes to a goal.
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

// SetArea assigns a goal to a life area.
func (s *Service) SetArea(ctx context.Context, id int64, area string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(AreaPayload{Area: area})
	return s.execute(ctx, state, command.Command{
		Type:        CommandSetArea,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// SetParent links a goal under a parent goal. The parent must exist and
// not be archived.
func (s *Service) SetParent(ctx context.Context, id, parentID int64) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	parent, err := s.load(ctx, parentID)
	if err != nil {
		return State{}, err
	}
	if !parent.Created || parent.Status == StatusArchived {
		return State{}, apperrors.New(apperrors.CodeGoalParentNotFound, "parent goal does not exist")
	}
	payloadJSON, _ := json.Marshal(ParentPayload{ParentID: parentID})
	return s.execute(ctx, state, command.Command{
		Type:        CommandSetParent,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// Archive marks a goal archived. Archiving twice is rejected.
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

// LogProgress records a progress measurement against a goal.
func (s *Service) LogProgress(ctx context.Context, id int64, value float64, note string) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	payloadJSON, _ := json.Marshal(ProgressPayload{Value: value, Note: note})
	return s.execute(ctx, state, command.Command{
		Type:        CommandLogProgress,
		EntityType:  EntityType,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	})
}

// AddKeyResult creates a key result under an existing goal.
func (s *Service) AddKeyResult(ctx context.Context, goalID int64, title string, targetValue float64) (KeyResult, error) {
	parent, err := s.load(ctx, goalID)
	if err != nil {
		return KeyResult{}, err
	}
	id, err := s.store.NextEntityID(ctx, EntityTypeKeyResult)
	if err != nil {
		return KeyResult{}, err
	}
	payloadJSON, _ := json.Marshal(KeyResultAddPayload{GoalID: goalID, Title: title, TargetValue: targetValue})
	cmd := command.Command{
		Type:        CommandAddKeyResult,
		EntityType:  EntityTypeKeyResult,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	}
	decision := DecideKeyResult(KeyResult{}, parent, cmd, s.now)
	appended, err := s.append(ctx, decision)
	if err != nil {
		return KeyResult{}, err
	}
	kr := KeyResult{}
	for _, evt := range appended {
		kr = FoldKeyResult(kr, evt)
	}
	return kr, nil
}

// UpdateKeyResult moves a key result's current value.
func (s *Service) UpdateKeyResult(ctx context.Context, id int64, currentValue float64) (KeyResult, error) {
	kr, err := s.loadKeyResult(ctx, id)
	if err != nil {
		return KeyResult{}, err
	}
	payloadJSON, _ := json.Marshal(KeyResultUpdatePayload{CurrentValue: currentValue})
	cmd := command.Command{
		Type:        CommandUpdateKeyResult,
		EntityType:  EntityTypeKeyResult,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	}
	decision := DecideKeyResult(kr, State{}, cmd, s.now)
	appended, err := s.append(ctx, decision)
	if err != nil {
		return KeyResult{}, err
	}
	for _, evt := range appended {
		kr = FoldKeyResult(kr, evt)
	}
	return kr, nil
}

// AddMilestone creates a milestone under an existing goal.
func (s *Service) AddMilestone(ctx context.Context, goalID int64, title, dueDate string) (Milestone, error) {
	parent, err := s.load(ctx, goalID)
	if err != nil {
		return Milestone{}, err
	}
	id, err := s.store.NextEntityID(ctx, EntityTypeMilestone)
	if err != nil {
		return Milestone{}, err
	}
	payloadJSON, _ := json.Marshal(MilestoneAddPayload{GoalID: goalID, Title: title, DueDate: dueDate})
	cmd := command.Command{
		Type:        CommandAddMilestone,
		EntityType:  EntityTypeMilestone,
		EntityID:    id,
		PayloadJSON: payloadJSON,
	}
	decision := DecideMilestone(Milestone{}, parent, cmd, s.now)
	appended, err := s.append(ctx, decision)
	if err != nil {
		return Milestone{}, err
	}
	ms := Milestone{}
	for _, evt := range appended {
		ms = FoldMilestone(ms, evt)
	}
	return ms, nil
}

// CompleteMilestone marks a milestone done.
func (s *Service) CompleteMilestone(ctx context.Context, id int64) (Milestone, error) {
	ms, err := s.loadMilestone(ctx, id)
	if err != nil {
		return Milestone{}, err
	}
	cmd := command.Command{
		Type:       CommandCompleteMilestone,
		EntityType: EntityTypeMilestone,
		EntityID:   id,
	}
	decision := DecideMilestone(ms, State{}, cmd, s.now)
	appended, err := s.append(ctx, decision)
	if err != nil {
		return Milestone{}, err
	}
	for _, evt := range appended {
		ms = FoldMilestone(ms, evt)
	}
	return ms, nil
}

// Get returns the folded state of one goal.
func (s *Service) Get(ctx context.Context, id int64) (State, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if !state.Created {
		return State{}, apperrors.New(apperrors.CodeGoalNotFound, "goal does not exist")
	}
	return state, nil
}

// List folds every goal in the log, ordered by id.
func (s *Service) List(ctx context.Context) ([]State, error) {
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
		if state.Created {
			out = append(out, state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// KeyResults folds the key results attached to one goal.
func (s *Service) KeyResults(ctx context.Context, goalID int64) ([]KeyResult, error) {
	results := make(map[int64]KeyResult)
	_, err := projection.Replay(ctx, s.store, projection.ApplierFunc(func(_ context.Context, evt event.Event) error {
		results[evt.EntityID] = FoldKeyResult(results[evt.EntityID], evt)
		return nil
	}), storage.Filter{EntityType: EntityTypeKeyResult})
	if err != nil {
		return nil, err
	}
	out := make([]KeyResult, 0, len(results))
	for _, kr := range results {
		if kr.Created && kr.GoalID == goalID {
			out = append(out, kr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Milestones folds the milestones attached to one goal.
func (s *Service) Milestones(ctx context.Context, goalID int64) ([]Milestone, error) {
	milestones := make(map[int64]Milestone)
	_, err := projection.Replay(ctx, s.store, projection.ApplierFunc(func(_ context.Context, evt event.Event) error {
		milestones[evt.EntityID] = FoldMilestone(milestones[evt.EntityID], evt)
		return nil
	}), storage.Filter{EntityType: EntityTypeMilestone})
	if err != nil {
		return nil, err
	}
	out := make([]Milestone, 0, len(milestones))
	for _, ms := range milestones {
		if ms.Created && ms.GoalID == goalID {
			out = append(out, ms)
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

func (s *Service) loadKeyResult(ctx context.Context, id int64) (KeyResult, error) {
	history, err := s.store.Explain(ctx, EntityTypeKeyResult, id)
	if err != nil {
		return KeyResult{}, err
	}
	kr := KeyResult{}
	for _, evt := range history {
		kr = FoldKeyResult(kr, evt)
	}
	return kr, nil
}

func (s *Service) loadMilestone(ctx context.Context, id int64) (Milestone, error) {
	history, err := s.store.Explain(ctx, EntityTypeMilestone, id)
	if err != nil {
		return Milestone{}, err
	}
	ms := Milestone{}
	for _, evt := range history {
		ms = FoldMilestone(ms, evt)
	}
	return ms, nil
}

func (s *Service) execute(ctx context.Context, state State, cmd command.Command) (State, error) {
	decision := Decide(state, cmd, s.now)
	appended, err := s.append(ctx, decision)
	if err != nil {
		return State{}, err
	}
	for _, evt := range appended {
		state = Fold(state, evt)
	}
	return state, nil
}

func (s *Service) append(ctx context.Context, decision command.Decision) ([]event.Event, error) {
	if err := decision.Err(); err != nil {
		return nil, err
	}
	validated := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		valid, err := s.registry.ValidateForAppend(evt)
		if err != nil {
			return nil, err
		}
		validated = append(validated, valid)
	}
	return s.store.Append(ctx, validated...)
}
