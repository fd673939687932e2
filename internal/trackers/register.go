// Package trackers wires every tracker domain's event vocabulary into a
// single registry.
package trackers

import (
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/trackers/contact"
	"github.com/atlasos/atlas/internal/trackers/goal"
	"github.com/atlasos/atlas/internal/trackers/habit"
	"github.com/atlasos/atlas/internal/trackers/note"
	"github.com/atlasos/atlas/internal/trackers/publication"
	"github.com/atlasos/atlas/internal/trackers/task"
)

// NewRegistry returns a registry covering every tracker vocabulary.
func NewRegistry() *event.Registry {
	r := event.NewRegistry()
	r.Register(goal.EntityType, goal.EventTypes()...)
	r.Register(goal.EntityTypeKeyResult, goal.KeyResultEventTypes()...)
	r.Register(goal.EntityTypeMilestone, goal.MilestoneEventTypes()...)
	r.Register(task.EntityType, task.EventTypes()...)
	r.Register(note.EntityType, note.EventTypes()...)
	r.Register(habit.EntityType, habit.EventTypes()...)
	r.Register(contact.EntityType, contact.EventTypes()...)
	r.Register(publication.EntityType, publication.EventTypes()...)
	return r
}

// GenesisTypes returns the events that bring an entity of the given type
// into existence. A history carrying facts before its genesis event folds
// best effort and is flagged as a projection anomaly.
func GenesisTypes(entityType string) []event.Type {
	switch entityType {
	case goal.EntityType:
		return []event.Type{goal.EventDefined}
	case goal.EntityTypeKeyResult:
		return []event.Type{goal.EventKeyResultAdded}
	case goal.EntityTypeMilestone:
		return []event.Type{goal.EventMilestoneAdded}
	case task.EntityType:
		return []event.Type{task.EventCreated}
	case note.EntityType:
		return []event.Type{note.EventCreated}
	case habit.EntityType:
		return []event.Type{habit.EventDefined}
	case contact.EntityType:
		return []event.Type{contact.EventAdded}
	case publication.EntityType:
		return []event.Type{publication.EventCreated}
	}
	return nil
}
