package projection

import (
	"fmt"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
)

// Anomaly records an event that a fold could not reconcile with its state,
// such as an update for an entity that was never created. Replays collect
// anomalies and keep going; a partial read state beats a failed one.
type Anomaly struct {
	Code       apperrors.Code `json:"code"`
	EventID    int64          `json:"event_id"`
	EventType  event.Type     `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   int64          `json:"entity_id"`
	Reason     string         `json:"reason"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("event %d (%s %s/%d): %s", a.EventID, a.EventType, a.EntityType, a.EntityID, a.Reason)
}

// NewAnomaly builds an anomaly for the given event.
func NewAnomaly(evt event.Event, reason string) Anomaly {
	return Anomaly{
		Code:       apperrors.CodeProjectionInconsistent,
		EventID:    evt.ID,
		EventType:  evt.Type,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Reason:     reason,
	}
}

// AuditHistory flags structural anomalies in one entity's history: facts
// recorded before any of the entity's genesis events. Folds stay best
// effort and still absorb such events; callers decide whether the partial
// state is worth surfacing alongside the anomalies.
func AuditHistory(history []event.Event, genesis ...event.Type) []Anomaly {
	if len(genesis) == 0 {
		return nil
	}
	isGenesis := make(map[event.Type]struct{}, len(genesis))
	for _, g := range genesis {
		isGenesis[g] = struct{}{}
	}

	var anomalies []Anomaly
	created := false
	for _, evt := range history {
		if _, ok := isGenesis[evt.Type]; ok {
			created = true
			continue
		}
		if !created {
			anomalies = append(anomalies, NewAnomaly(evt, "recorded before the entity's creation event"))
		}
	}
	return anomalies
}
