// Package projection replays the event log through pure folds to rebuild
// read state. Projections never write back to the log.
package projection

import (
	"context"
	"fmt"

	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage"
)

const replayPageSize = 200

// Applier consumes events in log order.
type Applier interface {
	Apply(ctx context.Context, evt event.Event) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, evt event.Event) error

// Apply implements Applier.
func (f ApplierFunc) Apply(ctx context.Context, evt event.Event) error {
	return f(ctx, evt)
}

// ReplayOptions configures event replay behavior.
type ReplayOptions struct {
	AfterID int64
	UntilID int64
	Filter  func(event.Event) bool
}

// Replay pages through every event matching the storage filter and applies
// them in id order. It returns the id of the last event visited, which can
// seed an incremental catch-up replay.
func Replay(ctx context.Context, eventStore storage.EventStore, applier Applier, filter storage.Filter) (int64, error) {
	return ReplayWith(ctx, eventStore, applier, filter, ReplayOptions{})
}

// ReplayWith replays events with additional filtering and bounds.
func ReplayWith(ctx context.Context, eventStore storage.EventStore, applier Applier, filter storage.Filter, options ReplayOptions) (int64, error) {
	if eventStore == nil {
		return 0, fmt.Errorf("event store is not configured")
	}
	if applier == nil {
		return 0, fmt.Errorf("applier is required")
	}

	lastID := options.AfterID
	for {
		events, err := eventStore.List(ctx, filter, lastID, replayPageSize)
		if err != nil {
			return lastID, err
		}
		if len(events) == 0 {
			return lastID, nil
		}
		for _, evt := range events {
			if options.UntilID > 0 && evt.ID > options.UntilID {
				return lastID, nil
			}
			lastID = evt.ID
			if options.Filter != nil && !options.Filter(evt) {
				continue
			}
			if err := applier.Apply(ctx, evt); err != nil {
				return lastID, err
			}
		}
	}
}
