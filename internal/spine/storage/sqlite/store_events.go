package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage"
)

// Append persists the events atomically. Each event receives the next log
// id from the AUTOINCREMENT column; missing timestamps default to now.
func (s *Store) Append(ctx context.Context, events ...event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, apperrors.New(apperrors.CodePersistenceFailed, "storage is not configured")
	}
	if len(events) == 0 {
		return nil, nil
	}

	ctx, span := otel.Tracer("atlas-eventstore").Start(ctx, "events.append",
		trace.WithAttributes(attribute.Int("events.count", len(events))))
	defer span.End()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistenceFailed, "begin append transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	appended := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = evt.Timestamp.UTC()
		}
		if len(evt.Payload) == 0 {
			evt.Payload = []byte(`{}`)
		}
		result, err := tx.ExecContext(
			ctx,
			`INSERT INTO events (event_type, entity_type, entity_id, payload, timestamp)
			 VALUES (?, ?, ?, ?, ?)`,
			string(evt.Type),
			evt.EntityType,
			evt.EntityID,
			string(evt.Payload),
			toMillis(evt.Timestamp),
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodePersistenceFailed, "insert event", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodePersistenceFailed, "read event id", err)
		}
		evt.ID = id
		appended = append(appended, evt)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistenceFailed, "commit append transaction", err)
	}
	return appended, nil
}

// List returns up to limit events matching the filter with id greater than
// afterID, ordered by id.
func (s *Store) List(ctx context.Context, filter storage.Filter, afterID int64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, apperrors.New(apperrors.CodeQueryFailed, "storage is not configured")
	}

	where, args := filterClauses(filter)
	if afterID > 0 {
		where = append(where, "id > ?")
		args = append(args, afterID)
	}
	query := `SELECT id, event_type, entity_type, entity_id, payload, timestamp FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "list events", err)
	}
	defer rows.Close()

	events := make([]event.Event, 0)
	for rows.Next() {
		var evt event.Event
		var eventType string
		var payload string
		var timestamp int64
		if err := rows.Scan(&evt.ID, &eventType, &evt.EntityType, &evt.EntityID, &payload, &timestamp); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "scan event", err)
		}
		evt.Type = event.Type(eventType)
		evt.Payload = []byte(payload)
		evt.Timestamp = fromMillis(timestamp)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "list events", err)
	}
	return events, nil
}

// Explain returns the full history of one entity in id order.
func (s *Store) Explain(ctx context.Context, entityType string, entityID int64) ([]event.Event, error) {
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return nil, apperrors.New(apperrors.CodeEntityTypeUnknown, "entity type is required")
	}
	if entityID <= 0 {
		return nil, apperrors.New(apperrors.CodeEntityIDInvalid, fmt.Sprintf("entity id must be positive, got %d", entityID))
	}
	return s.List(ctx, storage.Filter{EntityType: entityType, EntityID: entityID}, 0, 0)
}

// Count returns the number of events matching the filter.
func (s *Store) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, apperrors.New(apperrors.CodeQueryFailed, "storage is not configured")
	}

	where, args := filterClauses(filter)
	query := `SELECT COUNT(*) FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeQueryFailed, "count events", err)
	}
	return count, nil
}

// NextEntityID allocates the next entity id for a type by scanning the log.
// Ids are derived, never stored, so replaying the log reproduces them.
func (s *Store) NextEntityID(ctx context.Context, entityType string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, apperrors.New(apperrors.CodeQueryFailed, "storage is not configured")
	}
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return 0, apperrors.New(apperrors.CodeEntityTypeUnknown, "entity type is required")
	}

	var max int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(entity_id), 0) FROM events WHERE entity_type = ?`,
		entityType,
	).Scan(&max)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeQueryFailed, "next entity id", err)
	}
	return max + 1, nil
}

func filterClauses(filter storage.Filter) ([]string, []any) {
	var where []string
	var args []any
	if entityType := strings.TrimSpace(filter.EntityType); entityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, entityType)
	}
	if filter.EntityID > 0 {
		where = append(where, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if eventType := strings.TrimSpace(string(filter.EventType)); eventType != "" {
		where = append(where, "event_type = ?")
		args = append(args, eventType)
	}
	if !filter.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, toMillis(filter.Since))
	}
	return where, args
}
