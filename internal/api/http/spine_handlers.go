package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/projection"
	"github.com/atlasos/atlas/internal/spine/storage"
	"github.com/atlasos/atlas/internal/trackers"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

func (s *Server) handleListEvents(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var afterID int64
	if raw := strings.TrimSpace(c.Query("after_id")); raw != "" {
		afterID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || afterID < 0 {
			respondError(c, apperrors.New(apperrors.CodePayloadInvalid, "after_id must be a non-negative integer"))
			return
		}
	}
	limit := defaultPageSize
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, apperrors.New(apperrors.CodePayloadInvalid, "limit must be a positive integer"))
			return
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	events, err := s.store.List(c.Request.Context(), filter, afterID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) handleCountEvents(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := s.store.Count(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// handleExplain returns the raw audit trail for one entity, oldest first.
func (s *Server) handleExplain(c *gin.Context) {
	entityType := strings.TrimSpace(c.Param("entity_type"))
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	history, err := s.store.Explain(c.Request.Context(), entityType, id)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{
		"entity_type": entityType,
		"entity_id":   id,
		"events":      history,
	}
	if anomalies := projection.AuditHistory(history, trackers.GenesisTypes(entityType)...); len(anomalies) > 0 {
		body["anomalies"] = anomalies
	}
	c.JSON(http.StatusOK, body)
}

func filterFromQuery(c *gin.Context) (storage.Filter, error) {
	filter := storage.Filter{
		EntityType: strings.TrimSpace(c.Query("entity_type")),
		EventType:  event.Type(strings.TrimSpace(c.Query("event_type"))),
	}
	if raw := strings.TrimSpace(c.Query("entity_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return storage.Filter{}, apperrors.New(apperrors.CodeEntityIDInvalid, "entity_id must be a positive integer")
		}
		filter.EntityID = id
	}
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return storage.Filter{}, apperrors.New(apperrors.CodePayloadInvalid, "since must be RFC 3339")
		}
		filter.Since = since
	}
	return filter, nil
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.New(apperrors.CodeEntityIDInvalid, "id must be a positive integer")
	}
	return id, nil
}
