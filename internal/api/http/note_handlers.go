package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/trackers/note"
)

func (s *Server) handleNoteCreate(c *gin.Context) {
	var payload note.CreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.notes.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// handleNoteList serves plain listing, text search (?q=) and tag filtering
// (?tag=) from one route.
func (s *Server) handleNoteList(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		notes []note.State
		err   error
	)
	switch {
	case c.Query("tag") != "":
		notes, err = s.notes.ByTag(ctx, c.Query("tag"))
	case c.Query("q") != "":
		notes, err = s.notes.Search(ctx, c.Query("q"))
	default:
		notes, err = s.notes.List(ctx, c.Query("include_archived") == "true")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (s *Server) handleNoteGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.notes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleNoteUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.notes.Update(c.Request.Context(), id, body.Fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleNoteArchive(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.notes.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleNoteTag(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload note.TagPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.notes.Tag(c.Request.Context(), id, payload.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleTagList(c *gin.Context) {
	tags, err := s.notes.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
