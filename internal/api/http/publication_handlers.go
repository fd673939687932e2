package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/trackers/publication"
)

func (s *Server) handlePublicationCreate(c *gin.Context) {
	var payload publication.CreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.publications.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (s *Server) handlePublicationList(c *gin.Context) {
	pubs, err := s.publications.List(c.Request.Context(), publication.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publications": pubs})
}

func (s *Server) handlePublicationGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.publications.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handlePublicationUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload publication.UpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.publications.Update(c.Request.Context(), id, payload.Fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handlePublicationSubmit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload publication.SubmitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.publications.Submit(c.Request.Context(), id, payload.Venue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handlePublicationAccept(c *gin.Context) {
	s.handlePublicationDecision(c, s.publications.Accept)
}

func (s *Server) handlePublicationReject(c *gin.Context) {
	s.handlePublicationDecision(c, s.publications.Reject)
}

func (s *Server) handlePublicationDecision(c *gin.Context, decide func(ctx context.Context, id int64, note string) (publication.State, error)) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload publication.DecisionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := decide(c.Request.Context(), id, payload.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handlePublicationPublish(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload publication.PublishPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.publications.Publish(c.Request.Context(), id, payload.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
