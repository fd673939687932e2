package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/trackers/contact"
)

func (s *Server) handleContactAdd(c *gin.Context) {
	var payload contact.AddPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.contacts.Add(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (s *Server) handleContactList(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		contacts []contact.State
		err      error
	)
	if c.Query("overdue") == "true" {
		contacts, err = s.contacts.Overdue(ctx, time.Now())
	} else {
		contacts, err = s.contacts.List(ctx, c.Query("include_archived") == "true")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (s *Server) handleContactGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.contacts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"contact": state,
		"overdue": state.Overdue(time.Now()),
	})
}

func (s *Server) handleContactUpdate(c *gin.Context) {
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
	state, err := s.contacts.Update(c.Request.Context(), id, body.Fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleContactArchive(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.contacts.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleContactTouch(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload contact.TouchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.contacts.Touch(c.Request.Context(), id, payload.Date, payload.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
