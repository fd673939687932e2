package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/trackers/goal"
)

func (s *Server) handleGoalDefine(c *gin.Context) {
	var payload goal.DefinePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.goals.Define(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (s *Server) handleGoalList(c *gin.Context) {
	goals, err := s.goals.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func (s *Server) handleGoalGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.goals.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoalUpdate(c *gin.Context) {
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
	state, err := s.goals.Update(c.Request.Context(), id, body.Fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoalSetTarget(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.TargetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.goals.SetTarget(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoalSetArea(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.AreaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.goals.SetArea(c.Request.Context(), id, payload.Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoalSetParent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.ParentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.goals.SetParent(c.Request.Context(), id, payload.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoalArchive(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.goals.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleGoalLogProgress(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.ProgressPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.goals.LogProgress(c.Request.Context(), id, payload.Value, payload.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleKeyResultAdd(c *gin.Context) {
	goalID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.KeyResultAddPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	kr, err := s.goals.AddKeyResult(c.Request.Context(), goalID, payload.Title, payload.TargetValue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, kr)
}

func (s *Server) handleKeyResultList(c *gin.Context) {
	goalID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := s.goals.KeyResults(c.Request.Context(), goalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key_results": results})
}

func (s *Server) handleKeyResultUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.KeyResultUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	kr, err := s.goals.UpdateKeyResult(c.Request.Context(), id, payload.CurrentValue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kr)
}

func (s *Server) handleMilestoneAdd(c *gin.Context) {
	goalID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload goal.MilestoneAddPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	ms, err := s.goals.AddMilestone(c.Request.Context(), goalID, payload.Title, payload.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ms)
}

func (s *Server) handleMilestoneList(c *gin.Context) {
	goalID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	milestones, err := s.goals.Milestones(c.Request.Context(), goalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

func (s *Server) handleMilestoneComplete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ms, err := s.goals.CompleteMilestone(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}
