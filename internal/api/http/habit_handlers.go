package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/trackers/habit"
)

func (s *Server) handleHabitDefine(c *gin.Context) {
	var payload habit.DefinePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.habits.Define(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, habitView(state))
}

func (s *Server) handleHabitList(c *gin.Context) {
	habits, err := s.habits.List(c.Request.Context(), c.Query("include_archived") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]gin.H, 0, len(habits))
	for _, h := range habits {
		views = append(views, habitView(h))
	}
	c.JSON(http.StatusOK, gin.H{"habits": views})
}

func (s *Server) handleHabitGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.habits.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view := habitView(state)
	view["check_dates"] = state.CheckDates()
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleHabitUpdate(c *gin.Context) {
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
	state, err := s.habits.Update(c.Request.Context(), id, body.Fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habitView(state))
}

func (s *Server) handleHabitArchive(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := s.habits.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habitView(state))
}

func (s *Server) handleHabitCheck(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload habit.CheckPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.habits.Check(c.Request.Context(), id, payload.Date, payload.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habitView(state))
}

func (s *Server) handleHabitUncheck(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload habit.CheckPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is invalid", err))
		return
	}
	state, err := s.habits.Uncheck(c.Request.Context(), id, payload.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habitView(state))
}

// habitView augments the persisted state with derived streak figures so
// clients never recompute them.
func habitView(state habit.State) gin.H {
	return gin.H{
		"habit":        state,
		"streak":       state.Streak(time.Now()),
		"total_checks": state.TotalChecks(),
	}
}
