// Package http exposes the trackers and the raw event log over a JSON
// API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage"
	"github.com/atlasos/atlas/internal/trackers/contact"
	"github.com/atlasos/atlas/internal/trackers/goal"
	"github.com/atlasos/atlas/internal/trackers/habit"
	"github.com/atlasos/atlas/internal/trackers/note"
	"github.com/atlasos/atlas/internal/trackers/publication"
	"github.com/atlasos/atlas/internal/trackers/task"
)

// Config carries the API surface configuration.
type Config struct {
	// AuthSecret enables JWT bearer auth on /v1 routes when non-empty.
	AuthSecret string
}

// Server routes tracker commands and queries to their services.
type Server struct {
	store        storage.EventStore
	goals        *goal.Service
	tasks        *task.Service
	notes        *note.Service
	habits       *habit.Service
	contacts     *contact.Service
	publications *publication.Service
	router       *gin.Engine
}

// NewServer wires every tracker service over one event store and builds
// the route table.
func NewServer(store storage.EventStore, registry *event.Registry, cfg Config) *Server {
	s := &Server{
		store:        store,
		goals:        goal.NewService(store, registry),
		tasks:        task.NewService(store, registry),
		notes:        note.NewService(store, registry),
		habits:       habit.NewService(store, registry),
		contacts:     contact.NewService(store, registry),
		publications: publication.NewService(store, registry),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), traced())

	router.GET("/healthz", s.handleHealth)

	v1 := router.Group("/v1")
	if cfg.AuthSecret != "" {
		v1.Use(bearerAuth(cfg.AuthSecret))
	}

	v1.GET("/events", s.handleListEvents)
	v1.GET("/events/count", s.handleCountEvents)
	v1.GET("/explain/:entity_type/:id", s.handleExplain)

	goals := v1.Group("/goals")
	{
		goals.POST("", s.handleGoalDefine)
		goals.GET("", s.handleGoalList)
		goals.GET("/:id", s.handleGoalGet)
		goals.PATCH("/:id", s.handleGoalUpdate)
		goals.POST("/:id/target", s.handleGoalSetTarget)
		goals.POST("/:id/area", s.handleGoalSetArea)
		goals.POST("/:id/parent", s.handleGoalSetParent)
		goals.POST("/:id/archive", s.handleGoalArchive)
		goals.POST("/:id/progress", s.handleGoalLogProgress)
		goals.POST("/:id/key-results", s.handleKeyResultAdd)
		goals.GET("/:id/key-results", s.handleKeyResultList)
		goals.POST("/:id/milestones", s.handleMilestoneAdd)
		goals.GET("/:id/milestones", s.handleMilestoneList)
	}
	v1.POST("/key-results/:id", s.handleKeyResultUpdate)
	v1.POST("/milestones/:id/complete", s.handleMilestoneComplete)

	tasks := v1.Group("/tasks")
	{
		tasks.POST("", s.handleTaskCreate)
		tasks.GET("", s.handleTaskList)
		tasks.GET("/:id", s.handleTaskGet)
		tasks.PATCH("/:id", s.handleTaskUpdate)
		tasks.POST("/:id/complete", s.handleTaskComplete)
		tasks.POST("/:id/cancel", s.handleTaskCancel)
		tasks.POST("/:id/time", s.handleTaskLogTime)
	}

	notes := v1.Group("/notes")
	{
		notes.POST("", s.handleNoteCreate)
		notes.GET("", s.handleNoteList)
		notes.GET("/:id", s.handleNoteGet)
		notes.PATCH("/:id", s.handleNoteUpdate)
		notes.POST("/:id/archive", s.handleNoteArchive)
		notes.PUT("/:id/tags", s.handleNoteTag)
	}
	v1.GET("/tags", s.handleTagList)

	habits := v1.Group("/habits")
	{
		habits.POST("", s.handleHabitDefine)
		habits.GET("", s.handleHabitList)
		habits.GET("/:id", s.handleHabitGet)
		habits.PATCH("/:id", s.handleHabitUpdate)
		habits.POST("/:id/archive", s.handleHabitArchive)
		habits.POST("/:id/check", s.handleHabitCheck)
		habits.POST("/:id/uncheck", s.handleHabitUncheck)
	}

	contacts := v1.Group("/contacts")
	{
		contacts.POST("", s.handleContactAdd)
		contacts.GET("", s.handleContactList)
		contacts.GET("/:id", s.handleContactGet)
		contacts.PATCH("/:id", s.handleContactUpdate)
		contacts.POST("/:id/archive", s.handleContactArchive)
		contacts.POST("/:id/touch", s.handleContactTouch)
	}

	pubs := v1.Group("/publications")
	{
		pubs.POST("", s.handlePublicationCreate)
		pubs.GET("", s.handlePublicationList)
		pubs.GET("/:id", s.handlePublicationGet)
		pubs.PATCH("/:id", s.handlePublicationUpdate)
		pubs.POST("/:id/submit", s.handlePublicationSubmit)
		pubs.POST("/:id/accept", s.handlePublicationAccept)
		pubs.POST("/:id/reject", s.handlePublicationReject)
		pubs.POST("/:id/publish", s.handlePublicationPublish)
	}

	s.router = router
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
