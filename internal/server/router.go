package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"issue-tracker/internal/config"
	"issue-tracker/internal/handlers"
	"issue-tracker/internal/logger"
	"issue-tracker/internal/middleware"
)

const sessionName = "issuetracker_session"

func NewRouter(cfg *config.Config, h *handlers.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(logger.WithComponent("http")))
	r.Use(middleware.Metrics())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectViewer())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "IssueTracker API (PostgreSQL)"})
	})

	// AUTH
	r.POST("/api/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	// USERS
	r.GET("/users", h.ListUsers)
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)

	// ISSUES
	r.GET("/issues", h.ListIssues)
	r.POST("/issues", h.CreateIssue)
	r.GET("/issues/user/:userId", h.ListIssuesByReporter)
	r.GET("/issues/assigned/:userId", h.ListIssuesByAssignee)
	r.GET("/issues/assigned/username/:username", h.ListIssuesByAssigneeUsername)
	r.PUT("/issues/:id/assign", h.AssignIssue)
	r.PUT("/issues/:id/close", h.CloseIssue)
	r.PUT("/issues/:id/update", h.UpdateIssue)
	r.PATCH("/issues/:id", h.PatchIssue)
	r.GET("/issues/:id/attachment", h.IssueAttachment)

	// CONVERSATIONS
	r.GET("/issues/:id/conversations", h.ListConversations)
	r.POST("/issues/:id/conversations", h.CreateConversation)
	r.GET("/conversations/:convId/attachment", h.ConversationAttachment)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
