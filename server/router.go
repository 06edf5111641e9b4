package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"command-center/domain/repository"
	httpHandler "command-center/interfaces/http"
	"command-center/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	githubOAuthHandler httpHandler.IGitHubOAuthHandler,
	githubHandler httpHandler.IGitHubHandler,
	webhookHandler httpHandler.IWebhookHandler,
	notificationHandler httpHandler.INotificationHandler,
	researchNoteHandler httpHandler.IResearchNoteHandler,
	contentHandler httpHandler.IContentHandler,
	agentHandler httpHandler.IAgentHandler,
	dashboardHandler httpHandler.IDashboardHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4201", "http://localhost:4200", "https://localhost:4201", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// OAuth authorization routes; the callback arrives from the browser
	// redirect, outside the authenticated group.
	router.GET("/auth/github", githubOAuthHandler.GetAuthURL)
	router.GET("/auth/github/callback", githubOAuthHandler.Callback)

	// Webhook intake authenticates by signature, not by bearer token.
	router.POST("/webhooks/github", webhookHandler.Receive)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	github := api.Group("/github")
	{
		github.GET("/status", githubOAuthHandler.Status)
		github.DELETE("/connection", githubOAuthHandler.Disconnect)
		github.GET("/repos", githubHandler.ListRepos)
		github.GET("/repos/:owner/:repo/activity", githubHandler.ListActivity)
		github.GET("/repos/:owner/:repo/issues", githubHandler.ListIssues)
		github.POST("/repos/:owner/:repo/issues", githubHandler.CreateIssue)
		github.GET("/repos/:owner/:repo/issues/:number", githubHandler.GetIssue)
		github.GET("/repos/:owner/:repo/milestones", githubHandler.ListMilestones)
		github.POST("/idempotency-key", githubHandler.MintIdempotencyKey)
		github.POST("/suggest-issue", githubHandler.SuggestIssue)
		github.GET("/webhook-events", webhookHandler.ListEvents)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("", notificationHandler.Create)
		notifications.GET("/banners", notificationHandler.Banners)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
		notifications.GET("/preferences", notificationHandler.GetPreferences)
		notifications.PUT("/preferences", notificationHandler.UpdatePreferences)
		notifications.GET("/stream", notificationHandler.Stream)
	}

	notes := api.Group("/research-notes")
	{
		notes.GET("", researchNoteHandler.List)
		notes.POST("", researchNoteHandler.Create)
		notes.GET("/:id", researchNoteHandler.Get)
		notes.PUT("/:id", researchNoteHandler.Update)
		notes.DELETE("/:id", researchNoteHandler.Delete)
		notes.POST("/:id/summarize", researchNoteHandler.Summarize)
	}

	pipeline := api.Group("/content-pipeline")
	{
		pipeline.GET("/ideas", contentHandler.ListIdeas)
		pipeline.POST("/ideas", contentHandler.CreateIdea)
		pipeline.PUT("/ideas/:id", contentHandler.UpdateIdea)
		pipeline.DELETE("/ideas/:id", contentHandler.DeleteIdea)

		pipeline.GET("/drafts", contentHandler.ListDrafts)
		pipeline.POST("/drafts", contentHandler.CreateDraft)
		pipeline.PUT("/drafts/:id", contentHandler.UpdateDraft)
		pipeline.DELETE("/drafts/:id", contentHandler.DeleteDraft)

		pipeline.GET("/scheduled", contentHandler.ListScheduledPosts)
		pipeline.POST("/scheduled", contentHandler.CreateScheduledPost)
		pipeline.DELETE("/scheduled/:id", contentHandler.DeleteScheduledPost)

		pipeline.GET("/assets", contentHandler.ListAssets)
		pipeline.POST("/assets", contentHandler.CreateAsset)
		pipeline.DELETE("/assets/:id", contentHandler.DeleteAsset)

		pipeline.GET("/stats", contentHandler.Stats)
	}

	agents := api.Group("/agent-builder")
	{
		agents.GET("/agents", agentHandler.List)
		agents.POST("/agents", agentHandler.Create)
		agents.GET("/agents/:id", agentHandler.Get)
		agents.PUT("/agents/:id", agentHandler.Update)
		agents.DELETE("/agents/:id", agentHandler.Delete)
		agents.GET("/agents/:id/memory", agentHandler.ListMemory)
		agents.PUT("/agents/:id/memory", agentHandler.UpsertMemory)
		agents.GET("/agents/:id/approval-policy", agentHandler.GetApprovalPolicy)
		agents.PUT("/agents/:id/approval-policy", agentHandler.SetApprovalPolicy)
		agents.POST("/agents/:id/test", agentHandler.RunTest)
		agents.GET("/agents/:id/test-logs", agentHandler.ListTestLogs)
	}

	commandCenter := api.Group("/command-center")
	{
		commandCenter.GET("/dashboard", dashboardHandler.Overview)
		commandCenter.GET("/search", dashboardHandler.Search)
	}

	return router
}
