package api

import (
	"alcyxob/sportlink/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Coach     *CoachHandler
	Workout   *WorkoutHandler
	AI        *AIHandler
	Physique  *PhysiqueHandler
	Messaging *MessagingHandler
	Feed      *FeedHandler
	WS        *WSHandler
}

func SetupRoutes(router *gin.Engine, tokens TokenParser, h Handlers) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
		}
	}

	// Websocket upgrades may carry the token as a query parameter.
	apiV1.GET("/ws", QueryTokenAuthMiddleware(tokens), h.WS.Connect)

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(tokens))
	{
		// --- Profile ---
		protected.GET("/me", h.Profile.GetMe)
		protected.PATCH("/me", h.Profile.UpdateMe)
		protected.POST("/me/avatar/upload-url", h.Profile.RequestAvatarUpload)
		protected.GET("/users/:userId", h.Profile.GetUser)
		protected.GET("/coaches", h.Profile.ListCoaches)

		// --- Coach ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/invites", h.Coach.CreateInvite)
			coachGroup.GET("/invites", h.Coach.ListSentInvites)
			coachGroup.GET("/players", h.Coach.ListRoster)
			coachGroup.GET("/players/:playerId/workouts", h.Coach.ListPlayerWorkouts)
			coachGroup.DELETE("/players/:playerId", h.Coach.RemovePlayer)
			coachGroup.POST("/players/:playerId/scouting", h.Coach.ScoutingReport)
		}

		// --- Player ---
		playerGroup := protected.Group("/player")
		playerGroup.Use(RoleMiddleware(domain.RolePlayer))
		{
			playerGroup.GET("/invites", h.Coach.ListMyInvites)
			playerGroup.POST("/invites/:inviteId/accept", h.Coach.AcceptInvite)
		}

		// --- Workouts ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", h.Workout.LogWorkout)
			workoutGroup.GET("", h.Workout.ListWorkouts)
			workoutGroup.GET("/stats", h.Workout.Stats)
			workoutGroup.POST("/video/upload-url", h.Workout.RequestVideoUpload)
			workoutGroup.POST("/video/analyze", h.Workout.AnalyzeVideo)
			workoutGroup.GET("/:workoutId", h.Workout.GetWorkout)
			workoutGroup.PUT("/:workoutId", h.Workout.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", h.Workout.DeleteWorkout)
		}

		// --- AI ---
		aiGroup := protected.Group("/ai")
		{
			aiGroup.POST("/insights", h.AI.WorkoutInsights)
			aiGroup.POST("/workouts/:workoutId/summary", h.AI.SummarizeWorkout)
			aiGroup.POST("/sport-match", h.AI.SportMatch)
			aiGroup.GET("/history", h.AI.History)
		}

		// --- Physique ---
		physiqueGroup := protected.Group("/physique")
		{
			physiqueGroup.POST("/upload-url", h.Physique.RequestUpload)
			physiqueGroup.POST("/analyze", h.Physique.Analyze)
			physiqueGroup.GET("", h.Physique.List)
			physiqueGroup.DELETE("/:analysisId", h.Physique.Delete)
		}

		// --- Messaging ---
		convGroup := protected.Group("/conversations")
		{
			convGroup.POST("", h.Messaging.StartConversation)
			convGroup.GET("", h.Messaging.ListConversations)
			convGroup.GET("/:conversationId/messages", h.Messaging.ListMessages)
			convGroup.POST("/:conversationId/messages", h.Messaging.SendMessage)
		}

		// --- Feed ---
		postGroup := protected.Group("/posts")
		{
			postGroup.POST("/upload-url", h.Feed.RequestImageUpload)
			postGroup.POST("", h.Feed.CreatePost)
			postGroup.GET("", h.Feed.ListPosts)
			postGroup.GET("/:postId", h.Feed.GetPost)
			postGroup.DELETE("/:postId", h.Feed.DeletePost)
			postGroup.POST("/:postId/like", h.Feed.Like)
			postGroup.DELETE("/:postId/like", h.Feed.Unlike)
			postGroup.POST("/:postId/comments", h.Feed.AddComment)
			postGroup.GET("/:postId/comments", h.Feed.ListComments)
		}
	}
}
