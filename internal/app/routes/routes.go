package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/controllers"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Post        *controllers.PostController
	Comment     *controllers.CommentController
	Event       *controllers.EventController
	Emergency   *controllers.EmergencyController
	Achievement *controllers.AchievementController
	Chat        *controllers.ChatController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	health := func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "OK", Message: "Community Help Hub API is running"})
	}
	router.GET("/", health)
	router.GET("/health", health)
	router.GET("/metrics", middleware.MetricsHandler())
	router.NoRoute(middleware.NoRoute())

	api := router.Group("/api")
	requireAuth := authMiddleware.JWTAuth()

	// --- Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", rateLimiter.Middleware("auth"), c.Auth.Register)
		auth.POST("/login", rateLimiter.Middleware("auth"), c.Auth.Login)
		auth.GET("/profile", requireAuth, c.Auth.Profile)
	}

	// --- User routes ---
	users := api.Group("/users")
	{
		users.GET("", c.User.ListUsers)
		// "/me" is registered before "/:id"; gin prefers the static segment
		users.GET("/me", requireAuth, c.User.GetMe)
		users.PUT("/me", requireAuth, c.User.UpdateMe)
		users.GET("/:id", c.User.GetUserByID)
	}

	// --- Post and comment routes ---
	posts := api.Group("/posts")
	{
		posts.GET("", c.Post.ListPosts)
		posts.POST("", requireAuth, c.Post.CreatePost)
		posts.GET("/user/:userId", c.Post.ListUserPosts)
		posts.GET("/:id", c.Post.GetPost)
		posts.PUT("/:id", requireAuth, c.Post.UpdatePost)
		posts.DELETE("/:id", requireAuth, c.Post.DeletePost)

		posts.GET("/:id/comments", c.Comment.ListComments)
		posts.POST("/:id/comments", requireAuth, c.Comment.CreateComment)
		posts.PATCH("/:id/comments/:commentId", requireAuth, c.Comment.ReviewComment)
	}

	// --- Event routes ---
	events := api.Group("/events")
	{
		events.GET("", c.Event.ListEvents)
		events.POST("", requireAuth, c.Event.CreateEvent)
		events.GET("/:id", c.Event.GetEvent)
		events.POST("/:id/join", requireAuth, c.Event.JoinEvent)
	}

	// --- Emergency routes ---
	emergency := api.Group("/emergency")
	{
		emergency.GET("", c.Emergency.ListAlerts)
		emergency.POST("", requireAuth, c.Emergency.CreateAlert)
		emergency.GET("/:id", c.Emergency.GetAlert)
		emergency.POST("/:id/respond", requireAuth, c.Emergency.RespondToAlert)
	}

	// --- Achievement routes ---
	achievements := api.Group("/achievements")
	{
		achievements.GET("", c.Achievement.GetCatalog)
		achievements.GET("/stats", requireAuth, c.Achievement.GetStats)
	}

	// --- Chat routes (all authenticated) ---
	chat := api.Group("/chat")
	{
		// browsers cannot set headers on the websocket handshake
		chat.GET("/rooms/:id/ws", authMiddleware.QueryTokenAuth(), c.Chat.Connect)

		rooms := chat.Group("/rooms", requireAuth)
		rooms.GET("", c.Chat.ListRooms)
		rooms.POST("", c.Chat.CreateRoom)
		rooms.GET("/:id/messages", c.Chat.ListMessages)
		rooms.POST("/:id/messages", c.Chat.SendMessage)
		rooms.POST("/:id/read", c.Chat.MarkRead)
	}
}
