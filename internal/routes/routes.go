package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/handlers"
	"github.com/phibrew/vidstream-backend/internal/middleware"
	"gorm.io/gorm"
)

// Setup mounts all routes. Mutating endpoints go through JWTProtected +
// LoadIdentity; read endpoints without the chain are deliberately public.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	videoHandler *handlers.VideoHandler,
	tweetHandler *handlers.TweetHandler,
	commentHandler *handlers.CommentHandler,
	likeHandler *handlers.LikeHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	playlistHandler *handlers.PlaylistHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Credential endpoints carry a stricter limit: 10 req/min per IP. Mounted
	// per-route so public /users/* reads stay on the general limit.
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/users/register", authLimiter, authHandler.Register)
	api.Post("/users/login", authLimiter, authHandler.Login)
	api.Post("/users/refresh-token", authLimiter, authHandler.Refresh)

	guard := []fiber.Handler{middleware.JWTProtected(cfg), middleware.LoadIdentity(db)}

	api.Post("/users/logout", guard[0], guard[1], authHandler.Logout)
	api.Get("/users/me", guard[0], guard[1], authHandler.Me)
	api.Patch("/users/me", guard[0], guard[1], userHandler.UpdateProfile)
	api.Patch("/users/me/avatar", guard[0], guard[1], userHandler.UpdateAvatar)
	api.Patch("/users/me/cover-image", guard[0], guard[1], userHandler.UpdateCoverImage)

	// Channels
	api.Get("/channels/:username", middleware.OptionalIdentity(db, cfg), subscriptionHandler.ChannelProfile)
	api.Get("/channels/:channelId/subscribers", subscriptionHandler.Subscribers)
	api.Get("/users/:userId/subscriptions", subscriptionHandler.SubscribedChannels)
	api.Post("/subscriptions/toggle/:channelId", guard[0], guard[1], subscriptionHandler.Toggle)

	// Videos
	api.Get("/videos", videoHandler.List)
	api.Get("/videos/:videoId", videoHandler.Get)
	api.Post("/videos", guard[0], guard[1], videoHandler.Publish)
	api.Patch("/videos/:videoId", guard[0], guard[1], videoHandler.Update)
	api.Delete("/videos/:videoId", guard[0], guard[1], videoHandler.Delete)
	api.Patch("/videos/:videoId/toggle-publish", guard[0], guard[1], videoHandler.TogglePublish)

	// Comments
	api.Get("/videos/:videoId/comments", commentHandler.ListByVideo)
	api.Post("/videos/:videoId/comments", guard[0], guard[1], commentHandler.Create)
	api.Patch("/comments/:commentId", guard[0], guard[1], commentHandler.Update)
	api.Delete("/comments/:commentId", guard[0], guard[1], commentHandler.Delete)

	// Tweets
	api.Get("/users/:userId/tweets", tweetHandler.ListByUser)
	api.Post("/tweets", guard[0], guard[1], tweetHandler.Create)
	api.Patch("/tweets/:tweetId", guard[0], guard[1], tweetHandler.Update)
	api.Delete("/tweets/:tweetId", guard[0], guard[1], tweetHandler.Delete)

	// Likes
	api.Post("/likes/toggle/:contentId", guard[0], guard[1], likeHandler.Toggle)
	api.Get("/likes", guard[0], guard[1], likeHandler.ListLiked)

	// Playlists
	api.Get("/playlists/:playlistId", playlistHandler.Get)
	api.Get("/users/:userId/playlists", playlistHandler.ListByUser)
	api.Post("/playlists", guard[0], guard[1], playlistHandler.Create)
	api.Patch("/playlists/:playlistId", guard[0], guard[1], playlistHandler.Update)
	api.Delete("/playlists/:playlistId", guard[0], guard[1], playlistHandler.Delete)
	api.Post("/playlists/:playlistId/videos/:videoId", guard[0], guard[1], playlistHandler.AddVideo)
	api.Delete("/playlists/:playlistId/videos/:videoId", guard[0], guard[1], playlistHandler.RemoveVideo)

	// Dashboard
	api.Get("/dashboard/stats", guard[0], guard[1], dashboardHandler.Stats)
}
