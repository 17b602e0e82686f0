package router

import (
	"log"
	"net/http"

	"github.com/anonto42/preference/backend/internal/handlers"
	"github.com/anonto42/preference/backend/internal/middleware"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/anonto42/preference/backend/pkg/config"
	"github.com/anonto42/preference/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// authRateLimit is the per-IP request rate allowed on the public sign-in routes.
const authRateLimit = 5

// Deps are the collaborators the routes are wired with. Accounts and Uploader
// may be nil when Firebase is not configured; Pusher may be disabled.
type Deps struct {
	DB        *gorm.DB
	Messages  repositories.MessageRepository
	Accounts  firebase.Accounts
	Uploader  firebase.Uploader
	Publisher realtime.Publisher
	Hub       *realtime.Hub
	Pusher    handlers.Pusher
	Config    *config.Config
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	cfg := deps.Config
	pgdb := deps.DB

	e.GET("/api/v1/health", handlers.HealthCheck(pgdb))

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	collectionRepo := repositories.NewPostgresCollectionRepository(pgdb)
	groupRepo := repositories.NewPostgresGroupRepository(pgdb)
	pollRepo := repositories.NewPostgresPollRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	wordRepo := repositories.NewPostgresSensitiveWordRepository(pgdb)

	presenter := handlers.NewPostPresenter(likeRepo, collectionRepo, wordRepo)
	notifier := handlers.NewNotifier(notificationRepo, deps.Publisher, deps.Pusher)
	chat := handlers.NewChat(deps.Messages, groupRepo, deps.Publisher)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authGroup.Use(eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(rate.Limit(authRateLimit))))
	authHandler := handlers.NewAuthHandler(profileRepo, deps.Accounts, cfg.JWTSecret, cfg.JWTTTL, cfg.InviteEmailDomain)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require a session and an active account) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(middleware.RequireActive(profileRepo,
		http.MethodPost+" /api/v1/auth/change-password",
		http.MethodGet+" /api/v1/me",
	))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	authHandler.RegisterAccountRoutes(api)

	handlers.NewProfileHandler(profileRepo, followRepo, postRepo, commentRepo, presenter).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(followRepo, profileRepo, notifier).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(postRepo, profileRepo, presenter).RegisterFeedRoutes(api)
	handlers.NewPostHandler(postRepo, wordRepo, presenter, notifier, deps.Publisher).RegisterPostRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, wordRepo, presenter, notifier, deps.Publisher).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo, notifier, deps.Publisher).RegisterLikeRoutes(api)
	handlers.NewCollectionHandler(collectionRepo, postRepo, presenter).RegisterCollectionRoutes(api)
	log.Println("Post routes configured.")

	handlers.NewMessageHandler(
		chat, deps.Messages, profileRepo, followRepo, groupRepo, pollRepo,
		notificationRepo, postRepo, commentRepo, cfg.ManagementGroupSlug,
	).RegisterMessageRoutes(api)
	handlers.NewGroupHandler(groupRepo, profileRepo).RegisterGroupRoutes(api)
	handlers.NewPollHandler(chat, pollRepo, groupRepo, deps.Publisher).RegisterPollRoutes(api)
	log.Println("Chat routes configured.")

	handlers.NewNotificationHandler(notificationRepo, profileRepo, deps.Pusher).RegisterNotificationRoutes(api)
	handlers.NewUploadHandler(deps.Uploader).RegisterUploadRoutes(api)
	if deps.Hub != nil {
		handlers.NewRealtimeHandler(deps.Hub).RegisterRealtimeRoutes(api)
	}
	log.Println("Notification, upload and realtime routes configured.")

	// --- Staff routes ---
	admin := api.Group("/admin", middleware.RequireStaff())
	handlers.NewAdminHandler(profileRepo, wordRepo, deps.Accounts, cfg.InviteEmailDomain).RegisterAdminRoutes(admin)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
