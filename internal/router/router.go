package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-blog/backend/internal/handlers"
	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
	"github.com/anonto42/nano-blog/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDatabase))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	analyticsRepo := repositories.NewLikeAnalyticsRepository(likeRepo)

	// --- Target registry: every registered kind becomes likeable ---
	registry := repositories.NewTargetRegistry()
	registry.Register(models.KindPost, repositories.NewPostTargetResolver(postRepo))
	registry.Register(models.KindComment, repositories.NewCommentTargetResolver(commentRepo))
	log.Printf("Target registry configured for kinds: %v", registry.Kinds())

	// All API routes are public by default; optional auth fills in the caller
	// identity when a token is present, requireAuth guards mutating routes.
	api := e.Group("/api/v1")
	api.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))
	requireAuth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	// Auth routes
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandler.RegisterAuthRoutes(api)
	log.Println("Auth routes configured.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api, requireAuth)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo)
	postHandler.RegisterPostRoutes(api, requireAuth)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, likeRepo)
	commentHandler.RegisterCommentRoutes(api, requireAuth)
	log.Println("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, registry)
	likeHandler.RegisterLikeRoutes(api, requireAuth)
	log.Println("Like routes configured.")

	// Analytics routes
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo)
	analyticsHandler.RegisterAnalyticsRoutes(api)
	log.Println("Analytics routes configured.")

	log.Println("All routes configured.")
}
