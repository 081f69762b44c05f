package main

import (
	"log"
	"os"
	"time"

	"recleague/config"
	"recleague/database"
	"recleague/handlers"
	"recleague/handlers/admin"
	"recleague/middleware"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Load league configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("FATAL: failed to load league configuration: ", err)
	}
	log.Printf("🏆 League: %s (%d players per team, %d stat categories)",
		cfg.LeagueName, cfg.NumTeamPlayers, cfg.NumStats())

	// Initialize database
	database.InitDB()
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatal("FATAL: failed to seed database: ", err)
	}

	// Scorecard photo storage, keyed off the DSN so two databases never
	// share a directory
	scorecardDir := config.ScorecardDir(getEnv("STATIC_ROOT", "./static"), database.GetDSN())
	store, err := services.NewScorecardStore(scorecardDir)
	if err != nil {
		log.Fatal("FATAL: failed to create scorecard directory: ", err)
	}
	log.Printf("📷 Scorecard photos: %s", store.Dir())

	// Wire handler services
	handlers.Init(cfg, store)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    8 * 1024 * 1024, // 8MB, scorecard photos
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// Scorecard photos
	app.Static("/scorecards", store.Dir())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/reset-password/request", handlers.RequestPasswordReset)
	authGroup.Post("/reset-password", handlers.ResetPassword)

	// User routes
	api.Get("/users/me", middleware.AuthMiddleware, handlers.GetMe)
	api.Get("/users/:id", handlers.GetUserProfile)
	api.Get("/users/:id/games", handlers.GetUserGames)

	// Team routes
	teamGroup := api.Group("/teams")
	teamGroup.Get("/", handlers.ListTeams)
	teamGroup.Get("/joinable", handlers.JoinableTeams)
	teamGroup.Post("/", middleware.AuthMiddleware, handlers.CreateTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Get("/:id/latest-score", handlers.GetTeamLatestScore)
	teamGroup.Post("/:id/join", middleware.AuthMiddleware, handlers.JoinTeam)
	teamGroup.Post("/leave", middleware.AuthMiddleware, handlers.LeaveTeam)
	teamGroup.Delete("/:id", middleware.AuthMiddleware, handlers.DeleteTeam)

	// Game routes
	gameGroup := api.Group("/games")
	gameGroup.Get("/", handlers.ListGames)
	gameGroup.Post("/", middleware.AuthMiddleware, handlers.SubmitGame)
	gameGroup.Get("/:id", handlers.GetGame)
	gameGroup.Put("/:id", middleware.AuthMiddleware, handlers.UpdateGame)
	gameGroup.Delete("/:id", middleware.AuthMiddleware, handlers.DeleteGame)

	// Leaderboard and standings routes
	api.Get("/leaderboard", handlers.GetLeaderboard)
	api.Get("/standings", handlers.GetStandings)

	// Season routes
	api.Get("/season", handlers.GetCurrentSeason)
	api.Get("/seasons/archived", handlers.ListArchivedSeasons)
	api.Get("/seasons/archived/:id", handlers.GetArchivedSeason)

	// Search
	api.Get("/search", handlers.Search)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware, middleware.RequireAdmin)
	adminGroup.Get("/users", admin.ListUsers)
	adminGroup.Post("/users/:id/ban", admin.SetUserBanned)
	adminGroup.Post("/users/:id/admin", admin.SetUserAdmin)
	adminGroup.Delete("/users/:id", admin.DeleteUser)
	adminGroup.Put("/teams/:id/roster", admin.SetTeamRoster)
	adminGroup.Delete("/teams/:id", admin.DeleteTeam)
	adminGroup.Get("/teams/export", admin.ExportTeamsCSV)
	adminGroup.Get("/games/unverified", admin.ListUnverifiedGames)
	adminGroup.Post("/games/:id/verify", admin.VerifyGame)
	adminGroup.Get("/season/defaults", admin.GetSeasonDefaults)
	adminGroup.Post("/season", admin.CreateSeason)
	adminGroup.Put("/season", admin.UpdateSeason)
	adminGroup.Post("/season/archive", admin.ArchiveSeason)
	adminGroup.Put("/settings/league-password", admin.SetLeaguePassword)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"league":    cfg.LeagueName,
			"timestamp": time.Now().Unix(),
		})
	})

	// Start HTTP server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
