package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/handlers"
	"kyndra/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// This is our main function - the entry point of our application
func main() {
	// Load .env in development; in production the environment is already set
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize Google OAuth
	if err := auth.InitOAuth(); err != nil {
		log.Fatal("Failed to initialize OAuth:", err)
	}

	// Start the session/magic-link cleanup worker
	services.NewCleanupWorker().Start()

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// Allow the web client origin to send the session cookie
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{auth.AppBaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth required)
	router.GET("/auth/login", handlers.LoginHandler)
	router.GET("/auth/callback", handlers.GoogleCallbackHandler)
	router.POST("/auth/magic-link", handlers.RequestMagicLink)
	router.GET("/auth/magic", handlers.VerifyMagicLink)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		// Auth routes that require authentication
		protected.POST("/auth/logout", handlers.Logout)
		protected.GET("/auth/me", handlers.GetCurrentUser)

		// Profile routes
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)
		protected.POST("/profile/avatar", handlers.UploadAvatar)

		// Space routes
		protected.GET("/spaces", handlers.ListSpaces)
		protected.POST("/spaces", handlers.CreateSpace)
		protected.GET("/preference/space", handlers.GetSpacePreference)
		protected.PUT("/preference/space", handlers.SetSpacePreference)

		// Birthday routes
		protected.GET("/people", handlers.ListPeople)
		protected.POST("/people", handlers.CreatePerson)
		protected.PUT("/people/:id", handlers.UpdatePerson)
		protected.DELETE("/people/:id", handlers.DeletePerson)
		protected.POST("/people/backfill-links", handlers.BackfillLinks)
		protected.POST("/people/:id/invite", handlers.InvitePerson)

		// Event routes
		protected.GET("/events", handlers.ListEvents)
		protected.POST("/events", handlers.CreateEvent)
		protected.GET("/events/:id", handlers.GetEvent)
		protected.PUT("/events/:id", handlers.UpdateEvent)
		protected.DELETE("/events/:id", handlers.DeleteEvent)
		protected.GET("/events/:id/reminder", handlers.GetReminder)
		protected.PUT("/events/:id/reminder", handlers.SetReminder)
		protected.DELETE("/events/:id/reminder", handlers.DeleteReminder)

		// Dashboard and feedback
		protected.GET("/home", handlers.Dashboard)
		protected.POST("/feedback", handlers.SendFeedback)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
