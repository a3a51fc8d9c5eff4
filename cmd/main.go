package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/config"
	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/routes"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := broker.InitProducer(cfg.NatsURL); err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("The application will continue, but event publishing is disabled")
	} else {
		defer broker.CloseProducer()
	}

	// Initialize authentication service
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	// Background sweep of stale completed tasks
	cleanupService := services.NewCleanupService(
		db,
		time.Duration(cfg.CleanupIntervalHours)*time.Hour,
		time.Duration(cfg.CompletedRetentionDays)*24*time.Hour,
	)
	cleanupService.Start()
	defer cleanupService.Stop()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Unauthenticated endpoints
	routes.RegisterAuthRoutes(router, db, authService, services.AccountRequestServiceInstance)

	// Everything else requires a valid token
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(authService))

	routes.RegisterSessionRoutes(api, db, authService)
	routes.RegisterTaskRoutes(api, db, services.TaskServiceInstance)
	routes.RegisterCompletionRequestRoutes(api, db, services.CompletionRequestServiceInstance)

	admin := api.Group("")
	admin.Use(middleware.AdminMiddleware())
	routes.RegisterUserRoutes(admin, db, services.UserServiceInstance)
	routes.RegisterAccountRequestRoutes(admin, db, services.AccountRequestServiceInstance)
	routes.RegisterNotificationRoutes(admin, db, services.NotificationServiceInstance)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		cleanupService.Stop()
		broker.CloseProducer()
		db.Close()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
