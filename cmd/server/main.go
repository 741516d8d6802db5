package main

import (
	"log"

	"github.com/rga610/citizen-reporting-react/internal/broadcast"
	"github.com/rga610/citizen-reporting-react/internal/config"
	"github.com/rga610/citizen-reporting-react/internal/database"
	"github.com/rga610/citizen-reporting-react/internal/handlers"
	"github.com/rga610/citizen-reporting-react/internal/middleware"
	"github.com/rga610/citizen-reporting-react/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg := config.Load()
	if cfg.CookieSecret == "" {
		log.Fatal("COOKIE_SECRET environment variable is required")
	}

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	sessionService := services.NewSessionService(db)
	feedbackService := services.NewFeedbackService(db)
	reportService := services.NewReportService(db, sessionService, feedbackService, cfg.SessionSlot)
	authService := services.NewAuthService(db, sessionService, cfg.CookieSecret, cfg.SessionSlot)
	adminService := services.NewAdminService(db, sessionService)
	exportService := services.NewExportService(db)
	seedService := services.NewSeedService(db, sessionService, cfg.SessionSlot)

	hub := broadcast.NewHub(sessionService, feedbackService, cfg.TickInterval)
	hub.Start()
	defer hub.Stop()

	authHandler := handlers.NewAuthHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService)
	liveHandler := handlers.NewLiveHandler(hub, authService)
	adminHandler := handlers.NewAdminHandler(adminService, exportService, seedService, cfg.SessionSlot)
	devHandler := handlers.NewDevHandler(db, authService, sessionService, cfg.SessionSlot)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
	}))

	r.GET("/ws/slot/:slot", liveHandler.HandleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			preview := "not set"
			if cfg.AdminToken != "" {
				preview = cfg.AdminToken[:min(2, len(cfg.AdminToken))] + "..."
			}
			c.JSON(200, gin.H{
				"ok": true,
				"envCheck": gin.H{
					"adminTokenSet":     cfg.AdminToken != "",
					"adminTokenPreview": preview,
				},
			})
		})

		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/join", authHandler.Join)

		api.POST("/report", middleware.ParticipantAuth(authService), reportHandler.Submit)
		api.GET("/sse/slot/:slot", liveHandler.HandleSSE)

		api.POST("/survey", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(cfg.AdminToken))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/participants", adminHandler.Participants)
			admin.GET("/export/:type", adminHandler.Export)
			admin.POST("/reset-group", adminHandler.ResetGroup)
			admin.POST("/reset-user", adminHandler.ResetUser)
			admin.POST("/set-score", adminHandler.SetScore)
			admin.POST("/logout-user", adminHandler.LogoutUser)
			admin.POST("/seed", adminHandler.Seed)
		}

		if gin.Mode() != gin.ReleaseMode {
			dev := api.Group("/dev")
			dev.GET("/participants", devHandler.ListParticipants)
			dev.POST("/switch-user", devHandler.SwitchUser)
		}
	}

	log.Printf("server starting on :%s (slot %d, tick %s)", cfg.ServerPort, cfg.SessionSlot, cfg.TickInterval)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
