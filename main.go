package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/controllers"
	"github.com/assistec/assistec-api/middleware"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting AssisTec API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Ticket{},
		&models.Equipment{},
		&models.TicketHistory{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	auth0Service := services.NewAuth0Service(cfg)
	services.InitActorResolver(auth0Service)
	services.InitWorkflowService()

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPhotoService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, equipment photo uploads are disabled")
	}

	// Initialize Gin router
	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the Gin engine with middleware and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://app.assistec.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Internal routes require a valid Auth0 JWT
		authorized := v1.Group("")
		authorized.Use(middleware.EnsureValidToken(cfg))
		{
			authorized.POST("/users", controllers.CreateUser)
			authorized.GET("/users", controllers.ListUsers)
			authorized.GET("/users/me", controllers.GetMyProfile)
			authorized.PUT("/users/me", controllers.UpdateMyProfile)
			authorized.PATCH("/users/:id/active", controllers.SetUserActive)

			authorized.POST("/clients", controllers.CreateClient)
			authorized.GET("/clients", controllers.ListClients)
			authorized.GET("/clients/:id", controllers.GetClient)
			authorized.PUT("/clients/:id", controllers.UpdateClient)
			authorized.DELETE("/clients/:id", controllers.DeleteClient)

			authorized.POST("/equipments", controllers.CreateEquipment)
			authorized.GET("/equipments", controllers.ListEquipment)
			authorized.GET("/equipments/:id", controllers.GetEquipment)
			authorized.PUT("/equipments/:id", controllers.UpdateEquipment)
			authorized.DELETE("/equipments/:id", controllers.DeleteEquipment)
			authorized.PATCH("/equipments/:id/deliver", controllers.DeliverEquipment)
			authorized.POST("/equipments/:id/photo", controllers.UploadEquipmentPhoto)

			authorized.POST("/tickets", controllers.CreateTicket)
			authorized.GET("/tickets", controllers.ListTickets)
			authorized.GET("/tickets/:id", controllers.GetTicket)
			authorized.PUT("/tickets/:id", controllers.UpdateTicket)
			authorized.PATCH("/tickets/:id/status", controllers.ChangeTicketStatus)
			authorized.PATCH("/tickets/:id/assign", controllers.AssignTicket)
			authorized.POST("/tickets/:id/notes", controllers.AddProgressNote)
			authorized.POST("/tickets/:id/billing", controllers.MarkTicketBilled)
			authorized.GET("/tickets/:id/history", controllers.GetTicketHistory)

			authorized.POST("/portal/links", controllers.CreatePortalLink)
		}

		// Client self-service portal, authenticated by portal tokens
		portal := v1.Group("/portal")
		portal.Use(middleware.EnsurePortalToken(cfg))
		{
			portal.GET("/tickets", controllers.PortalListTickets)
			portal.GET("/tickets/:id", controllers.PortalGetTicket)
			portal.GET("/tickets/:id/history", controllers.PortalTicketHistory)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "AssisTec API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
