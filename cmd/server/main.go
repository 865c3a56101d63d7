package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/storyreel/storyreel-api/internal/config"
	"github.com/storyreel/storyreel-api/internal/database"
	"github.com/storyreel/storyreel-api/internal/handlers"
	"github.com/storyreel/storyreel-api/internal/middleware"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/ratelimit"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Rate-limit store: Redis when configured, otherwise in-process memory.
	var store ratelimit.Store
	if cfg.RedisHost != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisHost + ":" + cfg.RedisPort,
		})
		store = ratelimit.NewRedisStore(client)
	} else {
		memStore := ratelimit.NewMemoryStore()
		memStore.StartSweeper(time.Minute)
		defer memStore.Stop()
		store = memStore
	}
	limiter := ratelimit.New(store, cfg.RateLimitFailClosed)

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	teamspaceRepo := repository.NewTeamspaceRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize services
	sessionService := services.NewSessionService(sessionRepo, cfg.IsProduction())
	authService := services.NewAuthService(userRepo, teamspaceRepo, sessionService, cfg.TenancyMode)
	invitationService := services.NewInvitationService(invitationRepo, teamspaceRepo, userRepo, sessionService, services.LogMailer{})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessionService, limiter, cfg.TrustProxyHeaders)
	teamspaceHandler := handlers.NewTeamspaceHandler(teamspaceRepo)
	invitationHandler := handlers.NewInvitationHandler(invitationService, sessionService)
	projectHandler := handlers.NewProjectHandler()
	videoHandler := handlers.NewVideoHandler()
	documentHandler := handlers.NewDocumentHandler()

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "StoryReel API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RateLimit(limiter, ratelimit.RuleAPI, cfg.TrustProxyHeaders))
	{
		// Auth routes (public; login and registration carry their own
		// per-identity limits inside the handler)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(sessionService), authHandler.Me)
			auth.POST("/change-password", middleware.RequireAuth(sessionService), authHandler.ChangePassword)
		}

		// Invitation acceptance is public; the token is the credential
		api.POST("/invitations/accept", invitationHandler.Accept)

		// Teamspace listing and creation (protected)
		api.GET("/teamspaces", middleware.RequireAuth(sessionService), teamspaceHandler.List)
		if cfg.TenancyMode != config.TenancySingle {
			api.POST("/teamspaces", middleware.RequireAuth(sessionService), teamspaceHandler.Create)
		}

		// Tenant routes: multi-tenant deployments address a teamspace by
		// slug, single-tenant ones route to the sole teamspace.
		var tenant *gin.RouterGroup
		if cfg.TenancyMode == config.TenancySingle {
			tenant = api.Group("/teamspace")
		} else {
			tenant = api.Group("/teamspaces/:teamspace")
		}
		tenant.Use(middleware.RequireAuth(sessionService))
		tenant.Use(middleware.ResolveTeamspace(teamspaceRepo, cfg.TenancyMode))
		{
			tenant.GET("", teamspaceHandler.Get)
			tenant.GET("/audit-log", middleware.RequireTeamspaceRole(models.TeamspaceRoleAdmin), teamspaceHandler.AuditLog)
			tenant.POST("/invitations", middleware.RequireTeamspaceRole(models.TeamspaceRoleOwner), invitationHandler.Create)

			tenant.GET("/projects", projectHandler.List)
			tenant.POST("/projects", middleware.RequireTeamspaceRole(models.TeamspaceRoleAdmin), projectHandler.Create)

			// Project routes (protected by effective-role resolution)
			project := tenant.Group("/projects/:project")
			project.Use(middleware.ResolveProject())
			{
				project.GET("", projectHandler.Get)
				project.PUT("/members/:user_id", middleware.RequireTeamspaceRole(models.TeamspaceRoleAdmin), projectHandler.SetMember)
				project.DELETE("/members/:user_id", middleware.RequireTeamspaceRole(models.TeamspaceRoleAdmin), projectHandler.RemoveMember)

				project.GET("/videos", videoHandler.List)
				project.POST("/videos", middleware.RequireProjectRole(models.ProjectRoleEditor), videoHandler.Create)
				project.GET("/videos/:id", videoHandler.Get)
				project.PATCH("/videos/:id", middleware.RequireProjectRole(models.ProjectRoleEditor), videoHandler.Update)
				project.DELETE("/videos/:id", middleware.RequireProjectRole(models.ProjectRoleEditor), videoHandler.Delete)
				project.GET("/videos/:id/documents", documentHandler.ListByVideo)

				project.GET("/categories", videoHandler.ListCategories)
				project.POST("/categories", middleware.RequireProjectRole(models.ProjectRoleEditor), videoHandler.CreateCategory)
				project.DELETE("/categories/:id", middleware.RequireProjectRole(models.ProjectRoleEditor), videoHandler.DeleteCategory)

				project.POST("/documents", middleware.RequireProjectRole(models.ProjectRoleEditor), documentHandler.Create)
				project.GET("/documents/:id", documentHandler.Get)
				project.PUT("/documents/:id", middleware.RequireProjectRole(models.ProjectRoleEditor), documentHandler.Update)
				project.DELETE("/documents/:id", middleware.RequireProjectRole(models.ProjectRoleEditor), documentHandler.Delete)
				project.GET("/documents/:id/revisions", documentHandler.ListRevisions)
				project.POST("/documents/:id/revisions/:revision_id/restore", middleware.RequireProjectRole(models.ProjectRoleEditor), documentHandler.Restore)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
