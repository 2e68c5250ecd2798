package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/config"
	apierrors "github.com/yukikurage/project-board/internal/errors"
	"github.com/yukikurage/project-board/internal/handlers"
	"github.com/yukikurage/project-board/internal/middleware"
	"github.com/yukikurage/project-board/internal/repository"
	"github.com/yukikurage/project-board/internal/services"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	groupRepo := repository.NewTaskGroupRepository(db)

	// Initialize services
	activities := services.NewActivityRecorder(repository.NewActivityRepository(db), logger)
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.TokenTTL)
	orgService := services.NewOrganizationService(orgRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, groupRepo, userRepo, activities)
	groupService := services.NewTaskGroupService(groupRepo, activities)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService, projectService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	groupHandler := handlers.NewTaskGroupHandler(groupService)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Error("health check failed", "error", err)
			apierrors.ServiceUnavailable(c, "Database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Board API is running",
		})
	})

	requireAuth := middleware.RequireAuth(authService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(requireAuth)
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
			orgs.GET("/:id/projects", middleware.RequireOrganizationAccess(orgService), orgHandler.ListProjects)
			orgs.POST("/:id/projects", middleware.RequireOrganizationAccess(orgService), orgHandler.CreateProject)
		}

		// Project routes (protected)
		projects := api.Group("/projects/:id")
		projects.Use(requireAuth, middleware.RequireProjectAccess())
		{
			projects.GET("", projectHandler.GetProject)
			projects.PATCH("", projectHandler.UpdateProject)
			projects.POST("/members", projectHandler.AddMember)

			projects.POST("/tasks", taskHandler.CreateTask)
			projects.PATCH("/tasks/reorder", taskHandler.ReorderTasks)
			projects.PATCH("/tasks/:taskId", taskHandler.UpdateTask)
			projects.DELETE("/tasks/:taskId", taskHandler.DeleteTask)

			projects.POST("/task-groups", groupHandler.CreateTaskGroup)
			projects.PATCH("/task-groups/:groupId", groupHandler.UpdateTaskGroup)
			projects.DELETE("/task-groups/:groupId", groupHandler.DeleteTaskGroup)
		}
	}

	return r
}
