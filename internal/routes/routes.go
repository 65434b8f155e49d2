package routes

import (
	"github.com/gin-gonic/gin"

	"memberhub_backend/internal/handlers"
	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/middleware"
)

// RegisterRoutes wires the whole HTTP surface under /api/v1.
//
//	public:    health, auth
//	protected: any authenticated user (member self-service)
//	admin:     admin role only (member management, notification center,
//	           request review queue, courses, settings, reports)
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")

	// Public
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
	}

	// Authenticated members
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		appHandlers.AuthHandler.RegisterProtectedRoutes(protected)
		appHandlers.UserHandler.RegisterRoutes(protected)
		appHandlers.SubscriptionHandler.RegisterRoutes(protected)
		appHandlers.CourseHandler.RegisterRoutes(protected)
		appHandlers.UploadHandler.RegisterRoutes(protected)
	}

	// Admin only
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		appHandlers.UserHandler.RegisterAdminRoutes(admin)
		appHandlers.NotificationHandler.RegisterAdminRoutes(admin)
		appHandlers.SubscriptionHandler.RegisterAdminRoutes(admin)
		appHandlers.CourseHandler.RegisterAdminRoutes(admin)
		appHandlers.AdminHandler.RegisterAdminRoutes(admin)
	}

	logger.Info("HTTP routes registered", "base_path", "/api/v1")
}
