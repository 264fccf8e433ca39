package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Journals
			journals := protected.Group("/journals")
			{
				journals.GET("", controllers.GetJournals)
				journals.GET("/:id", controllers.GetJournal)

				// Only editorial staff can manage journals
				journals.POST("", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.CreateJournal)
				journals.PUT("/:id", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.UpdateJournal)
			}

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.POST("", controllers.SubmitManuscript)
				manuscripts.GET("", controllers.GetManuscripts)
				manuscripts.GET("/:id", controllers.GetManuscript)
				manuscripts.GET("/:id/reviews", controllers.GetManuscriptReviews)

				// Transition authority is enforced again inside the workflow
				// engine; the route gate just keeps authors out of the
				// editorial endpoints.
				manuscripts.PUT("/:id/status", controllers.UpdateManuscriptStatus)
				manuscripts.POST("/:id/withdraw", controllers.WithdrawManuscript)

				manuscripts.POST("/:id/reviewers", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.AssignReviewers)
				manuscripts.POST("/:id/publish", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.PublishManuscript)
				manuscripts.POST("/:id/doi", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.GenerateDOI)
			}

			// Reviews
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/my", controllers.GetMyReviews)
				reviews.PUT("/:assignmentId", controllers.UpdateReviewAssignment)
				reviews.POST("/bulk-assign", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.BulkAssignReviewers)
			}

			// Publications
			publications := protected.Group("/publications")
			{
				publications.GET("/ready", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.GetReadyForPublication)
				publications.GET("/metrics", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.GetPublicationMetrics)
			}

			// Dashboard (editorial staff only)
			dashboard := protected.Group("/dashboard")
			dashboard.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				dashboard.GET("/metrics", controllers.GetDashboardMetrics)
				dashboard.GET("/workflow", controllers.GetWorkflowCounts)
				dashboard.GET("/reviewers", controllers.GetReviewerPerformance)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("/my", controllers.GetMyNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
				notifications.GET("/feed", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.GetAdminFeed)
			}
		}
	}
}
