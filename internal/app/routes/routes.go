package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/course-service/internal/app/controllers"
	"github.com/coursehub/course-service/internal/middleware"
)

// SetupRouter configures all application routes. Paths mirror the
// public contract consumed by the enrollment service and frontends.
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)

	courses := router.Group("/courses")
	{
		// Public read routes
		courses.GET("", courseController.GetAllCourses)
		courses.GET("/:id", courseController.GetCourseByID)

		// Admin only routes
		adminProtected := courses.Group("")
		adminProtected.Use(authMiddleware.Authenticate(), authMiddleware.AdminOnly())
		{
			adminProtected.POST("", courseController.CreateCourse)
			adminProtected.PUT("/:id", courseController.UpdateCourse)
		}

		// Called by the enrollment service; trusted without credentials
		courses.PUT("/:id/capacity", courseController.UpdateCapacity)
	}
}
