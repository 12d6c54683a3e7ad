package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/academix/portal/internal/app/controllers"
	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	enrollmentController *controllers.EnrollmentController,
	instructorController *controllers.InstructorController,
	userController *controllers.UserController,
	claimController *controllers.ClaimController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/members", userController.GetMembers)
		authenticated.GET("/users/me", userController.GetCurrentUser)
		authenticated.POST("/claims", claimController.CreateClaim)

		// Instructor-only routes. The token gate catches stale callers
		// early; the services re-check the role against the database.
		instructorProtected := authenticated.Group("")
		instructorProtected.Use(authMiddleware.RoleRequired(string(models.RoleInstructor)))
		{
			instructorProtected.POST("/enrollments/instructor", enrollmentController.EnrollInstructor)
			instructorProtected.POST("/enrollments/student", enrollmentController.EnrollStudent)
			instructorProtected.GET("/instructors/concerns", instructorController.GetConcerns)
			instructorProtected.GET("/assessments", instructorController.ListAssessments)
			instructorProtected.POST("/assessments", instructorController.CreateAssessment)
		}
	}
}
