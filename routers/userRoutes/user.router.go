package userRoutes

import (
	userController "lms/controllers/user"
	"lms/middleware"
	"lms/models"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up user management and enrollment routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	// User management
	userGroup.Get("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), userController.GetAllUsers)
	userGroup.Get("/:id", middleware.JWTMiddleware, userController.GetUser)
	userGroup.Put("/:id", middleware.JWTMiddleware, userValidator.UpdateUser(), userController.UpdateUser)
	userGroup.Put("/:id/change-password", middleware.JWTMiddleware, userValidator.ChangePassword(), userController.ChangePassword)
	userGroup.Delete("/:id", middleware.JWTMiddleware, userController.DeactivateUser)
	userGroup.Delete("/:id/permanent", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), userController.DeleteUserPermanent)

	// Enrollment ledger
	userGroup.Post("/:id/enroll/:courseId", middleware.JWTMiddleware, userController.EnrollUser)
	userGroup.Delete("/:id/enroll/:courseId", middleware.JWTMiddleware, userController.UnenrollUser)
	userGroup.Get("/:id/courses", middleware.JWTMiddleware, userController.GetUserCourses)
	userGroup.Put("/:id/courses/:courseId/progress", middleware.JWTMiddleware, userValidator.UpdateProgress(), userController.UpdateCourseProgress)
}
