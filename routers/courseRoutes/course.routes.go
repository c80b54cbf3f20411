package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course, lesson and material routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	instructorOnly := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)

	// Courses (reads are public)
	courseGroup.Get("/", controllers.GetAllCourses)
	courseGroup.Get("/:id", controllers.GetCourse)
	courseGroup.Post("/", middleware.JWTMiddleware, instructorOnly, courseValidator.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, courseValidator.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, controllers.DeleteCourse)

	// Lessons (reads need enrollment or ownership, writes need ownership)
	courseGroup.Get("/:courseId/lessons", middleware.JWTMiddleware, middleware.RequireEnrollment, controllers.GetLessons)
	courseGroup.Get("/:courseId/lessons/:lessonId", middleware.JWTMiddleware, middleware.RequireEnrollment, controllers.GetLesson)
	courseGroup.Post("/:courseId/lessons", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, courseValidator.CreateLesson(), controllers.CreateLesson)
	courseGroup.Put("/:courseId/lessons/:lessonId", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, courseValidator.UpdateLesson(), controllers.UpdateLesson)
	courseGroup.Delete("/:courseId/lessons/:lessonId", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, controllers.DeleteLesson)

	// Course materials
	courseGroup.Post("/:courseId/materials", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, controllers.UploadMaterial)
	courseGroup.Get("/:courseId/materials/:materialId/download", middleware.JWTMiddleware, middleware.RequireEnrollment, controllers.DownloadMaterial)
	courseGroup.Delete("/:courseId/materials/:materialId", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, controllers.DeleteMaterial)

	// Lesson materials
	courseGroup.Post("/:courseId/lessons/:lessonId/materials", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, controllers.UploadMaterial)
	courseGroup.Get("/:courseId/lessons/:lessonId/materials/:materialId/download", middleware.JWTMiddleware, middleware.RequireEnrollment, controllers.DownloadMaterial)
	courseGroup.Delete("/:courseId/lessons/:lessonId/materials/:materialId", middleware.JWTMiddleware, instructorOnly, middleware.RequireCourseOwner, controllers.DeleteMaterial)
}
