package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	enrollmentService "lms/services/enrollment"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// resolveUserAndCourse loads both sides of the enrollment pair, answering
// not-found before any ledger call
func resolveUserAndCourse(c *fiber.Ctx) (*models.User, *courseModels.Course, error) {
	userID, ok := paramID(c, "id")
	if !ok {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	if !selfOrAdmin(c, userID) {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own enrollments!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return &user, &course, nil
}

// EnrollUser enrolls a user in a course
func EnrollUser(c *fiber.Ctx) error {
	user, course, done := resolveUserAndCourse(c)
	if user == nil {
		return done
	}

	enrollment, err := enrollmentService.Enroll(database.Database.Db, user.ID, course.ID)
	if err == enrollmentService.ErrAlreadyEnrolled {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already enrolled in this course!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error enrolling user!", err)
	}

	// Re-read the counter updated by the ledger
	if err := database.Database.Db.First(course, course.ID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error enrolling user!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User enrolled successfully!", fiber.Map{
		"enrollment": enrollment,
		"course":     course,
	})
}

// UnenrollUser removes a user's enrollment from a course
func UnenrollUser(c *fiber.Ctx) error {
	user, course, done := resolveUserAndCourse(c)
	if user == nil {
		return done
	}

	err := enrollmentService.Unenroll(database.Database.Db, user.ID, course.ID)
	if err == enrollmentService.ErrNotEnrolled {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is not enrolled in this course!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error unenrolling user!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unenrolled successfully!", nil)
}

// GetUserCourses lists a user's enrollments with their courses
func GetUserCourses(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	if !selfOrAdmin(c, userID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view your own enrollments!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Preload("Course").Find(&enrollments).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching user courses!", err)
	}

	return middleware.ListResponse(c, fiber.StatusOK, "User courses fetched successfully!", enrollments, int64(len(enrollments)))
}

// UpdateCourseProgress applies a partial progress/status update to an
// enrollment
func UpdateCourseProgress(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	if !selfOrAdmin(c, userID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own progress!", nil)
	}

	reqData, ok := c.Locals("validatedProgress").(*userValidator.ProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := enrollmentService.UpdateProgress(database.Database.Db, userID, courseID, reqData.Progress, reqData.Status)
	switch err {
	case nil:
	case enrollmentService.ErrNotEnrolled:
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User is not enrolled in this course!", nil)
	case enrollmentService.ErrInvalidProgress:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Progress must be between 0 and 100!", nil)
	case enrollmentService.ErrInvalidStatus:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment status!", nil)
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error updating course progress!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress updated successfully!", enrollment)
}
