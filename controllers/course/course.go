package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// actingUser reads the user stashed by JWTMiddleware
func actingUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok && user != nil
}

// courseFromLocals reads the course resolved by the ownership/enrollment
// middleware
func courseFromLocals(c *fiber.Ctx) (*courseModels.Course, bool) {
	course, ok := c.Locals("course").(*courseModels.Course)
	return course, ok && course != nil
}

// GetAllCourses lists all courses, newest first. Public.
func GetAllCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching courses!", err)
	}

	return middleware.ListResponse(c, fiber.StatusOK, "Courses fetched successfully!", courses, int64(len(courses)))
}

// GetCourse fetches a single course with its lessons and materials. Public.
func GetCourse(c *fiber.Ctx) error {
	var course courseModels.Course
	err := database.Database.Db.Preload("Lessons").Preload("Materials", "lesson_id = 0").
		First(&course, "id = ?", c.Params("id")).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// CreateCourse creates a course owned by the acting instructor
func CreateCourse(c *fiber.Ctx) error {
	user, ok := actingUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Name:         reqData.Name,
		Description:  reqData.Description,
		InstructorID: user.ID,
		Instructor:   user.FullName(),
		Duration:     reqData.Duration,
		Status:       courseModels.StatusActive,
	}
	if reqData.Status != "" {
		course.Status = reqData.Status
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates fields of a course the acting user owns
func UpdateCourse(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Name != "" {
		course.Name = reqData.Name
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Duration > 0 {
		course.Duration = reqData.Duration
	}
	if reqData.Status != "" {
		course.Status = reqData.Status
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error updating course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes a course the acting user owns
func DeleteCourse(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := database.Database.Db.Delete(course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error deleting course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", course)
}
