package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseService "lms/services/course"
	"lms/utils"
	courseValidator "lms/validators/course"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func lessonIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// GetLessons lists a course's lessons in order. Requires enrollment or
// ownership (RequireEnrollment).
func GetLessons(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	err := database.Database.Db.Where("course_id = ?", course.ID).
		Order("lesson_order").Preload("Materials").Find(&lessons).Error
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching lessons!", err)
	}

	return middleware.ListResponse(c, fiber.StatusOK, "Lessons fetched successfully!", lessons, int64(len(lessons)))
}

// GetLesson fetches a single lesson. Requires enrollment or ownership.
func GetLesson(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	lesson, err := courseService.GetLesson(database.Database.Db, course, lessonID)
	if err == courseService.ErrLessonNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching lesson!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

// CreateLesson appends a lesson to a course the acting user owns. An
// optional "material" file in the multipart body is stored and attached to
// the new lesson.
func CreateLesson(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson := courseModels.Lesson{
		Title:       reqData.Title,
		Description: reqData.Description,
		Content:     reqData.Content,
		Duration:    reqData.Duration,
		VideoURL:    reqData.VideoURL,
	}
	if reqData.IsPublished != nil {
		lesson.IsPublished = *reqData.IsPublished
	}

	if err := courseService.AppendLesson(database.Database.Db, course, &lesson); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating lesson!", err)
	}

	// Optional material upload alongside the lesson
	if file, err := c.FormFile("material"); err == nil && file != nil {
		info, err := utils.Files.Store(file)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Error storing lesson material!", err)
		}
		if _, err := courseService.AttachMaterial(database.Database.Db, course, lesson.ID, info); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error attaching lesson material!", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson updates fields of a lesson in a course the acting user owns
func UpdateLesson(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	lesson, err := courseService.GetLesson(database.Database.Db, course, lessonID)
	if err == courseService.ErrLessonNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching lesson!", err)
	}

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields; order is never touched here
	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Description != "" {
		lesson.Description = reqData.Description
	}
	if reqData.Content != "" {
		lesson.Content = reqData.Content
	}
	if reqData.Duration > 0 {
		lesson.Duration = reqData.Duration
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}
	if reqData.IsPublished != nil {
		lesson.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(lesson).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error updating lesson!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson removes a lesson and its materials from a course the acting
// user owns. Remaining lessons keep their order values.
func DeleteLesson(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	err := courseService.RemoveLesson(database.Database.Db, course, lessonID, utils.Files)
	if err == courseService.ErrLessonNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error deleting lesson!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
