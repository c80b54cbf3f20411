package controllers

import (
	"fmt"
	"lms/database"
	"lms/middleware"
	courseService "lms/services/course"
	"lms/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func materialIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.Atoi(c.Params("materialId"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// lessonScope returns the lesson id for lesson-material routes, or 0 for
// course-material routes
func lessonScope(c *fiber.Ctx) (uint, bool) {
	if c.Params("lessonId") == "" {
		return 0, true
	}
	return lessonIDParam(c)
}

// UploadMaterial stores an uploaded file and attaches its descriptor to the
// course, or to one of its lessons. Requires ownership.
func UploadMaterial(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessonID, ok := lessonScope(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	file, err := c.FormFile("material")
	if err != nil || file == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	info, err := utils.Files.Store(file)
	if err == utils.ErrInvalidFileType || err == utils.ErrFileTooLarge {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Error uploading material!", err)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error uploading material!", err)
	}

	material, err := courseService.AttachMaterial(database.Database.Db, course, lessonID, info)
	if err == courseService.ErrLessonNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error uploading material!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material uploaded successfully!", material)
}

// DownloadMaterial streams a material's bytes to an enrolled student or the
// owning instructor (RequireEnrollment).
func DownloadMaterial(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessonID, ok := lessonScope(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	materialID, ok := materialIDParam(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid material ID!", nil)
	}

	material, err := courseService.GetMaterial(database.Database.Db, course, lessonID, materialID)
	if err == courseService.ErrMaterialNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error downloading material!", err)
	}

	stream, err := utils.Files.Open(material.StoredName)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error downloading material!", err)
	}

	c.Set(fiber.HeaderContentType, material.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, material.OriginalName))
	return c.SendStream(stream)
}

// DeleteMaterial removes a material descriptor and best-effort deletes the
// stored file. Requires ownership.
func DeleteMaterial(c *fiber.Ctx) error {
	course, ok := courseFromLocals(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessonID, ok := lessonScope(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	materialID, ok := materialIDParam(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid material ID!", nil)
	}

	err := courseService.RemoveMaterial(database.Database.Db, course, lessonID, materialID, utils.Files)
	if err == courseService.ErrMaterialNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error deleting material!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material deleted successfully!", nil)
}
