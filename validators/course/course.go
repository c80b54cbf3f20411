package courseValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CourseRequest is the validated course payload, shared by create and
// update (update treats empty fields as "leave unchanged")
type CourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Status      string `json:"status"`
}

func validStatus(status string) bool {
	return status == courseModels.StatusActive ||
		status == courseModels.StatusInactive ||
		status == courseModels.StatusCompleted
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Course name is required!"
		} else if len(reqData.Name) > 100 {
			errors["name"] = "Course name cannot exceed 100 characters!"
		}

		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Course description is required!"
		} else if len(reqData.Description) > 500 {
			errors["description"] = "Description cannot exceed 500 characters!"
		}

		// Zero means "not supplied"; the database default applies
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if reqData.Status != "" && !validStatus(reqData.Status) {
			errors["status"] = "Status must be active, inactive or completed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Name) > 100 {
			errors["name"] = "Course name cannot exceed 100 characters!"
		}
		if len(reqData.Description) > 500 {
			errors["description"] = "Description cannot exceed 500 characters!"
		}
		if reqData.Status != "" && !validStatus(reqData.Status) {
			errors["status"] = "Status must be active, inactive or completed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}
