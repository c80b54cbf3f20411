package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LessonRequest is the validated lesson payload. Order is never accepted
// from the client; it is assigned at append time. IsPublished is a pointer
// so an update can distinguish "not supplied" from "unpublish".
type LessonRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Content     string `json:"content" form:"content"`
	Duration    int    `json:"duration" form:"duration"`
	VideoURL    string `json:"video_url" form:"video_url"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Lesson title is required!"
		} else if len(reqData.Title) > 100 {
			errors["title"] = "Lesson title cannot exceed 100 characters!"
		}

		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Lesson description is required!"
		} else if len(reqData.Description) > 1000 {
			errors["description"] = "Description cannot exceed 1000 characters!"
		}

		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Lesson content is required!"
		}

		if reqData.Duration < 1 {
			errors["duration"] = "Duration must be at least 1 minute!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Title) > 100 {
			errors["title"] = "Lesson title cannot exceed 100 characters!"
		}
		if len(reqData.Description) > 1000 {
			errors["description"] = "Description cannot exceed 1000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
