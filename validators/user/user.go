package userValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateUserRequest is the validated profile-update payload
type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
	Password  string `json:"password"`
}

// ChangePasswordRequest is the validated password-change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ProgressRequest is the validated progress-update payload. Nil fields were
// not supplied and stay untouched.
type ProgressRequest struct {
	Progress *float64 `json:"progress"`
	Status   *string  `json:"status"`
}

func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Password updates go through the change-password route only
		if reqData.Password != "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Use the change-password route to update password!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.FirstName) > 50 {
			errors["first_name"] = "First name cannot exceed 50 characters!"
		}
		if len(reqData.LastName) > 50 {
			errors["last_name"] = "Last name cannot exceed 50 characters!"
		}
		if len(reqData.Bio) > 500 {
			errors["bio"] = "Bio cannot exceed 500 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserUpdate", reqData)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CurrentPassword == "" {
			errors["current_password"] = "Current password is required!"
		}
		if len(reqData.NewPassword) < 6 {
			errors["new_password"] = "New password must be at least 6 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Progress == nil && reqData.Status == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
