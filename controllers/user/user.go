package userController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	userValidator "lms/validators/user"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// paramID parses a numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// selfOrAdmin reports whether the acting user is the target user or an admin
func selfOrAdmin(c *fiber.Ctx, targetID uint) bool {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return false
	}
	return user.ID == targetID || user.Role == models.RoleAdmin
}

// GetAllUsers lists users with pagination and role/active/search filters
func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	db := database.Database.Db.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}
	if isActive := c.Query("isActive"); isActive != "" {
		db = db.Where("is_active = ?", isActive == "true")
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		db = db.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching users!", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(users),
		"total":   total,
		"page":    page,
		"data":    users,
	})
}

// GetUser fetches a single user by id
func GetUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// UpdateUser updates profile fields. Password changes are rejected here and
// must go through the change-password route.
func UpdateUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	if !selfOrAdmin(c, id) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own profile!", nil)
	}

	reqData, ok := c.Locals("validatedUserUpdate").(*userValidator.UpdateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Update only provided fields
	if reqData.FirstName != "" {
		user.FirstName = reqData.FirstName
	}
	if reqData.LastName != "" {
		user.LastName = reqData.LastName
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}
	if reqData.Phone != "" {
		user.Phone = reqData.Phone
	}
	if reqData.Avatar != "" {
		user.Avatar = reqData.Avatar
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error updating user!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", user)
}

// ChangePassword verifies the current password before setting a new one
func ChangePassword(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	if !selfOrAdmin(c, id) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only change your own password!", nil)
	}

	reqData, ok := c.Locals("validatedChangePassword").(*userValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := database.Database.Db.Model(&user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error changing password!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}

// DeactivateUser soft-deletes a user by clearing the active flag
func DeactivateUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	if !selfOrAdmin(c, id) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only deactivate your own account!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := database.Database.Db.Model(&user).UpdateColumn("is_active", false).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error deactivating user!", err)
	}

	user.IsActive = false
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deactivated successfully!", user)
}

// DeleteUserPermanent removes the user record for good
func DeleteUserPermanent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Error deleting user!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User permanently deleted!", nil)
}
