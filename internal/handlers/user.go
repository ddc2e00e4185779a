package handlers

import (
	"errors"
	"log"

	"github.com/Jacobolevy/giftwallet-il/internal/services/user"
	"github.com/Jacobolevy/giftwallet-il/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile returns the authenticated user's profile and settings.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	profile, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to get profile")
	}
	return utils.Success(c, profile)
}

// UpdateProfile edits name, phone, language and notification settings.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input user.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	profile, err := h.userService.UpdateProfile(claims.UserID, input)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, profile)
}

// DeleteAccount removes the account after a password re-check. Cards,
// history and reminders go with it.
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Password     string `json:"password"`
		Confirmation string `json:"confirmation"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Confirmation != "DELETE MY ACCOUNT" {
		return utils.BadRequest(c, `Confirmation text must be exactly "DELETE MY ACCOUNT"`)
	}

	if err := h.userService.DeleteAccount(claims.UserID, input.Password); err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidPassword):
			return utils.Unauthorized(c, "Invalid password")
		case errors.Is(err, user.ErrUserNotFound):
			return utils.NotFound(c, "User not found")
		default:
			log.Printf("account deletion failed for user %d: %v", claims.UserID, err)
			return utils.InternalError(c, "Failed to delete account")
		}
	}
	return utils.Success(c, fiber.Map{
		"message": "Account deleted",
	})
}

// ExportData returns the user's full data as a downloadable JSON dump.
func (h *UserHandler) ExportData(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	payload, err := h.userService.Export(claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to export data")
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="giftwallet-export.json"`)
	return utils.Success(c, payload)
}
