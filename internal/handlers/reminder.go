package handlers

import (
	"errors"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/services/reminder"
	"github.com/Jacobolevy/giftwallet-il/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReminderHandler struct {
	service reminder.Service
}

func NewReminderHandler(service reminder.Service) *ReminderHandler {
	return &ReminderHandler{
		service: service,
	}
}

// ListReminders returns the user's reminders. ?upcoming=true narrows
// to unsent future ones; ?card=<uuid> narrows to a single card.
func (h *ReminderHandler) ListReminders(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	filter := repositories.ReminderFilter{
		Upcoming: c.QueryBool("upcoming"),
	}
	if v := c.Query("sent"); v != "" {
		sent := v == "true"
		filter.Sent = &sent
	}
	if v := c.Query("card"); v != "" {
		cardID, err := uuid.Parse(v)
		if err != nil {
			return utils.BadRequest(c, "Invalid card ID")
		}
		filter.CardID = &cardID
	}

	reminders, err := h.service.ListByUser(c.Context(), claims.UserID, filter)
	if err != nil {
		return utils.InternalError(c, "Failed to list reminders")
	}
	return utils.Success(c, fiber.Map{
		"reminders": reminders,
		"summary":   reminder.Summarize(reminders, time.Now()),
	})
}

// GetReminder returns a single reminder with its card.
func (h *ReminderHandler) GetReminder(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid reminder ID")
	}

	r, err := h.service.GetByID(c.Context(), claims.UserID, reminderID)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderNotFound) {
			return utils.NotFound(c, "Reminder not found")
		}
		return utils.InternalError(c, "Failed to get reminder")
	}
	return utils.Success(c, r)
}

// MarkReminderRead acknowledges a reminder so the daily sweep no longer
// delivers it.
func (h *ReminderHandler) MarkReminderRead(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid reminder ID")
	}

	r, err := h.service.MarkRead(c.Context(), claims.UserID, reminderID)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderNotFound) {
			return utils.NotFound(c, "Reminder not found")
		}
		return utils.InternalError(c, "Failed to mark reminder as read")
	}
	return utils.Success(c, r)
}
