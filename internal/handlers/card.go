package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/services/card"
	"github.com/Jacobolevy/giftwallet-il/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardService card.Service
}

func NewCardHandler(cardService card.Service) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// CreateCard adds a gift card to the authenticated user's wallet.
func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input card.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.CardProductID == "" {
		return utils.BadRequest(c, "card_product_id is required")
	}

	created, err := h.cardService.Create(c.Context(), claims.UserID, input)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Respond(c, fiber.StatusCreated, created)
}

// ListCards returns the user's cards, filtered and sorted per query.
func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	filter := repositories.CardFilter{
		Status:   c.Query("status"),
		IssuerID: c.Query("issuer"),
		StoreID:  c.Query("store"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
	}
	if v := c.Query("min_balance"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinBalance = &f
		}
	}
	if v := c.Query("max_balance"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxBalance = &f
		}
	}
	if v := c.Query("expired"); v != "" {
		expired := v == "true"
		filter.IsExpired = &expired
	}

	cards, err := h.cardService.List(c.Context(), claims.UserID, filter)
	if err != nil {
		return utils.InternalError(c, "Failed to list cards")
	}
	return utils.Success(c, fiber.Map{
		"cards": cards,
		"count": len(cards),
	})
}

// GetCard returns a single card with its product and issuer.
func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	giftCard, err := h.cardService.GetByID(c.Context(), claims.UserID, cardID)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, giftCard)
}

// UpdateCard edits card metadata and, when the expiry changes,
// reschedules the card's reminders.
func (h *CardHandler) UpdateCard(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	var input card.UpdateCardInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	updated, err := h.cardService.UpdateDetails(c.Context(), claims.UserID, cardID, input)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, updated)
}

// UpdateBalance records a balance change on a card.
func (h *CardHandler) UpdateBalance(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	var input card.UpdateBalanceInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	updated, err := h.cardService.UpdateBalance(c.Context(), claims.UserID, cardID, input)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, updated)
}

// MarkAsUsed zeroes the card balance and retires the card.
func (h *CardHandler) MarkAsUsed(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	updated, err := h.cardService.MarkAsUsed(c.Context(), claims.UserID, cardID)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, updated)
}

// DeleteCard removes a card and everything hanging off it.
func (h *CardHandler) DeleteCard(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	if err := h.cardService.Delete(c.Context(), claims.UserID, cardID); err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message": "Card deleted",
	})
}

// GetFullCode decrypts and returns the stored card code.
func (h *CardHandler) GetFullCode(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	code, err := h.cardService.GetFullCode(c.Context(), claims.UserID, cardID)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"full_code": code,
	})
}

// GetHistory returns the card's balance entries, newest first.
func (h *CardHandler) GetHistory(c *fiber.Ctx) error {
	claims, cardID, err := h.cardParams(c)
	if err != nil {
		return err
	}

	history, err := h.cardService.GetHistory(c.Context(), claims.UserID, cardID)
	if err != nil {
		return h.cardError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"history": history,
	})
}

func (h *CardHandler) cardParams(c *fiber.Ctx) (*models.UserClaims, uuid.UUID, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return nil, uuid.Nil, utils.Unauthorized(c, "Invalid claims")
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, uuid.Nil, utils.BadRequest(c, "Invalid card ID")
	}
	return claims, cardID, nil
}

func (h *CardHandler) cardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, card.ErrCardNotFound):
		return utils.NotFound(c, "Card not found")
	case errors.Is(err, card.ErrProductNotFound):
		return utils.BadRequest(c, "Unknown card product")
	case errors.Is(err, card.ErrInvalidValue), errors.Is(err, card.ErrInvalidInput):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, card.ErrCodeNotAvailable):
		return utils.NotFound(c, "No code stored for this card")
	default:
		log.Printf("card operation failed: %v", err)
		return utils.InternalError(c, "Operation failed")
	}
}
