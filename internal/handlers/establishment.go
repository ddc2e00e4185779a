package handlers

import (
	"errors"
	"log"

	"github.com/Jacobolevy/giftwallet-il/internal/services/establishment"
	"github.com/Jacobolevy/giftwallet-il/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EstablishmentHandler struct {
	service establishment.Service
}

func NewEstablishmentHandler(service establishment.Service) *EstablishmentHandler {
	return &EstablishmentHandler{
		service: service,
	}
}

// SearchStores answers "where can I spend my cards": stores matching
// the query where the user holds usable balance, largest total first.
func (h *EstablishmentHandler) SearchStores(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	query := c.Query("q")
	matches, err := h.service.SearchStoresWithBalance(c.Context(), claims.UserID, query)
	if err != nil {
		log.Printf("store search failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Search failed")
	}

	return utils.Success(c, fiber.Map{
		"query":   query,
		"matches": matches,
		"count":   len(matches),
	})
}

// GetCardsForStore lists the user's usable cards at one store.
func (h *EstablishmentHandler) GetCardsForStore(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	match, err := h.service.GetCardsForStore(c.Context(), claims.UserID, c.Params("id"))
	if err != nil {
		if errors.Is(err, establishment.ErrStoreNotFound) {
			return utils.NotFound(c, "Store not found")
		}
		return utils.InternalError(c, "Lookup failed")
	}
	return utils.Success(c, match)
}

// GetStoresForCard lists every store accepting the given card.
func (h *EstablishmentHandler) GetStoresForCard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid card ID")
	}

	stores, err := h.service.GetStoresForCard(c.Context(), claims.UserID, cardID)
	if err != nil {
		if errors.Is(err, establishment.ErrCardNotFound) {
			return utils.NotFound(c, "Card not found")
		}
		return utils.InternalError(c, "Lookup failed")
	}
	return utils.Success(c, fiber.Map{
		"stores": stores,
		"count":  len(stores),
	})
}
