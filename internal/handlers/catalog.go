package handlers

import (
	"errors"

	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only reference data: issuers, card
// products and the stores that accept them.
type CatalogHandler struct {
	catalog repositories.CatalogRepository
}

func NewCatalogHandler(catalog repositories.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
	}
}

func (h *CatalogHandler) ListIssuers(c *fiber.Ctx) error {
	issuers, err := h.catalog.ListIssuers()
	if err != nil {
		return utils.InternalError(c, "Failed to list issuers")
	}
	return utils.Success(c, fiber.Map{
		"issuers": issuers,
		"count":   len(issuers),
	})
}

func (h *CatalogHandler) GetIssuer(c *fiber.Ctx) error {
	issuer, err := h.catalog.GetIssuer(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrIssuerNotFound) {
			return utils.NotFound(c, "Issuer not found")
		}
		return utils.InternalError(c, "Failed to get issuer")
	}
	return utils.Success(c, issuer)
}

func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProductsByIssuer(c.Params("id"))
	if err != nil {
		return utils.InternalError(c, "Failed to list products")
	}
	return utils.Success(c, fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return utils.NotFound(c, "Card product not found")
		}
		return utils.InternalError(c, "Failed to get product")
	}
	return utils.Success(c, product)
}

// GetProductStores lists where a card product can be spent.
func (h *CatalogHandler) GetProductStores(c *fiber.Ctx) error {
	links, err := h.catalog.ListStoreLinksForProduct(c.Params("id"))
	if err != nil {
		return utils.InternalError(c, "Failed to list stores")
	}
	return utils.Success(c, fiber.Map{
		"stores": links,
		"count":  len(links),
	})
}
