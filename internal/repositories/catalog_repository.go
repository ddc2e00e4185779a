package repositories

import (
	"github.com/Jacobolevy/giftwallet-il/internal/models"
)

// CatalogRepository reads the issuer/product/store reference data. The
// upsert methods exist for cmd/seed; nothing in the request path
// mutates the catalog.
type CatalogRepository interface {
	ListIssuers() ([]models.Issuer, error)
	GetIssuer(id string) (*models.Issuer, error)
	ListProductsByIssuer(issuerID string) ([]models.CardProduct, error)
	GetProduct(id string) (*models.CardProduct, error)

	GetStore(id string) (*models.Store, error)
	SearchStores(query string) ([]models.Store, error)
	// ListStoreLinksForProduct returns a product's store eligibility
	// list with stores preloaded, ordered by store name.
	ListStoreLinksForProduct(productID string) ([]models.CardProductStore, error)

	UpsertIssuer(issuer *models.Issuer) error
	UpsertStore(store *models.Store) error
	UpsertProduct(product *models.CardProduct) error
	UpsertProductStore(link *models.CardProductStore) error
}
