package repositories

import (
	"fmt"

	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListIssuers() ([]models.Issuer, error) {
	var issuers []models.Issuer
	if err := r.db.Order("name ASC").Find(&issuers).Error; err != nil {
		return nil, fmt.Errorf("failed to list issuers: %w", err)
	}
	return issuers, nil
}

func (r *catalogRepository) GetIssuer(id string) (*models.Issuer, error) {
	var issuer models.Issuer
	if err := r.db.First(&issuer, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrIssuerNotFound
		}
		return nil, fmt.Errorf("failed to get issuer: %w", err)
	}
	return &issuer, nil
}

func (r *catalogRepository) ListProductsByIssuer(issuerID string) ([]models.CardProduct, error) {
	var products []models.CardProduct
	err := r.db.
		Preload("Issuer").
		Where("issuer_id = ?", issuerID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) GetProduct(id string) (*models.CardProduct, error) {
	var product models.CardProduct
	err := r.db.
		Preload("Issuer").
		First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *catalogRepository) GetStore(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &store, nil
}

func (r *catalogRepository) SearchStores(query string) ([]models.Store, error) {
	like := "%" + query + "%"
	var stores []models.Store
	err := r.db.
		Where("name ILIKE ? OR name_he ILIKE ? OR category ILIKE ?", like, like, like).
		Order("name ASC").
		Find(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search stores: %w", err)
	}
	return stores, nil
}

func (r *catalogRepository) ListStoreLinksForProduct(productID string) ([]models.CardProductStore, error) {
	var links []models.CardProductStore
	err := r.db.
		Preload("Store").
		Joins("JOIN stores ON stores.id = card_product_stores.store_id").
		Where("card_product_stores.card_product_id = ?", productID).
		Order("stores.name ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list store links: %w", err)
	}
	return links, nil
}

func (r *catalogRepository) UpsertIssuer(issuer *models.Issuer) error {
	return r.upsert(issuer)
}

func (r *catalogRepository) UpsertStore(store *models.Store) error {
	return r.upsert(store)
}

func (r *catalogRepository) UpsertProduct(product *models.CardProduct) error {
	return r.upsert(product)
}

func (r *catalogRepository) UpsertProductStore(link *models.CardProductStore) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_product_id"}, {Name: "store_id"}},
		DoNothing: true,
	}).Create(link).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product store link: %w", err)
	}
	return nil
}

func (r *catalogRepository) upsert(value interface{}) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(value).Error
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}
