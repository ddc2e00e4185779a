package establishment

import (
	"context"

	"github.com/google/uuid"
)

// Service answers "where can I spend my cards" queries.
type Service interface {
	// SearchStoresWithBalance finds stores matching the query where the
	// user holds active cards with remaining balance. Queries shorter
	// than two characters return no matches.
	SearchStoresWithBalance(ctx context.Context, userID uint, query string) ([]StoreMatch, error)

	// GetCardsForStore lists the user's usable cards at one store.
	GetCardsForStore(ctx context.Context, userID uint, storeID string) (*StoreMatch, error)

	// GetStoresForCard lists every store accepting the given card.
	GetStoresForCard(ctx context.Context, userID uint, cardID uuid.UUID) ([]StoreLink, error)
}

// SearchCache holds per-user store-search results. Implemented by the
// redis cache service; lookups degrade gracefully when it misbehaves.
type SearchCache interface {
	GetStoreSearch(ctx context.Context, userID uint, query string, dest interface{}) (bool, error)
	CacheStoreSearch(ctx context.Context, userID uint, query string, results interface{}) error
}
