package establishment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	cards   repositories.CardRepository
	catalog repositories.CatalogRepository
	cache   SearchCache
}

// NewService creates a new establishment service.
func NewService(cards repositories.CardRepository, catalog repositories.CatalogRepository, cache SearchCache) Service {
	if cards == nil {
		panic("card repository is required")
	}
	if catalog == nil {
		panic("catalog repository is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &service{
		cards:   cards,
		catalog: catalog,
		cache:   cache,
	}
}

func (s *service) SearchStoresWithBalance(ctx context.Context, userID uint, query string) ([]StoreMatch, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return []StoreMatch{}, nil
	}

	var cached []StoreMatch
	found, err := s.cache.GetStoreSearch(ctx, userID, query, &cached)
	if err != nil {
		log.Printf("store search cache lookup failed for user %d: %v", userID, err)
	} else if found {
		return cached, nil
	}

	stores, err := s.catalog.SearchStores(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search stores: %w", err)
	}
	if len(stores) == 0 {
		return []StoreMatch{}, nil
	}

	cards, err := s.cards.ListActiveWithBalance(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active cards: %w", err)
	}

	matches := s.aggregate(stores, cards)

	if err := s.cache.CacheStoreSearch(ctx, userID, query, matches); err != nil {
		log.Printf("failed to cache store search for user %d: %v", userID, err)
	}
	return matches, nil
}

// aggregate folds the user's usable cards into per-store totals,
// ordered by spendable amount (highest first, name breaks ties).
func (s *service) aggregate(stores []models.Store, cards []models.GiftCard) []StoreMatch {
	matched := make(map[string]*StoreMatch, len(stores))
	for _, store := range stores {
		matched[store.ID] = &StoreMatch{
			Store:       store,
			TotalAmount: decimal.Zero,
			Cards:       []CardMatch{},
		}
	}

	for i := range cards {
		card := &cards[i]
		for _, link := range card.CardProduct.Stores {
			match, ok := matched[link.StoreID]
			if !ok {
				continue
			}
			match.Cards = append(match.Cards, CardMatch{
				CardID:         card.ID,
				Nickname:       card.Nickname,
				ProductName:    card.CardProduct.Name,
				IssuerID:       card.CardProduct.IssuerID,
				Balance:        card.Balance,
				Currency:       card.Currency,
				AcceptanceType: link.Type,
			})
			match.TotalAmount = match.TotalAmount.Add(card.Balance)
		}
	}

	results := make([]StoreMatch, 0, len(matched))
	for _, match := range matched {
		if len(match.Cards) == 0 {
			continue
		}
		results = append(results, *match)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].TotalAmount.Equal(results[j].TotalAmount) {
			return results[i].TotalAmount.GreaterThan(results[j].TotalAmount)
		}
		// Case-folded so capitalization does not skew the tie-break.
		return strings.ToLower(results[i].Store.Name) < strings.ToLower(results[j].Store.Name)
	})
	return results
}

func (s *service) GetCardsForStore(ctx context.Context, userID uint, storeID string) (*StoreMatch, error) {
	store, err := s.catalog.GetStore(storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoreNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	cards, err := s.cards.ListActiveWithBalance(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active cards: %w", err)
	}

	matches := s.aggregate([]models.Store{*store}, cards)
	if len(matches) == 0 {
		return &StoreMatch{Store: *store, TotalAmount: decimal.Zero, Cards: []CardMatch{}}, nil
	}
	return &matches[0], nil
}

func (s *service) GetStoresForCard(ctx context.Context, userID uint, cardID uuid.UUID) ([]StoreLink, error) {
	card, err := s.cards.GetByIDForUser(cardID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	links, err := s.catalog.ListStoreLinksForProduct(card.CardProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store links: %w", err)
	}

	results := make([]StoreLink, 0, len(links))
	for _, link := range links {
		results = append(results, StoreLink{
			Store:          link.Store,
			AcceptanceType: link.Type,
		})
	}
	return results, nil
}

type noopCache struct{}

func (noopCache) GetStoreSearch(ctx context.Context, userID uint, query string, dest interface{}) (bool, error) {
	return false, nil
}

func (noopCache) CacheStoreSearch(ctx context.Context, userID uint, query string, results interface{}) error {
	return nil
}
