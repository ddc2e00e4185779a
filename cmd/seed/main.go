// Package main seeds the catalog reference data: Israeli gift card
// issuers, their card products and the stores that accept them.
// Safe to re-run; every insert is an upsert.
package main

import (
	"log"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/config"
	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect(repositories.DBConfig{
		MaxIdleConns:    2,
		MaxOpenConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	catalog := repositories.NewCatalogRepository(db)

	issuers := []models.Issuer{
		{ID: "buyme", Name: "Buyme", NameHe: "ביימי", WebsiteURL: "https://buyme.co.il/", LogoURL: "https://buyme.co.il/logo.png"},
		{ID: "max", Name: "Max", NameHe: "מקס", WebsiteURL: "https://www.max.co.il/", LogoURL: "https://www.max.co.il/logo.png"},
		{ID: "cibus", Name: "Cibus", NameHe: "סיבוס", WebsiteURL: "https://www.cibus.co.il/"},
		{ID: "cal", Name: "CAL", NameHe: "כאל", WebsiteURL: "https://www.cal.co.il/"},
		{ID: "gomarket", Name: "GoMarket", WebsiteURL: "https://www.gomarket.co.il/"},
		{ID: "superpharm", Name: "Super-Pharm", NameHe: "סופר-פארם", WebsiteURL: "https://www.superpharm.co.il"},
		{ID: "aroma", Name: "Aroma", NameHe: "ארומה", WebsiteURL: "https://www.aroma.co.il"},
	}
	for i := range issuers {
		if err := catalog.UpsertIssuer(&issuers[i]); err != nil {
			log.Fatalf("Failed to seed issuer %s: %v", issuers[i].ID, err)
		}
	}

	stores := []models.Store{
		{ID: "ikea", Name: "IKEA", NameHe: "איקאה", Category: "home", WebsiteURL: "https://www.ikea.co.il"},
		{ID: "fox", Name: "Fox", NameHe: "פוקס", Category: "fashion", WebsiteURL: "https://www.fox.co.il"},
		{ID: "castro", Name: "Castro", NameHe: "קסטרו", Category: "fashion", WebsiteURL: "https://www.castro.co.il"},
		{ID: "shufersal", Name: "Shufersal", NameHe: "שופרסל", Category: "food", WebsiteURL: "https://www.shufersal.co.il"},
		{ID: "superpharm", Name: "Super-Pharm", NameHe: "סופר-פארם", Category: "pharmacy", WebsiteURL: "https://www.superpharm.co.il"},
		{ID: "aroma", Name: "Aroma", NameHe: "ארומה", Category: "food", WebsiteURL: "https://www.aroma.co.il"},
		{ID: "wolt", Name: "Wolt", NameHe: "וולט", Category: "food", WebsiteURL: "https://wolt.com"},
	}
	for i := range stores {
		if err := catalog.UpsertStore(&stores[i]); err != nil {
			log.Fatalf("Failed to seed store %s: %v", stores[i].ID, err)
		}
	}

	now := time.Now()
	products := []models.CardProduct{
		{ID: "buyme-digital", IssuerID: "buyme", Name: "Buyme Digital", Description: "Open digital gift card", SourceURL: "https://buyme.co.il/giftcards"},
		{ID: "buyme-food", IssuerID: "buyme", Name: "Buyme Food", Description: "Restaurant gift card", SourceURL: "https://buyme.co.il/food"},
		{ID: "buyme-fashion", IssuerID: "buyme", Name: "Buyme Fashion", Description: "Fashion gift card", SourceURL: "https://buyme.co.il/fashion"},
		{ID: "max-shopping", IssuerID: "max", Name: "Max Shopping", Description: "Max shopping gift card", SourceURL: "https://www.max.co.il/giftcards"},
		{ID: "cibus-food", IssuerID: "cibus", Name: "Cibus Food", Description: "Supermarkets and restaurants", SourceURL: "https://www.cibus.co.il/giftcards"},
		{ID: "cal-mall", IssuerID: "cal", Name: "CAL Mall", Description: "Shopping mall gift card", SourceURL: "https://www.cal.co.il/giftcards"},
		{ID: "gomarket-shopping", IssuerID: "gomarket", Name: "GoMarket Shopping", Description: "GoMarket gift card", SourceURL: "https://www.gomarket.co.il/giftcards"},
	}
	for i := range products {
		products[i].LastVerifiedAt = &now
		if err := catalog.UpsertProduct(&products[i]); err != nil {
			log.Fatalf("Failed to seed product %s: %v", products[i].ID, err)
		}
	}

	links := []models.CardProductStore{
		{CardProductID: "buyme-digital", StoreID: "ikea", Type: models.AcceptancePhysical},
		{CardProductID: "buyme-digital", StoreID: "fox", Type: models.AcceptanceBoth},
		{CardProductID: "buyme-digital", StoreID: "shufersal", Type: models.AcceptancePhysical},

		{CardProductID: "buyme-food", StoreID: "shufersal", Type: models.AcceptancePhysical},
		{CardProductID: "buyme-food", StoreID: "superpharm", Type: models.AcceptancePhysical},
		{CardProductID: "buyme-food", StoreID: "aroma", Type: models.AcceptanceBoth},
		{CardProductID: "buyme-food", StoreID: "wolt", Type: models.AcceptanceOnline},

		{CardProductID: "buyme-fashion", StoreID: "fox", Type: models.AcceptancePhysical},
		{CardProductID: "buyme-fashion", StoreID: "castro", Type: models.AcceptancePhysical},

		{CardProductID: "max-shopping", StoreID: "fox", Type: models.AcceptancePhysical},
		{CardProductID: "max-shopping", StoreID: "castro", Type: models.AcceptancePhysical},

		{CardProductID: "cibus-food", StoreID: "shufersal", Type: models.AcceptancePhysical},
		{CardProductID: "cibus-food", StoreID: "aroma", Type: models.AcceptanceBoth},

		{CardProductID: "cal-mall", StoreID: "ikea", Type: models.AcceptancePhysical},
		{CardProductID: "cal-mall", StoreID: "shufersal", Type: models.AcceptanceBoth},
	}
	for i := range links {
		if err := catalog.UpsertProductStore(&links[i]); err != nil {
			log.Fatalf("Failed to seed product-store link %s/%s: %v", links[i].CardProductID, links[i].StoreID, err)
		}
	}

	log.Printf("Seeded %d issuers, %d stores, %d products, %d links",
		len(issuers), len(stores), len(products), len(links))
}
