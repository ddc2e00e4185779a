package models

import "time"

// Issuer is the company behind one or more gift card products
// (Buyme, Max, Cibus...). Reference data, seeded via cmd/seed.
type Issuer struct {
	ID         string `gorm:"primaryKey"` // slug, e.g. "buyme"
	Name       string `gorm:"not null"`
	NameHe     string
	WebsiteURL string
	LogoURL    string
	BrandColor string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	CardProducts []CardProduct `gorm:"foreignKey:IssuerID"`
}

// CardProduct is a purchasable gift card variant of an issuer,
// e.g. "Buyme Food". Its store links define where it can be spent.
type CardProduct struct {
	ID             string `gorm:"primaryKey"` // slug, e.g. "buyme-food"
	IssuerID       string `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Description    string
	SourceURL      string
	LastVerifiedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Issuer Issuer             `gorm:"foreignKey:IssuerID"`
	Stores []CardProductStore `gorm:"foreignKey:CardProductID"`
}
