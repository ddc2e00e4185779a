// Package routes defines the API routing configuration.
// It wires handlers to paths and applies authentication and
// permission middleware per route group.
package routes

import (
	"github.com/Jacobolevy/giftwallet-il/internal/handlers"
	"github.com/Jacobolevy/giftwallet-il/internal/jobs"
	"github.com/Jacobolevy/giftwallet-il/internal/middleware"
	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories/cache"
	"github.com/Jacobolevy/giftwallet-il/internal/services/auth"
	"github.com/Jacobolevy/giftwallet-il/internal/services/card"
	"github.com/Jacobolevy/giftwallet-il/internal/services/establishment"
	"github.com/Jacobolevy/giftwallet-il/internal/services/reminder"
	"github.com/Jacobolevy/giftwallet-il/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies carries the constructed services into the router. The
// same instances feed the background sweep, so construction happens in
// main rather than here.
type Dependencies struct {
	DB      *gorm.DB
	Cache   *cache.CacheService
	Catalog repositories.CatalogRepository
	Sweeper *jobs.Sweeper

	Auth           auth.Service
	Users          user.Service
	Cards          card.Service
	Reminders      reminder.Service
	Establishments establishment.Service
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Users)
	cardHandler := handlers.NewCardHandler(deps.Cards)
	reminderHandler := handlers.NewReminderHandler(deps.Reminders)
	establishmentHandler := handlers.NewEstablishmentHandler(deps.Establishments)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)
	adminHandler := handlers.NewAdminHandler(deps.Cache, deps.Sweeper)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the GiftWallet API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	// Catalog is public reference data.
	catalog := api.Group("/catalog")
	catalog.Get("/issuers", catalogHandler.ListIssuers)
	catalog.Get("/issuers/:id", catalogHandler.GetIssuer)
	catalog.Get("/issuers/:id/products", catalogHandler.ListProducts)
	catalog.Get("/products/:id", catalogHandler.GetProduct)
	catalog.Get("/products/:id/stores", catalogHandler.GetProductStores)

	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	// Profile
	profile := protected.Group("/profile")
	profile.Get("/", middleware.HasPermission(models.PermissionProfileRead), userHandler.GetProfile)
	profile.Patch("/", middleware.HasPermission(models.PermissionProfileWrite), userHandler.UpdateProfile)
	profile.Get("/export", middleware.HasPermission(models.PermissionProfileRead), userHandler.ExportData)
	profile.Delete("/", middleware.HasPermission(models.PermissionProfileWrite), userHandler.DeleteAccount)

	// Gift cards
	cards := protected.Group("/cards")
	cards.Post("/", middleware.HasPermission(models.PermissionCardWrite), cardHandler.CreateCard)
	cards.Get("/", middleware.HasPermission(models.PermissionCardRead), cardHandler.ListCards)
	cards.Get("/:id", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetCard)
	cards.Patch("/:id", middleware.HasPermission(models.PermissionCardWrite), cardHandler.UpdateCard)
	cards.Delete("/:id", middleware.HasPermission(models.PermissionCardWrite), cardHandler.DeleteCard)
	cards.Post("/:id/balance", middleware.HasPermission(models.PermissionCardWrite), cardHandler.UpdateBalance)
	cards.Post("/:id/mark-used", middleware.HasPermission(models.PermissionCardWrite), cardHandler.MarkAsUsed)
	cards.Get("/:id/code", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetFullCode)
	cards.Get("/:id/history", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetHistory)
	cards.Get("/:id/stores", middleware.HasPermission(models.PermissionCardRead), establishmentHandler.GetStoresForCard)

	// Store eligibility
	stores := protected.Group("/stores")
	stores.Get("/search", middleware.HasPermission(models.PermissionCardRead), establishmentHandler.SearchStores)
	stores.Get("/:id/cards", middleware.HasPermission(models.PermissionCardRead), establishmentHandler.GetCardsForStore)

	// Reminders
	reminders := protected.Group("/reminders")
	reminders.Get("/", middleware.HasPermission(models.PermissionReminderRead), reminderHandler.ListReminders)
	reminders.Get("/:id", middleware.HasPermission(models.PermissionReminderRead), reminderHandler.GetReminder)
	reminders.Patch("/:id/read", middleware.HasPermission(models.PermissionReminderWrite), reminderHandler.MarkReminderRead)

	// Admin operations
	admin := protected.Group("/admin", middleware.AdminOnly)
	admin.Get("/sweep", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.SweepStatus)
	admin.Post("/sweep", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.TriggerSweep)
	admin.Post("/cache/flush", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.FlushCache)
}
