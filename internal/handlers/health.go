package handlers

import (
	"github.com/Jacobolevy/giftwallet-il/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the API and its backing services.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, cacheService *cache.CacheService) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cacheService,
	}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "connected"
	redisStatus := "connected"

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			redisStatus = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	} else {
		redisStatus = "disabled"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  statusWord(status),
		"version": "1.0.0",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

func statusWord(status int) string {
	if status == fiber.StatusOK {
		return "ok"
	}
	return "degraded"
}
