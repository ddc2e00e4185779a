package handlers

import (
	"log"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/jobs"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories/cache"
	"github.com/Jacobolevy/giftwallet-il/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes operational endpoints for administrators.
type AdminHandler struct {
	cache   *cache.CacheService
	sweeper *jobs.Sweeper
}

func NewAdminHandler(cache *cache.CacheService, sweeper *jobs.Sweeper) *AdminHandler {
	return &AdminHandler{
		cache:   cache,
		sweeper: sweeper,
	}
}

// FlushCache empties redis. Entries rebuild lazily on the next lookups.
func (h *AdminHandler) FlushCache(c *fiber.Ctx) error {
	if err := h.cache.FlushAll(c.Context()); err != nil {
		log.Printf("cache flush failed: %v", err)
		return utils.InternalError(c, "Failed to flush cache")
	}
	return utils.Success(c, fiber.Map{"message": "Cache flushed"})
}

// TriggerSweep runs one maintenance pass immediately instead of
// waiting for the daily timer.
func (h *AdminHandler) TriggerSweep(c *fiber.Ctx) error {
	if err := h.sweeper.RunDailySweep(c.Context(), time.Now()); err != nil {
		log.Printf("manual sweep failed: %v", err)
		return utils.InternalError(c, "Sweep failed")
	}
	return utils.Success(c, fiber.Map{"message": "Sweep completed"})
}

// SweepStatus reports when the next scheduled sweep fires.
func (h *AdminHandler) SweepStatus(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{
		"next_run": h.sweeper.NextRun(time.Now()),
	})
}
