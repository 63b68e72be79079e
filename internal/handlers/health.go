package handlers

import (
	"ajo/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports service, database, and cache status.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{
		"status": "ok",
	}

	if repositories.DB != nil {
		sqlDB, err := repositories.DB.DB()
		if err == nil && sqlDB.Ping() == nil {
			status["database"] = "ok"
		} else {
			status["database"] = "unreachable"
			status["status"] = "degraded"
		}
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status["cache"] = "unreachable"
			status["status"] = "degraded"
		} else {
			status["cache"] = "ok"
		}
	}

	return c.JSON(status)
}
