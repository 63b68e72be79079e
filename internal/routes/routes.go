// Package routes wires repositories, services, and handlers onto the
// fiber app.
package routes

import (
	"time"

	"ajo/internal/handlers"
	"ajo/internal/middleware"
	"ajo/internal/repositories"
	"ajo/internal/services/balance"
	collectionsvc "ajo/internal/services/collection"
	"ajo/internal/services/fees"
	"ajo/internal/services/ledger"
	"ajo/internal/services/report"
	withdrawalsvc "ajo/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	collectionRepo := repositories.NewCollectionRepository(db)
	contributionRepo := repositories.NewContributionRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)

	schedule := fees.NewSchedule()
	balanceService := balance.NewService(contributionRepo, withdrawalRepo, repositories.CacheService)
	ledgerService := ledger.NewService(contributionRepo, collectionRepo, schedule, balanceService)
	collectionService := collectionsvc.NewService(collectionRepo, contributionRepo, schedule)
	withdrawalService := withdrawalsvc.NewService(withdrawalRepo, collectionRepo, balanceService)
	reportService := report.NewService(collectionRepo, balanceService)

	collectionHandler := handlers.NewCollectionHandler(collectionService)
	contributionHandler := handlers.NewContributionHandler(collectionService, ledgerService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	reportHandler := handlers.NewReportHandler(reportService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public routes: share-link views and checkout.
	public := api.Group("/c")
	public.Get("/:code", collectionHandler.GetByShareCode)
	public.Post("/:code/checkout", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), contributionHandler.BeginCheckout)

	// Gateway and payout callbacks. Rate-limited as a backstop against
	// misbehaving webhook senders.
	hooks := api.Group("/hooks", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	hooks.Post("/payment", contributionHandler.GatewayWebhook)
	hooks.Post("/payout", withdrawalHandler.PayoutCallback)

	// Organizer routes behind JWT auth.
	organizer := api.Group("/organizer", middleware.Auth())
	organizer.Post("/collections", collectionHandler.Create)
	organizer.Get("/collections", collectionHandler.List)
	organizer.Get("/collections/:id", collectionHandler.Get)
	organizer.Delete("/collections/:id", collectionHandler.Retire)
	organizer.Get("/collections/:id/balance", withdrawalHandler.Balance)
	organizer.Post("/withdrawals", withdrawalHandler.Request)
	organizer.Get("/withdrawals", withdrawalHandler.List)
	organizer.Post("/withdrawals/:reference/cancel", withdrawalHandler.Cancel)
	organizer.Get("/report", reportHandler.Get)
}
