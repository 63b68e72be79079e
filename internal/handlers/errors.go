package handlers

import (
	"errors"
	"log"

	domainerrors "ajo/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// writeDomainError maps a service error onto an HTTP response.
// Balance inconsistencies are logged in full but presented generically
// so the data fault is not exposed to end users.
func writeDomainError(c *fiber.Ctx, err error) error {
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case "COLLECTION_NOT_FOUND", "WITHDRAWAL_NOT_FOUND":
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": domainErr.Message})
		case "BALANCE_INCONSISTENCY":
			log.Printf("balance inconsistency: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unable to process request, please contact support",
			})
		case "INSUFFICIENT_BALANCE":
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": domainErr.Message,
				"code":  domainErr.Code,
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": domainErr.Message,
				"code":  domainErr.Code,
			})
		}
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
