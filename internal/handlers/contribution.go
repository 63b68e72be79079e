package handlers

import (
	collectionsvc "ajo/internal/services/collection"
	"ajo/internal/services/ledger"
	"ajo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ContributionHandler struct {
	collections collectionsvc.Service
	ledger      ledger.Service
}

func NewContributionHandler(collections collectionsvc.Service, ledgerSvc ledger.Service) *ContributionHandler {
	return &ContributionHandler{
		collections: collections,
		ledger:      ledgerSvc,
	}
}

// BeginCheckout creates a pending contribution and returns the amount
// the gateway should collect.
func (h *ContributionHandler) BeginCheckout(c *fiber.Ctx) error {
	var input collectionsvc.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	contribution, err := h.collections.BeginCheckout(c.Context(), c.Params("code"), input)
	if err != nil {
		return writeDomainError(c, err)
	}

	return response.Created(c, "Checkout started", fiber.Map{
		"reference":        contribution.GatewayReference,
		"amount":           contribution.ChargedAmount,
		"participant_code": contribution.ParticipantCode,
	})
}

// GatewayWebhook ingests payment events from the gateway. Delivery is
// at-least-once; replays of a settled reference are acknowledged
// without effect.
func (h *ContributionHandler) GatewayWebhook(c *fiber.Ctx) error {
	var payload struct {
		Event string                      `json:"event"`
		Data  ledger.VerifiedPaymentEvent `json:"data"`
		// Reason accompanies failed verifications.
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid webhook payload")
	}

	switch payload.Event {
	case "charge.success":
		entries, err := h.ledger.RecordVerifiedPayment(c.Context(), payload.Data)
		if err != nil {
			return writeDomainError(c, err)
		}
		return response.Success(c, "Payment recorded", fiber.Map{
			"reference":     payload.Data.Reference,
			"contributions": len(entries),
		})
	case "charge.failed":
		if err := h.ledger.MarkFailed(c.Context(), payload.Data.Reference, payload.Reason); err != nil {
			return writeDomainError(c, err)
		}
		return response.Success(c, "Payment failure recorded", nil)
	default:
		// Unknown events are acknowledged so the gateway stops
		// redelivering them.
		return response.Success(c, "Event ignored", nil)
	}
}
