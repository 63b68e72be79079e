package handlers

import (
	"ajo/internal/models"
	withdrawalsvc "ajo/internal/services/withdrawal"
	"ajo/internal/utils/response"
	"ajo/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	withdrawals withdrawalsvc.Service
}

func NewWithdrawalHandler(withdrawals withdrawalsvc.Service) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// Request submits a withdrawal against a collection's withdrawable
// balance.
func (h *WithdrawalHandler) Request(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	var input struct {
		CollectionID uint               `json:"collection_id"`
		Amount       decimal.Decimal    `json:"amount"`
		BankDetails  models.BankDetails `json:"bank_details"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.BankDetails(input.BankDetails)
	if !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	withdrawal, err := h.withdrawals.Request(c.Context(), claims.OrganizerID, input.CollectionID, input.Amount, input.BankDetails)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Created(c, "Withdrawal requested", withdrawal)
}

// Cancel cancels a pending withdrawal, releasing its reservation.
func (h *WithdrawalHandler) Cancel(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	withdrawal, err := h.withdrawals.Cancel(c.Context(), claims.OrganizerID, c.Params("reference"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Withdrawal cancelled", withdrawal)
}

// List returns the organizer's withdrawals.
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	withdrawals, err := h.withdrawals.ListByOrganizer(c.Context(), claims.OrganizerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Withdrawals", withdrawals)
}

// Balance returns the live balance for one of the organizer's own
// collections.
func (h *WithdrawalHandler) Balance(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.OrganizerClaims)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid collection id")
	}

	bal, err := h.withdrawals.CollectionBalance(c.Context(), claims.OrganizerID, uint(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Balance", bal)
}

// PayoutCallback receives asynchronous status updates from the payout
// provider and drives the withdrawal state machine.
func (h *WithdrawalHandler) PayoutCallback(c *fiber.Ctx) error {
	var payload struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid callback payload")
	}

	var (
		withdrawal *models.Withdrawal
		err        error
	)
	switch payload.Status {
	case models.WithdrawalStatusProcessing:
		withdrawal, err = h.withdrawals.MarkProcessing(c.Context(), payload.Reference)
	case models.WithdrawalStatusSuccessful:
		withdrawal, err = h.withdrawals.Complete(c.Context(), payload.Reference)
	case models.WithdrawalStatusFailed:
		withdrawal, err = h.withdrawals.Fail(c.Context(), payload.Reference, payload.Reason)
	default:
		return response.BadRequest(c, "Unknown payout status")
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	return response.Success(c, "Withdrawal updated", withdrawal)
}
