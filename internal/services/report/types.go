package report

import (
	"ajo/internal/services/balance"

	"github.com/shopspring/decimal"
)

// Report is the organizer-level reconciliation summary: each field is
// the sum of the corresponding balance field across every collection
// the organizer owns.
type Report struct {
	OrganizerID          uint            `json:"organizer_id"`
	Collections          int             `json:"collections"`
	TotalRaised          decimal.Decimal `json:"total_raised"`
	TotalPlatformCharges decimal.Decimal `json:"total_platform_charges"`
	TotalGatewayFees     decimal.Decimal `json:"total_gateway_fees"`
	WithdrawableBalance  decimal.Decimal `json:"withdrawable_balance"`
	TotalWithdrawn       decimal.Decimal `json:"total_withdrawn"`
	PendingWithdrawals   decimal.Decimal `json:"pending_withdrawals"`
	// CurrentBalance = WithdrawableBalance - TotalWithdrawn -
	// PendingWithdrawals, and equals the sum of per-collection
	// currently-withdrawable amounts.
	CurrentBalance decimal.Decimal `json:"current_balance"`

	PerCollection []balance.Balance `json:"per_collection"`
}
