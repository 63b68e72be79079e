package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Participant is one person covered by a gateway charge.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// VerifiedPaymentEvent is the payment gateway's confirmation that a
// charge settled. Amount is the gross amount collected; a single
// charge may cover several participants, in which case one ledger
// entry is written per participant with fees computed on the
// per-participant share, never on the combined charge.
type VerifiedPaymentEvent struct {
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	CollectionID uint            `json:"collection_id"`
	Participants []Participant   `json:"participants"`
}

// BalanceInvalidator drops cached balance snapshots after a ledger
// write.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, collectionID uint) error
}
