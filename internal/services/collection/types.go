package collection

import (
	"time"

	"ajo/internal/models"

	"github.com/shopspring/decimal"
)

// CreateInput is an organizer's new-collection request.
type CreateInput struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	UnitAmount        decimal.Decimal  `json:"unit_amount"`
	FeeBearer         models.FeeBearer `json:"fee_bearer"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	MaxParticipants   *int             `json:"max_participants,omitempty"`
	ContributorFields []string         `json:"contributor_fields,omitempty"`
}

// CheckoutInput carries a contributor's identity fields for a new
// checkout.
type CheckoutInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Quote is the checkout amount for one participant under the
// collection's current fee-bearer mode, with the fee breakdown the
// charge was derived from.
type Quote struct {
	UnitAmount   decimal.Decimal     `json:"unit_amount"`
	Charge       decimal.Decimal     `json:"charge"`
	OrganizerNet decimal.Decimal     `json:"organizer_net"`
	FeeBearer    models.FeeBearer    `json:"fee_bearer"`
	Breakdown    models.FeeBreakdown `json:"breakdown"`
}
