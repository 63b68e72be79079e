package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution statuses
const (
	ContributionStatusPending = "pending"
	ContributionStatusPaid    = "paid"
	ContributionStatusFailed  = "failed"
)

// Contribution is one participant's payment against a Collection,
// carrying the fee breakdown snapshotted at charge time. A single
// gateway charge covering several participants produces one row per
// participant (legs), all sharing the gateway reference.
type Contribution struct {
	ID           uint `gorm:"primarykey" json:"id"`
	CollectionID uint `gorm:"index;not null" json:"collection_id"`

	ContributorName  string `json:"contributor_name"`
	ContributorEmail string `json:"contributor_email"`
	ContributorPhone string `json:"contributor_phone"`

	// GatewayReference is the payment provider's charge reference. The
	// composite unique index with LegIndex is what makes verified-payment
	// replay idempotent at the persistence boundary.
	GatewayReference string `gorm:"uniqueIndex:idx_contributions_ref_leg;not null" json:"gateway_reference"`
	LegIndex         int    `gorm:"uniqueIndex:idx_contributions_ref_leg;not null;default:0" json:"leg_index"`

	// ParticipantCode is an optional unique code handed to the
	// contributor, e.g. for event entry.
	ParticipantCode *string `gorm:"uniqueIndex" json:"participant_code,omitempty"`

	// BaseAmount is the collection's per-participant amount this leg is
	// attributable to. ChargedAmount is what the contributor actually
	// paid: equal to BaseAmount, or BaseAmount plus fees when the
	// contributor bears them.
	BaseAmount    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"base_amount"`
	ChargedAmount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"charged_amount"`

	// Fee snapshot, fixed at charge time. Edits to the fee schedule
	// never touch these.
	FeeBearer         FeeBearer       `gorm:"type:varchar(16);not null" json:"fee_bearer"`
	PlatformFeeAmount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"platform_fee_amount"`
	GatewayFeeAmount  decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"gateway_fee_amount"`
	// NetAmount is what the organizer is entitled to from this leg.
	NetAmount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"net_amount"`

	Status        string     `gorm:"not null;default:'pending'" json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
