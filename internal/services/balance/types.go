package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// Balance is a collection's financial state, computed on read from the
// contribution and withdrawal ledgers.
type Balance struct {
	CollectionID      uint            `json:"collection_id"`
	PaidContributions int64           `json:"paid_contributions"`
	GrossRaised       decimal.Decimal `json:"gross_raised"`
	TotalPlatformFees decimal.Decimal `json:"total_platform_fees"`
	TotalGatewayFees  decimal.Decimal `json:"total_gateway_fees"`
	// WithdrawableGross is the organizer's total entitlement before any
	// withdrawals: the sum of net amounts snapshotted on paid
	// contributions.
	WithdrawableGross decimal.Decimal `json:"withdrawable_gross"`
	// Reserved is held by withdrawals still pending or processing.
	Reserved  decimal.Decimal `json:"reserved"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	// CurrentlyWithdrawable = WithdrawableGross - Reserved - Withdrawn.
	CurrentlyWithdrawable decimal.Decimal `json:"currently_withdrawable"`
}

// Cache is the snapshot store. Snapshots are a read-path convenience,
// never an input to admission decisions.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
}
