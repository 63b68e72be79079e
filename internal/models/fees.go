package models

import "github.com/shopspring/decimal"

// FeeBearer says whose charge absorbs platform and gateway fees.
type FeeBearer string

const (
	// FeeBearerOrganizer deducts fees from the organizer's proceeds.
	FeeBearerOrganizer FeeBearer = "organizer"
	// FeeBearerContributor adds fees on top of the checkout amount.
	FeeBearerContributor FeeBearer = "contributor"
)

// Valid reports whether the fee bearer is one of the known modes.
func (b FeeBearer) Valid() bool {
	return b == FeeBearerOrganizer || b == FeeBearerContributor
}

// FeeBreakdown is the fee computation for a single base amount.
// Persisted copies live as snapshot columns on Contribution and are
// never recomputed after the fact.
type FeeBreakdown struct {
	PlatformFeePercent decimal.Decimal `json:"platform_fee_percent"`
	PlatformFeeAmount  decimal.Decimal `json:"platform_fee_amount"`
	GatewayFeeAmount   decimal.Decimal `json:"gateway_fee_amount"`
	TotalFees          decimal.Decimal `json:"total_fees"`
	NetAmount          decimal.Decimal `json:"net_amount"`
}
