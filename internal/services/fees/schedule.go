// Package fees implements the platform fee schedule: a tiered platform
// percentage plus a capped gateway percentage, computed on the base
// per-participant amount.
package fees

import (
	domainerrors "ajo/internal/errors"
	"ajo/internal/models"

	"github.com/shopspring/decimal"
)

// tier is one platform-fee band. Lower bound is inclusive, upper bound
// exclusive; the last tier is unbounded.
type tier struct {
	upper   decimal.Decimal // exclusive; zero value means unbounded
	bounded bool
	percent decimal.Decimal
}

var platformTiers = []tier{
	{upper: decimal.NewFromInt(1000), bounded: true, percent: decimal.NewFromFloat(0.03)},
	{upper: decimal.NewFromInt(5000), bounded: true, percent: decimal.NewFromFloat(0.025)},
	{upper: decimal.NewFromInt(20000), bounded: true, percent: decimal.NewFromFloat(0.02)},
	{percent: decimal.NewFromFloat(0.015)},
}

var (
	gatewayFeeRate = decimal.NewFromFloat(0.015)
	gatewayFeeCap  = decimal.NewFromInt(2000)
)

// Schedule computes fee breakdowns. It is pure and safe for concurrent
// use.
type Schedule struct{}

func NewSchedule() *Schedule {
	return &Schedule{}
}

// Compute maps a base amount to its fee breakdown.
//
// It must always be called with the base per-participant amount, never
// an amount already inflated by contributor-borne fees; computing fees
// on a fee-inclusive amount compounds them.
func (s *Schedule) Compute(amount decimal.Decimal) (models.FeeBreakdown, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.FeeBreakdown{}, domainerrors.ErrInvalidAmount
	}

	percent := platformPercent(amount)
	platformFee := amount.Mul(percent).Round(2)

	gatewayFee := amount.Mul(gatewayFeeRate).Round(2)
	if gatewayFee.GreaterThan(gatewayFeeCap) {
		gatewayFee = gatewayFeeCap
	}

	totalFees := platformFee.Add(gatewayFee)

	// Net is derived by subtraction so net + fees == amount holds
	// exactly.
	return models.FeeBreakdown{
		PlatformFeePercent: percent,
		PlatformFeeAmount:  platformFee,
		GatewayFeeAmount:   gatewayFee,
		TotalFees:          totalFees,
		NetAmount:          amount.Sub(totalFees),
	}, nil
}

// ContributorCharge returns what a contributor pays at checkout for a
// base amount under the given fee bearer: the base amount itself, or
// base plus fees when the contributor bears them. The organizer's net
// entitlement is returned alongside.
func (s *Schedule) ContributorCharge(base decimal.Decimal, bearer models.FeeBearer) (charge, net decimal.Decimal, breakdown models.FeeBreakdown, err error) {
	breakdown, err = s.Compute(base)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, models.FeeBreakdown{}, err
	}

	if bearer == models.FeeBearerContributor {
		// Fees are externalized to the payer; the organizer nets the
		// full base amount.
		return base.Add(breakdown.TotalFees), base, breakdown, nil
	}
	return base, breakdown.NetAmount, breakdown, nil
}

func platformPercent(amount decimal.Decimal) decimal.Decimal {
	for _, t := range platformTiers {
		if !t.bounded || amount.LessThan(t.upper) {
			return t.percent
		}
	}
	// Unreachable: the last tier is unbounded.
	return platformTiers[len(platformTiers)-1].percent
}
