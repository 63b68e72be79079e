// Package balance aggregates a collection's paid contributions and
// withdrawals into its current financial state. Balances are always
// recomputed from the append-only ledger; a stored running total would
// be a lost-update hazard under concurrent payments.
package balance

import (
	"context"
	"fmt"
	"log"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"
	"ajo/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service computes collection balances.
type Service interface {
	// Collection may serve a cached snapshot; use it on display paths.
	Collection(ctx context.Context, collectionID uint) (*Balance, error)
	// CollectionFresh always recomputes from the ledger; admission
	// checks must use this.
	CollectionFresh(ctx context.Context, collectionID uint) (*Balance, error)
	Invalidate(ctx context.Context, collectionID uint) error
}

type service struct {
	contributions repositories.ContributionRepository
	withdrawals   repositories.WithdrawalRepository
	cache         Cache
}

func NewService(
	contributions repositories.ContributionRepository,
	withdrawals repositories.WithdrawalRepository,
	cache Cache,
) Service {
	if contributions == nil {
		panic("contribution repository is required")
	}
	if withdrawals == nil {
		panic("withdrawal repository is required")
	}

	return &service{
		contributions: contributions,
		withdrawals:   withdrawals,
		cache:         cache,
	}
}

func (s *service) Collection(ctx context.Context, collectionID uint) (*Balance, error) {
	if s.cache != nil {
		var cached Balance
		key := s.cacheKey(collectionID)
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	return s.CollectionFresh(ctx, collectionID)
}

func (s *service) CollectionFresh(ctx context.Context, collectionID uint) (*Balance, error) {
	entries, err := s.contributions.ListPaidByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}
	withdrawals, err := s.withdrawals.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawals: %w", err)
	}

	bal, err := Calculate(collectionID, entries, withdrawals)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cacheKey(collectionID), bal); err != nil {
			log.Printf("failed to cache balance for collection %d: %v", collectionID, err)
		}
	}
	return bal, nil
}

func (s *service) Invalidate(ctx context.Context, collectionID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, s.cacheKey(collectionID))
}

func (s *service) cacheKey(collectionID uint) string {
	return s.cache.GenerateKey("balance", "collection", collectionID)
}

// Calculate folds ledger rows into a Balance. Pure; exported for the
// reconciliation CLI and tests.
//
// GrossRaised sums base amounts only: contributor-borne fees are a
// pass-through to the gateway and platform, not part of the raise.
// WithdrawableGross sums the net-amount snapshots, which equals
// GrossRaised minus organizer-borne fees.
func Calculate(collectionID uint, entries []models.Contribution, withdrawals []models.Withdrawal) (*Balance, error) {
	bal := &Balance{
		CollectionID:          collectionID,
		GrossRaised:           decimal.Zero,
		TotalPlatformFees:     decimal.Zero,
		TotalGatewayFees:      decimal.Zero,
		WithdrawableGross:     decimal.Zero,
		Reserved:              decimal.Zero,
		Withdrawn:             decimal.Zero,
		CurrentlyWithdrawable: decimal.Zero,
	}

	for i := range entries {
		e := &entries[i]
		if e.Status != models.ContributionStatusPaid {
			continue
		}
		bal.PaidContributions++
		bal.GrossRaised = bal.GrossRaised.Add(e.BaseAmount)
		bal.TotalPlatformFees = bal.TotalPlatformFees.Add(e.PlatformFeeAmount)
		bal.TotalGatewayFees = bal.TotalGatewayFees.Add(e.GatewayFeeAmount)
		bal.WithdrawableGross = bal.WithdrawableGross.Add(e.NetAmount)
	}

	for i := range withdrawals {
		w := &withdrawals[i]
		switch {
		case models.WithdrawalReserved(w.Status):
			bal.Reserved = bal.Reserved.Add(w.Amount)
		case w.Status == models.WithdrawalStatusSuccessful:
			bal.Withdrawn = bal.Withdrawn.Add(w.Amount)
		}
		// Failed and cancelled withdrawals release their amount: they
		// contribute to neither term.
	}

	if bal.WithdrawableGross.IsNegative() {
		return nil, domainerrors.ErrBalanceInconsistency.WithDetail(
			"collection %d withdrawable gross is %s", collectionID, bal.WithdrawableGross)
	}

	bal.CurrentlyWithdrawable = bal.WithdrawableGross.Sub(bal.Reserved).Sub(bal.Withdrawn)
	if bal.CurrentlyWithdrawable.IsNegative() {
		// Data integrity fault, e.g. two withdrawals admitted past each
		// other. Surface it; never clamp to zero.
		return nil, domainerrors.ErrBalanceInconsistency.WithDetail(
			"collection %d withdrawable balance is %s", collectionID, bal.CurrentlyWithdrawable)
	}

	return bal, nil
}
