// Package report builds cross-collection reconciliation summaries for
// an organizer.
package report

import (
	"context"

	"ajo/internal/repositories"
	"ajo/internal/services/balance"

	"github.com/shopspring/decimal"
)

// Service builds reconciliation reports. Read-only; an organizer with
// zero collections gets an all-zero report.
type Service interface {
	Build(ctx context.Context, organizerID uint) (*Report, error)
}

type service struct {
	collections repositories.CollectionRepository
	balances    balance.Service
}

func NewService(collections repositories.CollectionRepository, balances balance.Service) Service {
	if collections == nil {
		panic("collection repository is required")
	}
	if balances == nil {
		panic("balance service is required")
	}

	return &service{
		collections: collections,
		balances:    balances,
	}
}

func (s *service) Build(ctx context.Context, organizerID uint) (*Report, error) {
	collections, err := s.collections.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		OrganizerID:          organizerID,
		Collections:          len(collections),
		TotalRaised:          decimal.Zero,
		TotalPlatformCharges: decimal.Zero,
		TotalGatewayFees:     decimal.Zero,
		WithdrawableBalance:  decimal.Zero,
		TotalWithdrawn:       decimal.Zero,
		PendingWithdrawals:   decimal.Zero,
		CurrentBalance:       decimal.Zero,
		PerCollection:        make([]balance.Balance, 0, len(collections)),
	}

	for i := range collections {
		bal, err := s.balances.CollectionFresh(ctx, collections[i].ID)
		if err != nil {
			return nil, err
		}

		rep.TotalRaised = rep.TotalRaised.Add(bal.GrossRaised)
		rep.TotalPlatformCharges = rep.TotalPlatformCharges.Add(bal.TotalPlatformFees)
		rep.TotalGatewayFees = rep.TotalGatewayFees.Add(bal.TotalGatewayFees)
		rep.WithdrawableBalance = rep.WithdrawableBalance.Add(bal.WithdrawableGross)
		rep.TotalWithdrawn = rep.TotalWithdrawn.Add(bal.Withdrawn)
		rep.PendingWithdrawals = rep.PendingWithdrawals.Add(bal.Reserved)
		rep.CurrentBalance = rep.CurrentBalance.Add(bal.CurrentlyWithdrawable)
		rep.PerCollection = append(rep.PerCollection, *bal)
	}

	return rep, nil
}
