// Package withdrawal governs the withdrawal lifecycle and the
// admission check for new requests.
//
// States: pending -> processing -> {successful, failed}, plus
// pending -> cancelled. Terminal states release nothing further; a
// failed payout is terminal per withdrawal and the organizer submits a
// new request.
package withdrawal

import (
	"context"
	"fmt"
	"log"
	"time"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"
	"ajo/internal/repositories"
	"ajo/internal/services/balance"
	"ajo/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service processes withdrawal requests and drives status transitions
// reported by the payout provider.
type Service interface {
	Request(ctx context.Context, organizerID, collectionID uint, amount decimal.Decimal, bank models.BankDetails) (*models.Withdrawal, error)
	Cancel(ctx context.Context, organizerID uint, reference string) (*models.Withdrawal, error)

	// Payout-callback transitions.
	MarkProcessing(ctx context.Context, reference string) (*models.Withdrawal, error)
	Complete(ctx context.Context, reference string) (*models.Withdrawal, error)
	Fail(ctx context.Context, reference, reason string) (*models.Withdrawal, error)

	ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Withdrawal, error)

	// CollectionBalance reads a collection's balance on behalf of its
	// organizer. Non-owners get ErrCollectionNotFound.
	CollectionBalance(ctx context.Context, organizerID, collectionID uint) (*balance.Balance, error)
}

type service struct {
	withdrawals repositories.WithdrawalRepository
	collections repositories.CollectionRepository
	balances    balance.Service
	locks       *collectionLocks
}

func NewService(
	withdrawals repositories.WithdrawalRepository,
	collections repositories.CollectionRepository,
	balances balance.Service,
) Service {
	if withdrawals == nil {
		panic("withdrawal repository is required")
	}
	if collections == nil {
		panic("collection repository is required")
	}
	if balances == nil {
		panic("balance service is required")
	}

	return &service{
		withdrawals: withdrawals,
		collections: collections,
		balances:    balances,
		locks:       newCollectionLocks(),
	}
}

func (s *service) Request(ctx context.Context, organizerID, collectionID uint, amount decimal.Decimal, bank models.BankDetails) (*models.Withdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domainerrors.ErrInvalidAmount
	}

	v := validation.New()
	v.BankDetails(bank)
	if !v.Valid() {
		return nil, domainerrors.ErrInvalidBankDetails.WithDetail("%v", v.Errors)
	}

	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OrganizerID != organizerID {
		return nil, domainerrors.ErrCollectionNotFound
	}

	// Serialize admission per collection: the balance read and the
	// pending-row insert must be atomic with respect to other requests
	// against the same collection.
	release := s.locks.acquire(collectionID)
	defer release()

	bal, err := s.balances.CollectionFresh(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(bal.CurrentlyWithdrawable) {
		return nil, domainerrors.ErrInsufficientBalance.WithDetail(
			"available %s NGN", bal.CurrentlyWithdrawable.StringFixed(2))
	}

	withdrawal := &models.Withdrawal{
		Reference:     uuid.NewString(),
		CollectionID:  collectionID,
		OrganizerID:   organizerID,
		Amount:        amount,
		AccountName:   bank.AccountName,
		AccountNumber: bank.AccountNumber,
		BankName:      bank.BankName,
		Status:        models.WithdrawalStatusPending,
	}
	if err := s.withdrawals.Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	s.invalidate(ctx, collectionID)
	return withdrawal, nil
}

func (s *service) Cancel(ctx context.Context, organizerID uint, reference string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawals.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if withdrawal.OrganizerID != organizerID {
		return nil, ErrNotOwner
	}

	return s.transition(ctx, withdrawal, models.WithdrawalStatusPending, models.WithdrawalStatusCancelled, "")
}

func (s *service) MarkProcessing(ctx context.Context, reference string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawals.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, withdrawal, models.WithdrawalStatusPending, models.WithdrawalStatusProcessing, "")
}

func (s *service) Complete(ctx context.Context, reference string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawals.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, withdrawal, models.WithdrawalStatusProcessing, models.WithdrawalStatusSuccessful, "")
}

func (s *service) Fail(ctx context.Context, reference, reason string) (*models.Withdrawal, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	withdrawal, err := s.withdrawals.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	// Failing releases the reserved amount back into the withdrawable
	// balance on the next computation.
	return s.transition(ctx, withdrawal, models.WithdrawalStatusProcessing, models.WithdrawalStatusFailed, reason)
}

func (s *service) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Withdrawal, error) {
	return s.withdrawals.ListByOrganizer(ctx, organizerID)
}

func (s *service) CollectionBalance(ctx context.Context, organizerID, collectionID uint) (*balance.Balance, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OrganizerID != organizerID {
		return nil, domainerrors.ErrCollectionNotFound
	}
	return s.balances.Collection(ctx, collectionID)
}

func (s *service) transition(ctx context.Context, withdrawal *models.Withdrawal, from, to, reason string) (*models.Withdrawal, error) {
	if withdrawal.Status != from {
		return nil, domainerrors.ErrInvalidTransition.WithDetail(
			"%s -> %s", withdrawal.Status, to)
	}

	now := time.Now().UTC()
	withdrawal.Status = to
	switch to {
	case models.WithdrawalStatusProcessing:
		withdrawal.ProcessedAt = &now
	case models.WithdrawalStatusSuccessful:
		withdrawal.CompletedAt = &now
	case models.WithdrawalStatusFailed:
		withdrawal.FailedAt = &now
		withdrawal.FailureReason = reason
	}

	if err := s.withdrawals.Update(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to update withdrawal %s: %w", withdrawal.Reference, err)
	}

	s.invalidate(ctx, withdrawal.CollectionID)
	return withdrawal, nil
}

func (s *service) invalidate(ctx context.Context, collectionID uint) {
	if err := s.balances.Invalidate(ctx, collectionID); err != nil {
		log.Printf("failed to invalidate balance cache for collection %d: %v", collectionID, err)
	}
}
