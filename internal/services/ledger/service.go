// Package ledger turns verified gateway payments into immutable
// contribution ledger entries.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"
	"ajo/internal/repositories"
	"ajo/internal/services/fees"
	"ajo/internal/utils"

	"github.com/shopspring/decimal"
)

// Service records contributions from gateway events. Ingestion is
// idempotent under at-least-once webhook delivery: a reference that
// was already recorded is a logged no-op.
type Service interface {
	RecordVerifiedPayment(ctx context.Context, event VerifiedPaymentEvent) ([]models.Contribution, error)
	MarkFailed(ctx context.Context, reference, reason string) error
}

type service struct {
	contributions repositories.ContributionRepository
	collections   repositories.CollectionRepository
	schedule      *fees.Schedule
	balances      BalanceInvalidator
}

func NewService(
	contributions repositories.ContributionRepository,
	collections repositories.CollectionRepository,
	schedule *fees.Schedule,
	balances BalanceInvalidator,
) Service {
	if contributions == nil {
		panic("contribution repository is required")
	}
	if collections == nil {
		panic("collection repository is required")
	}
	if schedule == nil {
		panic("fee schedule is required")
	}

	return &service{
		contributions: contributions,
		collections:   collections,
		schedule:      schedule,
		balances:      balances,
	}
}

func (s *service) RecordVerifiedPayment(ctx context.Context, event VerifiedPaymentEvent) ([]models.Contribution, error) {
	if event.Reference == "" {
		return nil, ErrMissingReference
	}

	existing, err := s.contributions.GetByReference(ctx, event.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to look up reference %s: %w", event.Reference, err)
	}
	if len(existing) > 0 {
		return s.settleExisting(ctx, event, existing)
	}

	if len(event.Participants) == 0 {
		return nil, ErrNoParticipants
	}

	collection, err := s.collections.GetByID(ctx, event.CollectionID)
	if err != nil {
		return nil, err
	}

	paidCount, err := s.contributions.CountPaidByCollection(ctx, collection.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count paid contributions: %w", err)
	}
	if collection.MaxParticipants != nil &&
		paidCount+int64(len(event.Participants)) > int64(*collection.MaxParticipants) {
		return nil, domainerrors.ErrCollectionClosed.WithDetail(
			"participant cap %d would be exceeded", *collection.MaxParticipants)
	}

	entries, err := s.buildEntries(ctx, collection, event)
	if err != nil {
		return nil, err
	}

	if err := s.contributions.CreateBatch(ctx, entries); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateContribution) {
			// A concurrent delivery of the same event won the insert
			// race. Return what it wrote.
			log.Printf("duplicate payment event for reference %s, treating as replay", event.Reference)
			return s.contributions.GetByReference(ctx, event.Reference)
		}
		return nil, fmt.Errorf("failed to record contributions: %w", err)
	}

	s.invalidate(ctx, collection.ID)
	return entries, nil
}

// settleExisting handles a reference that already has rows: either a
// checkout-initiated pending contribution being confirmed, or a replay
// of an event that was already ingested.
func (s *service) settleExisting(ctx context.Context, event VerifiedPaymentEvent, entries []models.Contribution) ([]models.Contribution, error) {
	allPaid := true
	for i := range entries {
		if entries[i].Status != models.ContributionStatusPaid {
			allPaid = false
			break
		}
	}
	if allPaid {
		log.Printf("payment event replayed for reference %s, ignoring", event.Reference)
		return entries, nil
	}

	// The cap was not reserved at checkout time, so a slow confirmation
	// can arrive after the collection filled. Re-check before settling.
	collection, err := s.collections.GetByID(ctx, entries[0].CollectionID)
	if err != nil {
		return nil, err
	}
	if collection.MaxParticipants != nil {
		paidCount, err := s.contributions.CountPaidByCollection(ctx, collection.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count paid contributions: %w", err)
		}
		settling := int64(0)
		for i := range entries {
			if entries[i].Status == models.ContributionStatusPending {
				settling++
			}
		}
		if paidCount+settling > int64(*collection.MaxParticipants) {
			return nil, domainerrors.ErrCollectionClosed.WithDetail(
				"participant cap %d would be exceeded", *collection.MaxParticipants)
		}
	}

	charged := decimal.Zero
	for i := range entries {
		charged = charged.Add(entries[i].ChargedAmount)
	}
	if !charged.Equal(event.Amount) {
		return nil, domainerrors.ErrAmountMismatch.WithDetail(
			"expected %s, gateway settled %s", charged, event.Amount)
	}

	now := time.Now().UTC()
	for i := range entries {
		if entries[i].Status == models.ContributionStatusPending {
			entries[i].Status = models.ContributionStatusPaid
			entries[i].PaidAt = &now
		}
	}
	if err := s.contributions.UpdateBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to settle contributions: %w", err)
	}

	s.invalidate(ctx, entries[0].CollectionID)
	return entries, nil
}

// buildEntries produces one paid ledger entry per participant. Fees
// are computed on the collection's per-participant amount, not on the
// combined charge, so a multi-participant payment lands in the same
// fee tier as the equivalent individual payments.
func (s *service) buildEntries(ctx context.Context, collection *models.Collection, event VerifiedPaymentEvent) ([]models.Contribution, error) {
	n := int64(len(event.Participants))
	share := event.Amount.Div(decimal.NewFromInt(n)).Round(2)

	base := collection.UnitAmount
	expectedCharge, net, breakdown, err := s.schedule.ContributorCharge(base, collection.FeeBearer)
	if err != nil {
		return nil, err
	}
	if !share.Equal(expectedCharge) {
		return nil, domainerrors.ErrAmountMismatch.WithDetail(
			"per-participant charge %s, expected %s", share, expectedCharge)
	}

	now := time.Now().UTC()
	entries := make([]models.Contribution, 0, n)
	for i, p := range event.Participants {
		code, err := s.uniqueParticipantCode(ctx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.Contribution{
			CollectionID:      collection.ID,
			ContributorName:   p.Name,
			ContributorEmail:  p.Email,
			ContributorPhone:  p.Phone,
			GatewayReference:  event.Reference,
			LegIndex:          i,
			ParticipantCode:   &code,
			BaseAmount:        base,
			ChargedAmount:     share,
			FeeBearer:         collection.FeeBearer,
			PlatformFeeAmount: breakdown.PlatformFeeAmount,
			GatewayFeeAmount:  breakdown.GatewayFeeAmount,
			NetAmount:         net,
			Status:            models.ContributionStatusPaid,
			PaidAt:            &now,
		})
	}
	return entries, nil
}

func (s *service) MarkFailed(ctx context.Context, reference, reason string) error {
	entries, err := s.contributions.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	changed := false
	for i := range entries {
		if entries[i].Status == models.ContributionStatusPending {
			entries[i].Status = models.ContributionStatusFailed
			entries[i].FailureReason = reason
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.contributions.UpdateBatch(ctx, entries); err != nil {
		return fmt.Errorf("failed to mark contributions failed: %w", err)
	}
	s.invalidate(ctx, entries[0].CollectionID)
	return nil
}

// uniqueParticipantCode generates a collision-checked random code. No
// process-local counters; uniqueness is re-verified by the database
// constraint at insert time.
func (s *service) uniqueParticipantCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateCode(10)
		if err != nil {
			return "", err
		}
		exists, err := s.contributions.ParticipantCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique participant code")
}

func (s *service) invalidate(ctx context.Context, collectionID uint) {
	if s.balances == nil {
		return
	}
	if err := s.balances.Invalidate(ctx, collectionID); err != nil {
		log.Printf("failed to invalidate balance cache for collection %d: %v", collectionID, err)
	}
}
