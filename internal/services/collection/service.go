// Package collection manages collection lifecycle: creation, share
// codes, status derivation, and checkout initiation.
package collection

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"
	"ajo/internal/repositories"
	"ajo/internal/services/fees"
	"ajo/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service manages collections and contributor checkouts.
type Service interface {
	Create(ctx context.Context, organizerID uint, input CreateInput) (*models.Collection, error)
	GetByID(ctx context.Context, organizerID, id uint) (*models.Collection, error)
	GetByShareCode(ctx context.Context, code string) (*models.Collection, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Collection, error)
	Quote(collection *models.Collection) (*Quote, error)
	BeginCheckout(ctx context.Context, shareCode string, input CheckoutInput) (*models.Contribution, error)
	Retire(ctx context.Context, organizerID, id uint) error
}

type service struct {
	collections   repositories.CollectionRepository
	contributions repositories.ContributionRepository
	schedule      *fees.Schedule
}

func NewService(
	collections repositories.CollectionRepository,
	contributions repositories.ContributionRepository,
	schedule *fees.Schedule,
) Service {
	if collections == nil {
		panic("collection repository is required")
	}
	if contributions == nil {
		panic("contribution repository is required")
	}
	if schedule == nil {
		panic("fee schedule is required")
	}

	return &service{
		collections:   collections,
		contributions: contributions,
		schedule:      schedule,
	}
}

func (s *service) Create(ctx context.Context, organizerID uint, input CreateInput) (*models.Collection, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.UnitAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domainerrors.ErrInvalidAmount
	}
	bearer := input.FeeBearer
	if bearer == "" {
		bearer = models.FeeBearerOrganizer
	}
	if !bearer.Valid() {
		return nil, ErrInvalidFeeBearer
	}
	if input.Deadline != nil && input.Deadline.Before(time.Now()) {
		return nil, ErrDeadlinePast
	}
	if input.MaxParticipants != nil && *input.MaxParticipants <= 0 {
		return nil, ErrInvalidCap
	}

	code, err := s.uniqueShareCode(ctx)
	if err != nil {
		return nil, err
	}

	fieldList := input.ContributorFields
	if len(fieldList) == 0 {
		fieldList = []string{"name"}
	}

	collection := &models.Collection{
		OrganizerID:       organizerID,
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		ShareCode:         code,
		UnitAmount:        input.UnitAmount.Round(2),
		FeeBearer:         bearer,
		Deadline:          input.Deadline,
		MaxParticipants:   input.MaxParticipants,
		Status:            models.CollectionStatusActive,
		ContributorFields: models.NewJSON(map[string]interface{}{"fields": fieldList}),
		Currency:          "NGN",
	}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

func (s *service) GetByID(ctx context.Context, organizerID, id uint) (*models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection.OrganizerID != organizerID {
		return nil, domainerrors.ErrCollectionNotFound
	}
	return s.refreshStatus(ctx, collection)
}

func (s *service) GetByShareCode(ctx context.Context, code string) (*models.Collection, error) {
	collection, err := s.collections.GetByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.refreshStatus(ctx, collection)
}

func (s *service) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Collection, error) {
	return s.collections.ListByOrganizer(ctx, organizerID)
}

// Quote is pure over the collection and the fee schedule.
func (s *service) Quote(collection *models.Collection) (*Quote, error) {
	charge, net, breakdown, err := s.schedule.ContributorCharge(collection.UnitAmount, collection.FeeBearer)
	if err != nil {
		return nil, err
	}
	return &Quote{
		UnitAmount:   collection.UnitAmount,
		Charge:       charge,
		OrganizerNet: net,
		FeeBearer:    collection.FeeBearer,
		Breakdown:    breakdown,
	}, nil
}

// BeginCheckout creates a pending contribution for one participant.
// The fee snapshot is fixed here; gateway confirmation only flips
// status to paid.
func (s *service) BeginCheckout(ctx context.Context, shareCode string, input CheckoutInput) (*models.Contribution, error) {
	collection, err := s.GetByShareCode(ctx, shareCode)
	if err != nil {
		return nil, err
	}
	if collection.Status != models.CollectionStatusActive {
		return nil, domainerrors.ErrCollectionClosed
	}
	if err := s.checkContributorFields(collection, input); err != nil {
		return nil, err
	}

	charge, net, breakdown, err := s.schedule.ContributorCharge(collection.UnitAmount, collection.FeeBearer)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueParticipantCode(ctx)
	if err != nil {
		return nil, err
	}

	contribution := &models.Contribution{
		CollectionID:      collection.ID,
		ContributorName:   input.Name,
		ContributorEmail:  input.Email,
		ContributorPhone:  input.Phone,
		GatewayReference:  uuid.NewString(),
		LegIndex:          0,
		ParticipantCode:   &code,
		BaseAmount:        collection.UnitAmount,
		ChargedAmount:     charge,
		FeeBearer:         collection.FeeBearer,
		PlatformFeeAmount: breakdown.PlatformFeeAmount,
		GatewayFeeAmount:  breakdown.GatewayFeeAmount,
		NetAmount:         net,
		Status:            models.ContributionStatusPending,
	}
	if err := s.contributions.Create(ctx, contribution); err != nil {
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}
	return contribution, nil
}

func (s *service) Retire(ctx context.Context, organizerID, id uint) error {
	collection, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if collection.OrganizerID != organizerID {
		return domainerrors.ErrCollectionNotFound
	}
	return s.collections.Retire(ctx, id)
}

// refreshStatus derives the lifecycle state from the ledger and the
// clock, persisting the cached column when it drifted. The derived
// value is authoritative either way.
func (s *service) refreshStatus(ctx context.Context, collection *models.Collection) (*models.Collection, error) {
	paidCount, err := s.contributions.CountPaidByCollection(ctx, collection.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count paid contributions: %w", err)
	}

	derived := collection.DerivedStatus(paidCount, time.Now())
	if derived != collection.Status {
		collection.Status = derived
		if err := s.collections.Update(ctx, collection); err != nil {
			log.Printf("failed to persist status for collection %d: %v", collection.ID, err)
		}
	}
	return collection, nil
}

func (s *service) checkContributorFields(collection *models.Collection, input CheckoutInput) error {
	raw, ok := collection.ContributorFields["fields"]
	if !ok {
		return nil
	}
	var fields []string
	switch v := raw.(type) {
	case []string:
		fields = v
	case []interface{}:
		for _, f := range v {
			if name, ok := f.(string); ok {
				fields = append(fields, name)
			}
		}
	default:
		return nil
	}

	for _, name := range fields {
		switch name {
		case "name":
			if strings.TrimSpace(input.Name) == "" {
				return fmt.Errorf("%w: name", ErrMissingField)
			}
		case "email":
			if strings.TrimSpace(input.Email) == "" {
				return fmt.Errorf("%w: email", ErrMissingField)
			}
		case "phone":
			if strings.TrimSpace(input.Phone) == "" {
				return fmt.Errorf("%w: phone", ErrMissingField)
			}
		}
	}
	return nil
}

func (s *service) uniqueShareCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateCode(8)
		if err != nil {
			return "", err
		}
		exists, err := s.collections.ShareCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

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
	return "", ErrCodeGeneration
}
