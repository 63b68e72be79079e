package ledger

import (
	"context"
	"testing"
	"time"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"
	"ajo/internal/services/fees"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContributionRepo struct {
	mock.Mock
}

func (m *MockContributionRepo) Create(ctx context.Context, c *models.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContributionRepo) CreateBatch(ctx context.Context, cs []models.Contribution) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}

func (m *MockContributionRepo) GetByReference(ctx context.Context, reference string) ([]models.Contribution, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]models.Contribution), args.Error(1)
}

func (m *MockContributionRepo) ListPaidByCollection(ctx context.Context, collectionID uint) ([]models.Contribution, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).([]models.Contribution), args.Error(1)
}

func (m *MockContributionRepo) CountPaidByCollection(ctx context.Context, collectionID uint) (int64, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContributionRepo) ParticipantCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockContributionRepo) Update(ctx context.Context, c *models.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContributionRepo) UpdateBatch(ctx context.Context, cs []models.Contribution) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}

type MockCollectionRepo struct {
	mock.Mock
}

func (m *MockCollectionRepo) Create(ctx context.Context, c *models.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepo) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionRepo) GetByShareCode(ctx context.Context, code string) (*models.Collection, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionRepo) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Collection, error) {
	args := m.Called(ctx, organizerID)
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionRepo) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepo) Update(ctx context.Context, c *models.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepo) Retire(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, collectionID uint) error {
	args := m.Called(ctx, collectionID)
	return args.Error(0)
}

func organizerCollection() *models.Collection {
	return &models.Collection{
		ID:          7,
		OrganizerID: 1,
		Title:       "Alumni dinner",
		ShareCode:   "DINNER24",
		UnitAmount:  decimal.NewFromInt(2000),
		FeeBearer:   models.FeeBearerOrganizer,
		Status:      models.CollectionStatusActive,
	}
}

func TestRecordVerifiedPayment_MultiParticipantSplit(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	invalidator := new(MockInvalidator)
	svc := NewService(contributions, collections, fees.NewSchedule(), invalidator)

	collection := organizerCollection()

	contributions.On("GetByReference", mock.Anything, "ref-1").Return([]models.Contribution{}, nil)
	collections.On("GetByID", mock.Anything, uint(7)).Return(collection, nil)
	contributions.On("CountPaidByCollection", mock.Anything, uint(7)).Return(int64(0), nil)
	contributions.On("ParticipantCodeExists", mock.Anything, mock.Anything).Return(false, nil)
	contributions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	invalidator.On("Invalidate", mock.Anything, uint(7)).Return(nil)

	entries, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference:    "ref-1",
		Amount:       decimal.NewFromInt(6000),
		CollectionID: 7,
		Participants: []Participant{{Name: "Ada"}, {Name: "Bisi"}, {Name: "Chidi"}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Fees must be computed on the 2000 share, not the 6000 charge:
	// 2000 sits in the 2.5% tier, 6000 would wrongly land in 2%.
	wantPlatform := decimal.NewFromInt(50) // 2000 * 0.025
	wantGateway := decimal.NewFromInt(30)  // 2000 * 0.015
	for i, e := range entries {
		assert.Equal(t, i, e.LegIndex)
		assert.True(t, e.BaseAmount.Equal(decimal.NewFromInt(2000)), "base %s", e.BaseAmount)
		assert.True(t, e.ChargedAmount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, e.PlatformFeeAmount.Equal(wantPlatform), "platform %s", e.PlatformFeeAmount)
		assert.True(t, e.GatewayFeeAmount.Equal(wantGateway), "gateway %s", e.GatewayFeeAmount)
		assert.True(t, e.NetAmount.Equal(decimal.NewFromInt(1920)))
		assert.Equal(t, models.ContributionStatusPaid, e.Status)
		require.NotNil(t, e.ParticipantCode)
	}

	contributions.AssertExpectations(t)
	collections.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestRecordVerifiedPayment_ReplayIsNoOp(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	svc := NewService(contributions, collections, fees.NewSchedule(), nil)

	now := time.Now().UTC()
	recorded := []models.Contribution{{
		ID:               11,
		CollectionID:     7,
		GatewayReference: "ref-1",
		Status:           models.ContributionStatusPaid,
		PaidAt:           &now,
		BaseAmount:       decimal.NewFromInt(2000),
	}}
	contributions.On("GetByReference", mock.Anything, "ref-1").Return(recorded, nil)

	entries, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference:    "ref-1",
		Amount:       decimal.NewFromInt(2000),
		CollectionID: 7,
		Participants: []Participant{{Name: "Ada"}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(11), entries[0].ID)

	// No new rows, no updates: the replay must not touch the ledger.
	contributions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	contributions.AssertNotCalled(t, "UpdateBatch", mock.Anything, mock.Anything)
}

func TestRecordVerifiedPayment_SettlesPendingCheckout(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	invalidator := new(MockInvalidator)
	svc := NewService(contributions, collections, fees.NewSchedule(), invalidator)

	pending := []models.Contribution{{
		ID:               4,
		CollectionID:     7,
		GatewayReference: "chk-9",
		Status:           models.ContributionStatusPending,
		BaseAmount:       decimal.NewFromInt(2000),
		ChargedAmount:    decimal.NewFromInt(2000),
	}}
	contributions.On("GetByReference", mock.Anything, "chk-9").Return(pending, nil)
	collections.On("GetByID", mock.Anything, uint(7)).Return(organizerCollection(), nil)
	contributions.On("UpdateBatch", mock.Anything, mock.MatchedBy(func(cs []models.Contribution) bool {
		return len(cs) == 1 && cs[0].Status == models.ContributionStatusPaid && cs[0].PaidAt != nil
	})).Return(nil)
	invalidator.On("Invalidate", mock.Anything, uint(7)).Return(nil)

	entries, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference: "chk-9",
		Amount:    decimal.NewFromInt(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContributionStatusPaid, entries[0].Status)

	contributions.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestRecordVerifiedPayment_SettleRechecksParticipantCap(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	svc := NewService(contributions, collections, fees.NewSchedule(), nil)

	maxParticipants := 10
	collection := organizerCollection()
	collection.MaxParticipants = &maxParticipants

	// Checkout began while a slot was free, but the collection filled
	// before the gateway confirmed the charge.
	pending := []models.Contribution{{
		ID:               4,
		CollectionID:     7,
		GatewayReference: "chk-late",
		Status:           models.ContributionStatusPending,
		BaseAmount:       decimal.NewFromInt(2000),
		ChargedAmount:    decimal.NewFromInt(2000),
	}}
	contributions.On("GetByReference", mock.Anything, "chk-late").Return(pending, nil)
	collections.On("GetByID", mock.Anything, uint(7)).Return(collection, nil)
	contributions.On("CountPaidByCollection", mock.Anything, uint(7)).Return(int64(10), nil)

	_, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference: "chk-late",
		Amount:    decimal.NewFromInt(2000),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCollectionClosed)
	contributions.AssertNotCalled(t, "UpdateBatch", mock.Anything, mock.Anything)
}

func TestRecordVerifiedPayment_ContributorBearsFees(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	invalidator := new(MockInvalidator)
	svc := NewService(contributions, collections, fees.NewSchedule(), invalidator)

	collection := organizerCollection()
	collection.FeeBearer = models.FeeBearerContributor

	contributions.On("GetByReference", mock.Anything, "ref-2").Return([]models.Contribution{}, nil)
	collections.On("GetByID", mock.Anything, uint(7)).Return(collection, nil)
	contributions.On("CountPaidByCollection", mock.Anything, uint(7)).Return(int64(0), nil)
	contributions.On("ParticipantCodeExists", mock.Anything, mock.Anything).Return(false, nil)
	contributions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	invalidator.On("Invalidate", mock.Anything, uint(7)).Return(nil)

	// Base 2000 carries 80 in fees (50 platform + 30 gateway); the
	// contributor is charged 2080 and the organizer nets the full base.
	entries, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference:    "ref-2",
		Amount:       decimal.NewFromInt(2080),
		CollectionID: 7,
		Participants: []Participant{{Name: "Ada"}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].ChargedAmount.Equal(decimal.NewFromInt(2080)))
	assert.True(t, entries[0].BaseAmount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, entries[0].NetAmount.Equal(decimal.NewFromInt(2000)),
		"organizer should net the full base, got %s", entries[0].NetAmount)
}

func TestRecordVerifiedPayment_AmountMismatch(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	svc := NewService(contributions, collections, fees.NewSchedule(), nil)

	contributions.On("GetByReference", mock.Anything, "ref-3").Return([]models.Contribution{}, nil)
	collections.On("GetByID", mock.Anything, uint(7)).Return(organizerCollection(), nil)
	contributions.On("CountPaidByCollection", mock.Anything, uint(7)).Return(int64(0), nil)

	_, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference:    "ref-3",
		Amount:       decimal.NewFromInt(1500),
		CollectionID: 7,
		Participants: []Participant{{Name: "Ada"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
	contributions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestRecordVerifiedPayment_ParticipantCapEnforced(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	svc := NewService(contributions, collections, fees.NewSchedule(), nil)

	maxParticipants := 10
	collection := organizerCollection()
	collection.MaxParticipants = &maxParticipants

	contributions.On("GetByReference", mock.Anything, "ref-4").Return([]models.Contribution{}, nil)
	collections.On("GetByID", mock.Anything, uint(7)).Return(collection, nil)
	contributions.On("CountPaidByCollection", mock.Anything, uint(7)).Return(int64(9), nil)

	_, err := svc.RecordVerifiedPayment(context.Background(), VerifiedPaymentEvent{
		Reference:    "ref-4",
		Amount:       decimal.NewFromInt(4000),
		CollectionID: 7,
		Participants: []Participant{{Name: "Ada"}, {Name: "Bisi"}},
	})
	require.Error(t, err)
	contributions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestMarkFailed(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	invalidator := new(MockInvalidator)
	svc := NewService(contributions, collections, fees.NewSchedule(), invalidator)

	pending := []models.Contribution{{
		ID:               4,
		CollectionID:     7,
		GatewayReference: "chk-9",
		Status:           models.ContributionStatusPending,
	}}
	contributions.On("GetByReference", mock.Anything, "chk-9").Return(pending, nil)
	contributions.On("UpdateBatch", mock.Anything, mock.MatchedBy(func(cs []models.Contribution) bool {
		return cs[0].Status == models.ContributionStatusFailed && cs[0].FailureReason == "card declined"
	})).Return(nil)
	invalidator.On("Invalidate", mock.Anything, uint(7)).Return(nil)

	err := svc.MarkFailed(context.Background(), "chk-9", "card declined")
	require.NoError(t, err)
	contributions.AssertExpectations(t)
}

func TestMarkFailed_PaidIsUntouched(t *testing.T) {
	contributions := new(MockContributionRepo)
	collections := new(MockCollectionRepo)
	svc := NewService(contributions, collections, fees.NewSchedule(), nil)

	now := time.Now().UTC()
	paid := []models.Contribution{{
		ID:               4,
		CollectionID:     7,
		GatewayReference: "chk-9",
		Status:           models.ContributionStatusPaid,
		PaidAt:           &now,
	}}
	contributions.On("GetByReference", mock.Anything, "chk-9").Return(paid, nil)

	err := svc.MarkFailed(context.Background(), "chk-9", "late failure")
	require.NoError(t, err)
	contributions.AssertNotCalled(t, "UpdateBatch", mock.Anything, mock.Anything)
}
