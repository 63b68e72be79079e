package report

import (
	"context"
	"testing"

	domainerrors "ajo/internal/errors"
	"ajo/internal/models"
	"ajo/internal/services/balance"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) Collection(ctx context.Context, collectionID uint) (*balance.Balance, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*balance.Balance), args.Error(1)
}

func (m *MockBalanceService) CollectionFresh(ctx context.Context, collectionID uint) (*balance.Balance, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*balance.Balance), args.Error(1)
}

func (m *MockBalanceService) Invalidate(ctx context.Context, collectionID uint) error {
	args := m.Called(ctx, collectionID)
	return args.Error(0)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balanceOf(id uint, gross, platform, gateway, reserved, withdrawn string) *balance.Balance {
	g := d(gross)
	p := d(platform)
	gw := d(gateway)
	net := g.Sub(p).Sub(gw)
	return &balance.Balance{
		CollectionID:          id,
		GrossRaised:           g,
		TotalPlatformFees:     p,
		TotalGatewayFees:      gw,
		WithdrawableGross:     net,
		Reserved:              d(reserved),
		Withdrawn:             d(withdrawn),
		CurrentlyWithdrawable: net.Sub(d(reserved)).Sub(d(withdrawn)),
		PaidContributions:     1,
	}
}

func TestBuild_SumsAcrossCollections(t *testing.T) {
	collections := new(MockCollectionRepo)
	balances := new(MockBalanceService)
	svc := NewService(collections, balances)

	collections.On("ListByOrganizer", mock.Anything, uint(7)).Return([]models.Collection{
		{ID: 1, OrganizerID: 7},
		{ID: 2, OrganizerID: 7},
		{ID: 3, OrganizerID: 7},
	}, nil)

	balances.On("CollectionFresh", mock.Anything, uint(1)).
		Return(balanceOf(1, "6000", "150", "90", "0", "0"), nil)
	balances.On("CollectionFresh", mock.Anything, uint(2)).
		Return(balanceOf(2, "2000", "50", "30", "1000", "500"), nil)
	balances.On("CollectionFresh", mock.Anything, uint(3)).
		Return(balanceOf(3, "25000", "375", "375", "0", "24250"), nil)

	rep, err := svc.Build(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Collections)
	assert.True(t, rep.TotalRaised.Equal(d("33000")), "raised %s", rep.TotalRaised)
	assert.True(t, rep.TotalPlatformCharges.Equal(d("575")))
	assert.True(t, rep.TotalGatewayFees.Equal(d("495")))
	assert.True(t, rep.WithdrawableBalance.Equal(d("31930")))
	assert.True(t, rep.TotalWithdrawn.Equal(d("24750")))
	assert.True(t, rep.PendingWithdrawals.Equal(d("1000")))
	assert.Len(t, rep.PerCollection, 3)

	// Every aggregate must equal the sum of its per-collection parts.
	perTotal := decimal.Zero
	for _, bal := range rep.PerCollection {
		perTotal = perTotal.Add(bal.CurrentlyWithdrawable)
	}
	assert.True(t, rep.CurrentBalance.Equal(perTotal),
		"current balance %s != per-collection sum %s", rep.CurrentBalance, perTotal)
	assert.True(t, rep.CurrentBalance.Equal(
		rep.WithdrawableBalance.Sub(rep.TotalWithdrawn).Sub(rep.PendingWithdrawals)))

	collections.AssertExpectations(t)
	balances.AssertExpectations(t)
}

func TestBuild_ZeroCollections(t *testing.T) {
	collections := new(MockCollectionRepo)
	balances := new(MockBalanceService)
	svc := NewService(collections, balances)

	collections.On("ListByOrganizer", mock.Anything, uint(7)).Return([]models.Collection{}, nil)

	rep, err := svc.Build(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Collections)
	assert.True(t, rep.TotalRaised.IsZero())
	assert.True(t, rep.CurrentBalance.IsZero())
	assert.Empty(t, rep.PerCollection)
	balances.AssertNotCalled(t, "CollectionFresh", mock.Anything, mock.Anything)
}

func TestBuild_PropagatesBalanceError(t *testing.T) {
	collections := new(MockCollectionRepo)
	balances := new(MockBalanceService)
	svc := NewService(collections, balances)

	collections.On("ListByOrganizer", mock.Anything, uint(7)).Return([]models.Collection{
		{ID: 1, OrganizerID: 7},
	}, nil)
	balances.On("CollectionFresh", mock.Anything, uint(1)).
		Return(nil, domainerrors.ErrBalanceInconsistency)

	_, err := svc.Build(context.Background(), 7)
	assert.ErrorIs(t, err, domainerrors.ErrBalanceInconsistency)
}
