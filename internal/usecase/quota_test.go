package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ednsy/leadrosetta/internal/entity"
)

func TestFreeDemoGateCountsDown(t *testing.T) {
	ctx := context.Background()

	counter := new(MockMonthlyCounter)
	counter.On("Take", ctx, "visitor-1", mock.Anything).Return(int64(1), nil).Once()
	counter.On("Take", ctx, "visitor-1", mock.Anything).Return(int64(5), nil).Once()
	counter.On("Take", ctx, "visitor-1", mock.Anything).Return(int64(6), nil).Once()

	gate := NewFreeDemoGate(counter)

	remaining, err := gate.Take(ctx, "visitor-1")
	assert.NoError(t, err)
	assert.Equal(t, 4, remaining)

	// The fifth take is the last allowed one.
	remaining, err = gate.Take(ctx, "visitor-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = gate.Take(ctx, "visitor-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeQuotaExceeded, de.Code)
}

func TestFreeDemoGateRequiresVisitorKey(t *testing.T) {
	gate := NewFreeDemoGate(new(MockMonthlyCounter))

	_, err := gate.Take(context.Background(), "")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeValidationError, de.Code)
}

func TestQuotaGateFreeTierHasNoDashboardQuota(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("CountCreatedInMonth", mock.Anything, "user-1", mock.Anything).Return(0, nil)

	plans := new(MockPlanResolver)
	plans.On("TierForUser", mock.Anything, "user-1").Return(entity.TierFree, nil)

	gate := NewQuotaGate(funnel, plans)

	err := gate.CheckAndReserve(ctx, "user-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeQuotaExceeded, de.Code)
}

func TestQuotaGateProLimit(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("CountCreatedInMonth", mock.Anything, "user-1", mock.Anything).Return(entity.ProDemosPerMonth-1, nil)

	plans := new(MockPlanResolver)
	plans.On("TierForUser", mock.Anything, "user-1").Return(entity.TierPro, nil)

	gate := NewQuotaGate(funnel, plans)
	assert.NoError(t, gate.CheckAndReserve(ctx, "user-1"))
}
