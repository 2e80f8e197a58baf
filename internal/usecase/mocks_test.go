package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/infra/integration/crm"
	"github.com/ednsy/leadrosetta/internal/infra/queue"
)

type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) Upsert(ctx context.Context, p *entity.Prospect) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prospect), args.Error(1)
}

func (m *MockProspectRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Prospect, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Prospect), args.Error(1)
}

func (m *MockProspectRepository) UpdateDemoLink(ctx context.Context, id, demoURL, status string) error {
	args := m.Called(ctx, id, demoURL, status)
	return args.Error(0)
}

type MockFunnelRepository struct {
	mock.Mock
}

func (m *MockFunnelRepository) Create(ctx context.Context, rec *entity.FunnelRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockFunnelRepository) Delete(ctx context.Context, prospectID string) error {
	args := m.Called(ctx, prospectID)
	return args.Error(0)
}

func (m *MockFunnelRepository) FindByProspectID(ctx context.Context, prospectID string) (*entity.FunnelRecord, error) {
	args := m.Called(ctx, prospectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FunnelRecord), args.Error(1)
}

func (m *MockFunnelRepository) ListByUser(ctx context.Context, userID string) ([]*entity.FunnelRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FunnelRecord), args.Error(1)
}

func (m *MockFunnelRepository) Advance(ctx context.Context, prospectID string, to entity.FunnelStatus, at time.Time) (*entity.FunnelRecord, bool, error) {
	args := m.Called(ctx, prospectID, to, at)
	var rec *entity.FunnelRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*entity.FunnelRecord)
	}
	return rec, args.Bool(1), args.Error(2)
}

func (m *MockFunnelRepository) CountCreatedInMonth(ctx context.Context, userID string, month time.Time) (int, error) {
	args := m.Called(ctx, userID, month)
	return args.Int(0), args.Error(1)
}

func (m *MockFunnelRepository) RecordEvent(ctx context.Context, prospectID, eventType string, payload map[string]any) error {
	args := m.Called(ctx, prospectID, eventType, payload)
	return args.Error(0)
}

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Upsert(ctx context.Context, cred *entity.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) Find(ctx context.Context, userID string, provider entity.Provider) (*entity.Credential, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Delete(ctx context.Context, userID string, provider entity.Provider) error {
	args := m.Called(ctx, userID, provider)
	return args.Error(0)
}

func (m *MockCredentialRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Credential), args.Error(1)
}

type MockPlanResolver struct {
	mock.Mock
}

func (m *MockPlanResolver) TierForUser(ctx context.Context, userID string) (entity.PlanTier, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.PlanTier), args.Error(1)
}

type MockCRMAdapter struct {
	mock.Mock
}

func (m *MockCRMAdapter) FetchAll(ctx context.Context, accessToken string) ([]crm.Contact, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Contact), args.Error(1)
}

type MockOAuthRefresher struct {
	mock.Mock
}

func (m *MockOAuthRefresher) Refresh(ctx context.Context, refreshToken string) (*entity.TokenData, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenData), args.Error(1)
}

func (m *MockOAuthRefresher) Revoke(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishDemoEmail(ctx context.Context, payload queue.DemoEmailPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockMonthlyCounter struct {
	mock.Mock
}

func (m *MockMonthlyCounter) Take(ctx context.Context, key string, now time.Time) (int64, error) {
	args := m.Called(ctx, key, now)
	return args.Get(0).(int64), args.Error(1)
}
