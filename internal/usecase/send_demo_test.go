package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/infra/queue"
)

func sentRecord(status entity.FunnelStatus) *entity.FunnelRecord {
	return &entity.FunnelRecord{
		ID:         "f-1",
		UserID:     "user-1",
		ProspectID: "pr-1",
		DemoLink:   "https://app.example.com/home-services/pr-1",
		Status:     status,
	}
}

func TestApproveDemoFromDraft(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusDraft), nil)
	funnel.On("Advance", ctx, "pr-1", entity.StatusApproved, mock.Anything).
		Return(sentRecord(entity.StatusApproved), true, nil)

	uc := NewApproveDemoUseCase(funnel)

	rec, err := uc.Execute(ctx, "user-1", "pr-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, rec.Status)
}

func TestApproveDemoAlreadySentIsConflict(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusApproved, mock.Anything).Return(nil, false, nil)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusSent), nil)

	uc := NewApproveDemoUseCase(funnel)

	_, err := uc.Execute(ctx, "user-1", "pr-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidTransition, de.Code)
}

func TestApproveDemoMissingRecordIsNotFound(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(nil, entity.ErrFunnelNotFound)

	uc := NewApproveDemoUseCase(funnel)

	_, err := uc.Execute(ctx, "user-1", "pr-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, de.Code)
	funnel.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveDemoByNonOwnerLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusDraft), nil)

	uc := NewApproveDemoUseCase(funnel)

	_, err := uc.Execute(ctx, "user-2", "pr-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, de.Code)
	funnel.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendDemoPublishesEmail(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusApproved), nil)
	funnel.On("Advance", ctx, "pr-1", entity.StatusSent, mock.Anything).
		Return(sentRecord(entity.StatusSent), true, nil)

	prospects := new(MockProspectRepository)
	prospects.On("FindByID", ctx, "pr-1").Return(testProspect(), nil)

	producer := new(MockQueueProducer)
	producer.On("PublishDemoEmail", ctx, mock.Anything).Return(nil)

	uc := NewSendDemoUseCase(funnel, prospects, producer)

	rec, err := uc.Execute(ctx, SendDemoInput{
		UserID:     "user-1",
		ProspectID: "pr-1",
		SenderName: "Ed",
		Origin:     "https://app.example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusSent, rec.Status)

	payload := producer.Calls[0].Arguments.Get(1).(queue.DemoEmailPayload)
	assert.Equal(t, "info@acme.com", payload.Email)
	assert.Equal(t, "Acme Plumbing", payload.CompanyName)
	assert.Equal(t, "https://app.example.com/home-services/pr-1", payload.DemoLink)
	assert.Equal(t, "Ed", payload.SenderName)
}

func TestSendDemoOnlyOnce(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	// Guard already consumed: the record is sent.
	funnel.On("Advance", ctx, "pr-1", entity.StatusSent, mock.Anything).Return(nil, false, nil)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusSent), nil)

	prospects := new(MockProspectRepository)
	producer := new(MockQueueProducer)

	uc := NewSendDemoUseCase(funnel, prospects, producer)

	_, err := uc.Execute(ctx, SendDemoInput{UserID: "user-1", ProspectID: "pr-1"})
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidTransition, de.Code)
	producer.AssertNotCalled(t, "PublishDemoEmail", mock.Anything, mock.Anything)
}

func TestSendDemoByNonOwnerLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()

	// Record belongs to user-1; user-2 asks to send it.
	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusApproved), nil)

	prospects := new(MockProspectRepository)
	producer := new(MockQueueProducer)

	uc := NewSendDemoUseCase(funnel, prospects, producer)

	_, err := uc.Execute(ctx, SendDemoInput{UserID: "user-2", ProspectID: "pr-1"})
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, de.Code)

	// The funnel was not advanced and no email was queued, so the owner's
	// own send still goes through afterwards.
	funnel.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "PublishDemoEmail", mock.Anything, mock.Anything)
}

func TestSendDemoUnapprovedDraftIsRejected(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusSent, mock.Anything).Return(nil, false, nil)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusDraft), nil)

	uc := NewSendDemoUseCase(funnel, new(MockProspectRepository), new(MockQueueProducer))

	_, err := uc.Execute(ctx, SendDemoInput{UserID: "user-1", ProspectID: "pr-1"})
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidTransition, de.Code)
}

func TestSendDemoHonorsExplicitSendTime(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusApproved), nil)
	funnel.On("Advance", ctx, "pr-1", entity.StatusSent, at).
		Return(sentRecord(entity.StatusSent), true, nil)

	prospects := new(MockProspectRepository)
	prospects.On("FindByID", ctx, "pr-1").Return(testProspect(), nil)

	producer := new(MockQueueProducer)
	producer.On("PublishDemoEmail", ctx, mock.Anything).Return(nil)

	uc := NewSendDemoUseCase(funnel, prospects, producer)

	_, err := uc.Execute(ctx, SendDemoInput{UserID: "user-1", ProspectID: "pr-1", SendTime: &at})
	assert.NoError(t, err)
	funnel.AssertCalled(t, "Advance", ctx, "pr-1", entity.StatusSent, at)
}

func TestSendDemoPublishFailureSurfacesButKeepsState(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusApproved), nil)
	funnel.On("Advance", ctx, "pr-1", entity.StatusSent, mock.Anything).
		Return(sentRecord(entity.StatusSent), true, nil)

	prospects := new(MockProspectRepository)
	prospects.On("FindByID", ctx, "pr-1").Return(testProspect(), nil)

	producer := new(MockQueueProducer)
	producer.On("PublishDemoEmail", ctx, mock.Anything).Return(assert.AnError)

	uc := NewSendDemoUseCase(funnel, prospects, producer)

	rec, err := uc.Execute(ctx, SendDemoInput{UserID: "user-1", ProspectID: "pr-1"})
	assert.True(t, IsTechnicalError(err))
	// The transition stands; retrying the publish is a manual operation.
	assert.NotNil(t, rec)
	assert.Equal(t, entity.StatusSent, rec.Status)
}
