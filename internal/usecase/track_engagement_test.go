package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ednsy/leadrosetta/internal/entity"
)

func TestRecordOpenedIsSilentOnEveryOutcome(t *testing.T) {
	ctx := context.Background()
	uc := NewTrackEngagementUseCase(new(MockFunnelRepository))

	// Empty id: nothing happens, nothing panics.
	uc.RecordOpened(ctx, "")

	// Guard miss (already opened, or never sent): still silent.
	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusOpened, mock.Anything).Return(nil, false, nil)
	uc = NewTrackEngagementUseCase(funnel)
	uc.RecordOpened(ctx, "pr-1")

	// Store error: logged, swallowed.
	funnel = new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusOpened, mock.Anything).Return(nil, false, assert.AnError)
	uc = NewTrackEngagementUseCase(funnel)
	uc.RecordOpened(ctx, "pr-1")
}

func TestRecordClickedReturnsLinkOnTransition(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusClicked, mock.Anything).
		Return(sentRecord(entity.StatusClicked), true, nil)

	uc := NewTrackEngagementUseCase(funnel)

	dest := uc.RecordClicked(ctx, "pr-1")
	assert.Equal(t, "https://app.example.com/home-services/pr-1", dest)
}

func TestRecordClickedRepeatStillRedirects(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusClicked, mock.Anything).Return(nil, false, nil)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusClicked), nil)

	uc := NewTrackEngagementUseCase(funnel)

	dest := uc.RecordClicked(ctx, "pr-1")
	assert.Equal(t, "https://app.example.com/home-services/pr-1", dest)
}

func TestRecordClickedUnknownProspectGoesHome(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "nope", entity.StatusClicked, mock.Anything).Return(nil, false, nil)
	funnel.On("FindByProspectID", ctx, "nope").Return(nil, entity.ErrFunnelNotFound)

	uc := NewTrackEngagementUseCase(funnel)

	assert.Equal(t, "", uc.RecordClicked(ctx, "nope"))
	assert.Equal(t, "", uc.RecordClicked(ctx, ""))
}

func TestRecordRepliedFromAnyNonTerminalState(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusSent), nil)
	funnel.On("Advance", ctx, "pr-1", entity.StatusReplied, mock.Anything).
		Return(sentRecord(entity.StatusReplied), true, nil)

	uc := NewTrackEngagementUseCase(funnel)

	rec, err := uc.RecordReplied(ctx, "user-1", "pr-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusReplied, rec.Status)
}

func TestRecordRepliedByNonOwnerLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusSent), nil)

	uc := NewTrackEngagementUseCase(funnel)

	_, err := uc.RecordReplied(ctx, "user-2", "pr-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, de.Code)
	funnel.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordRepliedTwiceIsConflict(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("Advance", ctx, "pr-1", entity.StatusReplied, mock.Anything).Return(nil, false, nil)
	funnel.On("FindByProspectID", ctx, "pr-1").Return(sentRecord(entity.StatusReplied), nil)

	uc := NewTrackEngagementUseCase(funnel)

	_, err := uc.RecordReplied(ctx, "user-1", "pr-1")
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidTransition, de.Code)
}

func TestRecordEventPageViewCountsAsOpen(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("RecordEvent", ctx, "pr-1", "page_view", mock.Anything).Return(nil)
	funnel.On("Advance", ctx, "pr-1", entity.StatusOpened, mock.Anything).
		Return(sentRecord(entity.StatusOpened), true, nil)

	uc := NewTrackEngagementUseCase(funnel)

	err := uc.RecordEvent(ctx, "pr-1", "page_view", map[string]any{"path": "/home-services/pr-1"})
	assert.NoError(t, err)
	funnel.AssertCalled(t, "Advance", ctx, "pr-1", entity.StatusOpened, mock.Anything)
}

func TestRecordEventOtherEventsDoNotTouchFunnel(t *testing.T) {
	ctx := context.Background()

	funnel := new(MockFunnelRepository)
	funnel.On("RecordEvent", ctx, "pr-1", "chat_opened", mock.Anything).Return(nil)

	uc := NewTrackEngagementUseCase(funnel)

	assert.NoError(t, uc.RecordEvent(ctx, "pr-1", "chat_opened", nil))
	funnel.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordEventRejectsUnknownType(t *testing.T) {
	uc := NewTrackEngagementUseCase(new(MockFunnelRepository))

	err := uc.RecordEvent(context.Background(), "pr-1", "rm_rf", nil)
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeValidationError, de.Code)
}
