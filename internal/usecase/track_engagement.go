package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// TrackEngagementUseCase ingests signals from the prospect's side of the
// funnel: pixel opens, link clicks, demo-page events, and manual reply
// marks. Open and click arrive on public unauthenticated endpoints, so they
// are deliberately silent about whether a record exists.
type TrackEngagementUseCase struct {
	Funnel entity.FunnelRepositoryInterface
	Now    func() time.Time
}

func NewTrackEngagementUseCase(funnel entity.FunnelRepositoryInterface) *TrackEngagementUseCase {
	return &TrackEngagementUseCase{Funnel: funnel, Now: time.Now}
}

// RecordOpened handles the tracking pixel. Every outcome is a no-op to the
// caller: unknown prospect, already opened, not yet sent. Email scanners hit
// pixels speculatively and must learn nothing from the response.
func (uc *TrackEngagementUseCase) RecordOpened(ctx context.Context, prospectID string) {
	if prospectID == "" {
		return
	}
	_, ok, err := uc.Funnel.Advance(ctx, prospectID, entity.StatusOpened, uc.Now())
	if err != nil {
		log.Printf("⚠️ open tracking failed for prospect %s: %v", prospectID, err)
		return
	}
	if ok {
		log.Printf("👀 demo opened by prospect %s", prospectID)
	}
}

// RecordClicked handles the redirect link. The transition is best-effort;
// the destination URL is returned whenever the record exists so the visitor
// always lands on their demo, even on a repeat click. Empty string means no
// record, redirect to the home page.
func (uc *TrackEngagementUseCase) RecordClicked(ctx context.Context, prospectID string) string {
	if prospectID == "" {
		return ""
	}
	rec, ok, err := uc.Funnel.Advance(ctx, prospectID, entity.StatusClicked, uc.Now())
	if err != nil {
		log.Printf("⚠️ click tracking failed for prospect %s: %v", prospectID, err)
	}
	if ok {
		log.Printf("🖱️ demo clicked by prospect %s", prospectID)
		return rec.DemoLink
	}

	existing, err := uc.Funnel.FindByProspectID(ctx, prospectID)
	if err != nil {
		return ""
	}
	return existing.DemoLink
}

// RecordReplied marks a reply. Unlike opens and clicks this is an explicit
// dashboard action, so failures are reported: NOT_FOUND when there is no
// demo, INVALID_TRANSITION when the funnel already ended in replied.
func (uc *TrackEngagementUseCase) RecordReplied(ctx context.Context, userID, prospectID string) (*entity.FunnelRecord, error) {
	if userID == "" || prospectID == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "user_id and prospect_id are required"}
	}
	if err := requireOwnedRecord(ctx, uc.Funnel, userID, prospectID); err != nil {
		return nil, err
	}

	rec, ok, err := uc.Funnel.Advance(ctx, prospectID, entity.StatusReplied, uc.Now())
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if !ok {
		return nil, transitionFailure(ctx, uc.Funnel, prospectID, entity.StatusReplied)
	}
	return rec, nil
}

// RecordEvent stores a granular demo-page event. A page_view also counts as
// proof the email was opened, covering pixel-blocking mail clients.
func (uc *TrackEngagementUseCase) RecordEvent(ctx context.Context, prospectID, eventType string, payload map[string]any) error {
	if prospectID == "" {
		return &DomainError{Code: CodeValidationError, Message: "prospect_id is required"}
	}
	if err := ValidateDemoEvent(eventType); err != nil {
		return err
	}

	if err := uc.Funnel.RecordEvent(ctx, prospectID, eventType, payload); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if eventType == "page_view" {
		uc.RecordOpened(ctx, prospectID)
	}
	return nil
}

// ListFunnel returns the user's demos with their funnel state, newest first.
func (uc *TrackEngagementUseCase) ListFunnel(ctx context.Context, userID string) ([]*entity.FunnelRecord, error) {
	if userID == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "user_id is required"}
	}
	recs, err := uc.Funnel.ListByUser(ctx, userID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	return recs, nil
}

// GetFunnelRecord fetches one demo's funnel state, scoped to its owner.
func (uc *TrackEngagementUseCase) GetFunnelRecord(ctx context.Context, userID, prospectID string) (*entity.FunnelRecord, error) {
	rec, err := uc.Funnel.FindByProspectID(ctx, prospectID)
	if errors.Is(err, entity.ErrFunnelNotFound) {
		return nil, &DomainError{Code: CodeNotFound, Message: "no demo found for this prospect"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if rec.UserID != userID {
		return nil, &DomainError{Code: CodeNotFound, Message: "no demo found for this prospect"}
	}
	return rec, nil
}
