package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/infra/queue"
)

// ApproveDemoUseCase moves a draft demo to approved, the manual review gate
// before anything is emailed.
type ApproveDemoUseCase struct {
	Funnel entity.FunnelRepositoryInterface
}

func NewApproveDemoUseCase(funnel entity.FunnelRepositoryInterface) *ApproveDemoUseCase {
	return &ApproveDemoUseCase{Funnel: funnel}
}

func (uc *ApproveDemoUseCase) Execute(ctx context.Context, userID, prospectID string) (*entity.FunnelRecord, error) {
	if userID == "" || prospectID == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "user_id and prospect_id are required"}
	}
	if err := requireOwnedRecord(ctx, uc.Funnel, userID, prospectID); err != nil {
		return nil, err
	}

	rec, ok, err := uc.Funnel.Advance(ctx, prospectID, entity.StatusApproved, time.Now())
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if !ok {
		return nil, transitionFailure(ctx, uc.Funnel, prospectID, entity.StatusApproved)
	}
	return rec, nil
}

// SendDemoUseCase transitions an approved demo to sent and enqueues the
// outreach email. The transition commits first: a demo must never be marked
// sent twice, so the guard on the status update is the send-exactly-once
// gate, and queue publishing rides behind it.
type SendDemoUseCase struct {
	Funnel    entity.FunnelRepositoryInterface
	Prospects entity.ProspectRepositoryInterface
	Producer  QueueProducerInterface
}

func NewSendDemoUseCase(
	funnel entity.FunnelRepositoryInterface,
	prospects entity.ProspectRepositoryInterface,
	producer QueueProducerInterface,
) *SendDemoUseCase {
	return &SendDemoUseCase{Funnel: funnel, Prospects: prospects, Producer: producer}
}

func (uc *SendDemoUseCase) Execute(ctx context.Context, input SendDemoInput) (*entity.FunnelRecord, error) {
	if input.UserID == "" || input.ProspectID == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "user_id and prospect_id are required"}
	}
	// Ownership is checked before the write: the guarded update is the
	// send-exactly-once gate, so it must never fire for a caller who is then
	// turned away.
	if err := requireOwnedRecord(ctx, uc.Funnel, input.UserID, input.ProspectID); err != nil {
		return nil, err
	}

	sendTime := time.Now()
	if input.SendTime != nil {
		sendTime = *input.SendTime
	}

	rec, ok, err := uc.Funnel.Advance(ctx, input.ProspectID, entity.StatusSent, sendTime)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if !ok {
		return nil, transitionFailure(ctx, uc.Funnel, input.ProspectID, entity.StatusSent)
	}

	prospect, err := uc.Prospects.FindByID(ctx, input.ProspectID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	payload := queue.DemoEmailPayload{
		ProspectID:  prospect.ID,
		CompanyName: prospect.CompanyName,
		Email:       prospect.Email,
		DemoLink:    rec.DemoLink,
		SenderName:  input.SenderName,
		Origin:      input.Origin,
	}
	if err := uc.Producer.PublishDemoEmail(ctx, payload); err != nil {
		// The record is already sent; the worker side has a DLQ, but a
		// publish failure means nothing was queued at all. Surface loudly and
		// leave the state as-is for a manual resend.
		log.Printf("⚠️ CRITICAL: demo %s marked sent but email publish failed: %v", prospect.ID, err)
		return rec, &TechnicalError{Code: "QUEUE_ERROR", Message: "demo marked sent but email could not be queued"}
	}

	log.Printf("📧 demo email queued for %s (%s)", prospect.CompanyName, prospect.Email)
	return rec, nil
}

// requireOwnedRecord verifies the funnel record exists and belongs to the
// caller before any state is touched. A record owned by someone else looks
// exactly like a missing one. Ownership never changes after creation, so the
// check cannot race the guarded update that follows.
func requireOwnedRecord(ctx context.Context, funnel entity.FunnelRepositoryInterface, userID, prospectID string) error {
	rec, err := funnel.FindByProspectID(ctx, prospectID)
	if errors.Is(err, entity.ErrFunnelNotFound) {
		return &DomainError{Code: CodeNotFound, Message: "no demo found for this prospect"}
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if rec.UserID != userID {
		return &DomainError{Code: CodeNotFound, Message: "no demo found for this prospect"}
	}
	return nil
}

// transitionFailure distinguishes "record missing" from "wrong state" after
// a guarded update matched nothing.
func transitionFailure(ctx context.Context, funnel entity.FunnelRepositoryInterface, prospectID string, to entity.FunnelStatus) error {
	rec, err := funnel.FindByProspectID(ctx, prospectID)
	if errors.Is(err, entity.ErrFunnelNotFound) {
		return &DomainError{Code: CodeNotFound, Message: "no demo found for this prospect"}
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: "cannot move demo from " + string(rec.Status) + " to " + string(to),
	}
}
