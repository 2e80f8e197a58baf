package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// CreateDemoUseCase creates the outreach artifact for a prospect: checks
// the plan quota, builds the demo URL from the prospect's industry, inserts
// the draft funnel record, and writes the link back onto the prospect row.
type CreateDemoUseCase struct {
	Prospects entity.ProspectRepositoryInterface
	Funnel    entity.FunnelRepositoryInterface
	Quota     *QuotaGate
}

func NewCreateDemoUseCase(
	prospects entity.ProspectRepositoryInterface,
	funnel entity.FunnelRepositoryInterface,
	quota *QuotaGate,
) *CreateDemoUseCase {
	return &CreateDemoUseCase{Prospects: prospects, Funnel: funnel, Quota: quota}
}

func (uc *CreateDemoUseCase) Execute(ctx context.Context, input CreateDemoInput) (*CreateDemoOutput, error) {
	if input.ProspectID == "" || input.UserID == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "user_id and prospect_id are required"}
	}
	if input.Origin == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "origin is required"}
	}

	prospect, err := uc.Prospects.FindByID(ctx, input.ProspectID)
	if errors.Is(err, entity.ErrProspectNotFound) {
		return nil, &DomainError{Code: CodeNotFound, Message: "prospect not found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	// Ownership check doubles as not-found so prospect ids don't leak
	// across users.
	if prospect.UserID != input.UserID {
		return nil, &DomainError{Code: CodeNotFound, Message: "prospect not found"}
	}

	if err := uc.Quota.CheckAndReserve(ctx, input.UserID); err != nil {
		return nil, err
	}

	demoURL := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(input.Origin, "/"), industrySlug(prospect.Industry), prospect.ID)

	rec := entity.NewFunnelRecord(prospect, demoURL, input.AuditData)
	if err := uc.Funnel.Create(ctx, rec); err != nil {
		if errors.Is(err, entity.ErrDemoExists) {
			return nil, &DomainError{Code: CodeDemoExists, Message: "demo already created for this prospect"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if err := uc.Prospects.UpdateDemoLink(ctx, prospect.ID, demoURL, "Demo Created"); err != nil {
		// The draft row without the link on the prospect would block a
		// retry forever; compensate before surfacing the failure.
		if delErr := uc.Funnel.Delete(ctx, prospect.ID); delErr != nil {
			log.Printf("⚠️ CRITICAL: orphaned draft for prospect %s: %v", prospect.ID, delErr)
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to attach demo link: " + err.Error()}
	}

	return &CreateDemoOutput{
		ProspectID: prospect.ID,
		DemoLink:   demoURL,
		Status:     string(rec.Status),
	}, nil
}

// ExecuteBatch creates demos for many prospects. The quota is re-checked
// before every item, so the batch stops at the ceiling instead of
// overshooting it; later items after a quota denial fail fast with the same
// reason.
func (uc *CreateDemoUseCase) ExecuteBatch(ctx context.Context, input CreateDemoBatchInput) (*CreateDemoBatchOutput, error) {
	if len(input.ProspectIDs) == 0 {
		return nil, &DomainError{Code: CodeValidationError, Message: "prospect_ids is required"}
	}

	out := &CreateDemoBatchOutput{Total: len(input.ProspectIDs)}
	for _, prospectID := range input.ProspectIDs {
		_, err := uc.Execute(ctx, CreateDemoInput{
			UserID:     input.UserID,
			ProspectID: prospectID,
			Origin:     input.Origin,
		})
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", prospectID, err))
			continue
		}
		out.Created++
	}
	return out, nil
}

// CreateManualProspectUseCase adds a single prospect from the dashboard, no
// CRM required. Provenance is provider "manual" with a generated row id.
type CreateManualProspectUseCase struct {
	Prospects entity.ProspectRepositoryInterface
}

func NewCreateManualProspectUseCase(prospects entity.ProspectRepositoryInterface) *CreateManualProspectUseCase {
	return &CreateManualProspectUseCase{Prospects: prospects}
}

func (uc *CreateManualProspectUseCase) Execute(ctx context.Context, input CreateManualProspectInput) (*entity.Prospect, error) {
	if errs := ValidateCreateManualProspectInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	prospect := &entity.Prospect{
		UserID:        input.UserID,
		Provider:      entity.ProviderManual,
		ProviderRowID: uuid.New().String(),
		CompanyName:   input.CompanyName,
		Email:         input.Email,
		Website:       input.Website,
		Phone:         input.Phone,
		Industry:      input.Industry,
	}
	if err := uc.Prospects.Upsert(ctx, prospect); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	return prospect, nil
}

// industrySlug turns an industry label into the URL segment the demo page
// lives under ("Health Care" → "health-care"). Unknown or empty labels fall
// back to "business".
func industrySlug(industry string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(industry)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "business"
	}
	return slug
}
