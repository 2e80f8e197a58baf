package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// MaxSyncErrors bounds the per-record error list in the sync result so a
// fully broken vendor export cannot balloon the response.
const MaxSyncErrors = 25

// SyncProviderUseCase pulls every contact from one provider and upserts
// each into the canonical prospect store. Re-running with unchanged vendor
// data is fully idempotent.
type SyncProviderUseCase struct {
	Prospects entity.ProspectRepositoryInterface
	Tokens    *TokenManager
	Adapters  map[entity.Provider]CRMAdapter
}

func NewSyncProviderUseCase(
	prospects entity.ProspectRepositoryInterface,
	tokens *TokenManager,
	adapters map[entity.Provider]CRMAdapter,
) *SyncProviderUseCase {
	return &SyncProviderUseCase{
		Prospects: prospects,
		Tokens:    tokens,
		Adapters:  adapters,
	}
}

func (uc *SyncProviderUseCase) Execute(ctx context.Context, input SyncProviderInput) (*SyncProviderOutput, error) {
	provider, err := entity.ParseProvider(input.Provider)
	if err != nil {
		return nil, &DomainError{Code: CodeValidationError, Message: err.Error()}
	}
	adapter, ok := uc.Adapters[provider]
	if !ok {
		return nil, &DomainError{Code: CodeValidationError, Message: "provider " + input.Provider + " cannot be synced"}
	}
	if input.UserID == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "user_id is required"}
	}

	token, err := uc.Tokens.GetValidToken(ctx, entity.PerUser(input.UserID), provider)
	if err != nil {
		return nil, err
	}

	// A fetch failure (non-2xx, timeout, truncated pagination) fails the
	// whole sync for this provider; nothing half-fetched is committed.
	contacts, err := adapter.FetchAll(ctx, token)
	if err != nil {
		return nil, &DomainError{Code: CodeAdapterError, Message: err.Error()}
	}

	out := &SyncProviderOutput{Provider: string(provider), Total: len(contacts)}
	for _, c := range contacts {
		prospect := &entity.Prospect{
			UserID:        input.UserID,
			Provider:      provider,
			ProviderRowID: c.ProviderRowID,
			CompanyName:   c.CompanyName,
			Email:         c.Email,
			Website:       c.Website,
			Phone:         c.Phone,
			Industry:      c.Industry,
		}
		if err := uc.Prospects.Upsert(ctx, prospect); err != nil {
			if len(out.Errors) < MaxSyncErrors {
				out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", c.ProviderRowID, err))
			}
			continue
		}
		out.Synced++
	}

	log.Printf("✅ sync %s: %d of %d contacts for user %s", provider, out.Synced, out.Total, input.UserID)
	return out, nil
}
