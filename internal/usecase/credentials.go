package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// RefreshWindow is how close to expiry a token may get before it is
// refreshed instead of returned.
const RefreshWindow = 5 * time.Minute

// TokenManager owns the credential lifecycle: store with absolute expiry,
// hand out valid tokens (refreshing when needed), revoke on disconnect.
type TokenManager struct {
	Repo       entity.CredentialRepositoryInterface
	Refreshers map[entity.Provider]OAuthRefresher

	// AppDefaults are environment-configured fallback credentials, used only
	// when the caller explicitly passes entity.AppDefault().
	AppDefaults map[entity.Provider]string

	Now func() time.Time
}

func NewTokenManager(repo entity.CredentialRepositoryInterface, refreshers map[entity.Provider]OAuthRefresher, appDefaults map[entity.Provider]string) *TokenManager {
	return &TokenManager{
		Repo:        repo,
		Refreshers:  refreshers,
		AppDefaults: appDefaults,
		Now:         time.Now,
	}
}

// GetValidToken returns a token guaranteed usable at call time. When the
// stored credential expires within RefreshWindow it is refreshed first; an
// expired credential without a refresh token fails closed with
// REFRESH_FAILED rather than handing back a stale token.
func (m *TokenManager) GetValidToken(ctx context.Context, scope entity.CredentialScope, provider entity.Provider) (string, error) {
	if scope.IsAppDefault() {
		if token := m.AppDefaults[provider]; token != "" {
			return token, nil
		}
		return "", &DomainError{Code: CodeNotConfigured, Message: "no app-level credential configured for " + string(provider)}
	}

	userID, _ := scope.UserID()
	cred, err := m.Repo.Find(ctx, userID, provider)
	if errors.Is(err, entity.ErrNotConnected) {
		return "", &DomainError{Code: CodeNotConfigured, Message: string(provider) + " is not connected"}
	}
	if err != nil {
		return "", &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if cred.ExpiresAt == nil || m.Now().Add(RefreshWindow).Before(*cred.ExpiresAt) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", &DomainError{Code: CodeRefreshFailed, Message: string(provider) + " token is expired and cannot be refreshed"}
	}
	refresher := m.Refreshers[provider]
	if refresher == nil {
		return "", &DomainError{Code: CodeRefreshFailed, Message: string(provider) + " tokens cannot be refreshed"}
	}

	fresh, err := refresher.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		return "", &DomainError{Code: CodeRefreshFailed, Message: "refresh failed: " + err.Error()}
	}
	if fresh.RefreshToken == "" {
		// Some providers rotate refresh tokens, some keep them. Preserve the
		// old one when the response omits it.
		fresh.RefreshToken = cred.RefreshToken
	}

	if err := m.StoreTokens(ctx, userID, provider, *fresh); err != nil {
		return "", err
	}

	log.Printf("🔄 refreshed %s token for user %s", provider, userID)
	return fresh.AccessToken, nil
}

// StoreTokens upserts the credential, converting the relative expires_in to
// an absolute instant now, at write time, so every later reader sees the
// same deadline.
func (m *TokenManager) StoreTokens(ctx context.Context, userID string, provider entity.Provider, data entity.TokenData) error {
	if data.AccessToken == "" {
		return &DomainError{Code: CodeValidationError, Message: "access_token is required"}
	}

	cred := &entity.Credential{
		UserID:       userID,
		Provider:     provider,
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		Scope:        data.Scope,
		TokenType:    data.TokenType,
	}
	if cred.TokenType == "" {
		cred.TokenType = "Bearer"
	}
	if data.ExpiresIn > 0 {
		expiresAt := m.Now().Add(time.Duration(data.ExpiresIn) * time.Second)
		cred.ExpiresAt = &expiresAt
	}

	if err := m.Repo.Upsert(ctx, cred); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to store tokens: " + err.Error()}
	}
	return nil
}

// Revoke disconnects a provider: remote revoke is best-effort, local delete
// is unconditional. The local record is the source of truth for
// "connected", so a vendor outage must not leave a ghost connection.
func (m *TokenManager) Revoke(ctx context.Context, userID string, provider entity.Provider) error {
	if refresher := m.Refreshers[provider]; refresher != nil {
		if cred, err := m.Repo.Find(ctx, userID, provider); err == nil {
			if err := refresher.Revoke(ctx, cred.AccessToken); err != nil {
				log.Printf("⚠️ remote revoke failed for %s (user %s): %v", provider, userID, err)
			}
		}
	}

	if err := m.Repo.Delete(ctx, userID, provider); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to delete credential: " + err.Error()}
	}
	return nil
}

// ConnectionStatus is one row of the connections listing.
type ConnectionStatus struct {
	Provider  entity.Provider `json:"provider"`
	Connected bool            `json:"connected"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Scope     string          `json:"scope,omitempty"`
}

func (m *TokenManager) ListConnections(ctx context.Context, userID string) ([]ConnectionStatus, error) {
	creds, err := m.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	connected := make(map[entity.Provider]*entity.Credential, len(creds))
	for _, c := range creds {
		connected[c.Provider] = c
	}

	providers := []entity.Provider{entity.ProviderNotion, entity.ProviderHubSpot, entity.ProviderGoHighLevel, entity.ProviderPipedrive}
	out := make([]ConnectionStatus, 0, len(providers))
	for _, p := range providers {
		status := ConnectionStatus{Provider: p}
		if c, ok := connected[p]; ok {
			status.Connected = true
			status.ExpiresAt = c.ExpiresAt
			status.Scope = c.Scope
		}
		out = append(out, status)
	}
	return out, nil
}
