package entity

import (
	"context"
	"errors"
	"time"
)

var ErrNotConnected = errors.New("provider not connected")

// Credential is the stored delegated-auth token set for a (user, provider)
// pair. For API-key providers only AccessToken is populated; composite keys
// (Pipedrive "domain:apiToken", Notion "databaseId:apiKey") live in
// AccessToken and are split at the adapter boundary.
type Credential struct {
	UserID       string     `json:"user_id"`
	Provider     Provider   `json:"provider"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	TokenType    string     `json:"token_type"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TokenData is what a consent flow or a refresh hands us. ExpiresIn is
// relative seconds; the manager converts it to an absolute instant at store
// time so readers never recompute deadlines from a shared duration.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type"`
}

// CredentialScope says whose credential to use: a specific user's, or the
// app-level default configured in the environment. Resolved once at the call
// site; never inferred from an empty user id.
type CredentialScope struct {
	userID     string
	appDefault bool
}

func PerUser(userID string) CredentialScope { return CredentialScope{userID: userID} }
func AppDefault() CredentialScope           { return CredentialScope{appDefault: true} }

func (s CredentialScope) IsAppDefault() bool { return s.appDefault }

// UserID returns the user id and false when the scope is the app default.
func (s CredentialScope) UserID() (string, bool) {
	if s.appDefault {
		return "", false
	}
	return s.userID, true
}

type CredentialRepositoryInterface interface {
	// Upsert is idempotent, keyed by (user_id, provider).
	Upsert(ctx context.Context, c *Credential) error
	Find(ctx context.Context, userID string, provider Provider) (*Credential, error)
	Delete(ctx context.Context, userID string, provider Provider) error
	ListByUser(ctx context.Context, userID string) ([]*Credential, error)
}
