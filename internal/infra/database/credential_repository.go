package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ednsy/leadrosetta/internal/entity"
)

type CredentialRepository struct {
	DB *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{DB: db}
}

// Upsert is idempotent per (user_id, provider). expires_at arrives already
// absolute; the token manager computed it at store time.
func (r *CredentialRepository) Upsert(ctx context.Context, c *entity.Credential) error {
	query := `
		INSERT INTO crm_connections (user_id, provider, access_token, refresh_token, expires_at, scope, token_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, provider)
		DO UPDATE SET
			access_token  = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at    = EXCLUDED.expires_at,
			scope         = EXCLUDED.scope,
			token_type    = EXCLUDED.token_type,
			updated_at    = NOW()
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(ctx, query,
		c.UserID,
		c.Provider,
		c.AccessToken,
		nullString(c.RefreshToken),
		c.ExpiresAt,
		nullString(c.Scope),
		c.TokenType,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CredentialRepository) Find(ctx context.Context, userID string, provider entity.Provider) (*entity.Credential, error) {
	query := `
		SELECT user_id, provider, access_token, COALESCE(refresh_token, ''), expires_at,
		       COALESCE(scope, ''), token_type, created_at, updated_at
		FROM crm_connections
		WHERE user_id = $1 AND provider = $2
	`

	var c entity.Credential
	var expiresAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID, provider).Scan(
		&c.UserID, &c.Provider, &c.AccessToken, &c.RefreshToken, &expiresAt,
		&c.Scope, &c.TokenType, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		c.ExpiresAt = &expiresAt.Time
	}
	return &c, nil
}

// Delete is unconditional; it succeeds even when no row exists, since the
// goal is "not connected" either way.
func (r *CredentialRepository) Delete(ctx context.Context, userID string, provider entity.Provider) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM crm_connections WHERE user_id = $1 AND provider = $2`, userID, provider)
	return err
}

func (r *CredentialRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Credential, error) {
	query := `
		SELECT user_id, provider, access_token, COALESCE(refresh_token, ''), expires_at,
		       COALESCE(scope, ''), token_type, created_at, updated_at
		FROM crm_connections
		WHERE user_id = $1
		ORDER BY provider
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*entity.Credential
	for rows.Next() {
		var c entity.Credential
		var expiresAt sql.NullTime
		if err := rows.Scan(
			&c.UserID, &c.Provider, &c.AccessToken, &c.RefreshToken, &expiresAt,
			&c.Scope, &c.TokenType, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			c.ExpiresAt = &expiresAt.Time
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
