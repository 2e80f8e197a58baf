package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ednsy/leadrosetta/internal/entity"
)

type ProspectRepository struct {
	DB *sql.DB
}

func NewProspectRepository(db *sql.DB) *ProspectRepository {
	return &ProspectRepository{DB: db}
}

// Upsert writes a prospect keyed by (user_id, provider, provider_row_id).
// Mutable fields are overwritten on conflict; the provenance key never
// changes. Re-running a sync with identical data is a no-op apart from
// updated_at.
func (r *ProspectRepository) Upsert(ctx context.Context, p *entity.Prospect) error {
	p.Normalize()

	query := `
		INSERT INTO prospects (user_id, provider, provider_row_id, company_name, email, website, phone, industry, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id, provider, provider_row_id)
		DO UPDATE SET
			company_name = EXCLUDED.company_name,
			email        = EXCLUDED.email,
			website      = EXCLUDED.website,
			phone        = EXCLUDED.phone,
			industry     = EXCLUDED.industry,
			status       = EXCLUDED.status,
			updated_at   = NOW()
		RETURNING id, demo_link, created_at, updated_at
	`

	var demoLink sql.NullString
	err := r.DB.QueryRowContext(ctx, query,
		p.UserID,
		p.Provider,
		p.ProviderRowID,
		p.CompanyName,
		p.Email,
		nullString(p.Website),
		nullString(p.Phone),
		nullString(p.Industry),
		p.Status,
	).Scan(&p.ID, &demoLink, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	p.DemoLink = demoLink.String
	return nil
}

func (r *ProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	query := `
		SELECT id, user_id, provider, provider_row_id, company_name, email,
		       COALESCE(website, ''), COALESCE(phone, ''), COALESCE(industry, ''),
		       status, COALESCE(demo_link, ''), created_at, updated_at
		FROM prospects
		WHERE id = $1
	`

	var p entity.Prospect
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Provider, &p.ProviderRowID, &p.CompanyName, &p.Email,
		&p.Website, &p.Phone, &p.Industry, &p.Status, &p.DemoLink, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProspectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProspectRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Prospect, error) {
	query := `
		SELECT id, user_id, provider, provider_row_id, company_name, email,
		       COALESCE(website, ''), COALESCE(phone, ''), COALESCE(industry, ''),
		       status, COALESCE(demo_link, ''), created_at, updated_at
		FROM prospects
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*entity.Prospect
	for rows.Next() {
		var p entity.Prospect
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Provider, &p.ProviderRowID, &p.CompanyName, &p.Email,
			&p.Website, &p.Phone, &p.Industry, &p.Status, &p.DemoLink, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProspectRepository) UpdateDemoLink(ctx context.Context, id, demoURL, status string) error {
	query := `UPDATE prospects SET demo_link = $1, status = $2, updated_at = NOW() WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, demoURL, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrProspectNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
