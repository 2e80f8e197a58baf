package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ednsy/leadrosetta/internal/entity"
)

type PlanRepository struct {
	DB *sql.DB
}

func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

// TierForUser reads the tier the billing webhook last wrote. A user without
// a row (or with an unknown label) resolves to starter, matching the
// signed-in default before billing is connected.
func (r *PlanRepository) TierForUser(ctx context.Context, userID string) (entity.PlanTier, error) {
	query := `SELECT plan_tier FROM user_plans WHERE user_id = $1`

	var raw string
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TierStarter, nil
	}
	if err != nil {
		return "", err
	}

	tier, err := entity.ParsePlanTier(raw)
	if err != nil {
		return entity.TierStarter, nil
	}
	return tier, nil
}

func (r *PlanRepository) SetTier(ctx context.Context, userID string, tier entity.PlanTier) error {
	query := `
		INSERT INTO user_plans (user_id, plan_tier, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET plan_tier = EXCLUDED.plan_tier, updated_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, userID, tier)
	return err
}
