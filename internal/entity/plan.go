package entity

import (
	"context"
	"errors"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanTier is the billing tier resolved for a user. The engine only needs
// the tier → monthly demo ceiling mapping; billing itself lives elsewhere.
type PlanTier string

const (
	TierFree    PlanTier = "free"
	TierStarter PlanTier = "starter"
	TierPro     PlanTier = "pro"
	TierTeams   PlanTier = "teams" // sold as "Agency"
)

func ParsePlanTier(s string) (PlanTier, error) {
	switch PlanTier(s) {
	case TierFree, TierStarter, TierPro, TierTeams:
		return PlanTier(s), nil
	}
	return "", errors.New("unknown plan tier: " + s)
}

const (
	StarterDemosPerMonth = 30
	ProDemosPerMonth     = 100

	// Anonymous free-try demos per calendar month (no account).
	FreeDemosPerMonth = 5
)

// MonthlyDemoLimit returns the demo-creation ceiling for the tier.
// unlimited=true means no cap (teams). Free has no dashboard quota at all.
func (t PlanTier) MonthlyDemoLimit() (limit int, unlimited bool) {
	switch t {
	case TierStarter:
		return StarterDemosPerMonth, false
	case TierPro:
		return ProDemosPerMonth, false
	case TierTeams:
		return 0, true
	default:
		return 0, false
	}
}

type PlanRepositoryInterface interface {
	TierForUser(ctx context.Context, userID string) (PlanTier, error)
	SetTier(ctx context.Context, userID string, tier PlanTier) error
}
