package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ednsy/leadrosetta/internal/entity"
)

// QuotaGate enforces the plan's monthly demo-creation ceiling. It is
// check-then-act: under concurrent creations the cap can be overshot by a
// small bounded margin, which is accepted; the batch path re-checks after
// every creation so a single batch can never blow past the limit.
type QuotaGate struct {
	Funnel entity.FunnelRepositoryInterface
	Plans  PlanResolver
	Now    func() time.Time
}

func NewQuotaGate(funnel entity.FunnelRepositoryInterface, plans PlanResolver) *QuotaGate {
	return &QuotaGate{Funnel: funnel, Plans: plans, Now: time.Now}
}

// CheckAndReserve returns nil when the user may create one more demo this
// calendar month, or QUOTA_EXCEEDED with the limit in the message.
func (g *QuotaGate) CheckAndReserve(ctx context.Context, userID string) error {
	tier, err := g.Plans.TierForUser(ctx, userID)
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to resolve plan: " + err.Error()}
	}

	limit, unlimited := tier.MonthlyDemoLimit()
	if unlimited {
		return nil
	}

	count, err := g.Funnel.CountCreatedInMonth(ctx, userID, g.Now())
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to count demos: " + err.Error()}
	}
	if count >= limit {
		return &DomainError{
			Code:    CodeQuotaExceeded,
			Message: fmt.Sprintf("monthly demo limit reached (%d/month on the %s plan)", limit, tier),
		}
	}
	return nil
}

// FreeDemoGate limits anonymous free-try demos per calendar month, counted
// server-side per visitor key.
type FreeDemoGate struct {
	Counter MonthlyCounter
	Limit   int
	Now     func() time.Time
}

func NewFreeDemoGate(counter MonthlyCounter) *FreeDemoGate {
	return &FreeDemoGate{Counter: counter, Limit: entity.FreeDemosPerMonth, Now: time.Now}
}

// Take consumes one free demo for the visitor and reports how many remain.
// When the limit is already spent it returns QUOTA_EXCEEDED.
func (g *FreeDemoGate) Take(ctx context.Context, visitorKey string) (remaining int, err error) {
	if visitorKey == "" {
		return 0, &DomainError{Code: CodeValidationError, Message: "visitor key is required"}
	}

	count, err := g.Counter.Take(ctx, visitorKey, g.Now())
	if err != nil {
		return 0, &TechnicalError{Code: "CACHE_ERROR", Message: "free demo counter: " + err.Error()}
	}
	if count > int64(g.Limit) {
		return 0, &DomainError{
			Code:    CodeQuotaExceeded,
			Message: fmt.Sprintf("you've used your %d free demos this month", g.Limit),
		}
	}
	return g.Limit - int(count), nil
}
