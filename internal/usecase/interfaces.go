package usecase

import (
	"context"
	"time"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/infra/integration/crm"
	"github.com/ednsy/leadrosetta/internal/infra/queue"
)

// CRMAdapter is the per-provider contract: authenticate with the given
// credential, paginate to completion, return canonical contacts. A partial
// fetch must fail rather than silently truncate.
type CRMAdapter interface {
	FetchAll(ctx context.Context, accessToken string) ([]crm.Contact, error)
}

// OAuthRefresher refreshes and revokes delegated tokens for providers whose
// credentials expire.
type OAuthRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenData, error)
	Revoke(ctx context.Context, accessToken string) error
}

type QueueProducerInterface interface {
	PublishDemoEmail(ctx context.Context, payload queue.DemoEmailPayload) error
}

// MonthlyCounter backs the anonymous free-demo limit. Take increments the
// caller's count for the current calendar month and returns the new total.
type MonthlyCounter interface {
	Take(ctx context.Context, key string, now time.Time) (int64, error)
}

type PlanResolver interface {
	TierForUser(ctx context.Context, userID string) (entity.PlanTier, error)
}
