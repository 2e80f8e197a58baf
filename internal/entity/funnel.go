package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFunnelNotFound = errors.New("funnel record not found")
	ErrDemoExists     = errors.New("demo already created for this prospect")
)

// FunnelStatus is the outreach funnel state of a demo.
// Strict forward order: draft < approved < sent < opened < clicked.
// replied is a side branch reachable from any non-terminal state.
type FunnelStatus string

const (
	StatusDraft    FunnelStatus = "draft"
	StatusApproved FunnelStatus = "approved"
	StatusSent     FunnelStatus = "sent"
	StatusOpened   FunnelStatus = "opened"
	StatusClicked  FunnelStatus = "clicked"
	StatusReplied  FunnelStatus = "replied"
)

func ParseFunnelStatus(s string) (FunnelStatus, error) {
	switch FunnelStatus(s) {
	case StatusDraft, StatusApproved, StatusSent, StatusOpened, StatusClicked, StatusReplied:
		return FunnelStatus(s), nil
	}
	return "", errors.New("unknown funnel status: " + s)
}

// funnelPredecessors is the transition table: the set of states a record must
// currently be in for a transition INTO the key state to apply. Guarded
// updates pass this set to the store so the check happens at the point of
// write, which keeps concurrent signals from regressing the funnel.
var funnelPredecessors = map[FunnelStatus][]FunnelStatus{
	StatusApproved: {StatusDraft},
	StatusSent:     {StatusApproved},
	StatusOpened:   {StatusSent},
	StatusClicked:  {StatusSent, StatusOpened},
	StatusReplied:  {StatusDraft, StatusApproved, StatusSent, StatusOpened, StatusClicked},
}

// LegalPredecessors returns the states from which a transition to `to` is
// allowed. Empty for draft: draft is only ever entered at creation.
func LegalPredecessors(to FunnelStatus) []FunnelStatus {
	preds := funnelPredecessors[to]
	out := make([]FunnelStatus, len(preds))
	copy(out, preds)
	return out
}

// CanAdvance reports whether a record currently in `from` may move to `to`.
func CanAdvance(from, to FunnelStatus) bool {
	for _, p := range funnelPredecessors[to] {
		if p == from {
			return true
		}
	}
	return false
}

// FunnelRecord tracks one demo through the outreach funnel. At most one per
// prospect. Timestamps are set exactly once, at the transition that
// establishes them.
type FunnelRecord struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	ProspectID    string         `json:"prospect_id"`
	Provider      Provider       `json:"provider"`
	ProviderRowID string         `json:"provider_row_id"`
	DemoLink      string         `json:"demo_link"`
	Status        FunnelStatus   `json:"status"`
	SendTime      *time.Time     `json:"send_time,omitempty"`
	OpenedAt      *time.Time     `json:"opened_at,omitempty"`
	ClickedAt     *time.Time     `json:"clicked_at,omitempty"`
	AuditData     map[string]any `json:"audit_data,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func NewFunnelRecord(p *Prospect, demoLink string, auditData map[string]any) *FunnelRecord {
	now := time.Now()
	return &FunnelRecord{
		ID:            uuid.New().String(),
		UserID:        p.UserID,
		ProspectID:    p.ID,
		Provider:      p.Provider,
		ProviderRowID: p.ProviderRowID,
		DemoLink:      demoLink,
		Status:        StatusDraft,
		AuditData:     auditData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type FunnelRepositoryInterface interface {
	Create(ctx context.Context, rec *FunnelRecord) error
	Delete(ctx context.Context, prospectID string) error
	FindByProspectID(ctx context.Context, prospectID string) (*FunnelRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*FunnelRecord, error)
	// Advance applies "SET status=to WHERE prospect_id=$1 AND status IN
	// (legal predecessors of to)" as one statement and sets the timestamp
	// column owned by `to` (send_time, opened_at, clicked_at). Returns the
	// updated record and false when the guard did not match.
	Advance(ctx context.Context, prospectID string, to FunnelStatus, at time.Time) (*FunnelRecord, bool, error)
	CountCreatedInMonth(ctx context.Context, userID string, month time.Time) (int, error)
	RecordEvent(ctx context.Context, prospectID, eventType string, payload map[string]any) error
}
