package entity

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

var (
	ErrProspectNotFound = errors.New("prospect not found")
)

// Provider identifies the external system a prospect row was synced from.
type Provider string

const (
	ProviderNotion      Provider = "notion"
	ProviderHubSpot     Provider = "hubspot"
	ProviderGoHighLevel Provider = "gohighlevel"
	ProviderPipedrive   Provider = "pipedrive"
	ProviderManual      Provider = "manual"
)

func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderNotion, ProviderHubSpot, ProviderGoHighLevel, ProviderPipedrive, ProviderManual:
		return Provider(s), nil
	}
	return "", errors.New("unknown provider: " + s)
}

// Prospect is the canonical lead record. One row per
// (user_id, provider, provider_row_id); sync overwrites the mutable fields
// and never touches the provenance key.
type Prospect struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Provider      Provider  `json:"provider"`
	ProviderRowID string    `json:"provider_row_id"`
	CompanyName   string    `json:"company_name"`
	Email         string    `json:"email"`
	Website       string    `json:"website"`
	Phone         string    `json:"phone"`
	Industry      string    `json:"industry"`
	Status        string    `json:"status"` // display label, e.g. "Prospect", "Demo Created"
	DemoLink      string    `json:"demo_link,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Column limits enforced at the write boundary (vendor data is untrusted).
const (
	MaxNameLen     = 500
	MaxEmailLen    = 500
	MaxWebsiteLen  = 500
	MaxPhoneLen    = 100
	MaxIndustryLen = 200
	MaxStatusLen   = 100
)

// truncate clips to at most max bytes without splitting a UTF-8 rune, so
// clipped vendor text stays valid for Postgres.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Normalize clamps field lengths before persisting.
func (p *Prospect) Normalize() {
	p.CompanyName = truncate(p.CompanyName, MaxNameLen)
	p.Email = truncate(p.Email, MaxEmailLen)
	p.Website = truncate(p.Website, MaxWebsiteLen)
	p.Phone = truncate(p.Phone, MaxPhoneLen)
	p.Industry = truncate(p.Industry, MaxIndustryLen)
	if p.Status == "" {
		p.Status = "Prospect"
	}
	p.Status = truncate(p.Status, MaxStatusLen)
}

type ProspectRepositoryInterface interface {
	// Upsert inserts or updates by (user_id, provider, provider_row_id) and
	// fills ID/CreatedAt/UpdatedAt from the row.
	Upsert(ctx context.Context, p *Prospect) error
	FindByID(ctx context.Context, id string) (*Prospect, error)
	ListByUser(ctx context.Context, userID string) ([]*Prospect, error)
	UpdateDemoLink(ctx context.Context, id, demoURL, status string) error
}
