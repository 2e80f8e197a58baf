package usecase

import "time"

type SyncProviderInput struct {
	UserID   string `json:"user_id"`
	Provider string `json:"provider"`
}

// SyncProviderOutput reports partial-success sync results: per-record
// failures are collected (bounded), not fatal.
type SyncProviderOutput struct {
	Provider string   `json:"provider"`
	Synced   int      `json:"synced"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}

type CreateManualProspectInput struct {
	UserID      string `json:"user_id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

type CreateDemoInput struct {
	UserID     string         `json:"user_id"`
	ProspectID string         `json:"prospect_id"`
	Origin     string         `json:"origin"` // base URL demo links hang off
	AuditData  map[string]any `json:"audit_data,omitempty"`
}

type CreateDemoOutput struct {
	ProspectID string `json:"prospect_id"`
	DemoLink   string `json:"demo_link"`
	Status     string `json:"status"`
}

type CreateDemoBatchInput struct {
	UserID      string   `json:"user_id"`
	ProspectIDs []string `json:"prospect_ids"`
	Origin      string   `json:"origin"`
}

type CreateDemoBatchOutput struct {
	Created int      `json:"created"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

type SendDemoInput struct {
	UserID     string     `json:"user_id"`
	ProspectID string     `json:"prospect_id"`
	SenderName string     `json:"sender_name,omitempty"`
	Origin     string     `json:"origin"`
	SendTime   *time.Time `json:"send_time,omitempty"` // backfill/testing; defaults to now
}
