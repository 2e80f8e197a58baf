package crm

import "fmt"

// Contact is the canonical record every provider adapter maps into. Absent
// vendor fields come back as empty strings; nothing vendor-shaped crosses
// this boundary.
type Contact struct {
	ProviderRowID string
	CompanyName   string
	Email         string
	Website       string
	Phone         string
	Industry      string
}

// AdapterError is any vendor-call failure: non-2xx, malformed credential,
// timeout. The orchestrator treats it as a whole-sync failure for that
// provider, so a half-paginated fetch is never committed.
type AdapterError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *AdapterError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: API %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
