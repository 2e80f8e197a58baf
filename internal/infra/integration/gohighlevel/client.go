package gohighlevel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ednsy/leadrosetta/internal/infra/integration/crm"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: "https://rest.gohighlevel.com/v1",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// FetchAll lists contacts with Bearer auth. GHL payloads are loosely shaped
// (fields move between companyName/company/name and so on), so every
// alternative is declared in the DTO and resolved here, in one place.
func (c *Client) FetchAll(ctx context.Context, accessToken string) ([]crm.Contact, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/contacts/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &crm.AdapterError{Provider: "gohighlevel", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		msg := fmt.Sprintf("GoHighLevel API %d", resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &crm.AdapterError{Provider: "gohighlevel", StatusCode: resp.StatusCode, Message: msg}
	}

	var data contactsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &crm.AdapterError{Provider: "gohighlevel", Message: "decode: " + err.Error()}
	}

	var all []crm.Contact
	for _, raw := range data.Contacts {
		if contact, ok := mapContact(raw); ok {
			all = append(all, contact)
		}
	}
	return all, nil
}

func mapContact(raw ghlContact) (crm.Contact, bool) {
	id := firstNonEmpty(raw.ID, raw.ContactID)
	if id == "" {
		return crm.Contact{}, false
	}

	company := firstNonEmpty(raw.CompanyName, raw.Company, raw.Name)
	if company == "" {
		company = "Unknown"
	}

	email := strings.TrimSpace(raw.Email)
	if email == "" && len(raw.Emails) > 0 {
		email = strings.TrimSpace(raw.Emails[0])
	}
	phone := firstNonEmpty(raw.Phone, raw.PhoneNumber)
	if phone == "" && len(raw.Phones) > 0 {
		phone = strings.TrimSpace(raw.Phones[0])
	}
	if company == "Unknown" && email == "" && phone == "" {
		return crm.Contact{}, false
	}

	industry := strings.TrimSpace(raw.Industry)
	if industry == "" && len(raw.Tags) > 0 {
		industry = strings.TrimSpace(raw.Tags[0])
	}

	return crm.Contact{
		ProviderRowID: id,
		CompanyName:   company,
		Email:         email,
		Website:       firstNonEmpty(raw.Website, raw.WebsiteURL),
		Phone:         phone,
		Industry:      industry,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
