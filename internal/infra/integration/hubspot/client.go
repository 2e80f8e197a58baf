package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ednsy/leadrosetta/internal/infra/integration/crm"
)

const contactProperties = "firstname,lastname,email,company,website,phone,industry"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: "https://api.hubapi.com",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a fake server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// FetchAll pages through /crm/v3/objects/contacts to completion using the
// Private App token as Bearer auth.
func (c *Client) FetchAll(ctx context.Context, accessToken string) ([]crm.Contact, error) {
	var all []crm.Contact
	after := ""

	for {
		u, err := url.Parse(c.baseURL + "/crm/v3/objects/contacts")
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("limit", "100")
		q.Set("properties", contactProperties)
		if after != "" {
			q.Set("after", after)
		}
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &crm.AdapterError{Provider: "hubspot", Message: err.Error()}
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var apiErr errorResponse
			msg := fmt.Sprintf("HubSpot API %d", resp.StatusCode)
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
				msg = apiErr.Message
			}
			return nil, &crm.AdapterError{Provider: "hubspot", StatusCode: resp.StatusCode, Message: msg}
		}

		var page contactsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &crm.AdapterError{Provider: "hubspot", Message: "decode: " + err.Error()}
		}

		for _, raw := range page.Results {
			if contact, ok := mapContact(raw); ok {
				all = append(all, contact)
			}
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			break
		}
		after = page.Paging.Next.After
	}

	return all, nil
}

// mapContact converts one vendor record into the canonical shape. Company
// name falls back to "first last", then "Unknown". Rows with no name, email
// or phone are skipped.
func mapContact(raw contactResult) (crm.Contact, bool) {
	p := raw.Properties
	first := strings.TrimSpace(p["firstname"])
	last := strings.TrimSpace(p["lastname"])
	company := strings.TrimSpace(p["company"])
	if company == "" {
		company = strings.TrimSpace(strings.Join([]string{first, last}, " "))
	}
	if company == "" {
		company = "Unknown"
	}

	email := strings.TrimSpace(p["email"])
	phone := strings.TrimSpace(p["phone"])
	if company == "Unknown" && email == "" && phone == "" {
		return crm.Contact{}, false
	}

	return crm.Contact{
		ProviderRowID: raw.ID,
		CompanyName:   company,
		Email:         email,
		Website:       strings.TrimSpace(p["website"]),
		Phone:         phone,
		Industry:      strings.TrimSpace(p["industry"]),
	}, true
}
