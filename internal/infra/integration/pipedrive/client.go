package pipedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ednsy/leadrosetta/internal/infra/integration/crm"
)

type Client struct {
	// baseURLFormat holds one %s for the company domain.
	baseURLFormat string
	http          *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURLFormat: "https://%s.pipedrive.com/api/v1",
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL bypasses the domain templating for tests.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURLFormat = baseURL + "%.0s"
	return c
}

// FetchAll pages through /persons. The stored credential is the composite
// "companyDomain:apiToken"; it is split here and nowhere else.
func (c *Client) FetchAll(ctx context.Context, accessToken string) ([]crm.Contact, error) {
	domain, token, err := splitCredential(accessToken)
	if err != nil {
		return nil, &crm.AdapterError{Provider: "pipedrive", Message: err.Error()}
	}
	baseURL := fmt.Sprintf(c.baseURLFormat, domain)

	var all []crm.Contact
	start := 0

	for start >= 0 {
		u, err := url.Parse(baseURL + "/persons")
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("api_token", token)
		q.Set("start", strconv.Itoa(start))
		q.Set("limit", "100")
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &crm.AdapterError{Provider: "pipedrive", Message: err.Error()}
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var apiErr struct {
				Error string `json:"error"`
			}
			msg := fmt.Sprintf("Pipedrive API %d", resp.StatusCode)
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
				msg = apiErr.Error
			}
			return nil, &crm.AdapterError{Provider: "pipedrive", StatusCode: resp.StatusCode, Message: msg}
		}

		var page personsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &crm.AdapterError{Provider: "pipedrive", Message: "decode: " + err.Error()}
		}

		for _, raw := range page.Data {
			if contact, ok := mapPerson(raw); ok {
				all = append(all, contact)
			}
		}

		if page.AdditionalData != nil && page.AdditionalData.Pagination != nil &&
			page.AdditionalData.Pagination.NextStart != nil {
			start = *page.AdditionalData.Pagination.NextStart
		} else {
			start = -1
		}
	}

	return all, nil
}

func splitCredential(accessToken string) (domain, token string, err error) {
	colon := strings.Index(accessToken, ":")
	if colon < 0 {
		return "", "", fmt.Errorf(`Pipedrive connection must be "domain:apiToken"`)
	}
	domain = strings.TrimSpace(accessToken[:colon])
	token = strings.TrimSpace(accessToken[colon+1:])
	if domain == "" || token == "" {
		return "", "", fmt.Errorf(`Pipedrive connection must be "domain:apiToken"`)
	}
	return domain, token, nil
}

// mapPerson maps a Pipedrive person. Pipedrive has no company website field
// on persons, so website stays empty.
func mapPerson(raw person) (crm.Contact, bool) {
	name := strings.TrimSpace(raw.Name)
	company := name
	if company == "" {
		company = "Unknown"
	}

	email := ""
	if len(raw.Email) > 0 {
		email = strings.TrimSpace(raw.Email[0].Value)
	}
	phone := ""
	if len(raw.Phone) > 0 {
		phone = strings.TrimSpace(raw.Phone[0].Value)
	}
	if company == "Unknown" && email == "" && phone == "" {
		return crm.Contact{}, false
	}

	return crm.Contact{
		ProviderRowID: strconv.Itoa(raw.ID),
		CompanyName:   company,
		Email:         email,
		Phone:         phone,
	}, true
}
