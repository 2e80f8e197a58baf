package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ednsy/leadrosetta/internal/infra/integration/crm"
)

const notionVersion = "2022-06-28"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: "https://api.notion.com/v1",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// FetchAll queries the prospect database to completion via start_cursor
// paging. The stored credential is the composite "databaseId:apiKey".
//
// Expected database schema: "Name" (title), "Email" (email), "Website"
// (url), "Phone" (phone_number), "Industry" (select), "Client Status"
// (status). Share the database with the integration.
func (c *Client) FetchAll(ctx context.Context, accessToken string) ([]crm.Contact, error) {
	databaseID, apiKey, err := splitCredential(accessToken)
	if err != nil {
		return nil, &crm.AdapterError{Provider: "notion", Message: err.Error()}
	}

	var all []crm.Contact
	cursor := ""

	for {
		payload := map[string]any{"page_size": 100}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}
		reqBody, _ := json.Marshal(payload)

		u := fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID)
		req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewBuffer(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("Notion-Version", notionVersion)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &crm.AdapterError{Provider: "notion", Message: err.Error()}
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var apiErr struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			}
			msg := fmt.Sprintf("Notion API %d", resp.StatusCode)
			if json.Unmarshal(body, &apiErr) == nil {
				if apiErr.Message != "" {
					msg = apiErr.Message
				} else if apiErr.Code != "" {
					msg = apiErr.Code
				}
			}
			return nil, &crm.AdapterError{Provider: "notion", StatusCode: resp.StatusCode, Message: msg}
		}

		var page queryResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &crm.AdapterError{Provider: "notion", Message: "decode: " + err.Error()}
		}

		for _, result := range page.Results {
			if contact, ok := mapPage(result); ok {
				all = append(all, contact)
			}
		}

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return all, nil
}

func splitCredential(accessToken string) (databaseID, apiKey string, err error) {
	colon := strings.Index(accessToken, ":")
	if colon < 0 {
		return "", "", fmt.Errorf(`Notion connection must be "databaseId:apiKey"`)
	}
	databaseID = strings.TrimSpace(accessToken[:colon])
	apiKey = strings.TrimSpace(accessToken[colon+1:])
	if databaseID == "" || apiKey == "" {
		return "", "", fmt.Errorf(`Notion connection must be "databaseId:apiKey"`)
	}
	return databaseID, apiKey, nil
}

func mapPage(p page) (crm.Contact, bool) {
	if p.ID == "" {
		return crm.Contact{}, false
	}
	props := p.Properties

	contact := crm.Contact{
		ProviderRowID: p.ID,
		CompanyName:   props.title("Name"),
		Email:         props.email("Email"),
		Website:       props.url("Website"),
		Phone:         props.phoneNumber("Phone"),
		Industry:      props.selectName("Industry"),
	}
	if contact.CompanyName == "" {
		contact.CompanyName = "Unknown"
	}
	return contact, true
}
