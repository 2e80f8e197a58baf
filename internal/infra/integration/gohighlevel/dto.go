package gohighlevel

// ghlContact declares every field alternative GHL is known to send, so the
// mapping into the canonical contact stays typed end to end.
type ghlContact struct {
	ID          string   `json:"id"`
	ContactID   string   `json:"contactId"`
	Name        string   `json:"name"`
	CompanyName string   `json:"companyName"`
	Company     string   `json:"company"`
	Email       string   `json:"email"`
	Emails      []string `json:"emails"`
	Phone       string   `json:"phone"`
	PhoneNumber string   `json:"phoneNumber"`
	Phones      []string `json:"phones"`
	Website     string   `json:"website"`
	WebsiteURL  string   `json:"websiteUrl"`
	Industry    string   `json:"industry"`
	Tags        []string `json:"tags"`
}

type contactsResponse struct {
	Contacts []ghlContact `json:"contacts"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}
