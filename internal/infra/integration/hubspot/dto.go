package hubspot

type contactResult struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type contactsResponse struct {
	Results []contactResult `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

type errorResponse struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}
