package notion

import "strings"

// property carries every Notion property variant the prospect database uses.
type property struct {
	Type  string `json:"type"`
	Title []struct {
		PlainText string `json:"plain_text"`
	} `json:"title"`
	Email       *string `json:"email"`
	URL         *string `json:"url"`
	PhoneNumber *string `json:"phone_number"`
	Select      *struct {
		Name string `json:"name"`
	} `json:"select"`
	Status *struct {
		Name string `json:"name"`
	} `json:"status"`
}

type properties map[string]property

func (ps properties) title(name string) string {
	var b strings.Builder
	for _, t := range ps[name].Title {
		b.WriteString(t.PlainText)
	}
	return strings.TrimSpace(b.String())
}

func (ps properties) email(name string) string {
	if v := ps[name].Email; v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (ps properties) url(name string) string {
	if v := ps[name].URL; v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (ps properties) phoneNumber(name string) string {
	if v := ps[name].PhoneNumber; v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (ps properties) selectName(name string) string {
	if v := ps[name].Select; v != nil {
		return strings.TrimSpace(v.Name)
	}
	return ""
}

type page struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
