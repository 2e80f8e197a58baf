package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"

	"github.com/ednsy/leadrosetta/internal/infra/queue"
)

// Opens are tracked through the pixel, clicks through the redirect; the raw
// demo link never appears in the email body.
var demoTemplate = template.Must(template.New("demo").Parse(`
<p>Hi {{.CompanyName}} team,</p>
<p>I put together a quick personalized demo showing what a modern web presence
could look like for {{.CompanyName}}. No strings attached, it takes about a
minute to look through:</p>
<p><a href="{{.DemoLink}}">View your demo</a></p>
<p>If it's not for you, just ignore this email and I won't follow up.</p>
<p>Best,<br>{{.SenderName}}</p>
<hr>
<p style="font-size:11px;color:#888">You received this one-time email because
your business is publicly listed. Reply with "unsubscribe" and you will never
hear from us again.</p>
<img src="{{.PixelURL}}" width="1" height="1" alt="" style="display:none">
`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendDemoEmail renders and delivers one outreach email. Implements
// queue.DemoSender.
func (s *EmailSender) SendDemoEmail(ctx context.Context, payload queue.DemoEmailPayload) error {
	sender := payload.SenderName
	if sender == "" {
		sender = "The Lead Rosetta team"
	}

	data := DemoEmailData{
		CompanyName: payload.CompanyName,
		SenderName:  sender,
		DemoLink:    clickURL(payload.Origin, payload.ProspectID),
		PixelURL:    pixelURL(payload.Origin, payload.ProspectID),
	}

	var body bytes.Buffer
	if err := demoTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", payload.Email)
	m.SetHeader("Subject", fmt.Sprintf("I built something for %s", payload.CompanyName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("SMTP send failed: %w", err)
	}

	return nil
}

func clickURL(origin, prospectID string) string {
	return origin + "/api/demo/click?p=" + url.QueryEscape(prospectID)
}

func pixelURL(origin, prospectID string) string {
	return origin + "/api/demo/open?p=" + url.QueryEscape(prospectID)
}
