package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/logging"
	"github.com/linesmerrill/hospital-api/models"
	templates "github.com/linesmerrill/hospital-api/templates/html"
	"github.com/linesmerrill/hospital-api/validation"
)

// Mailer sends an email, satisfied by *sendgrid.Client
type Mailer interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Contact exported for testing purposes
type Contact struct {
	// Mailer is nil when forwarding is not configured
	Mailer Mailer
	To     string
	From   string
	// Render builds the HTML body, templates.RenderContactEmail when nil
	Render func(subject, name, email, message string) (string, error)
}

// ContactHandler logs a contact-form message and forwards it by email when a
// recipient is configured. Nothing is stored.
func (c Contact) ContactHandler(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decodeBody(r, &msg); err != nil {
		respondError(w, err)
		return
	}
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.ToLower(strings.TrimSpace(msg.Email))
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := validation.Struct(msg); err != nil {
		respondError(w, err)
		return
	}

	log := logging.FromContext(r.Context())
	log.Infow("contact message received", "name", msg.Name, "email", msg.Email, "subject", msg.Subject)

	if c.Mailer != nil && c.To != "" {
		resp, err := c.Mailer.Send(c.forward(log, msg))
		switch {
		case err != nil:
			log.Warnw("failed to forward contact message", "error", err)
		case resp != nil && resp.StatusCode >= http.StatusBadRequest:
			log.Warnw("contact message rejected by mail provider", "status", resp.StatusCode)
		default:
			log.Debugw("contact message forwarded", "to", c.To)
		}
	}

	writeJSON(w, http.StatusOK, models.ContactResponse{OK: true})
}

func (c Contact) forward(log *zap.SugaredLogger, msg models.ContactMessage) *mail.SGMailV3 {
	subject := msg.Subject
	if subject == "" {
		subject = "Contact message"
	}
	from := mail.NewEmail("Hospital API", c.From)
	to := mail.NewEmail("", c.To)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
	render := c.Render
	if render == nil {
		render = templates.RenderContactEmail
	}
	var m *mail.SGMailV3
	if htmlBody, err := render(subject, msg.Name, msg.Email, msg.Message); err != nil {
		log.Warnw("failed to render contact email, sending text only", "error", err)
		m = mail.NewSingleEmailPlainText(from, subject, to, body)
	} else {
		m = mail.NewSingleEmail(from, subject, to, body, htmlBody)
	}
	m.SetReplyTo(mail.NewEmail(msg.Name, msg.Email))
	return m
}
