// Package mail renders and delivers the account emails: address verification
// and password reset.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// Sender delivers account emails. Implementations must be safe for concurrent use.
type Sender interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport is the delivery backend behind a Mailer.
type Transport interface {
	Send(ctx context.Context, from string, msg Message) error
}

// Mailer renders account emails and hands them to a Transport.
type Mailer struct {
	transport Transport
	from      string
	appURL    string
}

func NewMailer(transport Transport, from, appURL string) *Mailer {
	return &Mailer{transport: transport, from: from, appURL: appURL}
}

func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	link := m.link("/verify-email", token)
	body, err := render(verificationTmpl, emailData{Link: link})
	if err != nil {
		return err
	}
	if err := m.transport.Send(ctx, m.from, Message{To: to, Subject: "Verify your DevDrawer account", HTML: body}); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	link := m.link("/reset-password", token)
	body, err := render(resetTmpl, emailData{Link: link})
	if err != nil {
		return err
	}
	if err := m.transport.Send(ctx, m.from, Message{To: to, Subject: "Reset your DevDrawer password", HTML: body}); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

func (m *Mailer) link(path, token string) string {
	return m.appURL + path + "?token=" + url.QueryEscape(token)
}

// ResendTransport delivers through the Resend API.
type ResendTransport struct {
	client *resend.Client
}

func NewResendTransport(apiKey string) *ResendTransport {
	return &ResendTransport{client: resend.NewClient(apiKey)}
}

func (t *ResendTransport) Send(ctx context.Context, from string, msg Message) error {
	_, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogTransport writes messages to the logger instead of sending them. It is
// used when no provider key is configured.
type LogTransport struct {
	log *slog.Logger
}

func NewLogTransport(log *slog.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(ctx context.Context, from string, msg Message) error {
	t.log.InfoContext(ctx, "email not sent, no provider configured",
		"from", from,
		"to", msg.To,
		"subject", msg.Subject,
	)
	t.log.DebugContext(ctx, "email body", "html", msg.HTML)
	return nil
}

type emailData struct {
	Link string
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
