// Package mail delivers transactional email (verification and password
// reset links) off the request path.
package mail

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/flava/internal/logging"
)

const appName = "Flava"

// Message is one templated email.
type Message struct {
	To         string
	TemplateID string
	Data       map[string]string
}

// Sender delivers a Message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs messages. It is used when no provider is configured.
type LogSender struct {
	Logger logging.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	s.Logger.Info(ctx, "mail not sent, no provider configured",
		"to", msg.To, "template", msg.TemplateID, "link", msg.Data["link"])
	return nil
}

// Templates holds provider template ids and the base URLs embedded in links.
type Templates struct {
	VerificationID   string
	PasswordResetID  string
	VerificationLink string
	PasswordResetURL string
}

// Notifier sends account emails in the background. Failures are logged and
// never reach the caller.
type Notifier struct {
	sender    Sender
	templates Templates
	timeout   time.Duration
	logger    logging.Logger
	wg        sync.WaitGroup
}

func NewNotifier(sender Sender, templates Templates, logger logging.Logger) *Notifier {
	return &Notifier{sender: sender, templates: templates, timeout: 10 * time.Second, logger: logger}
}

// SendVerification mails a link carrying an email-verification token.
func (n *Notifier) SendVerification(email, username, token string) {
	n.dispatch(Message{
		To:         email,
		TemplateID: n.templates.VerificationID,
		Data:       linkData(username, n.templates.VerificationLink, token),
	})
}

// SendPasswordReset mails a link carrying a password-reset token.
func (n *Notifier) SendPasswordReset(email, username, token string) {
	n.dispatch(Message{
		To:         email,
		TemplateID: n.templates.PasswordResetID,
		Data:       linkData(username, n.templates.PasswordResetURL, token),
	})
}

// Wait blocks until every dispatched message has finished.
func (n *Notifier) Wait() { n.wg.Wait() }

func (n *Notifier) dispatch(msg Message) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Error(ctx, "mail delivery failed", "to", msg.To, "template", msg.TemplateID, "error", err)
		}
	}()
}

func linkData(username, base, token string) map[string]string {
	return map[string]string{
		"appName":   appName,
		"firstName": username,
		"link":      base + "?token=" + url.QueryEscape(token),
	}
}
