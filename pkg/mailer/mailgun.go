package mailer

import (
	"context"
	"errors"
	"strings"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const defaultSendTimeout = 10 * time.Second

// Mailgun delivers rendered messages from a fixed sender address.
type Mailgun struct {
	client  *mg.MailgunImpl
	sender  string
	timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{
		client:  mg.NewMailgun(domain, apiKey),
		sender:  sender,
		timeout: defaultSendTimeout,
	}
}

// Send delivers one message and returns the Mailgun message id. html is
// optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", errors.New("mailgun: empty recipient")
	}
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, id, err := m.client.Send(c, msg)
	return id, err
}
