package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const defaultSendTimeout = 10 * time.Second

// ErrNoRecipient is returned for a job without a To address.
var ErrNoRecipient = errors.New("mailer: job has no recipient")

// Mailgun delivers notification emails through one shared client.
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

// SendJob sends a rendered job. The HTML part is optional.
func (m *Mailgun) SendJob(ctx context.Context, job EmailJob) error {
	if job.To == "" {
		return ErrNoRecipient
	}
	msg := m.client.NewMessage(m.sender, job.Subject, job.Text, job.To)
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(ctx, msg)
	return err
}
