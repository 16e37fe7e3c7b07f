package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/pkg/mailer"
	mailtpl "github.com/oksasatya/sp-website-api/pkg/mailer/templates"
)

// errPermanent marks messages that will never succeed and must not be requeued.
var errPermanent = errors.New("permanent failure")

const sendTimeout = 15 * time.Second

var templateFor = map[string]string{
	application.EventUserRegistered:   mailtpl.Welcome,
	application.EventUserBootstrapped: mailtpl.AdminCreated,
	application.EventUserPromoted:     mailtpl.Promoted,
	application.EventUserDeleted:      mailtpl.AccountDeleted,
}

// Sender delivers a rendered email; *mailer.Mailgun satisfies it.
type Sender interface {
	SendJob(ctx context.Context, job mailer.EmailJob) error
}

// Notifier turns user lifecycle events into notification emails.
type Notifier struct {
	Sender  Sender
	AppName string
	Logger  *logrus.Logger
}

func NewNotifier(sender Sender, appName string, logger *logrus.Logger) *Notifier {
	return &Notifier{Sender: sender, AppName: appName, Logger: logger}
}

// Handle processes one encoded UserEvent.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var evt application.UserEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("%w: decode event: %v", errPermanent, err)
	}
	name, ok := templateFor[evt.Type]
	if !ok {
		return fmt.Errorf("%w: unknown event type %q", errPermanent, evt.Type)
	}
	if evt.Email == "" {
		return fmt.Errorf("%w: event %s has no recipient", errPermanent, evt.Type)
	}

	data := mailtpl.NewEmailData(n.AppName, evt.Name, evt.Email,
		mailtpl.WithRole(evt.Role),
		mailtpl.WithTime(evt.OccurredAt),
	)
	subject, text, html, err := mailtpl.Render(name, data)
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", errPermanent, name, err)
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := n.Sender.SendJob(c, mailer.EmailJob{To: evt.Email, Subject: subject, Text: text, HTML: html}); err != nil {
		return fmt.Errorf("send %s to user %d: %w", name, evt.UserID, err)
	}
	n.Logger.WithFields(logrus.Fields{"event": evt.Type, "user_id": evt.UserID}).Info("notification sent")
	return nil
}

// Consume acks handled deliveries, drops permanent failures and requeues the
// rest. It returns when ctx is done or the channel closes.
func (n *Notifier) Consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			n.dispatch(ctx, msg)
		}
	}
}

func (n *Notifier) dispatch(ctx context.Context, msg amqp.Delivery) {
	err := n.Handle(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errPermanent):
		n.Logger.WithError(err).Warn("dropping message")
		_ = msg.Nack(false, false)
	default:
		n.Logger.WithError(err).Error("notification failed, requeueing")
		_ = msg.Nack(false, !msg.Redelivered)
	}
}
