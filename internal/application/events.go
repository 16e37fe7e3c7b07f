package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
)

const (
	EventUserRegistered   = "user.registered"
	EventUserBootstrapped = "user.bootstrapped"
	EventUserPromoted     = "user.promoted"
	EventUserDeleted      = "user.deleted"
)

// UserEvent is published after a successful user lifecycle change.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	ActorID    int64     `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func newUserEvent(typ string, u *entity.User, actor *entity.User) UserEvent {
	evt := UserEvent{
		Type:       typ,
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role.String(),
		OccurredAt: time.Now().UTC(),
	}
	if actor != nil {
		evt.ActorID = actor.ID
	}
	return evt
}

// publish is best effort: a broker failure never fails the flow.
func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, evt UserEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishJSON(ctx, evt); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"event": evt.Type, "user_id": evt.UserID}).Warn("publish user event failed")
	}
}
