package notification

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/campushq/platform/internal/event"
)

// Router consumes envelopes and dispatches them to channel handlers per a
// static table. The event type fully determines the dispatch set.
type Router struct {
	table  map[event.Type][]ChannelHandler
	logger *logrus.Logger
}

func NewRouter(email, inapp ChannelHandler, logger *logrus.Logger) *Router {
	return &Router{
		table: map[event.Type][]ChannelHandler{
			event.OTPGenerated:     {email},
			event.UserRegistered:   {email, inapp},
			event.AccountApproved:  {email, inapp},
			event.PasswordReset:    {email},
			event.StatusChanged:    {email, inapp},
			event.AdminUserCreated: {email},
		},
		logger: logger,
	}
}

// Handlers returns the dispatch set for an event type.
func (r *Router) Handlers(t event.Type) []ChannelHandler {
	return r.table[t]
}

// Dispatch invokes every handler mapped to the envelope's type. Handler
// failures are isolated: one channel going down never stops the others.
func (r *Router) Dispatch(ctx context.Context, env *event.Envelope) {
	handlers, ok := r.table[env.EventType]
	if !ok {
		if r.logger != nil {
			r.logger.WithField("event_type", env.EventType).Warn("unknown event type")
		}
		return
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"event_id":   env.EventID,
			"event_type": env.EventType,
		}).Info("consumed event")
	}
	for _, h := range handlers {
		if err := h.Deliver(ctx, env); err != nil && r.logger != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"event_id": env.EventID,
				"channel":  h.Name(),
			}).Error("channel delivery failed")
		}
	}
}

// Run drains the delivery channel until it closes or ctx is done. Each
// message is handled on its own goroutine so a slow channel handler never
// blocks consumption of subsequent messages.
func (r *Router) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			go r.consume(ctx, d)
		}
	}
}

func (r *Router) consume(ctx context.Context, d amqp.Delivery) {
	var env event.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Warn("malformed event dropped")
		}
		_ = d.Ack(false)
		return
	}
	r.Dispatch(ctx, &env)
	// Ack once dispatch ran; redelivering after partial success would
	// duplicate the side effects of the handlers that succeeded.
	_ = d.Ack(false)
}
