package event

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/campushq/platform/pkg/helpers"
)

// Publisher hands an envelope to the broker under the envelope's topic.
type Publisher interface {
	Publish(ctx context.Context, env *Envelope) error
}

// AMQPPublisher publishes envelopes to the notifications topic exchange.
type AMQPPublisher struct {
	Broker *helpers.RabbitBroker
}

func NewAMQPPublisher(broker *helpers.RabbitBroker) *AMQPPublisher {
	return &AMQPPublisher{Broker: broker}
}

func (p *AMQPPublisher) Publish(ctx context.Context, env *Envelope) error {
	return p.Broker.PublishJSON(ctx, env.EventType.Topic(), env)
}

// Emit publishes an envelope after a successful domain action. Fire and
// forget: a publish failure is a delivery-pipeline defect and is logged,
// but it never fails the already-completed action. Nil envelopes (failed
// or event-less actions) are ignored.
func Emit(ctx context.Context, pub Publisher, logger *logrus.Logger, env *Envelope) {
	if env == nil || pub == nil {
		return
	}
	if err := pub.Publish(ctx, env); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"event_id":   env.EventID,
			"event_type": env.EventType,
		}).Error("event publish failed")
	}
}
