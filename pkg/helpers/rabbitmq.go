package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitBroker wraps an AMQP connection and channel bound to a topic
// exchange. Routing keys select the coarse event category
// (notification.user, notification.system).
type RabbitBroker struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	Exchange string
}

func NewRabbitBroker(url, exchange string) (*RabbitBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitBroker{conn: conn, ch: ch, Exchange: exchange}, nil
}

func (b *RabbitBroker) Close() {
	if b == nil {
		return
	}
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}

// PublishJSON publishes a JSON-encoded message to the exchange under the
// given routing key.
func (b *RabbitBroker) PublishJSON(ctx context.Context, routingKey string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return b.ch.PublishWithContext(ctx,
		b.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         buf,
		},
	)
}

// Consume declares a durable queue, binds it to the exchange for every
// routing key, and returns the delivery channel. All routing keys share
// one queue so a single consumer group covers both categories.
func (b *RabbitBroker) Consume(queue string, routingKeys ...string) (<-chan amqp.Delivery, error) {
	if _, err := b.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	for _, key := range routingKeys {
		if err := b.ch.QueueBind(queue, key, b.Exchange, false, nil); err != nil {
			return nil, err
		}
	}
	// Prefetch for fair dispatch across consumers
	if err := b.ch.Qos(16, 0, false); err != nil {
		return nil, err
	}
	return b.ch.Consume(queue, "", false, false, false, false, nil)
}
