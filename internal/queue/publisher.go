package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends reservation events to the broker.  Publishing is
// best effort: errors are logged and returned, and callers on the
// request path ignore them so a broker outage never fails a booking.
type Publisher struct {
	url    string
	logger *zap.Logger
}

// NewPublisher returns a publisher for the given AMQP URL, or nil when
// the URL is empty (events disabled).
func NewPublisher(url string, logger *zap.Logger) *Publisher {
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{url: url, logger: logger}
}

// Publish declares the durable queue and sends one persistent JSON
// message.  A fresh connection per publish keeps the publisher free of
// shared channel state; booking volume is low enough that this costs
// nothing measurable.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("amqp dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("amqp channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("amqp queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
		p.logger.Warn("amqp publish failed", zap.Error(err))
		return err
	}

	p.logger.Info("event published",
		zap.String("kind", ev.Kind),
		zap.String("reference", ev.Reference))
	return nil
}
