// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	q "github.com/MollahHamza/TRASHCANPRO/internal/queue"
)

// Publisher sends report events to the broker.
type Publisher interface {
	PublishReportSubmitted(ctx context.Context, event q.ReportSubmittedEvent) error
}

// New returns a RabbitPublisher when publishing is enabled and a Noop
// publisher otherwise.
func New(cfg config.QueueConfig) Publisher {
	if !cfg.PublishEnabled {
		return Noop{}
	}
	return &RabbitPublisher{URL: cfg.URL, Queue: cfg.Queue}
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishReportSubmitted(context.Context, q.ReportSubmittedEvent) error { return nil }

// RabbitPublisher dials the broker per event. Report submissions are rare
// enough that a long-lived connection is not worth its reconnect handling.
type RabbitPublisher struct {
	URL   string
	Queue string
}

// PublishReportSubmitted publishes event to the report queue as a
// persistent JSON message. Any error is logged and returned so the caller
// can choose to ignore it.
func (p *RabbitPublisher) PublishReportSubmitted(ctx context.Context, event q.ReportSubmittedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logger.Warningf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warningf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		logger.Warningf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Warningf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		logger.Warningf("rabbitmq: publish failed: %v", err)
		return err
	}
	logger.Debugf("rabbitmq: published %s for report %d", event.EventID, event.ReportID)
	return nil
}
