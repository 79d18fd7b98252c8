// Package amqpadapter announces committed imports on a RabbitMQ queue.
package amqpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"dashpmo/internal/logging"
	"dashpmo/internal/ports"
)

const EventImportCommitted = "import.committed"

type Publisher struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

// Dial connects and declares the durable queue events are sent to.
func Dial(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", queue, err)
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

var _ ports.EventPublisher = (*Publisher)(nil)

func (p *Publisher) PublishImportCommitted(ctx context.Context, ev ports.ImportCommitted) error {
	msg, err := Message(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	logging.Debugf("published %s for import %s", EventImportCommitted, ev.ImportID)
	return nil
}

// Message builds the persistent JSON message for ev.
func Message(ev ports.ImportCommitted) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ImportID,
		Type:         EventImportCommitted,
		Timestamp:    ev.CommittedAt.UTC().Truncate(time.Second),
		Body:         body,
	}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Noop drops events; used when no broker is configured.
type Noop struct{}

func (Noop) PublishImportCommitted(ctx context.Context, ev ports.ImportCommitted) error {
	logging.Debugf("no broker configured; %s for import %s not published", EventImportCommitted, ev.ImportID)
	return nil
}
