/**
 * @description
 * This file provides the RabbitMQ event producer used to publish internal
 * events (payment ledger entries, report and support notifications) to the
 * topic exchange. A no-op fallback publisher keeps the service bootable when
 * the broker is unreachable: events are logged instead of published, matching
 * the best-effort contract of everything that flows through the exchange.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: The Go client for RabbitMQ.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventProducer publishes events to a RabbitMQ topic exchange.
type EventProducer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
	Close()
}

// EventProducerFallback is a no-op publisher used when RabbitMQ is unavailable
// at startup. Events are logged instead of published so the request path keeps
// working without the broker.
type EventProducerFallback struct{}

func (p *EventProducerFallback) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	log.Printf("level=warn component=mq msg=\"broker unavailable; event dropped\" exchange=%s routing_key=%s body=%v", exchange, routingKey, body)
	return nil
}
func (p *EventProducerFallback) Close() {}

// sanitizeAMQPURL tolerates quoted or prefixed broker URLs as they sometimes
// arrive from managed-hosting env panels.
func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer establishes a connection and channel to RabbitMQ.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	// Bounded dial timeout so startup does not hang on a dead broker.
	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	return &EventProducer{conn: conn, channel: ch}, nil
}

// Publish sends a message to a specific exchange with a routing key. A failed
// declare or publish gets one retry on a fresh channel; AMQP closes the
// channel on most errors, so reopening is the usual recovery.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	if err := p.ensureExchange(exchange); err != nil {
		return err
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Printf("level=error component=mq msg=\"event payload marshal failed\" routing_key=%s err=%v", routingKey, err)
		return err
	}

	publishing := amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        jsonBody,
	}

	err = p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, publishing)
	if err != nil {
		log.Printf("level=warn component=mq msg=\"publish failed; reopening channel\" exchange=%s routing_key=%s err=%v", exchange, routingKey, err)
		if p.conn != nil {
			if ch, chErr := p.conn.Channel(); chErr == nil {
				p.channel = ch
				if exErr := p.declareExchange(exchange); exErr == nil {
					if retryErr := p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, publishing); retryErr == nil {
						log.Printf("level=info component=mq msg=\"published after retry\" exchange=%s routing_key=%s", exchange, routingKey)
						return nil
					}
				}
			}
		}
		return err
	}

	log.Printf("level=info component=mq msg=\"event published\" exchange=%s routing_key=%s", exchange, routingKey)
	return nil
}

// ensureExchange declares the durable topic exchange, reopening the channel
// once when the declare fails on a stale channel.
func (p *EventProducer) ensureExchange(exchange string) error {
	err := p.declareExchange(exchange)
	if err == nil {
		return nil
	}
	log.Printf("level=warn component=mq msg=\"exchange declare failed; reopening channel\" exchange=%s err=%v", exchange, err)
	if p.conn == nil {
		return err
	}
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return chErr
	}
	p.channel = ch
	return p.declareExchange(exchange)
}

func (p *EventProducer) declareExchange(exchange string) error {
	return p.channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	)
}

// Close closes the RabbitMQ connection and channel.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
