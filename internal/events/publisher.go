// Package events is the producer side of the donation change feed.
// Dashboard and tracking clients that subscribed to the old realtime
// feed re-fetch on these notifications; the payload carries the event
// type and affected key, never a row diff, so consumers must re-read.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"afghanrelief/pkg/types"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const exchangeName = "donation_events"

type DonationEvent struct {
	Type       string               `json:"type"`
	DonationID string               `json:"donation_id"`
	OldStatus  types.DonationStatus `json:"old_status,omitempty"`
	NewStatus  types.DonationStatus `json:"new_status,omitempty"`
	Timestamp  time.Time            `json:"timestamp"`
}

// Publisher is satisfied by the AMQP producer and the no-op fallback.
// Publishing is best effort: a failed publish never fails the user
// action that produced it.
type Publisher interface {
	DonationCreated(ctx context.Context, donationID string)
	DonationStatusChanged(ctx context.Context, donationID string, oldStatus, newStatus types.DonationStatus)
	Close()
}

type AMQPPublisher struct {
	conn   *amqp091.Connection
	logger *logrus.Logger

	// Guards channel; handlers publish from concurrent goroutines and
	// the retry path swaps the channel out.
	mu      sync.Mutex
	channel *amqp091.Channel
}

func NewAMQPPublisher(amqpURL string, logger *logrus.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: ch, logger: logger}, nil
}

func (p *AMQPPublisher) DonationCreated(ctx context.Context, donationID string) {
	p.publish(ctx, "donations.created", DonationEvent{
		Type:       "created",
		DonationID: donationID,
		NewStatus:  types.DonationStatusPending,
		Timestamp:  time.Now(),
	})
}

func (p *AMQPPublisher) DonationStatusChanged(ctx context.Context, donationID string, oldStatus, newStatus types.DonationStatus) {
	p.publish(ctx, "donations.status_changed", DonationEvent{
		Type:       "status_changed",
		DonationID: donationID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Timestamp:  time.Now(),
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, event DonationEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("failed to marshal donation event")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		// One-shot retry on a fresh channel; the broker may have
		// dropped the old one.
		ch, chErr := p.conn.Channel()
		if chErr != nil {
			p.logger.WithError(err).WithField("routing_key", routingKey).Warn("dropping donation event")
			return
		}
		p.channel.Close()
		p.channel = ch

		if err := p.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		}); err != nil {
			p.logger.WithError(err).WithField("routing_key", routingKey).Warn("dropping donation event")
		}
	}
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	if p.channel != nil {
		p.channel.Close()
	}
	p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher keeps the service running when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) DonationCreated(ctx context.Context, donationID string) {}
func (NoopPublisher) DonationStatusChanged(ctx context.Context, donationID string, oldStatus, newStatus types.DonationStatus) {
}
func (NoopPublisher) Close() {}
