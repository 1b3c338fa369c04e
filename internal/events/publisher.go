// Package events publishes ingestion events to RabbitMQ for downstream
// consumers (agent UI refresh, automations). Publishing is optional: with no
// broker URL configured every publish is a no-op.
package events

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"wacloud-ingest/internal/models"
)

// Event names carried on the queue.
const (
	EventMessageCreated = "message.created"
	EventMessageStatus  = "message.status"
)

// Publisher pushes JSON events onto a single durable queue.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   string
	enabled bool
}

// NewPublisher connects to RabbitMQ. An empty URL yields a disabled
// publisher; connection failures also disable it rather than blocking
// webhook ingestion.
func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = "wacloud_events"
	}
	p := &Publisher{queue: queue}

	if url == "" {
		log.Info().Msg("RABBITMQ_URL is not set. Event publishing disabled.")
		return p
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		log.Error().Err(err).Msg("Could not connect to RabbitMQ, event publishing disabled")
		return p
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("Could not open RabbitMQ channel, event publishing disabled")
		conn.Close()
		return p
	}

	p.conn = conn
	p.channel = ch
	p.enabled = true
	log.Info().Str("queue", queue).Msg("RabbitMQ connection established.")
	return p
}

type messageEvent struct {
	Event          string `json:"event"`
	SourceID       string `json:"source_id"`
	ConversationID uint   `json:"conversation_id"`
	MessageType    string `json:"message_type"`
	Status         string `json:"status,omitempty"`
}

// MessageCreated publishes a new-message event.
func (p *Publisher) MessageCreated(ctx context.Context, msg *models.Message) {
	p.publish(ctx, messageEvent{
		Event:          EventMessageCreated,
		SourceID:       msg.SourceID,
		ConversationID: msg.ConversationID,
		MessageType:    msg.MessageType,
	})
}

// MessageStatus publishes a status-change event.
func (p *Publisher) MessageStatus(ctx context.Context, msg *models.Message, status string) {
	p.publish(ctx, messageEvent{
		Event:          EventMessageStatus,
		SourceID:       msg.SourceID,
		ConversationID: msg.ConversationID,
		MessageType:    msg.MessageType,
		Status:         status,
	})
}

func (p *Publisher) publish(ctx context.Context, event messageEvent) {
	if !p.enabled {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Event).Msg("Could not marshal event payload")
		return
	}

	// Declare queue (idempotent)
	_, err = p.channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Error().Err(err).Str("queue", p.queue).Msg("Could not declare RabbitMQ queue")
		return
	}

	err = p.channel.PublishWithContext(ctx,
		"",      // exchange (default)
		p.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("queue", p.queue).Msg("Could not publish to RabbitMQ")
		return
	}
	log.Debug().Str("queue", p.queue).Str("event", event.Event).Msg("Published event to RabbitMQ")
}

// Close releases the broker connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
