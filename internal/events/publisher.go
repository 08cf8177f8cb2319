package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits checkout events. The checkout flow treats publishing as
// best-effort; implementations must not be required for a checkout to
// succeed.
type Publisher interface {
	PublishCheckoutCompleted(ctx context.Context, ev CheckoutCompleted, meta EnvelopeMetadata) error
	Close() error
}

type rabbitPublisher struct {
	ch        *amqp.Channel
	sequences SequenceRepository
}

// NewRabbitPublisher opens a channel on conn and declares the events
// exchange so publishing never fails due to missing infra.
func NewRabbitPublisher(conn *amqp.Connection, sequences SequenceRepository) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &rabbitPublisher{ch: ch, sequences: sequences}, nil
}

func (p *rabbitPublisher) PublishCheckoutCompleted(ctx context.Context, ev CheckoutCompleted, meta EnvelopeMetadata) error {
	seq, err := p.sequences.NextSequence(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := EventEnvelope[CheckoutCompleted]{
		EventName:     CheckoutCompletedName,
		EventVersion:  CheckoutCompletedVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      producerName,
		PartitionKey:  ev.OrderID,
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Payload:       ev,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", CheckoutCompletedName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		CheckoutCompletedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (p *rabbitPublisher) Close() error {
	return p.ch.Close()
}

// NopPublisher is wired when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCheckoutCompleted(ctx context.Context, ev CheckoutCompleted, meta EnvelopeMetadata) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
