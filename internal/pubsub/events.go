package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// EventType names a billing lifecycle event.
type EventType string

const (
	BillingCreated    EventType = "billing.created"
	BillingRecomputed EventType = "billing.recomputed"
	PaymentSubmitted  EventType = "payment.submitted"
	PaymentVerified   EventType = "payment.verified"
	PaymentRejected   EventType = "payment.rejected"
)

// Event is the message body published for every billing change.
type Event struct {
	Type        EventType `json:"type"`
	BillingID   string    `json:"billing_id"`
	RoomID      string    `json:"room_id,omitempty"`
	TenantID    string    `json:"tenant_id,omitempty"`
	Month       string    `json:"month,omitempty"`
	Status      string    `json:"status,omitempty"`
	TotalAmount string    `json:"total_amount,omitempty"`
	ProofID     string    `json:"proof_id,omitempty"`
	ActorID     string    `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Emitter publishes billing events.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}

// BillingEvents sends events to one topic. Failures are logged and
// never returned to the caller.
type BillingEvents struct {
	publisher Publisher
	topic     string
	logger    zerolog.Logger
}

func NewBillingEvents(publisher Publisher, topic string, logger zerolog.Logger) *BillingEvents {
	return &BillingEvents{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("component", "BillingEvents").Logger(),
	}
}

func (e *BillingEvents) Emit(ctx context.Context, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		e.logger.Error().Err(err).Str("type", string(evt.Type)).Msg("Failed to marshal billing event")
		return
	}
	attrs := map[string]string{"event_type": string(evt.Type), "billing_id": evt.BillingID}
	id, err := e.publisher.Publish(ctx, e.topic, payload, attrs)
	if err != nil {
		e.logger.Warn().Err(err).Str("type", string(evt.Type)).Str("billing_id", evt.BillingID).Msg("Failed to publish billing event")
		return
	}
	e.logger.Debug().Str("type", string(evt.Type)).Str("message_id", id).Msg("Published billing event")
}
