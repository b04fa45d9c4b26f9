package service

import (
	"time"

	"boardinghouse/internal/model"
	"boardinghouse/internal/pubsub"
)

func billingEvent(t pubsub.EventType, b *model.Billing, actorID string, at time.Time) pubsub.Event {
	return pubsub.Event{
		Type:        t,
		BillingID:   b.ID,
		RoomID:      b.RoomID,
		TenantID:    b.TenantID,
		Month:       b.Month.String(),
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount.StringFixed(2),
		ActorID:     actorID,
		OccurredAt:  at,
	}
}

func proofEvent(t pubsub.EventType, b *model.Billing, proofID, actorID string, at time.Time) pubsub.Event {
	evt := billingEvent(t, b, actorID, at)
	evt.ProofID = proofID
	return evt
}
