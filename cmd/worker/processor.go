package main

import (
	"context"
	"encoding/json"
	"fmt"

	lambdaevents "github.com/aws/aws-lambda-go/events"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/idempotency"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
)

// Processor turns domain events from SQS into customer emails. Each event
// id is handled at most once through the idempotency table.
type Processor struct {
	idempStore *idempotency.Store
	users      UserDirectory
	mail       Notifier
}

// NewProcessor creates a new worker processor.
func NewProcessor(idempStore *idempotency.Store, users UserDirectory, mail Notifier) *Processor {
	return &Processor{idempStore: idempStore, users: users, mail: mail}
}

// Handle processes an SQS batch and reports the messages that should be
// retried. Other messages in the batch are deleted by the runtime.
func (p *Processor) Handle(ctx context.Context, ev lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var resp lambdaevents.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			logging.Error("process_message", err, logging.Fields{EntityID: rec.MessageId})
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec lambdaevents.SQSMessage) error {
	var e events.Event
	if err := json.Unmarshal([]byte(rec.Body), &e); err != nil || e.EventID == "" {
		// retrying cannot fix a malformed body
		logging.Log(logging.Fields{Step: "decode", Status: "dropped", EntityID: rec.MessageId, Message: rec.Body})
		return nil
	}
	fields := logging.Fields{UserID: e.UserID, Entity: e.Type, EntityID: e.EntityID}

	key := idempotency.Key("event", e.EventID)
	proceed, err := p.claim(ctx, key)
	if err != nil {
		return err
	}
	if !proceed {
		fields.Step, fields.Status = "dedupe", "skipped"
		logging.Log(fields)
		return nil
	}

	if err := p.dispatch(ctx, e); err != nil {
		if markErr := p.idempStore.MarkFailed(ctx, key, err.Error()); markErr != nil {
			logging.Error("idempotency_mark_failed", markErr, fields)
		}
		return fmt.Errorf("event %s: %w", e.EventID, err)
	}
	if err := p.idempStore.MarkDone(ctx, key, e.EntityID, "", 200); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	fields.Step, fields.Status = "notify", "ok"
	logging.Log(fields)
	return nil
}

// claim reports whether this delivery owns the event. A record still in
// progress is returned as an error so SQS redelivers it later.
func (p *Processor) claim(ctx context.Context, key string) (bool, error) {
	created, err := p.idempStore.Begin(ctx, key, "")
	if err != nil || created {
		return created, err
	}
	rec, err := p.idempStore.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return p.idempStore.Begin(ctx, key, "")
	}
	switch rec.Status {
	case idempotency.StatusDone:
		return false, nil
	case idempotency.StatusFailed:
		retaken, err := p.idempStore.Retake(ctx, key)
		if err != nil || retaken {
			return retaken, err
		}
	}
	return false, fmt.Errorf("event %s is being processed", key)
}

func (p *Processor) dispatch(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.TypeUserRegistered, events.TypeOrderFinalized, events.TypeRefundApproved, events.TypeRefundRejected:
	default:
		logging.Log(logging.Fields{Step: "dispatch", Status: "ignored", Entity: e.Type, EntityID: e.EntityID})
		return nil
	}

	u, err := p.users.Lookup(ctx, e.UserID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		// account deleted since the event was published
		logging.Log(logging.Fields{Step: "dispatch", Status: "no_recipient", UserID: e.UserID, EntityID: e.EntityID})
		return nil
	}

	switch e.Type {
	case events.TypeUserRegistered:
		return p.mail.SendWelcome(u.Email, u.Name)
	case events.TypeOrderFinalized:
		total, _ := e.Payload["totalPrice"].(float64)
		items, _ := e.Payload["items"].(float64)
		return p.mail.SendOrderConfirmation(u.Email, u.Name, e.EntityID, total, int(items))
	default:
		orderID, _ := e.Payload["orderId"].(string)
		status, _ := e.Payload["status"].(string)
		return p.mail.SendRefundDecision(u.Email, u.Name, orderID, status)
	}
}
