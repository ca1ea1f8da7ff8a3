package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// MessageSender is satisfied by aws.Publisher.
type MessageSender interface {
	SendMessage(ctx context.Context, body string, attrs map[string]string) error
}

// SQSPublisher sends events as JSON messages with type and entity attributes.
type SQSPublisher struct {
	sender MessageSender
}

// NewSQSPublisher wraps sender.
func NewSQSPublisher(sender MessageSender) *SQSPublisher {
	return &SQSPublisher{sender: sender}
}

func (p *SQSPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"event_type": e.Type,
		"event_id":   e.EventID,
		"entity_id":  e.EntityID,
	}
	if err := p.sender.SendMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("send %s: %w", e.Type, err)
	}
	return nil
}
