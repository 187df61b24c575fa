package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
)

// Notifier publishes membership events.
type Notifier interface {
	Publish(event models.MembershipEvent) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	return &EventPublisher{client: client, producer: producer}, nil
}

// Publish sends the event to Pulsar keyed by group so that events for one
// group keep their order.
func (p *EventPublisher) Publish(event models.MembershipEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Key:     event.GroupID,
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}
	return nil
}

// Close closes the Pulsar client and producer.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
}

// NopNotifier drops every event. Used when no Pulsar URL is configured.
type NopNotifier struct{}

func (NopNotifier) Publish(models.MembershipEvent) error { return nil }
func (NopNotifier) Close()                               {}

// NewMembershipEvent builds an event stamped with a fresh correlation id.
func NewMembershipEvent(action, userID, groupID string) models.MembershipEvent {
	return models.MembershipEvent{
		Action:        action,
		UserID:        userID,
		GroupID:       groupID,
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now().UTC().Unix(),
	}
}

// DecodeMembershipEvent parses and validates a message payload.
func DecodeMembershipEvent(payload []byte) (models.MembershipEvent, error) {
	var event models.MembershipEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("error unmarshaling membership event: %w", err)
	}

	switch event.Action {
	case models.MembershipAdded, models.MembershipRemoved:
	default:
		return event, fmt.Errorf("unknown membership action %q", event.Action)
	}
	if event.UserID == "" || event.GroupID == "" {
		return event, fmt.Errorf("membership event requires userId and groupId")
	}
	return event, nil
}
