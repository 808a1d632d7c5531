package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Ключи маршрутизации событий поиска в topic-обменнике.
const (
	RoutingKeyTourSearchSubmitted = "tour_search.submitted"
	RoutingKeyCarSearchSubmitted  = "car_search.submitted"
	RoutingKeyTourSearchLoaded    = "tour_search.loaded"
	RoutingKeyCarSearchLoaded     = "car_search.loaded"
)

const publishTimeout = 5 * time.Second

// Producer - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type Producer interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type searchSubmittedMessage struct {
	EventID    string            `json:"event_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Page       string            `json:"page"`
	Trigger    string            `json:"trigger"`
	Params     map[string]string `json:"params"`
}

// SearchEventPublisher реализует SearchEventPublisherPort для RabbitMQ.
type SearchEventPublisher struct {
	producer Producer
	now      func() time.Time
}

var _ port.SearchEventPublisherPort = (*SearchEventPublisher)(nil)

func NewSearchEventPublisher(producer Producer) (*SearchEventPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &SearchEventPublisher{producer: producer, now: time.Now}, nil
}

// routingKeyFor: пустой trigger считается отправкой формы.
func routingKeyFor(kind domain.ListingKind, trigger domain.SearchTrigger) (string, error) {
	loaded := trigger == domain.SearchTriggerLoad
	switch kind {
	case domain.ListingTours:
		if loaded {
			return RoutingKeyTourSearchLoaded, nil
		}
		return RoutingKeyTourSearchSubmitted, nil
	case domain.ListingCars:
		if loaded {
			return RoutingKeyCarSearchLoaded, nil
		}
		return RoutingKeyCarSearchSubmitted, nil
	}
	return "", domain.ErrUnknownListingKind
}

func (a *SearchEventPublisher) PublishSearchSubmitted(ctx context.Context, event domain.SearchSubmitted) error {
	trigger := event.Trigger
	if trigger == "" {
		trigger = domain.SearchTriggerSubmit
	}
	routingKey, err := routingKeyFor(event.Page, trigger)
	if err != nil {
		return err
	}

	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "SearchEventPublisher",
		"routing_key": routingKey,
	})

	msgID := uuid.New().String()
	occurredAt := a.now().UTC()
	body, err := json.Marshal(searchSubmittedMessage{
		EventID:    msgID,
		OccurredAt: occurredAt,
		Page:       string(event.Page),
		Trigger:    string(trigger),
		Params:     event.Params,
	})
	if err != nil {
		adapterLogger.Error("Failed to marshal search event", err, nil)
		return fmt.Errorf("failed to marshal search event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    msgID,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    occurredAt,
		Headers:      amqp.Table{},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish search event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s: %w", routingKey, err)
	}

	adapterLogger.Debug("Search event published", port.Fields{"event_id": msgID})
	return nil
}
