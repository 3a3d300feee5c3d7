package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"zuka-backend/models"
)

const exchangeName = "order_events"

// Order lifecycle event names published to the fanout exchange.
const (
	OrderPlaced    = "order_placed"
	OrderPaid      = "order_paid"
	OrderDelivered = "order_delivered"
)

// OrderEvent is the message body consumers receive.
type OrderEvent struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"totalPrice"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher emits order lifecycle events on a fanout exchange so
// downstream services (shipment tracking, notifications) can react.
// A nil Publisher is valid and publishes nothing.
type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{ch: ch}, nil
}

// Publish sends an order event. Failures are logged, never surfaced:
// event delivery must not fail the request that triggered it.
func (p *Publisher) Publish(ctx context.Context, event string, order *models.Order) {
	if p == nil {
		return
	}

	body, err := json.Marshal(OrderEvent{
		Event:      event,
		OrderID:    order.ID.Hex(),
		UserID:     order.UserID.Hex(),
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to encode %s event: %v", event, err)
		return
	}

	err = p.ch.PublishWithContext(ctx,
		exchangeName,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("Failed to publish %s event for order %s: %v", event, order.ID.Hex(), err)
	}
}
