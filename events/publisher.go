// Package events publishes order notifications to RabbitMQ. Publishing
// is best-effort and happens after the order transaction commits; a
// failed publish never fails the checkout.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const orderQueue = "order_created"

type OrderCreated struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      float64   `json:"total"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, evt OrderCreated) error
}

// AMQPPublisher publishes to a durable queue on a shared connection.
type AMQPPublisher struct {
	conn *amqp.Connection
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	// Declare the queue up front so publishes never race the consumer.
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(
		orderQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn}, nil
}

func (p *AMQPPublisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"", orderQueue, false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error { return p.conn.Close() }
