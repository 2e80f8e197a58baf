package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DemoEmailPayload carries everything the mail worker needs, so the worker
// never touches the database.
type DemoEmailPayload struct {
	ProspectID  string `json:"prospect_id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	DemoLink    string `json:"demo_link"`
	SenderName  string `json:"sender_name,omitempty"`
	Origin      string `json:"origin"` // base URL for tracking pixel/redirect
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishDemoEmail(ctx context.Context, payload DemoEmailPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.outreach
		RoutingKey,   // k.demo-email
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %v", err)
	}

	return nil
}
