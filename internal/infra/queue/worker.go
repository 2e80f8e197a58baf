package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DemoSender is the contract the worker delivers through (SMTP today).
type DemoSender interface {
	SendDemoEmail(ctx context.Context, payload DemoEmailPayload) error
}

// Worker drains the demo-email queue. It is fully decoupled from the
// database: the payload carries everything it needs.
type Worker struct {
	Channel *amqp.Channel
	Sender  DemoSender
}

func NewWorker(ch *amqp.Channel, sender DemoSender) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack off, we ack after the SMTP round trip
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload DemoEmailPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] malformed message: %s", err)
				// Poison message, reject without requeue so it dead-letters.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] sending demo email to %s (%s)", payload.CompanyName, payload.Email)

			if err := w.Sender.SendDemoEmail(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] send failed for %s: %s", payload.Email, err)
				// No requeue: a hard SMTP rejection would loop forever.
				// Failures land in the DLQ for manual review.
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] demo email delivered to %s", payload.Email)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}
