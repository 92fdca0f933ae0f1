package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishSeatingAssigned(ctx context.Context, event SeatingAssignedEvent) error
}

// amqpPublisher dials the broker on every publish. Seating runs are rare enough that a pooled connection is not worth
// its reconnection logic
type amqpPublisher struct {
	url string
}

func NewAMQPPublisher(url string) Publisher {
	return &amqpPublisher{url: url}
}

func (publisher *amqpPublisher) PublishSeatingAssigned(ctx context.Context, event SeatingAssignedEvent) error {
	conn, err := amqp.Dial(publisher.url)
	if err != nil {
		return errors.Wrap(err, "rabbitmq: dial failed")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "rabbitmq: channel open failed")
	}
	defer ch.Close()

	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(
		SeatingAssignedQueue, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
		return errors.Wrap(err, "rabbitmq: queue declare failed")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "rabbitmq: marshal event failed")
	}

	return errors.Wrap(ch.PublishWithContext(ctx,
		"",                   // default exchange
		SeatingAssignedQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    event.RunId,
			Body:         body,
		},
	), "rabbitmq: publish failed")
}

// noPublisher drops every event
type noPublisher struct{}

func NewNoPublisher() Publisher {
	return noPublisher{}
}

func (noPublisher) PublishSeatingAssigned(context.Context, SeatingAssignedEvent) error {
	return nil
}
