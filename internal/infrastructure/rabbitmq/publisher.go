package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailMessage is the queue payload consumed by the mail sender worker.
type EmailMessage struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher hands outbound email to a durable queue instead of dialing SMTP.
type Publisher struct {
	conn    *amqp.Connection
	channel channel
	queue   string
}

func New(url, queueName string) (*Publisher, error) {
	const op = "rabbitmq.New"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{conn: conn, channel: ch, queue: q.Name}, nil
}

// SendEmail publishes the message; a nil error means the broker accepted it,
// not that it was delivered.
func (p *Publisher) SendEmail(ctx context.Context, to, subject, body string) error {
	const op = "rabbitmq.SendEmail"

	payload, err := json.Marshal(EmailMessage{Email: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *Publisher) Close() {
	_ = p.channel.Close()
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
