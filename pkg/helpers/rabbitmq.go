package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// declareQueue declares a durable, non-exclusive queue.
func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

func dialChannel(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// RabbitPublisher publishes JSON messages to one durable queue through the
// default exchange. It is safe for concurrent use.
type RabbitPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
	Now   func() time.Time
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, ch, err := dialChannel(url)
	if err != nil {
		return nil, err
	}
	if err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue, Now: time.Now}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes body as a persistent message with a fresh message id.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    p.Now().UTC(),
		Body:         b,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		return amqp.ErrClosed
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, msg)
}

// RabbitConsumer receives messages from one durable queue with manual acks.
type RabbitConsumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	Queue    string
	Prefetch int
}

func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, error) {
	conn, ch, err := dialChannel(url)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*RabbitConsumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			return fail(err)
		}
	}
	if err := declareQueue(ch, queue); err != nil {
		return fail(err)
	}
	return &RabbitConsumer{conn: conn, ch: ch, Queue: queue, Prefetch: prefetch}, nil
}

// Run hands every delivery to handle until ctx is cancelled or the channel
// closes. handle is responsible for acking or nacking.
func (c *RabbitConsumer) Run(ctx context.Context, handle func(context.Context, amqp.Delivery)) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("rabbitmq: delivery channel closed")
			}
			handle(ctx, d)
		}
	}
}

func (c *RabbitConsumer) Close() {
	if c == nil {
		return
	}
	_ = c.ch.Close()
	_ = c.conn.Close()
}
