package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"socialweb/logger"
	"socialweb/models"
)

const (
	DefaultExchange = "socialweb_state"
	publishTimeout  = 5 * time.Second
)

// Channel - часть amqp.Channel, которой пользуется публикатор
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher публикует события хранилища в topic exchange
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       Channel
	exchange string
	log      *zap.Logger
}

// DialAMQP подключается к брокеру и объявляет exchange
func DialAMQP(url, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	p, err := NewAMQPPublisher(ch, exchange, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	p.log.Info("RabbitMQ publisher initialized", zap.String("exchange", p.exchange))
	return p, nil
}

// NewAMQPPublisher работает поверх уже открытого канала
func NewAMQPPublisher(ch Channel, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, log: logger.OrNop(log)}, nil
}

// RoutingKey - <module>.<mutation>, например posts.add_post
func RoutingKey(event models.StateEvent) string {
	return event.Module + "." + event.Mutation
}

func (p *AMQPPublisher) Publish(ctx context.Context, event models.StateEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(event),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   event.At,
			Body:        body,
		},
	)
}

// Notify реализует Sink, ошибки публикации только логируются
func (p *AMQPPublisher) Notify(event models.StateEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		p.log.Warn("failed to publish state event",
			zap.String("routing_key", RoutingKey(event)),
			zap.Error(err),
		)
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
