package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

const (
	exchangeName = "pedidos"
	routingKey   = "pedido.creado"
)

// OrderCreatedEvent is the message emitted after a checkout commits. It only
// carries identifiers and contact data; consumers fetch details via the API.
type OrderCreatedEvent struct {
	OrderID     int       `json:"pedido_id"`
	OrderNumber string    `json:"numero_pedido"`
	Email       string    `json:"email"`
	Customer    string    `json:"nombre_cliente"`
	ItemCount   int       `json:"cantidad_items"`
	CreatedAt   time.Time `json:"created_at"`
}

type Publisher interface {
	PublishOrderCreated(result *domain.CheckoutResult, request *domain.CheckoutRequest) error
	Close() error
}

type amqpPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logrus.Logger
}

// NewAMQPPublisher connects to the broker and declares the pedidos exchange.
func NewAMQPPublisher(url string, logger *logrus.Logger) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to AMQP broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("could not open AMQP channel: %w", err)
	}

	err = channel.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("could not declare exchange %q: %w", exchangeName, err)
	}

	logger.Infof("AMQP publisher ready (exchange %q)", exchangeName)
	return &amqpPublisher{conn: conn, channel: channel, log: logger}, nil
}

func (p *amqpPublisher) PublishOrderCreated(result *domain.CheckoutResult, request *domain.CheckoutRequest) error {
	event := OrderCreatedEvent{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Email:       request.Email,
		Customer:    request.CustomerName,
		ItemCount:   len(request.Items),
		CreatedAt:   time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not encode order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("could not publish order event: %w", err)
	}

	p.log.Infof("Published %s for order %s", routingKey, result.OrderNumber)
	return nil
}

func (p *amqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.log.Warnf("Failed to close AMQP channel: %v", err)
	}
	return p.conn.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that discards events, for deployments
// without a broker.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderCreated(*domain.CheckoutResult, *domain.CheckoutRequest) error {
	return nil
}

func (nopPublisher) Close() error { return nil }
