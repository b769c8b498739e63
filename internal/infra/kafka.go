package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frozenshop/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// OrderEvent is the message value written to the order topic.
type OrderEvent struct {
	Event         string              `json:"event"`
	OrderID       uint                `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	OrderStatus   model.OrderStatus   `json:"order_status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	ShippingCost  decimal.Decimal     `json:"shipping_cost"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// OrderEventPublisher writes order lifecycle events to Kafka, keyed by order
// number so every event of one order lands on the same partition.
type OrderEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
}

func NewOrderEventPublisher(writer *kafka.Writer) *OrderEventPublisher {
	return &OrderEventPublisher{writer: writer}
}

func (p *OrderEventPublisher) PublishOrderEvent(ctx context.Context, event string, o *model.Order) error {
	msg, err := orderMessage(event, o, time.Now().UTC())
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func orderMessage(event string, o *model.Order, at time.Time) (kafka.Message, error) {
	value, err := json.Marshal(OrderEvent{
		Event:         event,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		TotalAmount:   o.TotalAmount,
		OccurredAt:    at,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: marshal %s: %w", event, err)
	}
	return kafka.Message{
		Key:   []byte(o.OrderNumber),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event)},
		},
	}, nil
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
