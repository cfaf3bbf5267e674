package producer

import (
	"context"
	"encoding/json"
	"time"

	"storefront-service/internal/service"

	"github.com/segmentio/kafka-go"
)

// OrderEventProducer публикует события заказов в Kafka. Доставка —
// best-effort: ошибки публикации логируются вызывающей стороной и не
// влияют на результат операции.
type OrderEventProducer struct {
	writer *kafka.Writer
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return &OrderEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (p *OrderEventProducer) publish(ctx context.Context, key string, eventType string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *OrderEventProducer) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return p.publish(ctx, e.OrderID.String(), "order.created", e)
}

func (p *OrderEventProducer) PublishOrderPaid(ctx context.Context, e service.OrderPaidEvent) error {
	return p.publish(ctx, e.OrderID.String(), "order.paid", e)
}

func (p *OrderEventProducer) PublishOrderCancelled(ctx context.Context, e service.OrderCancelledEvent) error {
	return p.publish(ctx, e.OrderID.String(), "order.cancelled", e)
}

func (p *OrderEventProducer) PublishRefundApproved(ctx context.Context, e service.RefundApprovedEvent) error {
	return p.publish(ctx, e.OrderID.String(), "refund.approved", e)
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
