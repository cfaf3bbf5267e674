package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderItemEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	Variant    string    `json:"variant,omitempty"`
	Quantity   uint32    `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	LineTotal  int64     `json:"line_total_cents"`
}

type OrderCreatedEvent struct {
	OrderID       uuid.UUID        `json:"order_id"`
	UserID        uuid.UUID        `json:"user_id"`
	Items         []OrderItemEvent `json:"items"`
	FinalCents    int64            `json:"final_amount_cents"`
	Currency      string           `json:"currency"`
	PaymentMethod string           `json:"payment_method"`
	CreatedAt     time.Time        `json:"created_at"`
}

type OrderPaidEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	FinalCents int64     `json:"final_amount_cents"`
	PaymentRef string    `json:"payment_ref,omitempty"`
	PaidAt     time.Time `json:"paid_at"`
}

type OrderCancelledEvent struct {
	OrderID      uuid.UUID  `json:"order_id"`
	UserID       uuid.UUID  `json:"user_id"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"` // nil при отмене всего заказа
	Reason       string     `json:"reason,omitempty"`
	RefundedCent int64      `json:"refunded_cents"`
	CancelledAt  time.Time  `json:"cancelled_at"`
}

type RefundApprovedEvent struct {
	RequestID    uuid.UUID `json:"request_id"`
	OrderID      uuid.UUID `json:"order_id"`
	UserID       uuid.UUID `json:"user_id"`
	ProductID    uuid.UUID `json:"product_id"`
	RefundedCent int64     `json:"refunded_cents"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// EventBus — уведомления fire-and-forget: сбой публикации никогда не
// откатывает уже применённые изменения заказа или кошелька.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderPaid(ctx context.Context, e OrderPaidEvent) error
	PublishOrderCancelled(ctx context.Context, e OrderCancelledEvent) error
	PublishRefundApproved(ctx context.Context, e RefundApprovedEvent) error
}
