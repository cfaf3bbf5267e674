package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы заказа и позиций — строковый тип (закрытый enum)
type OrderStatus string

const (
	StatusPending         OrderStatus = "PENDING"
	StatusProcessing      OrderStatus = "PROCESSING"
	StatusShipped         OrderStatus = "SHIPPED"
	StatusOutForDelivery  OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusReturnRequested OrderStatus = "RETURN_REQUESTED"
	StatusReturned        OrderStatus = "RETURNED"
)

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentWallet  PaymentMethod = "WALLET"
	PaymentGateway PaymentMethod = "GATEWAY"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Order struct {
	ID                  uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID     `gorm:"type:uuid;not null;index"`
	Status              OrderStatus   `gorm:"type:text;not null;default:'PENDING';index"`
	PaymentMethod       PaymentMethod `gorm:"type:text;not null"`
	PaymentStatus       PaymentStatus `gorm:"type:text;not null;default:'PENDING'"`
	TotalPriceCents     int64         `gorm:"not null;default:0"`
	DiscountCents       int64         `gorm:"not null;default:0"`
	DeliveryChargeCents int64         `gorm:"not null;default:0"`
	FinalAmountCents    int64         `gorm:"not null;default:0"`
	CurrencyCode        string        `gorm:"type:char(3);not null"`
	CouponCode          *string       `gorm:"type:text"`
	AddressID           uuid.UUID     `gorm:"type:uuid;not null"`
	GatewayOrderRef     *string       `gorm:"type:text;index"`
	PaymentRef          *string       `gorm:"type:text"`
	CancelReason        *string       `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID             uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_product_variant"`
	ProductID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:ux_order_items_order_product_variant"`
	Variant        string      `gorm:"type:text;not null;default:'';uniqueIndex:ux_order_items_order_product_variant"`
	Quantity       uint32      `gorm:"type:int;not null"`
	UnitPriceCents int64       `gorm:"not null"`
	LineTotalCents int64       `gorm:"not null"`
	CurrencyCode   string      `gorm:"type:char(3);not null"`
	Status         OrderStatus `gorm:"type:text;not null;default:'PENDING';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	History []OrderItemEvent `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderItemEvent — append-only история статусов позиции.
type OrderItemEvent struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status      OrderStatus `gorm:"type:text;not null"`
	CreatedAt   time.Time   `gorm:"not null;default:now();index"`
}

func (OrderItemEvent) TableName() string { return "order_item_events" }

type LedgerDirection string

const (
	DirectionCredit LedgerDirection = "CREDIT"
	DirectionDebit  LedgerDirection = "DEBIT"
)

type LedgerKind string

const (
	KindPurchase     LedgerKind = "PURCHASE"
	KindRefund       LedgerKind = "REFUND"
	KindCancellation LedgerKind = "CANCELLATION"
	KindTopUp        LedgerKind = "TOPUP"
)

// LedgerEntry — неизменяемая запись кошелька; баланс всегда выводится из лога.
type LedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID     *uuid.UUID      `gorm:"type:uuid"`
	AmountCents   int64           `gorm:"not null"` // CHECK > 0 в миграции
	Direction     LedgerDirection `gorm:"type:text;not null"`
	Kind          LedgerKind      `gorm:"type:text;not null"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CurrencyCode  string          `gorm:"type:char(3);not null"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

type Inventory struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Variant   string    `gorm:"type:text;primaryKey;default:''"`
	Available int32     `gorm:"not null;default:0"`
	Reserved  int32     `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Inventory) TableName() string { return "inventories" }

type RefundStatus string

const (
	RefundRequested RefundStatus = "REQUESTED"
	RefundApproved  RefundStatus = "APPROVED"
	RefundRejected  RefundStatus = "REJECTED"
)

type RefundRequest struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID    `gorm:"type:uuid;not null;index"`
	Variant         string       `gorm:"type:text;not null;default:''"`
	Reason          string       `gorm:"type:text;not null"`
	Status          RefundStatus `gorm:"type:text;not null;default:'REQUESTED';index"`
	RejectionReason *string      `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (RefundRequest) TableName() string { return "refund_requests" }

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFlat    DiscountType = "FLAT"
)

type Coupon struct {
	ID               uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string       `gorm:"type:text;not null;uniqueIndex"`
	DiscountType     DiscountType `gorm:"type:text;not null"`
	DiscountValue    int64        `gorm:"not null"` // проценты для PERCENT, центы для FLAT
	MaxDiscountCents int64        `gorm:"not null;default:0"`
	MinPurchaseCents int64        `gorm:"not null;default:0"`
	ValidFrom        time.Time    `gorm:"not null"`
	ValidTo          time.Time    `gorm:"not null"`
	UsageLimit       int          `gorm:"not null;default:1"` // на пользователя
	IsActive         bool         `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Coupon) TableName() string { return "coupons" }

// CouponRedemption фиксируется только при подтверждении оплаты.
type CouponRedemption struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_redemptions_coupon_order"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_redemptions_coupon_order"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (CouponRedemption) TableName() string { return "coupon_redemptions" }

type Category struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"type:text;not null"`
	OfferPct int32     `gorm:"not null;default:0"`
	IsActive bool      `gorm:"not null;default:true"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID        *uuid.UUID `gorm:"type:uuid;index"`
	Name              string     `gorm:"type:text;not null"`
	RegularPriceCents int64      `gorm:"not null;default:0"`
	OfferPct          int32      `gorm:"not null;default:0"`
	CurrencyCode      string     `gorm:"type:char(3);not null;default:'INR'"`
	IsActive          bool       `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

type Cart struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CouponCode *string   `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_cart_items_cart_product_variant"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_cart_product_variant"`
	Variant   string    `gorm:"type:text;not null;default:'';uniqueIndex:ux_cart_items_cart_product_variant"`
	Quantity  uint32    `gorm:"type:int;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartItem) TableName() string { return "cart_items" }

type Address struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Line1   string    `gorm:"type:text;not null"`
	Line2   string    `gorm:"type:text"`
	City    string    `gorm:"type:text;not null"`
	State   string    `gorm:"type:text;not null"`
	Pincode string    `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Address) TableName() string { return "addresses" }
