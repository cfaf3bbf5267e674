package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB          *gorm.DB
	Orders      OrderRepo
	OrderItems  OrderItemRepo
	Inventories InventoryRepo
	Ledger      LedgerRepo
	Refunds     RefundRepo
	Coupons     CouponRepo
	Carts       CartRepo
	Products    ProductRepo
	Addresses   AddressRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:          db,
		Orders:      NewOrderRepo(db),
		OrderItems:  NewOrderItemRepo(db),
		Inventories: NewInventoryRepo(db),
		Ledger:      NewLedgerRepo(db),
		Refunds:     NewRefundRepo(db),
		Coupons:     NewCouponRepo(db),
		Carts:       NewCartRepo(db),
		Products:    NewProductRepo(db),
		Addresses:   NewAddressRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx выполняет fn в одной транзакции поверх всех репозиториев.
// Без подключения (собранный вручную Repository) fn выполняется на тех же
// репозиториях напрямую.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
