package service_test

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"

	"github.com/google/uuid"
)

// Моки для всех зависимостей сервисов

// MockOrderRepo
type MockOrderRepo struct {
	CreateFunc             func(ctx context.Context, o *models.Order) error
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUserFunc     func(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	GetByGatewayRefFunc    func(ctx context.Context, ref string) (*models.Order, error)
	UpdateStatusFromFunc   func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
	UpdateStatusFunc       func(ctx context.Context, id uuid.UUID, status models.OrderStatus, reason *string) error
	MarkPaidFunc           func(ctx context.Context, id uuid.UUID, paymentRef *string) error
	SetGatewayOrderRefFunc func(ctx context.Context, id uuid.UUID, ref string) error
	ListFunc               func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
	ExistsFunc             func(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByGatewayRef(ctx context.Context, ref string) (*models.Order, error) {
	if m.GetByGatewayRefFunc != nil {
		return m.GetByGatewayRefFunc(ctx, ref)
	}
	return nil, nil
}

func (m *MockOrderRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	if m.UpdateStatusFromFunc != nil {
		return m.UpdateStatusFromFunc(ctx, id, from, to)
	}
	return true, nil
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, reason *string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, reason)
	}
	return nil
}

func (m *MockOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef *string) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, id, paymentRef)
	}
	return nil
}

func (m *MockOrderRepo) SetGatewayOrderRef(ctx context.Context, id uuid.UUID, ref string) error {
	if m.SetGatewayOrderRefFunc != nil {
		return m.SetGatewayOrderRefFunc(ctx, id, ref)
	}
	return nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockOrderItemRepo
type MockOrderItemRepo struct {
	BulkCreateFunc       func(ctx context.Context, items []models.OrderItem) error
	GetByOrderIDFunc     func(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	GetItemFunc          func(ctx context.Context, orderID, productID uuid.UUID, variant string) (*models.OrderItem, error)
	UpdateStatusFromFunc func(ctx context.Context, itemID uuid.UUID, from, to models.OrderStatus) (bool, error)
	AppendEventFunc      func(ctx context.Context, itemID uuid.UUID, status models.OrderStatus) error
	ListStatusesFunc     func(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error)
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return nil
}

func (m *MockOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockOrderItemRepo) GetItem(ctx context.Context, orderID, productID uuid.UUID, variant string) (*models.OrderItem, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, orderID, productID, variant)
	}
	return nil, nil
}

func (m *MockOrderItemRepo) UpdateStatusFrom(ctx context.Context, itemID uuid.UUID, from, to models.OrderStatus) (bool, error) {
	if m.UpdateStatusFromFunc != nil {
		return m.UpdateStatusFromFunc(ctx, itemID, from, to)
	}
	return true, nil
}

func (m *MockOrderItemRepo) AppendEvent(ctx context.Context, itemID uuid.UUID, status models.OrderStatus) error {
	if m.AppendEventFunc != nil {
		return m.AppendEventFunc(ctx, itemID, status)
	}
	return nil
}

func (m *MockOrderItemRepo) ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error) {
	if m.ListStatusesFunc != nil {
		return m.ListStatusesFunc(ctx, orderID)
	}
	return nil, nil
}

// MockInventoryRepo
type MockInventoryRepo struct {
	GetFunc             func(ctx context.Context, productID uuid.UUID, variant string) (*models.Inventory, error)
	UpsertFunc          func(ctx context.Context, productID uuid.UUID, variant string, available int32) error
	AdjustAvailableFunc func(ctx context.Context, productID uuid.UUID, variant string, delta int32) (bool, error)
	TryReserveFunc      func(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
	ReleaseFunc         func(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
	ConfirmFunc         func(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
	RestockFunc         func(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
}

func (m *MockInventoryRepo) Get(ctx context.Context, productID uuid.UUID, variant string) (*models.Inventory, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, productID, variant)
	}
	return nil, nil
}

func (m *MockInventoryRepo) Upsert(ctx context.Context, productID uuid.UUID, variant string, available int32) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, productID, variant, available)
	}
	return nil
}

func (m *MockInventoryRepo) AdjustAvailable(ctx context.Context, productID uuid.UUID, variant string, delta int32) (bool, error) {
	if m.AdjustAvailableFunc != nil {
		return m.AdjustAvailableFunc(ctx, productID, variant, delta)
	}
	return true, nil
}

func (m *MockInventoryRepo) TryReserve(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	if m.TryReserveFunc != nil {
		return m.TryReserveFunc(ctx, productID, variant, qty)
	}
	return true, nil
}

func (m *MockInventoryRepo) Release(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, productID, variant, qty)
	}
	return true, nil
}

func (m *MockInventoryRepo) Confirm(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, productID, variant, qty)
	}
	return true, nil
}

func (m *MockInventoryRepo) Restock(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	if m.RestockFunc != nil {
		return m.RestockFunc(ctx, productID, variant, qty)
	}
	return true, nil
}

// MockLedgerRepo
type MockLedgerRepo struct {
	AppendCreditFunc       func(ctx context.Context, e *models.LedgerEntry) error
	AppendDebitFunc        func(ctx context.Context, e *models.LedgerEntry) (bool, error)
	BalanceFunc            func(ctx context.Context, userID uuid.UUID) (int64, error)
	ExistsCompensationFunc func(ctx context.Context, orderID uuid.UUID, productID *uuid.UUID, kind models.LedgerKind) (bool, error)
	ListByUserFunc         func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, int64, error)
}

func (m *MockLedgerRepo) AppendCredit(ctx context.Context, e *models.LedgerEntry) error {
	if m.AppendCreditFunc != nil {
		return m.AppendCreditFunc(ctx, e)
	}
	return nil
}

func (m *MockLedgerRepo) AppendDebit(ctx context.Context, e *models.LedgerEntry) (bool, error) {
	if m.AppendDebitFunc != nil {
		return m.AppendDebitFunc(ctx, e)
	}
	return true, nil
}

func (m *MockLedgerRepo) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockLedgerRepo) ExistsCompensation(ctx context.Context, orderID uuid.UUID, productID *uuid.UUID, kind models.LedgerKind) (bool, error) {
	if m.ExistsCompensationFunc != nil {
		return m.ExistsCompensationFunc(ctx, orderID, productID, kind)
	}
	return false, nil
}

func (m *MockLedgerRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, int64, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	return nil, 0, nil
}

// MockRefundRepo
type MockRefundRepo struct {
	CreateFunc      func(ctx context.Context, req *models.RefundRequest) error
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*models.RefundRequest, error)
	HasActiveFunc   func(ctx context.Context, orderID, productID uuid.UUID) (bool, error)
	ResolveFromFunc func(ctx context.Context, id uuid.UUID, status models.RefundStatus, rejectionReason *string) (bool, error)
	ListFunc        func(ctx context.Context, status *models.RefundStatus, limit, offset int) ([]models.RefundRequest, int64, error)
}

func (m *MockRefundRepo) Create(ctx context.Context, req *models.RefundRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return nil
}

func (m *MockRefundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RefundRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRefundRepo) HasActive(ctx context.Context, orderID, productID uuid.UUID) (bool, error) {
	if m.HasActiveFunc != nil {
		return m.HasActiveFunc(ctx, orderID, productID)
	}
	return false, nil
}

func (m *MockRefundRepo) ResolveFrom(ctx context.Context, id uuid.UUID, status models.RefundStatus, rejectionReason *string) (bool, error) {
	if m.ResolveFromFunc != nil {
		return m.ResolveFromFunc(ctx, id, status, rejectionReason)
	}
	return true, nil
}

func (m *MockRefundRepo) List(ctx context.Context, status *models.RefundStatus, limit, offset int) ([]models.RefundRequest, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	return nil, 0, nil
}

// MockCouponRepo
type MockCouponRepo struct {
	CreateFunc           func(ctx context.Context, c *models.Coupon) error
	GetByCodeFunc        func(ctx context.Context, code string) (*models.Coupon, error)
	DeactivateFunc       func(ctx context.Context, id uuid.UUID) (bool, error)
	CountRedemptionsFunc func(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	RecordRedemptionFunc func(ctx context.Context, couponID, userID, orderID uuid.UUID) error
}

func (m *MockCouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockCouponRepo) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return true, nil
}

func (m *MockCouponRepo) CountRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	if m.CountRedemptionsFunc != nil {
		return m.CountRedemptionsFunc(ctx, couponID, userID)
	}
	return 0, nil
}

func (m *MockCouponRepo) RecordRedemption(ctx context.Context, couponID, userID, orderID uuid.UUID) error {
	if m.RecordRedemptionFunc != nil {
		return m.RecordRedemptionFunc(ctx, couponID, userID, orderID)
	}
	return nil
}

// MockCartReader
type MockCartReader struct {
	GetCartFunc   func(ctx context.Context, userID uuid.UUID) (service.CartSnapshot, error)
	ClearCartFunc func(ctx context.Context, cartID uuid.UUID) error
}

func (m *MockCartReader) GetCart(ctx context.Context, userID uuid.UUID) (service.CartSnapshot, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, userID)
	}
	return service.CartSnapshot{}, nil
}

func (m *MockCartReader) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx, cartID)
	}
	return nil
}

// MockPriceReader
type MockPriceReader struct {
	GetPriceFunc func(ctx context.Context, productID uuid.UUID) (service.PriceInfo, error)
}

func (m *MockPriceReader) GetPrice(ctx context.Context, productID uuid.UUID) (service.PriceInfo, error) {
	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, productID)
	}
	return service.PriceInfo{RegularPriceCents: 10000, CurrencyCode: "INR"}, nil
}

// MockAddressReader
type MockAddressReader struct {
	GetAddressFunc func(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

func (m *MockAddressReader) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if m.GetAddressFunc != nil {
		return m.GetAddressFunc(ctx, userID, addressID)
	}
	return &models.Address{ID: addressID, UserID: userID}, nil
}

// MockGateway
type MockGateway struct {
	CreateGatewayOrderFunc func(ctx context.Context, amountCents int64, currency string) (string, error)
	VerifySignatureFunc    func(orderRef, paymentRef, signature string) bool
}

func (m *MockGateway) CreateGatewayOrder(ctx context.Context, amountCents int64, currency string) (string, error) {
	if m.CreateGatewayOrderFunc != nil {
		return m.CreateGatewayOrderFunc(ctx, amountCents, currency)
	}
	return "order_test_ref", nil
}

func (m *MockGateway) VerifySignature(orderRef, paymentRef, signature string) bool {
	if m.VerifySignatureFunc != nil {
		return m.VerifySignatureFunc(orderRef, paymentRef, signature)
	}
	return true
}

// MockEventBus считает публикации
type MockEventBus struct {
	Created   []service.OrderCreatedEvent
	Paid      []service.OrderPaidEvent
	Cancelled []service.OrderCancelledEvent
	Refunded  []service.RefundApprovedEvent
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	m.Created = append(m.Created, e)
	return nil
}

func (m *MockEventBus) PublishOrderPaid(ctx context.Context, e service.OrderPaidEvent) error {
	m.Paid = append(m.Paid, e)
	return nil
}

func (m *MockEventBus) PublishOrderCancelled(ctx context.Context, e service.OrderCancelledEvent) error {
	m.Cancelled = append(m.Cancelled, e)
	return nil
}

func (m *MockEventBus) PublishRefundApproved(ctx context.Context, e service.RefundApprovedEvent) error {
	m.Refunded = append(m.Refunded, e)
	return nil
}

type mockRepos struct {
	orders    *MockOrderRepo
	items     *MockOrderItemRepo
	inventory *MockInventoryRepo
	ledger    *MockLedgerRepo
	refunds   *MockRefundRepo
	coupons   *MockCouponRepo
}

/// newMockRepos собирает Repository без подключения к базе: WithTx в этом
// режиме выполняет замыкание на тех же моках.
func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		orders:    &MockOrderRepo{},
		items:     &MockOrderItemRepo{},
		inventory: &MockInventoryRepo{},
		ledger:    &MockLedgerRepo{},
		refunds:   &MockRefundRepo{},
		coupons:   &MockCouponRepo{},
	}
	return &repository.Repository{
		Orders:      m.orders,
		OrderItems:  m.items,
		Inventories: m.inventory,
		Ledger:      m.ledger,
		Refunds:     m.refunds,
		Coupons:     m.coupons,
	}, m
}
