package service

import (
	"context"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutInput struct {
	UserID        uuid.UUID
	AddressID     uuid.UUID
	PaymentMethod models.PaymentMethod
}

type CheckoutService struct {
	repo      *repository.Repository
	cart      CartReader
	prices    PriceReader
	addresses AddressReader
	gateway   PaymentGateway
	events    EventBus
	log       *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(repo *repository.Repository, cart CartReader, prices PriceReader, addresses AddressReader, gateway PaymentGateway, events EventBus, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		repo:      repo,
		cart:      cart,
		prices:    prices,
		addresses: addresses,
		gateway:   gateway,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// Checkout оформляет заказ из корзины пользователя. Сумма всегда
// пересчитывается из живых цен — клиентским итогам не доверяем.
// Любой сбой после резервирования снимает резерв целиком.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	// Способ оплаты — закрытый набор; всё незнакомое отклоняем здесь,
	// не полагаясь на валидацию транспорта.
	switch in.PaymentMethod {
	case models.PaymentCOD, models.PaymentWallet, models.PaymentGateway:
	default:
		return nil, ErrPaymentMethodInvalid
	}

	now := s.now()

	snap, err := s.cart.GetCart(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	addr, err := s.addresses.GetAddress(ctx, in.UserID, in.AddressID)
	if err != nil {
		return nil, err
	}

	quote, err := buildQuote(ctx, s.prices, s.repo.Coupons, in.UserID, snap.Items, snap.CouponCode, now)
	if err != nil {
		return nil, err
	}

	// Предварительная проверка баланса — до резервирования, чтобы отказ
	// не оставлял следов. Сам дебет ниже атомарен и перепроверяет баланс.
	if in.PaymentMethod == models.PaymentWallet {
		bal, err := s.repo.Ledger.Balance(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if bal < quote.FinalAmountCents {
			return nil, ErrInsufficientFunds
		}
	}

	reserved, err := s.reserveAll(ctx, quote.Lines)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			s.releaseAll(context.WithoutCancel(ctx), reserved)
		}
	}()

	paidNow := in.PaymentMethod != models.PaymentGateway
	status := models.StatusPending
	payStatus := models.PaymentStatusPending
	if paidNow {
		status = models.StatusProcessing
		payStatus = models.PaymentStatusPaid
	}

	order := &models.Order{
		UserID:              in.UserID,
		Status:              status,
		PaymentMethod:       in.PaymentMethod,
		PaymentStatus:       payStatus,
		TotalPriceCents:     quote.SubtotalCents,
		DiscountCents:       quote.DiscountCents,
		DeliveryChargeCents: quote.DeliveryChargeCents,
		FinalAmountCents:    quote.FinalAmountCents,
		CurrencyCode:        currencyINR,
		AddressID:           addr.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if quote.Coupon != nil {
		order.CouponCode = &quote.Coupon.Code
	}

	items := make([]models.OrderItem, 0, len(quote.Lines))
	for _, l := range quote.Lines {
		items = append(items, models.OrderItem{
			ProductID:      l.ProductID,
			Variant:        l.Variant,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			LineTotalCents: l.LineTotalCents,
			CurrencyCode:   currencyINR,
			Status:         status,
			CreatedAt:      now,
		})
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return err
		}
		for i := range items {
			if err := tx.OrderItems.AppendEvent(ctx, items[i].ID, models.StatusPending); err != nil {
				return err
			}
			if paidNow {
				if err := tx.OrderItems.AppendEvent(ctx, items[i].ID, models.StatusProcessing); err != nil {
					return err
				}
			}
		}

		if in.PaymentMethod == models.PaymentWallet {
			oid := order.ID
			ok, err := tx.Ledger.AppendDebit(ctx, &models.LedgerEntry{
				UserID:        in.UserID,
				OrderID:       &oid,
				AmountCents:   quote.FinalAmountCents,
				Kind:          models.KindPurchase,
				TransactionID: uuid.New(),
				CurrencyCode:  currencyINR,
			})
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientFunds
			}
		}

		if paidNow {
			// Оплата состоялась — резерв списываем окончательно.
			for _, r := range reserved {
				if _, err := tx.Inventories.Confirm(ctx, r.productID, r.variant, r.qty); err != nil {
					return err
				}
			}
			if quote.Coupon != nil {
				if err := tx.Coupons.RecordRedemption(ctx, quote.Coupon.ID, in.UserID, order.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.PaymentMethod == models.PaymentGateway {
		ref, err := s.gateway.CreateGatewayOrder(ctx, quote.FinalAmountCents, currencyINR)
		if err != nil {
			// Заказ без платёжной ссылки бесполезен: убираем его и резерв.
			cleanup := context.WithoutCancel(ctx)
			if derr := s.repo.Orders.Delete(cleanup, order.ID); derr != nil {
				s.log.Error("failed to delete order after gateway error", zap.String("order_id", order.ID.String()), zap.Error(derr))
			}
			return nil, err
		}
		if err := s.repo.Orders.SetGatewayOrderRef(ctx, order.ID, ref); err != nil {
			return nil, err
		}
		order.GatewayOrderRef = &ref
	}

	committed = true

	// Корзину чистим только после того, как заказ надёжно создан; для
	// шлюзовой оплаты — после подтверждения платежа.
	if paidNow {
		if err := s.cart.ClearCart(ctx, snap.CartID); err != nil {
			s.log.Error("failed to clear cart after checkout", zap.String("user_id", in.UserID.String()), zap.Error(err))
		}
	}

	s.publishCreated(ctx, order, items, paidNow)
	return order, nil
}

type reservedLine struct {
	productID uuid.UUID
	variant   string
	qty       int32
}

// reserveAll резервирует позиции по одной; первый отказ откатывает уже
// сделанные резервы — всё или ничего.
func (s *CheckoutService) reserveAll(ctx context.Context, lines []QuoteLine) ([]reservedLine, error) {
	var done []reservedLine
	for _, l := range lines {
		ok, err := s.repo.Inventories.TryReserve(ctx, l.ProductID, l.Variant, int32(l.Quantity))
		if err != nil || !ok {
			s.releaseAll(context.WithoutCancel(ctx), done)
			if err != nil {
				return nil, err
			}
			return nil, ErrInsufficientStock
		}
		done = append(done, reservedLine{productID: l.ProductID, variant: l.Variant, qty: int32(l.Quantity)})
	}
	return done, nil
}

func (s *CheckoutService) releaseAll(ctx context.Context, items []reservedLine) {
	for _, r := range items {
		if _, err := s.repo.Inventories.Release(ctx, r.productID, r.variant, r.qty); err != nil {
			s.log.Error("failed to release reservation",
				zap.String("product_id", r.productID.String()),
				zap.String("variant", r.variant),
				zap.Error(err))
		}
	}
}

func (s *CheckoutService) publishCreated(ctx context.Context, order *models.Order, items []models.OrderItem, paid bool) {
	if s.events == nil {
		return
	}
	evItems := make([]OrderItemEvent, 0, len(items))
	for _, it := range items {
		evItems = append(evItems, OrderItemEvent{
			ProductID:  it.ProductID,
			Variant:    it.Variant,
			Quantity:   it.Quantity,
			PriceCents: it.UnitPriceCents,
			LineTotal:  it.LineTotalCents,
		})
	}
	_ = s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Items:         evItems,
		FinalCents:    order.FinalAmountCents,
		Currency:      order.CurrencyCode,
		PaymentMethod: string(order.PaymentMethod),
		CreatedAt:     order.CreatedAt,
	})
	if paid {
		_ = s.events.PublishOrderPaid(ctx, OrderPaidEvent{
			OrderID:    order.ID,
			UserID:     order.UserID,
			FinalCents: order.FinalAmountCents,
			PaidAt:     order.CreatedAt,
		})
	}
}
