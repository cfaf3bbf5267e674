package service

import (
	"context"
	"time"
	"unicode/utf8"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderListFilter struct {
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderService struct {
	repo   *repository.Repository
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderService(repo *repository.Repository, events EventBus, log *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, f OrderListFilter) ([]models.Order, int64, error) {
	ordersPtr, total, err := s.repo.Orders.List(ctx, repository.OrderListFilter{
		UserID: &userID,
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

// CancelOrder отменяет все ещё отменяемые позиции заказа. Сток возвращается;
// для оплаченных не-COD заказов начисляется ровно один кредит кошелька —
// повторная отмена кредит не дублирует.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason *string) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if !IsCancellable(ord.Status) {
		return nil, ErrInvalidTransition
	}

	var refunded int64
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// Заявляем отмену условно: конкурентная отмена или смена статуса
		// провалит ровно один из вызовов.
		ok, err := tx.Orders.UpdateStatusFrom(ctx, ord.ID, ord.Status, models.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		var cancelledCents int64
		allCancelled := true
		for _, it := range ord.Items {
			if !IsCancellable(it.Status) {
				if it.Status != models.StatusCancelled {
					allCancelled = false
				}
				continue
			}
			if _, err := tx.OrderItems.UpdateStatusFrom(ctx, it.ID, it.Status, models.StatusCancelled); err != nil {
				return err
			}
			if err := s.returnStock(ctx, tx, ord, it); err != nil {
				return err
			}
			cancelledCents += it.LineTotalCents
		}

		if ord.PaymentStatus == models.PaymentStatusPaid && ord.PaymentMethod != models.PaymentCOD {
			exists, err := tx.Ledger.ExistsCompensation(ctx, ord.ID, nil, models.KindCancellation)
			if err != nil {
				return err
			}
			if !exists {
				refunded = cancelledCents
				if allCancelled {
					// Отменён весь заказ — возвращаем фактически уплаченное,
					// с учётом скидки и доставки.
					refunded = ord.FinalAmountCents
				}
				if refunded > 0 {
					oid := ord.ID
					if err := tx.Ledger.AppendCredit(ctx, &models.LedgerEntry{
						UserID:        ord.UserID,
						OrderID:       &oid,
						AmountCents:   refunded,
						Kind:          models.KindCancellation,
						TransactionID: uuid.New(),
						CurrencyCode:  ord.CurrencyCode,
					}); err != nil {
						return err
					}
				}
			}
		}

		statuses, err := tx.OrderItems.ListStatuses(ctx, ord.ID)
		if err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, ord.ID, ReduceOrderStatus(statuses), reason)
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishOrderCancelled(ctx, OrderCancelledEvent{
			OrderID:      ord.ID,
			UserID:       ord.UserID,
			Reason:       sanitizeReason(reason),
			RefundedCent: refunded,
			CancelledAt:  s.now(),
		})
	}

	return s.repo.Orders.GetByID(ctx, orderID)
}

// CancelItem отменяет одну позицию; статус заказа пересчитывается редьюсером.
func (s *OrderService) CancelItem(ctx context.Context, userID, orderID, productID uuid.UUID, variant string, reason *string) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	item := findItem(ord.Items, productID, variant)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !IsCancellable(item.Status) {
		return nil, ErrInvalidTransition
	}

	var refunded int64
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.OrderItems.UpdateStatusFrom(ctx, item.ID, item.Status, models.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		if err := s.returnStock(ctx, tx, ord, *item); err != nil {
			return err
		}

		if ord.PaymentStatus == models.PaymentStatusPaid && ord.PaymentMethod != models.PaymentCOD {
			pid := item.ProductID
			exists, err := tx.Ledger.ExistsCompensation(ctx, ord.ID, &pid, models.KindCancellation)
			if err != nil {
				return err
			}
			if !exists {
				oid := ord.ID
				refunded = item.LineTotalCents
				if err := tx.Ledger.AppendCredit(ctx, &models.LedgerEntry{
					UserID:        ord.UserID,
					OrderID:       &oid,
					ProductID:     &pid,
					AmountCents:   refunded,
					Kind:          models.KindCancellation,
					TransactionID: uuid.New(),
					CurrencyCode:  ord.CurrencyCode,
				}); err != nil {
					return err
				}
			}
		}

		statuses, err := tx.OrderItems.ListStatuses(ctx, ord.ID)
		if err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, ord.ID, ReduceOrderStatus(statuses), nil)
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		pid := productID
		_ = s.events.PublishOrderCancelled(ctx, OrderCancelledEvent{
			OrderID:      ord.ID,
			UserID:       ord.UserID,
			ProductID:    &pid,
			Reason:       sanitizeReason(reason),
			RefundedCent: refunded,
			CancelledAt:  s.now(),
		})
	}

	return s.repo.Orders.GetByID(ctx, orderID)
}

// AdvanceItemStatus — админская операция прогона позиции вперёд по жизненному
// циклу (PROCESSING→SHIPPED→OUT_FOR_DELIVERY→DELIVERED).
func (s *OrderService) AdvanceItemStatus(ctx context.Context, orderID, productID uuid.UUID, variant string, to models.OrderStatus) (*models.Order, error) {
	if _, ok := forwardRank[to]; !ok {
		return nil, ErrInvalidTransition
	}

	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	item := findItem(ord.Items, productID, variant)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !CanTransition(item.Status, to) {
		return nil, ErrInvalidTransition
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.OrderItems.UpdateStatusFrom(ctx, item.ID, item.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		statuses, err := tx.OrderItems.ListStatuses(ctx, ord.ID)
		if err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, ord.ID, ReduceOrderStatus(statuses), nil)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Orders.GetByID(ctx, orderID)
}

// returnStock возвращает количество позиции на склад: до оплаты товар ещё в
// резерве, после оплаты резерв уже списан и сток пополняется заново.
func (s *OrderService) returnStock(ctx context.Context, tx *repository.Repository, ord *models.Order, it models.OrderItem) error {
	qty := int32(it.Quantity)
	if ord.PaymentStatus == models.PaymentStatusPaid {
		_, err := tx.Inventories.Restock(ctx, it.ProductID, it.Variant, qty)
		return err
	}
	_, err := tx.Inventories.Release(ctx, it.ProductID, it.Variant, qty)
	return err
}

func findItem(items []models.OrderItem, productID uuid.UUID, variant string) *models.OrderItem {
	for i := range items {
		if items[i].ProductID == productID && items[i].Variant == variant {
			return &items[i]
		}
	}
	return nil
}

func sanitizeReason(reason *string) string {
	if reason == nil {
		return ""
	}
	r := *reason
	if len(r) > 500 {
		// не режем многобайтовую руну посередине
		cut := 500
		for cut > 0 && !utf8.RuneStart(r[cut]) {
			cut--
		}
		r = r[:cut]
	}
	return r
}
