package service

import (
	"context"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RefundRequestInput struct {
	UserID    uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Variant   string
	Reason    string
}

type RefundService struct {
	repo   *repository.Repository
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewRefundService(repo *repository.Repository, events EventBus, log *zap.Logger) *RefundService {
	return &RefundService{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Request создаёт запрос возврата по доставленной позиции. Пока прошлый
// запрос не решён, новый по той же позиции не принимается.
func (s *RefundService) Request(ctx context.Context, in RefundRequestInput) (*models.RefundRequest, error) {
	ord, err := s.repo.Orders.GetByIDForUser(ctx, in.OrderID, in.UserID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	item := findItem(ord.Items, in.ProductID, in.Variant)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Status != models.StatusDelivered {
		return nil, ErrInvalidTransition
	}

	active, err := s.repo.Refunds.HasActive(ctx, in.OrderID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrRefundPending
	}

	req := &models.RefundRequest{
		OrderID:   in.OrderID,
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Variant:   in.Variant,
		Reason:    strings.TrimSpace(in.Reason),
		Status:    models.RefundRequested,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Refunds.Create(ctx, req); err != nil {
			return err
		}
		ok, err := tx.OrderItems.UpdateStatusFrom(ctx, item.ID, models.StatusDelivered, models.StatusReturnRequested)
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
	return req, nil
}

// Approve решает запрос в пользу покупателя: возврат стока, позиция →
// RETURNED, один кредит кошелька. Повторный клик администратора получает
// ErrInvalidTransition и не производит эффектов.
func (s *RefundService) Approve(ctx context.Context, requestID uuid.UUID) (*models.RefundRequest, error) {
	req, err := s.repo.Refunds.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRefundNotFound
	}

	ord, err := s.repo.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	item := findItem(ord.Items, req.ProductID, req.Variant)
	if item == nil {
		return nil, ErrItemNotFound
	}

	var refunded int64
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Refunds.ResolveFrom(ctx, req.ID, models.RefundApproved, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		ok, err = tx.OrderItems.UpdateStatusFrom(ctx, item.ID, models.StatusReturnRequested, models.StatusReturned)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		if _, err := tx.Inventories.Restock(ctx, item.ProductID, item.Variant, int32(item.Quantity)); err != nil {
			return err
		}

		pid := item.ProductID
		exists, err := tx.Ledger.ExistsCompensation(ctx, ord.ID, &pid, models.KindRefund)
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
				Kind:          models.KindRefund,
				TransactionID: uuid.New(),
				CurrencyCode:  ord.CurrencyCode,
			}); err != nil {
				return err
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
		_ = s.events.PublishRefundApproved(ctx, RefundApprovedEvent{
			RequestID:    req.ID,
			OrderID:      ord.ID,
			UserID:       ord.UserID,
			ProductID:    req.ProductID,
			RefundedCent: refunded,
			ApprovedAt:   s.now(),
		})
	}

	return s.repo.Refunds.GetByID(ctx, requestID)
}

// Reject сохраняет причину отказа; сток и кошелёк не трогаются, позиция
// возвращается в DELIVERED.
func (s *RefundService) Reject(ctx context.Context, requestID uuid.UUID, reason string) (*models.RefundRequest, error) {
	req, err := s.repo.Refunds.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRefundNotFound
	}

	ord, err := s.repo.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	item := findItem(ord.Items, req.ProductID, req.Variant)
	if item == nil {
		return nil, ErrItemNotFound
	}

	reason = strings.TrimSpace(reason)
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Refunds.ResolveFrom(ctx, req.ID, models.RefundRejected, &reason)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		ok, err = tx.OrderItems.UpdateStatusFrom(ctx, item.ID, models.StatusReturnRequested, models.StatusDelivered)
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

	return s.repo.Refunds.GetByID(ctx, requestID)
}

func (s *RefundService) List(ctx context.Context, status *models.RefundStatus, limit, offset int) ([]models.RefundRequest, int64, error) {
	return s.repo.Refunds.List(ctx, status, limit, offset)
}
