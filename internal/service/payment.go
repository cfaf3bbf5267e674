package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"go.uber.org/zap"

	"github.com/google/uuid"
)

type VerifyPaymentInput struct {
	UserID          uuid.UUID
	GatewayOrderRef string
	PaymentRef      string
	Signature       string
}

// VerifyPayment подтверждает оплату по подписи шлюза. Колбэк шлюза
// доставляется «как минимум один раз», поэтому финализация идемпотентна:
// повторный вызов возвращает заказ без повторных эффектов.
// При неверной подписи заказ остаётся PENDING, резерв не снимается —
// расхождение разбирается вручную.
func (s *CheckoutService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByGatewayRef(ctx, in.GatewayOrderRef)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if ord.UserID != in.UserID {
		return nil, ErrForbidden
	}

	if !s.gateway.VerifySignature(in.GatewayOrderRef, in.PaymentRef, in.Signature) {
		s.log.Warn("payment signature mismatch",
			zap.String("order_id", ord.ID.String()),
			zap.String("gateway_order_ref", in.GatewayOrderRef),
			zap.String("payment_ref", in.PaymentRef))
		return nil, ErrInvalidSignature
	}

	// Повторная доставка колбэка: заказ уже финализирован, возвращаем как
	// есть. Перепроверять купон нельзя — собственное погашение заказа уже
	// учтено в счётчике и повторный вызов упёрся бы в лимит.
	if ord.Status != models.StatusPending {
		return ord, nil
	}

	// Купон перепроверяется на момент подтверждения: окно действия и лимит
	// использования могли истечь между оформлением и оплатой.
	var coupon *models.Coupon
	if ord.CouponCode != nil {
		coupon, err = s.repo.Coupons.GetByCode(ctx, *ord.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := validateCoupon(ctx, s.repo.Coupons, coupon, ord.UserID, ord.TotalPriceCents, s.now()); err != nil {
			return nil, err
		}
	}

	finalized := false
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Orders.UpdateStatusFrom(ctx, ord.ID, models.StatusPending, models.StatusProcessing)
		if err != nil {
			return err
		}
		if !ok {
			// Уже финализирован другим вызовом.
			return nil
		}
		finalized = true

		if err := tx.Orders.MarkPaid(ctx, ord.ID, &in.PaymentRef); err != nil {
			return err
		}
		for _, it := range ord.Items {
			if _, err := tx.OrderItems.UpdateStatusFrom(ctx, it.ID, models.StatusPending, models.StatusProcessing); err != nil {
				return err
			}
			if _, err := tx.Inventories.Confirm(ctx, it.ProductID, it.Variant, int32(it.Quantity)); err != nil {
				return err
			}
		}
		if coupon != nil {
			if err := tx.Coupons.RecordRedemption(ctx, coupon.ID, ord.UserID, ord.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !finalized {
		return s.repo.Orders.GetByID(ctx, ord.ID)
	}

	if snap, err := s.cart.GetCart(ctx, ord.UserID); err == nil {
		if err := s.cart.ClearCart(ctx, snap.CartID); err != nil {
			s.log.Error("failed to clear cart after payment", zap.String("user_id", ord.UserID.String()), zap.Error(err))
		}
	}

	if s.events != nil {
		_ = s.events.PublishOrderPaid(ctx, OrderPaidEvent{
			OrderID:    ord.ID,
			UserID:     ord.UserID,
			FinalCents: ord.FinalAmountCents,
			PaymentRef: in.PaymentRef,
			PaidAt:     s.now(),
		})
	}

	return s.repo.Orders.GetByID(ctx, ord.ID)
}
