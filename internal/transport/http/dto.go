package http

import (
	"errors"
	"net/http"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

// BaseError — универсальный формат ошибки
// Code — машинно-ориентированный код (snake_case)
// Message — краткое человеко-читаемое описание
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type CheckoutRequest struct {
	AddressID     string `json:"address_id" binding:"required,uuid"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=COD WALLET GATEWAY"`
}

type VerifyPaymentRequest struct {
	GatewayOrderRef string `json:"gateway_order_ref" binding:"required"`
	PaymentRef      string `json:"payment_ref" binding:"required"`
	Signature       string `json:"signature" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type ReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RejectRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TopUpRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

type WalletResponse struct {
	BalanceCents int64  `json:"balance_cents"`
	Currency     string `json:"currency"`
}

// writeError переводит ошибки ядра в HTTP-статусы; бизнес-отказы — это
// структурированный ответ, а не 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrRefundNotFound):
		c.JSON(http.StatusNotFound, BaseError{Code: "not_found", Message: err.Error()})
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, BaseError{Code: "insufficient_stock", Message: err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, BaseError{Code: "insufficient_funds", Message: err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, BaseError{Code: "invalid_transition", Message: err.Error()})
	case errors.Is(err, service.ErrRefundPending):
		c.JSON(http.StatusConflict, BaseError{Code: "refund_pending", Message: err.Error()})
	case errors.Is(err, service.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, BaseError{Code: "invalid_signature", Message: err.Error()})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrAmountInvalid),
		errors.Is(err, service.ErrCurrencyMismatch),
		errors.Is(err, service.ErrPaymentMethodInvalid),
		errors.Is(err, service.ErrCouponInvalid),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponMinPurchase),
		errors.Is(err, service.ErrCouponUsageExceeded):
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, BaseError{Code: "forbidden", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, BaseError{Code: "internal_error", Message: "internal server error"})
	}
}
