package service

import "errors"

var (
	ErrForbidden            = errors.New("forbidden")
	ErrOrderNotFound        = errors.New("order not found")
	ErrItemNotFound         = errors.New("order item not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrAddressNotFound      = errors.New("address not found")
	ErrCartNotFound         = errors.New("cart not found")
	ErrRefundNotFound       = errors.New("refund request not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrQuantityInvalid      = errors.New("quantity must be > 0")
	ErrAmountInvalid        = errors.New("amount must be > 0")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrPaymentMethodInvalid = errors.New("unknown payment method")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInsufficientFunds    = errors.New("insufficient wallet balance")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidSignature     = errors.New("payment signature mismatch")
	ErrRefundPending        = errors.New("refund request already pending for this item")
	ErrCouponInvalid        = errors.New("coupon is not valid")
	ErrCouponExpired        = errors.New("coupon is outside its validity window")
	ErrCouponMinPurchase    = errors.New("cart subtotal below coupon minimum purchase")
	ErrCouponUsageExceeded  = errors.New("coupon usage limit reached for user")
)
