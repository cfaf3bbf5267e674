package http

import (
	"net/http"
	"strconv"

	"storefront-service/internal/models"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	checkout *service.CheckoutService
	orders   *service.OrderService
	refunds  *service.RefundService
	wallet   *service.WalletService
	log      *zap.Logger
}

func NewHandler(checkout *service.CheckoutService, orders *service.OrderService, refunds *service.RefundService, wallet *service.WalletService, log *zap.Logger) *Handler {
	return &Handler{
		checkout: checkout,
		orders:   orders,
		refunds:  refunds,
		wallet:   wallet,
		log:      log,
	}
}

// userID берётся из заголовка, проставленного вышестоящим шлюзом, и дальше
// передаётся в ядро явным параметром.
func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, BaseError{Code: "unauthorized", Message: "missing or invalid X-User-ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
		return
	}
	addrID, err := uuid.Parse(req.AddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid address_id"})
		return
	}

	ord, err := h.checkout.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID:        uid,
		AddressID:     addrID,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ord)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
		return
	}

	ord, err := h.checkout.VerifyPayment(c.Request.Context(), service.VerifyPaymentInput{
		UserID:          uid,
		GatewayOrderRef: req.GatewayOrderRef,
		PaymentRef:      req.PaymentRef,
		Signature:       req.Signature,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	oid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid order id"})
		return
	}
	ord, err := h.orders.GetOrder(c.Request.Context(), uid, oid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var f service.OrderListFilter
	if s := c.Query("status"); s != "" {
		st := models.OrderStatus(s)
		f.Status = &st
	}
	f.Limit = intQuery(c, "limit", 20)
	f.Offset = intQuery(c, "offset", 0)

	orders, total, err := h.orders.ListOrders(c.Request.Context(), uid, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	oid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid order id"})
		return
	}
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)
	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	ord, err := h.orders.CancelOrder(c.Request.Context(), uid, oid, reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *Handler) CancelItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	oid, pid, ok := orderItemParams(c)
	if !ok {
		return
	}
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)
	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	ord, err := h.orders.CancelItem(c.Request.Context(), uid, oid, pid, c.Query("variant"), reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *Handler) RequestReturn(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	oid, pid, ok := orderItemParams(c)
	if !ok {
		return
	}
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
		return
	}

	r, err := h.refunds.Request(c.Request.Context(), service.RefundRequestInput{
		UserID:    uid,
		OrderID:   oid,
		ProductID: pid,
		Variant:   c.Query("variant"),
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) ApproveRefund(c *gin.Context) {
	rid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid refund id"})
		return
	}
	r, err := h.refunds.Approve(c.Request.Context(), rid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) RejectRefund(c *gin.Context) {
	rid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid refund id"})
		return
	}
	var req RejectRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
		return
	}
	r, err := h.refunds.Reject(c.Request.Context(), rid, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) ListRefunds(c *gin.Context) {
	var status *models.RefundStatus
	if s := c.Query("status"); s != "" {
		st := models.RefundStatus(s)
		status = &st
	}
	list, total, err := h.refunds.List(c.Request.Context(), status, intQuery(c, "limit", 20), intQuery(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refunds": list, "total": total})
}

func (h *Handler) AdvanceItemStatus(c *gin.Context) {
	oid, pid, ok := orderItemParams(c)
	if !ok {
		return
	}
	var req AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
		return
	}

	ord, err := h.orders.AdvanceItemStatus(c.Request.Context(), oid, pid, c.Query("variant"), models.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *Handler) WalletBalance(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	bal, err := h.wallet.Balance(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	// сырой леджер может уйти в минус только при порче данных; наружу
	// показываем не меньше нуля
	if bal < 0 {
		bal = 0
	}
	c.JSON(http.StatusOK, WalletResponse{BalanceCents: bal, Currency: "INR"})
}

func (h *Handler) WalletHistory(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	entries, total, err := h.wallet.History(c.Request.Context(), uid, intQuery(c, "limit", 20), intQuery(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": total})
}

func (h *Handler) TopUp(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: err.Error()})
		return
	}
	entry, err := h.wallet.TopUp(c.Request.Context(), uid, req.AmountCents)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func orderItemParams(c *gin.Context) (orderID, productID uuid.UUID, ok bool) {
	oid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid order id"})
		return uuid.Nil, uuid.Nil, false
	}
	pid, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, BaseError{Code: "validation_error", Message: "invalid product id"})
		return uuid.Nil, uuid.Nil, false
	}
	return oid, pid, true
}

func intQuery(c *gin.Context, name string, def int) int {
	v := def
	if s := c.Query(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			v = n
		}
	}
	return v
}
