package public

import (
	"github.com/orbit-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 发起支付请求
type CreatePaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreatePayment 为待支付订单创建网关支付
func (h *Handler) CreatePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.PaymentService.CreateCharge(c.Request.Context(), uid, req.OrderID)
	if err != nil {
		respondPaymentCreateError(c, err)
		return
	}

	response.Success(c, gin.H{
		"payment": result.Payment,
		"pay_url": result.PayURL,
	})
}

// ListOrderPayments 获取订单的支付记录
func (h *Handler) ListOrderPayments(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	payments, err := h.PaymentService.ListPaymentsForOrder(uid, orderID)
	if err != nil {
		respondPaymentCreateError(c, err)
		return
	}
	response.Success(c, gin.H{"payments": payments})
}
