package public

import (
	"io"

	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/payment/gateway"

	"github.com/gin-gonic/gin"
)

const webhookBodyLimit = 1 << 20

// GatewayWebhook 网关异步回调入口
// 签名校验失败直接拒绝；重复回调由 service 层按支付单终态幂等吸收。
func (h *Handler) GatewayWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	signature := c.GetHeader(gateway.SignatureHeader)

	if err := h.PaymentService.HandleWebhook(body, signature); err != nil {
		respondPaymentWebhookError(c, err)
		return
	}
	response.Success(c, gin.H{"received": true})
}
