package admin

import (
	"strconv"
	"strings"

	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminPayments 获取支付记录列表 (Admin)
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		Kind:     strings.TrimSpace(c.Query("kind")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 64); err == nil && orderID > 0 {
		filter.OrderID = uint(orderID)
	}

	payments, total, err := h.PaymentService.ListPaymentsAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.payment_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, payments, pagination)
}
