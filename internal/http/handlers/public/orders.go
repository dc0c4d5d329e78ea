package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"
	"github.com/orbit-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	RedeemPoints    int64       `json:"redeem_points"`
	ShippingAddress models.JSON `json:"shipping_address"`
	BillingAddress  models.JSON `json:"billing_address"`
}

// PreviewOrder 下单前金额预览
// 只读操作，按当前购物车与会员资格计算，不锁库存不扣积分。
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	preview, err := h.OrderService.PreviewOrder(uid)
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, preview)
}

// CreateOrder 从购物车创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:          uid,
		RedeemPoints:    req.RedeemPoints,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// ListMyOrders 获取当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersForUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetMyOrder 获取当前用户订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForUser(uid, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, order)
}

// CancelMyOrder 用户取消订单
// 已支付订单取消后转入退款流程，未支付订单直接取消。
func (h *Handler) CancelMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderIDParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.CancelOrder(uid, orderID)
	if err != nil {
		respondOrderCancelError(c, err)
		return
	}
	response.Success(c, order)
}

func parseOrderIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(orderID), true
}
