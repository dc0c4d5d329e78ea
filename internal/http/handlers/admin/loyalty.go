package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/repository"
	"github.com/orbit-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// LoyaltyAdjustRequest 积分人工调整请求
type LoyaltyAdjustRequest struct {
	UserID          uint   `json:"user_id" binding:"required"`
	Delta           int64  `json:"delta" binding:"required"`
	AffectsLifetime bool   `json:"affects_lifetime"`
	Description     string `json:"description"`
}

// AdjustLoyaltyPoints 人工调整用户积分 (Admin)
// 调整同样走流水账本，余额不允许为负。
func (h *Handler) AdjustLoyaltyPoints(c *gin.Context) {
	var req LoyaltyAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	account, txn, err := h.LoyaltyService.AdminAdjust(req.UserID, req.Delta, req.AffectsLifetime, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoyaltyInvalidPoints):
			respondError(c, response.CodeBadRequest, "error.loyalty_invalid_points", nil)
		case errors.Is(err, service.ErrInsufficientPoints):
			respondError(c, response.CodeConflict, "error.insufficient_points", nil)
		default:
			respondError(c, response.CodeInternal, "error.save_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"account":     account,
		"transaction": txn,
	})
}

// GetAdminLoyaltyAccount 获取用户积分账户 (Admin)
func (h *Handler) GetAdminLoyaltyAccount(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	account, err := h.LoyaltyService.GetAccount(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.loyalty_fetch_failed", err)
		return
	}
	response.Success(c, account)
}

// GetAdminLoyaltyTransactions 获取积分流水列表 (Admin)
func (h *Handler) GetAdminLoyaltyTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.LoyaltyTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		Kind:     strings.TrimSpace(c.Query("kind")),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil && userID > 0 {
		filter.UserID = uint(userID)
	}
	if orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 64); err == nil && orderID > 0 {
		filter.OrderID = uint(orderID)
	}

	transactions, total, err := h.LoyaltyService.ListTransactions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.loyalty_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, transactions, pagination)
}
