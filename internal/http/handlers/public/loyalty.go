package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/repository"
	"github.com/orbit-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// LoyaltyRedeemRequest 积分抵扣请求
type LoyaltyRedeemRequest struct {
	Points      int64  `json:"points" binding:"required"`
	Description string `json:"description"`
}

// GetLoyaltyAccount 获取当前用户积分账户
// 账户不存在时惰性创建零余额账户。
func (h *Handler) GetLoyaltyAccount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	account, err := h.LoyaltyService.GetAccount(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.loyalty_fetch_failed", err)
		return
	}

	eligible, err := h.LoyaltyService.DiscountEligible(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.loyalty_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{
		"account":           account,
		"discount_eligible": eligible,
	})
}

// RedeemLoyaltyPoints 抵扣当前用户积分
// 抵扣同样走流水账本，余额不足不落账。
func (h *Handler) RedeemLoyaltyPoints(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req LoyaltyRedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	account, txn, err := h.LoyaltyService.Redeem(uid, req.Points, req.Description)
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

// ListLoyaltyTransactions 获取当前用户积分流水
func (h *Handler) ListLoyaltyTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	transactions, total, err := h.LoyaltyService.ListTransactions(repository.LoyaltyTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Kind:     strings.TrimSpace(c.Query("kind")),
	})
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
