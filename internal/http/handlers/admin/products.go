package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/orbit-shop/internal/cache"
	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"
	"github.com/orbit-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Slug           string             `json:"slug" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	Description    string             `json:"description"`
	PriceAmount    models.Money       `json:"price_amount"`
	Images         models.StringArray `json:"images"`
	Tags           models.StringArray `json:"tags"`
	Stock          int                `json:"stock"`
	TrackInventory bool               `json:"track_inventory"`
	IsActive       bool               `json:"is_active"`
	SortOrder      int                `json:"sort_order"`
}

func (r ProductRequest) toServiceInput() service.ProductInput {
	return service.ProductInput{
		Slug:           strings.TrimSpace(r.Slug),
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Price:          r.PriceAmount,
		Images:         r.Images,
		Tags:           r.Tags,
		Stock:          r.Stock,
		TrackInventory: r.TrackInventory,
		IsActive:       r.IsActive,
		SortOrder:      r.SortOrder,
	}
}

// GetAdminProducts 获取商品列表 (Admin)
// 含未上架商品。
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Tag:      strings.TrimSpace(c.Query("tag")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.Success(c, product)
}

// CreateAdminProduct 创建商品 (Admin)
func (h *Handler) CreateAdminProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Create(req.toServiceInput())
	if err != nil {
		respondProductMutationError(c, err)
		return
	}
	_ = cache.Del(c.Request.Context(), "public:product:"+product.Slug)
	response.Success(c, product)
}

// UpdateAdminProduct 更新商品 (Admin)
func (h *Handler) UpdateAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	previousSlug := ""
	if existing, getErr := h.ProductService.GetByID(id); getErr == nil {
		previousSlug = existing.Slug
	}

	product, err := h.ProductService.Update(id, req.toServiceInput())
	if err != nil {
		respondProductMutationError(c, err)
		return
	}
	// slug 变更时旧键一并失效
	if previousSlug != "" && previousSlug != product.Slug {
		_ = cache.Del(c.Request.Context(), "public:product:"+previousSlug)
	}
	_ = cache.Del(c.Request.Context(), "public:product:"+product.Slug)
	response.Success(c, product)
}

func respondProductMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrProductSlugExists):
		respondError(c, response.CodeConflict, "error.product_slug_exists", nil)
	case errors.Is(err, service.ErrProductInvalid):
		respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
	case errors.Is(err, service.ErrInvalidPrice):
		respondError(c, response.CodeBadRequest, "error.invalid_price", nil)
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, response.CodeBadRequest, "error.invalid_quantity", nil)
	default:
		respondError(c, response.CodeInternal, "error.save_failed", err)
	}
}
