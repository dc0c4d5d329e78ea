package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/orbit-shop/internal/cache"
	"github.com/orbit-shop/internal/http/response"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"
	"github.com/orbit-shop/internal/service"

	"github.com/gin-gonic/gin"
)

const productDetailCacheTTL = 60 * time.Second

func productDetailCacheKey(slug string) string {
	return "public:product:" + slug
}

// GetProducts 获取上架商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	search := strings.TrimSpace(c.Query("search"))
	tag := strings.TrimSpace(c.Query("tag"))

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		Tag:        tag,
		OnlyActive: true,
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

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var cached models.Product
	if hit, err := cache.GetJSON(c.Request.Context(), productDetailCacheKey(slug), &cached); err == nil && hit {
		response.Success(c, &cached)
		return
	}

	product, err := h.ProductService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	_ = cache.SetJSON(c.Request.Context(), productDetailCacheKey(slug), product, productDetailCacheTTL)
	response.Success(c, product)
}
