package service

import (
	"strings"
	"time"

	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Slug           string
	Name           string
	Description    string
	Price          models.Money
	Images         models.StringArray
	Tags           models.StringArray
	Stock          int
	TrackInventory bool
	IsActive       bool
	SortOrder      int
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetBySlug 按 Slug 获取上架商品
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 按 ID 获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	slug := strings.TrimSpace(input.Slug)
	exist, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrProductSlugExists
	}

	now := time.Now()
	product := &models.Product{
		Slug:           slug,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		PriceAmount:    input.Price,
		Images:         input.Images,
		Tags:           input.Tags,
		Stock:          input.Stock,
		TrackInventory: input.TrackInventory,
		IsActive:       input.IsActive,
		SortOrder:      input.SortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != product.Slug {
		exist, err := s.productRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if exist != nil && exist.ID != product.ID {
			return nil, ErrProductSlugExists
		}
		product.Slug = slug
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.PriceAmount = input.Price
	product.Images = input.Images
	product.Tags = input.Tags
	product.Stock = input.Stock
	product.TrackInventory = input.TrackInventory
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Slug) == "" || strings.TrimSpace(input.Name) == "" {
		return ErrProductInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) {
		return ErrInvalidPrice
	}
	if input.Stock < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
