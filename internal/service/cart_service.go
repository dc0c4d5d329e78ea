package service

import (
	"time"

	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"
)

const cartMaxQuantityPerItem = 999

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// List 获取用户购物车
func (s *CartService) List(userID uint) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}

// AddItem 添加商品到购物车（已存在时累加数量）
func (s *CartService) AddItem(userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 || quantity > cartMaxQuantityPerItem {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	total := quantity
	if existing != nil {
		total += existing.Quantity
	}
	if total > cartMaxQuantityPerItem {
		total = cartMaxQuantityPerItem
	}
	if product.TrackInventory && total > product.Stock {
		return nil, ErrStockUnavailable
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  total,
		UpdatedAt: time.Now(),
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// UpdateItem 修改购物车商品数量
func (s *CartService) UpdateItem(userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 || quantity > cartMaxQuantityPerItem {
		return nil, ErrInvalidQuantity
	}
	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.TrackInventory && quantity > product.Stock {
		return nil, ErrStockUnavailable
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// RemoveItem 移除购物车商品
func (s *CartService) RemoveItem(userID, productID uint) error {
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
