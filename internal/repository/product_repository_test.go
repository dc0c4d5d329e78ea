package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/orbit-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createRepoTestProduct(t *testing.T, db *gorm.DB, slug string, stock int, tracked bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:           slug,
		Name:           slug,
		PriceAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Stock:          stock,
		TrackInventory: tracked,
		IsActive:       true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestReserveStockConditionalDecrement(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createRepoTestProduct(t, db, "tracked", 5, true)

	ok, err := repo.ReserveStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected reservation to succeed")
	}

	ok, err = repo.ReserveStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if ok {
		t.Fatalf("expected reservation to fail with stock 2")
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", reloaded.Stock)
	}
}

func TestReserveStockUntrackedAlwaysSucceeds(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createRepoTestProduct(t, db, "untracked", 0, false)

	ok, err := repo.ReserveStock(product.ID, 100)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected untracked product to always reserve")
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("expected untracked stock untouched, got %d", reloaded.Stock)
	}
}

func TestReserveStockMissingProduct(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	ok, err := repo.ReserveStock(9999, 1)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if ok {
		t.Fatalf("expected reservation of missing product to fail")
	}
}

func TestRestoreStockOnlyTracked(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	tracked := createRepoTestProduct(t, db, "tracked", 2, true)
	untracked := createRepoTestProduct(t, db, "untracked", 0, false)

	if err := repo.RestoreStock(tracked.ID, 3); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := repo.RestoreStock(untracked.ID, 3); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, tracked.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 5 {
		t.Fatalf("expected stock 5 after restore, got %d", reloaded.Stock)
	}
	if err := db.First(&reloaded, untracked.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("expected untracked stock untouched, got %d", reloaded.Stock)
	}
}
