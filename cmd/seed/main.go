package main

import (
	"fmt"

	"github.com/orbit-shop/internal/config"
	"github.com/orbit-shop/internal/logger"
	"github.com/orbit-shop/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加演示商品
	products := []models.Product{
		{
			Slug:        "wireless-earphones",
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality sound, long battery life, comfortable to wear.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			Tags:           models.StringArray([]string{"Audio", "Wireless", "Headphones"}),
			Stock:          50,
			TrackInventory: true,
			IsActive:       true,
			SortOrder:      400,
		},
		{
			Slug:        "smart-watch",
			Name:        "Smart Watch",
			Description: "Health monitoring, fitness tracking, message notifications.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
			}),
			Tags:           models.StringArray([]string{"Wearable", "Health", "Smart"}),
			Stock:          30,
			TrackInventory: true,
			IsActive:       true,
			SortOrder:      390,
		},
		{
			Slug:        "power-bank",
			Name:        "Portable Power Bank",
			Description: "High capacity, fast charging, multi-device compatible.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800",
			}),
			Tags:           models.StringArray([]string{"Charger", "Portable", "Accessory"}),
			Stock:          120,
			TrackInventory: true,
			IsActive:       true,
			SortOrder:      380,
		},
		{
			Slug:        "travel-backpack",
			Name:        "Multi-function Backpack",
			Description: "Large capacity, waterproof and anti-theft, USB charging port.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
			}),
			Tags:           models.StringArray([]string{"Bag", "Travel", "Lifestyle"}),
			Stock:          45,
			TrackInventory: true,
			IsActive:       true,
			SortOrder:      370,
		},
		{
			Slug:        "demo-untracked",
			Name:        "Demo Product - Untracked Stock",
			Description: "Inventory badge demo: stock is not tracked, always purchasable.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(29.90)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1512499617640-c74ae3a79d37?w=800",
			}),
			Tags:           models.StringArray([]string{"Demo", "Untracked"}),
			Stock:          0,
			TrackInventory: false,
			IsActive:       true,
			SortOrder:      300,
		},
		{
			Slug:        "demo-low-stock",
			Name:        "Demo Product - Low Stock",
			Description: "Inventory badge demo: only a few units left.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1499951360447-b19be8fe80f5?w=800",
			}),
			Tags:           models.StringArray([]string{"Demo", "Low"}),
			Stock:          3,
			TrackInventory: true,
			IsActive:       true,
			SortOrder:      290,
		},
		{
			Slug:        "demo-sold-out",
			Name:        "Demo Product - Sold Out",
			Description: "Inventory badge and disabled purchase demo: zero stock.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(49.90)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1516321165247-4aa89a48be28?w=800",
			}),
			Tags:           models.StringArray([]string{"Demo", "SoldOut"}),
			Stock:          0,
			TrackInventory: true,
			IsActive:       true,
			SortOrder:      280,
		},
		{
			Slug:        "demo-inactive",
			Name:        "Demo Product - Inactive",
			Description: "Hidden from the public catalog until activated.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800",
			}),
			Tags:           models.StringArray([]string{"Demo", "Inactive"}),
			Stock:          10,
			TrackInventory: true,
			IsActive:       false,
			SortOrder:      270,
		},
	}

	created, updated := 0, 0
	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
				created++
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.PriceAmount = prod.PriceAmount
			existing.Images = prod.Images
			existing.Tags = prod.Tags
			existing.Stock = prod.Stock
			existing.TrackInventory = prod.TrackInventory
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
				updated++
			}
		}
	}

	fmt.Println("\n✅ Demo data seeded successfully!")
	fmt.Printf("- Products created: %d\n", created)
	fmt.Printf("- Products updated: %d\n", updated)
}
