package models

import (
	"time"

	"gorm.io/gorm"
)

// LoyaltyAccount 积分账户表
// Points 与 LifetimePoints 为派生余额，仅允许与流水插入在同一事务内更新。
// Tier 是 LifetimePoints 的纯函数，仅作为反范式缓存落库。
type LoyaltyAccount struct {
	ID              uint           `gorm:"primarykey" json:"id"`                          // 主键
	UserID          uint           `gorm:"uniqueIndex;not null" json:"user_id"`           // 用户ID
	Points          int64          `gorm:"not null;default:0" json:"points"`              // 可用积分
	LifetimePoints  int64          `gorm:"not null;default:0" json:"lifetime_points"`     // 累计获得积分
	Tier            string         `gorm:"not null;default:'bronze'" json:"tier"`         // 会员等级
	CompletedOrders int            `gorm:"not null;default:0" json:"completed_orders"`    // 已完成订单数
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (LoyaltyAccount) TableName() string {
	return "loyalty_accounts"
}
