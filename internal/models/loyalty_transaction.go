package models

import (
	"time"

	"gorm.io/gorm"
)

// LoyaltyTransaction 积分流水表（只追加，不修改不删除）
// Points 带符号：入账为正、扣减为负。Reference 全局唯一，承担业务幂等。
type LoyaltyTransaction struct {
	ID            uint           `gorm:"primarykey" json:"id"`                 // 主键
	UserID        uint           `gorm:"index;not null" json:"user_id"`        // 用户ID
	OrderID       *uint          `gorm:"index" json:"order_id,omitempty"`      // 关联订单ID
	Kind          string         `gorm:"index;not null" json:"kind"`           // 流水类型（earned/bonus/redeemed/adjusted）
	Points        int64          `gorm:"not null" json:"points"`               // 积分变动（带符号）
	BalanceBefore int64          `gorm:"not null" json:"balance_before"`       // 变动前可用积分
	BalanceAfter  int64          `gorm:"not null" json:"balance_after"`        // 变动后可用积分
	Reference     string         `gorm:"uniqueIndex;not null" json:"reference"` // 业务参考号（幂等键）
	Description   string         `gorm:"type:varchar(255)" json:"description"` // 流水说明
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
