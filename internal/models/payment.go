package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录
// 同一订单可存在多条记录（支付与退款分别落单独记录）。
type Payment struct {
	ID               uint           `gorm:"primarykey" json:"id"`                      // 主键
	PaymentNo        string         `gorm:"uniqueIndex;not null" json:"payment_no"`    // 支付单号
	OrderID          uint           `gorm:"index;not null" json:"order_id"`            // 订单ID
	Kind             string         `gorm:"not null" json:"kind"`                      // 类型（charge/refund）
	Amount           Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 金额
	Currency         string         `gorm:"not null" json:"currency"`                  // 币种
	Status           string         `gorm:"index;not null" json:"status"`              // 支付状态
	GatewayPaymentID string         `gorm:"uniqueIndex" json:"gateway_payment_id"`     // 网关支付流水号
	GatewayPayload   JSON           `gorm:"type:json" json:"gateway_payload"`          // 网关回调数据
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	ConfirmedAt      *time.Time     `gorm:"index" json:"confirmed_at"`                 // 网关确认时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
