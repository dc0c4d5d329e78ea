package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 金额字段为下单时的定价快照，创建后不再重算。
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                                 // 用户ID
	Status          string         `gorm:"index;not null" json:"status"`                                  // 订单状态
	Currency        string         `gorm:"not null" json:"currency"`                                      // 币种
	SubtotalAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"`  // 商品小计
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 会员折扣金额
	TaxAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`       // 税额
	ShippingAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"`  // 运费
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 实付金额
	PointsEarned    int64          `gorm:"not null;default:0" json:"points_earned"`                       // 完成后计入的积分
	PointsRedeemed  int64          `gorm:"not null;default:0" json:"points_redeemed"`                     // 下单时抵扣使用的积分
	ShippingAddress JSON           `gorm:"type:json" json:"shipping_address"`                             // 收货地址快照
	BillingAddress  JSON           `gorm:"type:json" json:"billing_address"`                              // 账单地址快照
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                   // 下单客户端IP
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                          // 支付时间
	CompletedAt     *time.Time     `gorm:"index" json:"completed_at"`                                     // 完成时间
	CancelledAt     *time.Time     `gorm:"index" json:"cancelled_at"`                                     // 取消时间
	RefundedAt      *time.Time     `gorm:"index" json:"refunded_at"`                                      // 退款时间
	StockRestoredAt *time.Time     `json:"-"`                                                             // 库存回补时间（幂等标记）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
