package service

import (
	"github.com/orbit-shop/internal/models"

	"github.com/shopspring/decimal"
)

var (
	discountRate          = decimal.NewFromFloat(0.20) // 会员折扣率
	taxRate               = decimal.NewFromFloat(0.20) // 税率
	discountMinSubtotal   = decimal.NewFromInt(20)     // 小计超过该值才参与折扣
	freeShippingThreshold = decimal.NewFromInt(50)     // 免运费门槛
	flatShippingFee       = decimal.NewFromFloat(5.99) // 固定运费
)

// PriceLine 计价输入行
type PriceLine struct {
	UnitPrice models.Money
	Quantity  int
}

// QuoteResult 计价结果，各金额均已保留两位小数
type QuoteResult struct {
	Subtotal models.Money `json:"subtotal"`
	Discount models.Money `json:"discount"`
	Tax      models.Money `json:"tax"`
	Shipping models.Money `json:"shipping"`
	Total    models.Money `json:"total"`
}

// Quote 计算订单金额
// 规则依次为：行金额相加得小计；满足资格且小计超过门槛时按比例打折；
// 折后金额计税；小计未达免邮门槛时收固定运费。每一步单独舍入。
func Quote(lines []PriceLine, discountEligible bool) (QuoteResult, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return QuoteResult{}, ErrInvalidQuantity
		}
		if line.UnitPrice.Decimal.IsNegative() {
			return QuoteResult{}, ErrInvalidPrice
		}
		lineTotal := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	if discountEligible && subtotal.GreaterThan(discountMinSubtotal) {
		discount = subtotal.Mul(discountRate).Round(2)
	}

	taxable := subtotal.Sub(discount).Round(2)
	tax := taxable.Mul(taxRate).Round(2)

	shipping := flatShippingFee
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	total := taxable.Add(tax).Add(shipping).Round(2)

	return QuoteResult{
		Subtotal: models.NewMoneyFromDecimal(subtotal),
		Discount: models.NewMoneyFromDecimal(discount),
		Tax:      models.NewMoneyFromDecimal(tax),
		Shipping: models.NewMoneyFromDecimal(shipping),
		Total:    models.NewMoneyFromDecimal(total),
	}, nil
}
