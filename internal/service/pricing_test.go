package service

import (
	"errors"
	"testing"

	"github.com/orbit-shop/internal/models"

	"github.com/shopspring/decimal"
)

func moneyFromFloat(v float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
}

func assertAmount(t *testing.T, label string, got models.Money, want string) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected amount %q: %v", want, err)
	}
	if !got.Decimal.Equal(expected) {
		t.Fatalf("%s: expected %s, got %s", label, want, got.Decimal.StringFixed(2))
	}
}

func TestQuoteMemberDiscountAndFreeShipping(t *testing.T) {
	quote, err := Quote([]PriceLine{
		{UnitPrice: moneyFromFloat(30), Quantity: 2},
	}, true)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	assertAmount(t, "subtotal", quote.Subtotal, "60")
	assertAmount(t, "discount", quote.Discount, "12")
	assertAmount(t, "tax", quote.Tax, "9.60")
	assertAmount(t, "shipping", quote.Shipping, "0")
	assertAmount(t, "total", quote.Total, "57.60")
}

func TestQuoteWithoutDiscountChargesShipping(t *testing.T) {
	quote, err := Quote([]PriceLine{
		{UnitPrice: moneyFromFloat(10), Quantity: 3},
	}, false)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	assertAmount(t, "subtotal", quote.Subtotal, "30")
	assertAmount(t, "discount", quote.Discount, "0")
	assertAmount(t, "tax", quote.Tax, "6")
	assertAmount(t, "shipping", quote.Shipping, "5.99")
	assertAmount(t, "total", quote.Total, "41.99")
}

func TestQuoteDiscountRequiresMinSubtotal(t *testing.T) {
	// 小计恰好等于门槛时不打折
	quote, err := Quote([]PriceLine{
		{UnitPrice: moneyFromFloat(20), Quantity: 1},
	}, true)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	assertAmount(t, "discount", quote.Discount, "0")
	assertAmount(t, "tax", quote.Tax, "4")
	assertAmount(t, "shipping", quote.Shipping, "5.99")
	assertAmount(t, "total", quote.Total, "29.99")
}

func TestQuoteRoundsPerLine(t *testing.T) {
	quote, err := Quote([]PriceLine{
		{UnitPrice: moneyFromFloat(19.99), Quantity: 2},
	}, false)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	assertAmount(t, "subtotal", quote.Subtotal, "39.98")
	assertAmount(t, "tax", quote.Tax, "8.00")
	assertAmount(t, "total", quote.Total, "53.97")
}

func TestQuoteRejectsInvalidLines(t *testing.T) {
	if _, err := Quote([]PriceLine{{UnitPrice: moneyFromFloat(10), Quantity: 0}}, false); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := Quote([]PriceLine{{UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(-1)), Quantity: 1}}, false); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}
