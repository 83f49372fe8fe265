package promo

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

func TestDiscountPercent(t *testing.T) {
	promo := &models.PromoCode{
		DiscountType: enums.DiscountPercent,
		Value:        decimal.NewFromInt(10),
	}
	subtotal := decimal.RequireFromString("2500.00")

	got := Discount(promo, subtotal)
	if !got.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("expected 250, got %s", got)
	}
}

func TestDiscountFixedClampedToSubtotal(t *testing.T) {
	promo := &models.PromoCode{
		DiscountType: enums.DiscountFixed,
		Value:        decimal.NewFromInt(500),
	}

	got := Discount(promo, decimal.NewFromInt(300))
	if !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("fixed discount must clamp to subtotal, got %s", got)
	}

	got = Discount(promo, decimal.NewFromInt(1000))
	if !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500, got %s", got)
	}
}

func TestDiscountNilPromo(t *testing.T) {
	if got := Discount(nil, decimal.NewFromInt(100)); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestDiscountPercentRounding(t *testing.T) {
	promo := &models.PromoCode{
		DiscountType: enums.DiscountPercent,
		Value:        decimal.NewFromInt(15),
	}
	// 15% of 333.33 is 49.9995, rounded to cents
	got := Discount(promo, decimal.RequireFromString("333.33"))
	if !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("expected 50.00, got %s", got)
	}
}
