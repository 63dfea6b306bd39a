package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
)

func TestCouponIsValid(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	base := models.Coupon{
		DiscountType:  models.DiscountFixed,
		DiscountValue: 100,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(time.Hour),
		Active:        true,
		MaxUses:       3,
	}

	cases := []struct {
		name   string
		mutate func(c *models.Coupon)
		at     time.Time
		want   bool
	}{
		{name: "inside window", mutate: func(*models.Coupon) {}, at: now, want: true},
		{name: "at window start", mutate: func(*models.Coupon) {}, at: base.ValidFrom, want: true},
		{name: "at window end", mutate: func(*models.Coupon) {}, at: base.ValidUntil, want: true},
		{name: "before window", mutate: func(*models.Coupon) {}, at: now.Add(-2 * time.Hour), want: false},
		{name: "after window", mutate: func(*models.Coupon) {}, at: now.Add(2 * time.Hour), want: false},
		{name: "inactive", mutate: func(c *models.Coupon) { c.Active = false }, at: now, want: false},
		{name: "budget exhausted", mutate: func(c *models.Coupon) { c.UsedCount = 3 }, at: now, want: false},
		{name: "budget remaining", mutate: func(c *models.Coupon) { c.UsedCount = 2 }, at: now, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coupon := base
			tc.mutate(&coupon)

			assert.Equal(t, tc.want, coupon.IsValid(tc.at))
		})
	}
}

func TestCouponApply(t *testing.T) {
	cases := []struct {
		name          string
		discountType  models.DiscountType
		discountValue int64
		amount        int64
		want          int64
	}{
		{name: "percentage", discountType: models.DiscountPercentage, discountValue: 10, amount: 10000, want: 9000},
		{name: "percentage rounds down", discountType: models.DiscountPercentage, discountValue: 33, amount: 100, want: 67},
		{name: "hundred percent", discountType: models.DiscountPercentage, discountValue: 100, amount: 5000, want: 0},
		{name: "fixed", discountType: models.DiscountFixed, discountValue: 500, amount: 2000, want: 1500},
		{name: "fixed floors at zero", discountType: models.DiscountFixed, discountValue: 5000, amount: 2000, want: 0},
		{name: "unknown type keeps amount", discountType: "weird", discountValue: 500, amount: 2000, want: 2000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coupon := models.Coupon{DiscountType: tc.discountType, DiscountValue: tc.discountValue}

			assert.Equal(t, tc.want, coupon.Apply(tc.amount))
		})
	}
}
