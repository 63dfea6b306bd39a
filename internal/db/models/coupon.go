package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType selects how a coupon discount is computed.
type DiscountType string

const (
	// DiscountPercentage reduces the order total by a percentage.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed reduces the order total by a fixed amount of cents.
	DiscountFixed DiscountType = "fixed"
)

// Coupon is a discount code with a validity window and a usage budget.
type Coupon struct {
	// ID is the unique identifier for the coupon.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Code is the unique coupon code users enter.
	Code string `gorm:"unique;size:50;not null"`
	// DiscountType is percentage or fixed.
	DiscountType DiscountType `gorm:"type:varchar(10);not null"`
	// DiscountValue is a percentage (0-100) or an amount in cents,
	// depending on DiscountType.
	DiscountValue int64 `gorm:"not null"`
	// ValidFrom is the start of the validity window.
	ValidFrom time.Time `gorm:"not null"`
	// ValidUntil is the end of the validity window.
	ValidUntil time.Time `gorm:"not null"`
	// Active indicates whether the coupon may be applied.
	Active bool `gorm:"default:true"`
	// MaxUses caps the total number of redemptions.
	MaxUses int `gorm:"not null;default:1"`
	// UsedCount counts redemptions so far.
	UsedCount int `gorm:"not null;default:0"`
	// CreatedAt is the timestamp when the coupon was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the coupon was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Coupon model.
func (Coupon) TableName() string {
	return "coupons"
}

// IsValid reports whether the coupon can be redeemed at the given time.
func (c *Coupon) IsValid(now time.Time) bool {
	return c.Active &&
		!now.Before(c.ValidFrom) &&
		!now.After(c.ValidUntil) &&
		c.UsedCount < c.MaxUses
}

// Apply returns the discounted total for an order amount in cents.
// The result never goes below zero.
func (c *Coupon) Apply(amountCents int64) int64 {
	switch c.DiscountType {
	case DiscountPercentage:
		discounted := amountCents - amountCents*c.DiscountValue/100
		if discounted < 0 {
			return 0
		}

		return discounted
	case DiscountFixed:
		discounted := amountCents - c.DiscountValue
		if discounted < 0 {
			return 0
		}

		return discounted
	}

	return amountCents
}

// CouponRedemption records which user redeemed which coupon.
type CouponRedemption struct {
	// CouponID is the redeemed coupon.
	CouponID uuid.UUID `gorm:"type:char(36);primaryKey;column:coupon_id"`
	// UserID is the redeeming user.
	UserID uuid.UUID `gorm:"type:char(36);primaryKey;column:user_id"`
	// Coupon is the associated coupon (loaded via foreign key).
	Coupon Coupon `gorm:"foreignKey:CouponID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp of the redemption (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the CouponRedemption model.
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
