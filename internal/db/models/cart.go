package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds the items a user intends to order. One cart per user, created
// on demand.
type Cart struct {
	// ID is the unique identifier for the cart.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// UserID is the owning user, one cart each.
	UserID uuid.UUID `gorm:"type:char(36);uniqueIndex;not null"`
	// User is the owning user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the cart was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the cart was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Cart model.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a product and quantity inside a cart.
type CartItem struct {
	// ID is the unique identifier for the cart item.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// CartID is the cart this item belongs to.
	CartID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_cart_product"`
	// Cart is the associated cart (loaded via foreign key).
	Cart Cart `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	// ProductID is the product added to the cart.
	ProductID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_cart_product"`
	// Product is the associated product (loaded via foreign key).
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	// Quantity is the number of units, at least 1.
	Quantity int `gorm:"not null;default:1"`
	// CreatedAt is the timestamp when the item was added (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the item was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the CartItem model.
func (CartItem) TableName() string {
	return "cart_items"
}

// TotalCents returns the line total in minor currency units.
// The Product association must be loaded.
func (i *CartItem) TotalCents() int64 {
	return i.Product.PriceCents * int64(i.Quantity)
}
