package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem marks a product a user wants to keep an eye on.
// A user can wishlist a product at most once.
type WishlistItem struct {
	// ID is the unique identifier for the wishlist entry.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// UserID is the owning user.
	UserID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_wishlist_user_product"`
	// User is the owning user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// ProductID is the wished-for product.
	ProductID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_wishlist_user_product"`
	// Product is the associated product (loaded via foreign key).
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the entry was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the WishlistItem model.
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
