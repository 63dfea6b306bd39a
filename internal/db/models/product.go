package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the product category tree.
type Category struct {
	// ID is the unique identifier for the category.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Name is the display name of the category.
	Name string `gorm:"size:200;not null"`
	// ParentID points at the parent category, nil for root nodes.
	ParentID *uuid.UUID `gorm:"type:char(36);index"`
	// Active indicates whether the category is visible.
	Active bool `gorm:"default:true"`
	// CreatedAt is the timestamp when the category was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the category was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Color is a selectable product color.
type Color struct {
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the color.
	Name string `gorm:"size:50;not null"`
	// HexValue is the CSS hex representation, e.g. "#ff0000".
	HexValue string `gorm:"size:7"`
}

// TableName specifies the database table name for the Color model.
func (Color) TableName() string {
	return "colors"
}

// Size is a selectable product size.
type Size struct {
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the size.
	Name string `gorm:"size:50;not null"`
	// Description explains the sizing, free text.
	Description string
}

// TableName specifies the database table name for the Size model.
func (Size) TableName() string {
	return "sizes"
}

// Product is a sellable catalog item owned by a seller user.
// Prices are stored in minor currency units (cents) to avoid float drift.
type Product struct {
	// ID is the unique identifier for the product.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// SellerID is the owning seller.
	SellerID uuid.UUID `gorm:"type:char(36);not null;index"`
	// Seller is the owning user (loaded via foreign key).
	Seller User `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	// CategoryID is the category this product is listed under.
	CategoryID uuid.UUID `gorm:"type:char(36);not null;index"`
	// Category is the associated category (loaded via foreign key).
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	// Title is the product headline.
	Title string `gorm:"size:250;not null"`
	// Description is the long-form product text.
	Description string
	// PriceCents is the unit price in minor currency units.
	PriceCents int64 `gorm:"not null;default:0"`
	// Quantity is the stock on hand.
	Quantity int `gorm:"not null;default:1"`
	// Views counts detail-page hits.
	Views int `gorm:"not null;default:0"`
	// Active indicates whether the product is listed.
	Active bool `gorm:"default:true"`
	// Colors are the available color variants.
	Colors []Color `gorm:"many2many:product_colors"`
	// Sizes are the available size variants.
	Sizes []Size `gorm:"many2many:product_sizes"`
	// CreatedAt is the timestamp when the product was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the product was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}
