package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	// OrderStatusPending is the initial state after checkout.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid is set once the payment gateway confirms the intent.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped is set when the order leaves the warehouse.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered is the terminal success state.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled is the terminal failure state; only reachable
	// before payment.
	OrderStatusCanceled OrderStatus = "canceled"
)

// PaymentProvider enumerates the supported payment methods.
type PaymentProvider string

const (
	// PaymentProviderClick is the Click mobile payment provider.
	PaymentProviderClick PaymentProvider = "click"
	// PaymentProviderPayme is the Payme mobile payment provider.
	PaymentProviderPayme PaymentProvider = "payme"
	// PaymentProviderCard is a card payment through the gateway.
	PaymentProviderCard PaymentProvider = "card"
	// PaymentProviderPaypal is a PayPal payment.
	PaymentProviderPaypal PaymentProvider = "paypal"
)

// Order is a checkout snapshot: items with frozen prices plus a shipping
// address and a payment state.
type Order struct {
	// ID is the unique identifier for the order.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// UserID is the ordering user.
	UserID uuid.UUID `gorm:"type:char(36);not null;index"`
	// User is the ordering user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Status is the current lifecycle state.
	Status OrderStatus `gorm:"type:varchar(10);not null;default:'pending'"`
	// PaymentMethod is the provider chosen at checkout.
	PaymentMethod PaymentProvider `gorm:"type:varchar(25);not null;default:'card'"`
	// AddressLine1 is the first shipping address line.
	AddressLine1 string `gorm:"size:255;not null"`
	// AddressLine2 is the optional second address line.
	AddressLine2 string `gorm:"size:255"`
	// City is the shipping city.
	City string `gorm:"size:255;not null"`
	// StateProvinceRegion is the shipping region.
	StateProvinceRegion string `gorm:"size:255"`
	// PostalCode is the shipping postal code.
	PostalCode string `gorm:"size:20"`
	// CountryRegion is the shipping country.
	CountryRegion string `gorm:"size:255"`
	// TelephoneNumber is the contact number for delivery.
	TelephoneNumber string `gorm:"size:255"`
	// ShippingPriceCents is the shipping fee in minor currency units.
	ShippingPriceCents int64 `gorm:"not null;default:0"`
	// AmountCents is the order total in minor currency units, after discounts.
	AmountCents int64 `gorm:"not null;default:0"`
	// CouponID references an applied coupon, if any.
	CouponID *uuid.UUID `gorm:"type:char(36)"`
	// TransactionID is the gateway payment intent id.
	TransactionID string `gorm:"size:200"`
	// Paid mirrors the paid status for cheap filtering.
	Paid bool `gorm:"default:false"`
	// CreatedAt is the timestamp when the order was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the order was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Order model.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen line of an order: the product, the quantity, and the
// unit price at checkout time.
type OrderItem struct {
	// ID is the unique identifier for the order item.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// OrderID is the order this line belongs to.
	OrderID uuid.UUID `gorm:"type:char(36);not null;index"`
	// Order is the associated order (loaded via foreign key).
	Order Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	// ProductID is the ordered product.
	ProductID uuid.UUID `gorm:"type:char(36);not null"`
	// Product is the associated product (loaded via foreign key).
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	// Quantity is the ordered unit count.
	Quantity int `gorm:"not null"`
	// PriceCents is the unit price at checkout, in minor currency units.
	PriceCents int64 `gorm:"not null"`
	// CreatedAt is the timestamp when the line was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the OrderItem model.
func (OrderItem) TableName() string {
	return "order_items"
}
