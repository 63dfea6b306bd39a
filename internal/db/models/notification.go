package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	// NotificationOrderCreated is sent when a checkout creates an order.
	NotificationOrderCreated NotificationType = "order_created"
	// NotificationPaymentCompleted is sent when payment is confirmed.
	NotificationPaymentCompleted NotificationType = "payment_completed"
	// NotificationOtp mirrors an OTP email so the user has an in-app copy.
	NotificationOtp NotificationType = "otp"
)

// Notification is a per-user message shown in the notification feed.
type Notification struct {
	// ID is the unique identifier for the notification.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// UserID is the recipient user.
	UserID uuid.UUID `gorm:"type:char(36);not null;index"`
	// User is the recipient (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Type categorizes the notification.
	Type NotificationType `gorm:"type:varchar(50);not null"`
	// Message is the display text.
	Message string `gorm:"not null"`
	// Read indicates whether the user has seen the notification.
	Read bool `gorm:"column:is_read;default:false"`
	// CreatedAt is the timestamp when the notification was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}
