package models

import "time"

// Permission represents a granular access right of the shape
// "<app>.<action>_<resource>", e.g. "product.add_product". Permissions are
// opaque identifiers: they are not owned by any one entity and may be
// referenced by policies, groups, and users alike.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Name is the unique permission string in app.action_resource format.
	Name string `gorm:"unique;size:100;not null"`
	// AppLabel is the owning application label (e.g. "product", "cart").
	AppLabel string `gorm:"size:100;not null"`
	// Codename is the action_resource part (e.g. "add_product").
	Codename string `gorm:"size:100;not null"`
	// Description provides a human-readable explanation of the grant.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
