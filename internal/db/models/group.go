package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a named collection of users.
// Groups carry direct permission grants and policy attachments; a user
// inherits both from every active group they belong to. Groups are
// soft-disabled through the Active flag and never hard-deleted while
// referenced.
type Group struct {
	// ID is the unique identifier for the group.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Name is the unique display name of the group (e.g. "buyer", "seller").
	Name string `gorm:"unique;size:150;not null"`
	// Active indicates whether the group contributes permissions.
	// An inactive group is excluded from authorization at read time.
	Active bool `gorm:"default:true"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}
