package models

import (
	"time"

	"github.com/google/uuid"
)

// UserGroup represents the many-to-many relationship between users and groups.
// Memberships survive group deactivation; the inactive group is simply
// skipped when the effective permission set is computed.
type UserGroup struct {
	// UserID is the ID of the user in this membership.
	UserID uuid.UUID `gorm:"type:char(36);primaryKey;column:user_id"`
	// GroupID is the ID of the group in this membership.
	GroupID uuid.UUID `gorm:"type:char(36);primaryKey;column:group_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the membership was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserGroup model.
func (UserGroup) TableName() string {
	return "user_groups"
}

// UserPolicy attaches a policy directly to a user.
type UserPolicy struct {
	// UserID is the ID of the user in this attachment.
	UserID uuid.UUID `gorm:"type:char(36);primaryKey;column:user_id"`
	// PolicyID is the ID of the attached policy.
	PolicyID uuid.UUID `gorm:"type:char(36);primaryKey;column:policy_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Policy is the associated policy (loaded via foreign key).
	Policy Policy `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the attachment was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserPolicy model.
func (UserPolicy) TableName() string {
	return "user_policies"
}

// GroupPolicy attaches a policy to a group.
type GroupPolicy struct {
	// GroupID is the ID of the group in this attachment.
	GroupID uuid.UUID `gorm:"type:char(36);primaryKey;column:group_id"`
	// PolicyID is the ID of the attached policy.
	PolicyID uuid.UUID `gorm:"type:char(36);primaryKey;column:policy_id"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Policy is the associated policy (loaded via foreign key).
	Policy Policy `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the attachment was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupPolicy model.
func (GroupPolicy) TableName() string {
	return "group_policies"
}

// UserPermission is a direct permission grant on a user.
type UserPermission struct {
	// UserID is the ID of the user holding the grant.
	UserID uuid.UUID `gorm:"type:char(36);primaryKey;column:user_id"`
	// PermissionID is the ID of the granted permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the UserPermission model.
func (UserPermission) TableName() string {
	return "user_permissions"
}

// GroupPermission is a direct permission grant on a group.
type GroupPermission struct {
	// GroupID is the ID of the group holding the grant.
	GroupID uuid.UUID `gorm:"type:char(36);primaryKey;column:group_id"`
	// PermissionID is the ID of the granted permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the GroupPermission model.
func (GroupPermission) TableName() string {
	return "group_permissions"
}

// PolicyPermission maps which permissions belong to which policy bundle.
type PolicyPermission struct {
	// PolicyID is the ID of the policy in this mapping.
	PolicyID uuid.UUID `gorm:"type:char(36);primaryKey;column:policy_id"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// Policy is the associated policy (loaded via foreign key).
	Policy Policy `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the PolicyPermission model.
func (PolicyPermission) TableName() string {
	return "policy_permissions"
}
