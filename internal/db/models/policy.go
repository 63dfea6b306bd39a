package models

import (
	"time"

	"github.com/google/uuid"
)

// PolicyName enumerates the fixed set of policy names.
type PolicyName string

const (
	// PolicyBuyer bundles the permissions of a regular customer.
	PolicyBuyer PolicyName = "buyer_policy"
	// PolicySeller bundles the permissions of a product seller.
	PolicySeller PolicyName = "seller_policy"
	// PolicyAdmin bundles the administrative permissions.
	PolicyAdmin PolicyName = "admin_policy"
)

// PolicyNames lists every valid policy name.
func PolicyNames() []PolicyName {
	return []PolicyName{PolicyBuyer, PolicySeller, PolicyAdmin}
}

// Policy is a named, reusable bundle of permissions attachable to users and
// groups. At most one active policy may exist per name; deactivated policies
// stop contributing permissions on the next authorization check.
type Policy struct {
	// ID is the unique identifier for the policy.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Name is one of the fixed policy names.
	Name PolicyName `gorm:"type:varchar(100);not null;uniqueIndex:idx_policy_name_active"`
	// Active indicates whether the policy contributes permissions.
	Active bool `gorm:"default:true;uniqueIndex:idx_policy_name_active"`
	// CreatedAt is the timestamp when the policy was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the policy was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Policy model.
func (Policy) TableName() string {
	return "policies"
}
