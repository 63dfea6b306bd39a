package auth

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
)

// Service provides authorization checks over the relational store.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EffectivePermissions computes the user's full permission set: direct
// grants, active direct policies, and grants plus active policies of every
// active group the user belongs to. The union is rebuilt from a bounded
// number of bulk queries on every call; nothing is cached, so membership and
// active-flag changes apply on the next check.
func (s *Service) EffectivePermissions(userID uuid.UUID) (map[string]struct{}, error) {
	permSet := make(map[string]struct{})

	// Direct grants on the user.
	var direct []string

	err := s.db.Table("permissions").
		Select("permissions.name").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &direct).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get direct permissions: %w", err)
	}

	// Active policies attached directly to the user.
	var userPolicyPerms []string

	err = s.db.Table("permissions").
		Select("DISTINCT permissions.name").
		Joins("JOIN policy_permissions ON policy_permissions.permission_id = permissions.id").
		Joins("JOIN policies ON policies.id = policy_permissions.policy_id").
		Joins("JOIN user_policies ON user_policies.policy_id = policies.id").
		Where("user_policies.user_id = ? AND policies.active = ?", userID, true).
		Pluck("permissions.name", &userPolicyPerms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user policy permissions: %w", err)
	}

	// Materialize the user's ACTIVE group ids once, then run the two group
	// reads against the id list. Inactive groups drop out here even though
	// the membership rows still exist.
	var groupIDs []uuid.UUID

	err = s.db.Table("user_groups").
		Select("user_groups.group_id").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("user_groups.user_id = ? AND groups.active = ?", userID, true).
		Pluck("user_groups.group_id", &groupIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get group memberships: %w", err)
	}

	var groupPerms, groupPolicyPerms []string

	if len(groupIDs) > 0 {
		err = s.db.Table("permissions").
			Select("DISTINCT permissions.name").
			Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
			Where("group_permissions.group_id IN ?", groupIDs).
			Pluck("permissions.name", &groupPerms).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get group permissions: %w", err)
		}

		err = s.db.Table("permissions").
			Select("DISTINCT permissions.name").
			Joins("JOIN policy_permissions ON policy_permissions.permission_id = permissions.id").
			Joins("JOIN policies ON policies.id = policy_permissions.policy_id").
			Joins("JOIN group_policies ON group_policies.policy_id = policies.id").
			Where("group_policies.group_id IN ? AND policies.active = ?", groupIDs, true).
			Pluck("permissions.name", &groupPolicyPerms).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get group policy permissions: %w", err)
		}
	}

	for _, bucket := range [][]string{direct, userPolicyPerms, groupPerms, groupPolicyPerms} {
		for _, perm := range bucket {
			permSet[perm] = struct{}{}
		}
	}

	return permSet, nil
}

// PermissionNames returns the effective set as a sorted-free slice, mainly
// for the /me endpoint and for logging.
func (s *Service) PermissionNames(userID uuid.UUID) ([]string, error) {
	set, err := s.EffectivePermissions(userID)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(set))
	for perm := range set {
		out = append(out, perm)
	}

	return out, nil
}

// HasPermission checks whether the user's effective set contains the
// permission. Superuser status is not consulted here; Authorize is the
// complete rule.
func (s *Service) HasPermission(userID uuid.UUID, permission string) (bool, error) {
	set, err := s.EffectivePermissions(userID)
	if err != nil {
		return false, err
	}

	_, ok := set[permission]

	return ok, nil
}

// Authorize decides whether the user may perform an operation requiring the
// given permission. A superuser is always authorized. Everyone else must be
// active and verified AND hold the permission in their effective set. A nil
// user (anonymous request) is never authorized.
func (s *Service) Authorize(user *models.User, required string) (bool, error) {
	if user == nil {
		return false, nil
	}

	if user.Superuser {
		return true, nil
	}

	if !user.Active || !user.Verified {
		return false, nil
	}

	return s.HasPermission(user.ID, required)
}
