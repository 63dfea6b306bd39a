package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
)

// derivedActions are the four actions a permission can be derived for.
var derivedActions = []string{"add", "change", "delete", "view"}

// seedResources lists every resource kind permissions are created for.
var seedResources = []auth.Resource{
	auth.ResourceUser,
	auth.ResourceGroup,
	auth.ResourcePolicy,
	auth.ResourceCategory,
	auth.ResourceProduct,
	auth.ResourceCart,
	auth.ResourceCartItem,
	auth.ResourceOrder,
	auth.ResourceCoupon,
	auth.ResourceNotification,
	auth.ResourceWishlist,
}

// buyerPermissions is the bundle attached to the buyer policy.
var buyerPermissions = []string{
	auth.PermViewUserMe,
	auth.PermChangeUserMe,
	"product.view_category",
	"product.view_product",
	"cart.add_cart",
	"cart.view_cart",
	"cart.change_cart",
	"cart.delete_cart",
	"cart.add_cartitem",
	"cart.view_cartitem",
	"cart.change_cartitem",
	"cart.delete_cartitem",
	"order.add_order",
	"order.view_order",
	"wishlist.add_wishlist",
	"wishlist.view_wishlist",
	"wishlist.delete_wishlist",
	"notification.view_notification",
	"notification.change_notification",
}

// sellerExtraPermissions extends the buyer bundle for the seller policy.
var sellerExtraPermissions = []string{
	"product.add_product",
	"product.change_product",
	"product.delete_product",
}

// Seed creates the permission catalog, the three fixed policies with their
// bundles, the matching groups, and a superuser admin account. It is
// idempotent, existing rows are left alone.
func Seed(db *gorm.DB) error {
	permissions, err := seedPermissions(db)
	if err != nil {
		return err
	}

	sellerPermissions := append(append([]string{}, buyerPermissions...), sellerExtraPermissions...)

	adminPermissions := make([]string, 0, len(permissions))
	for name := range permissions {
		adminPermissions = append(adminPermissions, name)
	}

	bundles := map[models.PolicyName][]string{
		models.PolicyBuyer:  buyerPermissions,
		models.PolicySeller: sellerPermissions,
		models.PolicyAdmin:  adminPermissions,
	}

	groupPolicies := map[string]models.PolicyName{
		string(models.TradeRoleBuyer):  models.PolicyBuyer,
		string(models.TradeRoleSeller): models.PolicySeller,
		string(models.TradeRoleAdmin):  models.PolicyAdmin,
	}

	for _, policyName := range models.PolicyNames() {
		policy := models.Policy{Name: policyName, Active: true}
		if err := db.Where("name = ?", policyName).FirstOrCreate(&policy).Error; err != nil {
			return fmt.Errorf("seed policy %s: %w", policyName, err)
		}

		for _, permName := range bundles[policyName] {
			perm, ok := permissions[permName]
			if !ok {
				log.Warn().Str("permission", permName).Msg("seed: unknown permission in policy bundle")
				continue
			}

			attachment := models.PolicyPermission{PolicyID: policy.ID, PermissionID: perm.ID}
			if err := db.FirstOrCreate(&attachment, attachment).Error; err != nil {
				return fmt.Errorf("seed policy permission %s: %w", permName, err)
			}
		}
	}

	for groupName, policyName := range groupPolicies {
		group := models.Group{Name: groupName, Active: true}
		if err := db.Where("name = ?", groupName).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("seed group %s: %w", groupName, err)
		}

		var policy models.Policy
		if err := db.Where("name = ?", policyName).First(&policy).Error; err != nil {
			return fmt.Errorf("seed group %s policy: %w", groupName, err)
		}

		attachment := models.GroupPolicy{GroupID: group.ID, PolicyID: policy.ID}
		if err := db.FirstOrCreate(&attachment, attachment).Error; err != nil {
			return fmt.Errorf("seed group policy %s: %w", groupName, err)
		}
	}

	return seedAdmin(db)
}

// seedPermissions creates the derived permission catalog plus the special
// profile permissions and returns all of them by name.
func seedPermissions(db *gorm.DB) (map[string]models.Permission, error) {
	type spec struct {
		name     string
		appLabel string
		codename string
	}

	var specs []spec

	for _, resource := range seedResources {
		appLabel, ok := auth.AppLabel(resource)
		if !ok {
			continue
		}

		for _, action := range derivedActions {
			codename := fmt.Sprintf("%s_%s", action, resource)
			specs = append(specs, spec{
				name:     fmt.Sprintf("%s.%s", appLabel, codename),
				appLabel: appLabel,
				codename: codename,
			})
		}
	}

	specs = append(specs,
		spec{name: auth.PermViewAllUsers, appLabel: "user", codename: "view_all_users"},
		spec{name: auth.PermViewUserMe, appLabel: "user", codename: "view_user_me"},
		spec{name: auth.PermChangeUserMe, appLabel: "user", codename: "change_user_me"},
	)

	permissions := make(map[string]models.Permission, len(specs))

	for _, sp := range specs {
		perm := models.Permission{
			Name:     sp.name,
			AppLabel: sp.appLabel,
			Codename: sp.codename,
		}
		if err := db.Where("name = ?", sp.name).FirstOrCreate(&perm).Error; err != nil {
			return nil, fmt.Errorf("seed permission %s: %w", sp.name, err)
		}

		permissions[sp.name] = perm
	}

	return permissions, nil
}

// seedAdmin creates the initial superuser when no user exists yet.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed admin count: %w", err)
	}

	if count > 0 {
		return nil
	}

	admin := models.User{
		Email:       "admin@gomarket.local",
		PhoneNumber: "+998000000000",
		FirstName:   "Admin",
		LastName:    "GoMarket",
		TradeRole:   models.TradeRoleAdmin,
		Password:    models.HashPassword("changeme"), // change after first login
		Active:      true,
		Verified:    true,
		Superuser:   true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	var group models.Group
	if err := db.Where("name = ?", string(models.TradeRoleAdmin)).First(&group).Error; err != nil {
		return fmt.Errorf("seed admin group: %w", err)
	}

	membership := models.UserGroup{UserID: admin.ID, GroupID: group.ID}
	if err := db.FirstOrCreate(&membership, membership).Error; err != nil {
		return fmt.Errorf("seed admin membership: %w", err)
	}

	log.Info().Str("email", admin.Email).Msg("seeded initial superuser")

	return nil
}
