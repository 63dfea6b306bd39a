package auth

// Resource enumerates the model kinds permissions can be derived for.
// The registry below replaces runtime model introspection: every routed
// resource declares its kind and owning app label here, at startup.
type Resource string

const (
	// ResourceUser is the user account model.
	ResourceUser Resource = "user"
	// ResourceGroup is the user group model.
	ResourceGroup Resource = "group"
	// ResourcePolicy is the permission policy model.
	ResourcePolicy Resource = "policy"
	// ResourceCategory is the product category model.
	ResourceCategory Resource = "category"
	// ResourceProduct is the catalog product model.
	ResourceProduct Resource = "product"
	// ResourceCart is the shopping cart model.
	ResourceCart Resource = "cart"
	// ResourceCartItem is the cart line model.
	ResourceCartItem Resource = "cartitem"
	// ResourceOrder is the order model.
	ResourceOrder Resource = "order"
	// ResourceCoupon is the discount coupon model.
	ResourceCoupon Resource = "coupon"
	// ResourceNotification is the notification model.
	ResourceNotification Resource = "notification"
	// ResourceWishlist is the wishlist entry model.
	ResourceWishlist Resource = "wishlist"
)

// appLabels maps each resource kind to its owning application label, the
// "<app>" part of a permission string.
var appLabels = map[Resource]string{
	ResourceUser:         "user",
	ResourceGroup:        "user",
	ResourcePolicy:       "user",
	ResourceCategory:     "product",
	ResourceProduct:      "product",
	ResourceCart:         "cart",
	ResourceCartItem:     "cart",
	ResourceOrder:        "order",
	ResourceCoupon:       "coupon",
	ResourceNotification: "notification",
	ResourceWishlist:     "wishlist",
}

// AppLabel returns the app label registered for a resource kind.
func AppLabel(r Resource) (string, bool) {
	label, ok := appLabels[r]
	return label, ok
}

// Known non-derived permission names used by the user surface. The "me"
// endpoints carry their own codenames instead of the generic user ones.
const (
	// PermViewAllUsers allows listing every user account.
	PermViewAllUsers = "user.view_all_users"
	// PermViewUserMe allows reading one's own profile.
	PermViewUserMe = "user.view_user_me"
	// PermChangeUserMe allows updating one's own profile.
	PermChangeUserMe = "user.change_user_me"
)
