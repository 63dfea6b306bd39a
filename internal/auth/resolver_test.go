package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
)

func TestResolveRequiredPermission(t *testing.T) {
	type testCase struct {
		name      string
		method    string
		resource  auth.Resource
		action    string
		overrides auth.Overrides
		want      string
		wantOK    bool
	}

	testCases := []testCase{
		{
			name:     "get derives view",
			method:   "GET",
			resource: auth.ResourceProduct,
			want:     "product.view_product",
			wantOK:   true,
		},
		{
			name:     "post derives add",
			method:   "POST",
			resource: auth.ResourceOrder,
			want:     "order.add_order",
			wantOK:   true,
		},
		{
			name:     "put derives change",
			method:   "PUT",
			resource: auth.ResourceCoupon,
			want:     "coupon.change_coupon",
			wantOK:   true,
		},
		{
			name:     "patch derives change",
			method:   "PATCH",
			resource: auth.ResourceNotification,
			want:     "notification.change_notification",
			wantOK:   true,
		},
		{
			name:     "delete derives delete",
			method:   "DELETE",
			resource: auth.ResourceCartItem,
			want:     "cart.delete_cartitem",
			wantOK:   true,
		},
		{
			name:     "app label differs from resource",
			method:   "GET",
			resource: auth.ResourceCategory,
			want:     "product.view_category",
			wantOK:   true,
		},
		{
			name:     "group belongs to the user app",
			method:   "POST",
			resource: auth.ResourceGroup,
			want:     "user.add_group",
			wantOK:   true,
		},
		{
			name:     "unknown method derives nothing",
			method:   "OPTIONS",
			resource: auth.ResourceProduct,
			wantOK:   false,
		},
		{
			name:     "unknown resource derives nothing",
			method:   "GET",
			resource: auth.Resource("gadget"),
			wantOK:   false,
		},
		{
			name:      "action override wins over method",
			method:    "GET",
			resource:  auth.ResourceUser,
			action:    "me",
			overrides: auth.Overrides{"me": auth.PermViewUserMe, "get": "user.view_user"},
			want:      auth.PermViewUserMe,
			wantOK:    true,
		},
		{
			name:      "method override used without action",
			method:    "PATCH",
			resource:  auth.ResourceUser,
			overrides: auth.Overrides{"patch": auth.PermChangeUserMe},
			want:      auth.PermChangeUserMe,
			wantOK:    true,
		},
		{
			name:      "method override is case insensitive",
			method:    "patch",
			resource:  auth.ResourceUser,
			overrides: auth.Overrides{"patch": auth.PermChangeUserMe},
			want:      auth.PermChangeUserMe,
			wantOK:    true,
		},
		{
			name:      "empty override suppresses derivation",
			method:    "GET",
			resource:  auth.ResourceUser,
			overrides: auth.Overrides{"get": ""},
			wantOK:    false,
		},
		{
			name:      "overrides for other methods do not apply",
			method:    "DELETE",
			resource:  auth.ResourceUser,
			overrides: auth.Overrides{"get": auth.PermViewUserMe},
			want:      "user.delete_user",
			wantOK:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := auth.ResolveRequiredPermission(tc.method, tc.resource, tc.action, tc.overrides)

			assert.Equal(t, tc.wantOK, ok)

			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
