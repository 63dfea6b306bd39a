package order_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/cart"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/order"
	"github.com/GoMarket-Shop/GoMarket/internal/web/webtest"
)

func checkoutBody() map[string]any {
	return map[string]any{
		"payment_method":       "card",
		"address_line_1":       "12 Amir Temur Avenue",
		"city":                 "Tashkent",
		"country_region":       "Uzbekistan",
		"shipping_price_cents": 500,
	}
}

func fillCart(t *testing.T, svc *web.Service, token string, productID uuid.UUID, quantity int) {
	t.Helper()

	resp := webtest.DoJSON(t, svc, http.MethodPost, cart.Path+"/items", map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateFreezesPrices(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Boots", 8000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	fillCart(t, svc, token, product.ID, 2)

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, checkoutBody(), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID          uuid.UUID          `json:"ID"`
		Status      models.OrderStatus `json:"Status"`
		AmountCents int64              `json:"AmountCents"`
	}
	webtest.Decode(t, resp, &created)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.Equal(t, int64(2*8000+500), created.AmountCents)

	// a later price change must not touch the snapshot
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("price_cents", 9999).Error)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, int64(2*8000+500), stored.AmountCents)

	var line models.OrderItem
	require.NoError(t, db.First(&line, "order_id = ?", created.ID).Error)
	assert.Equal(t, int64(8000), line.PriceCents)
	assert.Equal(t, 2, line.Quantity)

	// the cart is still intact until the payment is confirmed
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	svc := webtest.NewService(t)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, checkoutBody(), token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateAppliesCoupon(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Coat", 10000, 10)

	buyer, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	fillCart(t, svc, token, product.ID, 1)

	coupon := models.Coupon{
		Code:          "TENOFF",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
		Active:        true,
		MaxUses:       5,
	}
	require.NoError(t, db.Create(&coupon).Error)

	body := checkoutBody()
	body["coupon_code"] = "TENOFF"

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, body, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		AmountCents int64 `json:"AmountCents"`
	}
	webtest.Decode(t, resp, &created)
	// 10% off the item total, shipping untouched
	assert.Equal(t, int64(9000+500), created.AmountCents)

	var redemption models.CouponRedemption
	require.NoError(t, db.First(&redemption, "coupon_id = ? AND user_id = ?", coupon.ID, buyer.ID).Error)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	assert.Equal(t, 1, stored.UsedCount)

	// the same user can not redeem the code twice
	fillCart(t, svc, token, product.ID, 1)

	resp = webtest.DoJSON(t, svc, http.MethodPost, order.Path, body, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateRejectsExpiredCoupon(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Hat", 3000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	fillCart(t, svc, token, product.ID, 1)

	coupon := models.Coupon{
		Code:          "EXPIRED",
		DiscountType:  models.DiscountFixed,
		DiscountValue: 500,
		ValidFrom:     time.Now().Add(-2 * time.Hour),
		ValidUntil:    time.Now().Add(-time.Hour),
		Active:        true,
		MaxUses:       5,
	}
	require.NoError(t, db.Create(&coupon).Error)

	body := checkoutBody()
	body["coupon_code"] = "EXPIRED"

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, body, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// the failed checkout must not leave an order behind
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancel(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Gloves", 2000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	fillCart(t, svc, token, product.ID, 1)

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, checkoutBody(), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uuid.UUID `json:"ID"`
	}
	webtest.Decode(t, resp, &created)

	resp = webtest.DoJSON(t, svc, http.MethodPost, order.Path+"/"+created.ID.String()+"/cancel", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, models.OrderStatusCanceled, stored.Status)

	// a canceled order can not be canceled again
	resp = webtest.DoJSON(t, svc, http.MethodPost, order.Path+"/"+created.ID.String()+"/cancel", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListAndGetAreScopedToOwner(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Belt", 1500, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	fillCart(t, svc, token, product.ID, 1)

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, checkoutBody(), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uuid.UUID `json:"ID"`
	}
	webtest.Decode(t, resp, &created)

	resp = webtest.DoJSON(t, svc, http.MethodGet, order.Path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []struct {
		ID uuid.UUID `json:"ID"`
	}
	webtest.Decode(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// another buyer sees neither the list entry nor the order itself
	_, otherToken := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "other@example.com", "+998901000003")

	resp = webtest.DoJSON(t, svc, http.MethodGet, order.Path, nil, otherToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &listed)
	assert.Empty(t, listed)

	resp = webtest.DoJSON(t, svc, http.MethodGet, order.Path+"/"+created.ID.String(), nil, otherToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSetStatusRequiresStaffPermission(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Socks", 700, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	fillCart(t, svc, token, product.ID, 1)

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path, checkoutBody(), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uuid.UUID `json:"ID"`
	}
	webtest.Decode(t, resp, &created)

	// buyers lack order.change_order
	resp = webtest.DoJSON(t, svc, http.MethodPatch, order.Path+"/"+created.ID.String()+"/status", map[string]any{
		"status": "paid",
	}, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	_, adminToken := webtest.CreateUser(t, svc, models.TradeRoleAdmin, "staff@example.com", "+998901000004")

	resp = webtest.DoJSON(t, svc, http.MethodPatch, order.Path+"/"+created.ID.String()+"/status", map[string]any{
		"status": "paid",
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// skipping states is rejected
	resp = webtest.DoJSON(t, svc, http.MethodPatch, order.Path+"/"+created.ID.String()+"/status", map[string]any{
		"status": "delivered",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// paid orders can not be canceled
	resp = webtest.DoJSON(t, svc, http.MethodPatch, order.Path+"/"+created.ID.String()+"/status", map[string]any{
		"status": "canceled",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
