package coupon_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/coupon"
	"github.com/GoMarket-Shop/GoMarket/internal/web/webtest"
)

func couponBody(code string) map[string]any {
	return map[string]any{
		"code":           code,
		"discount_type":  "percentage",
		"discount_value": 15,
		"valid_from":     time.Now().Format(time.RFC3339),
		"valid_until":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"max_uses":       10,
	}
}

func TestCouponsAreStaffOnly(t *testing.T) {
	svc := webtest.NewService(t)

	_, buyerToken := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")

	resp := webtest.DoJSON(t, svc, http.MethodGet, coupon.Path, nil, buyerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodPost, coupon.Path, couponBody("SPRING"), buyerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestCouponCRUD(t *testing.T) {
	svc := webtest.NewService(t)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleAdmin, "staff@example.com", "+998901000004")

	resp := webtest.DoJSON(t, svc, http.MethodPost, coupon.Path, couponBody("SPRING"), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID            uuid.UUID `json:"ID"`
		Code          string    `json:"Code"`
		DiscountValue int64     `json:"DiscountValue"`
	}
	webtest.Decode(t, resp, &created)
	assert.Equal(t, "SPRING", created.Code)
	assert.Equal(t, int64(15), created.DiscountValue)

	resp = webtest.DoJSON(t, svc, http.MethodGet, coupon.Path+"/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	body := couponBody("SPRING")
	body["discount_value"] = 20

	resp = webtest.DoJSON(t, svc, http.MethodPut, coupon.Path+"/"+created.ID.String(), body, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &created)
	assert.Equal(t, int64(20), created.DiscountValue)

	resp = webtest.DoJSON(t, svc, http.MethodDelete, coupon.Path+"/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodGet, coupon.Path+"/"+created.ID.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := webtest.NewService(t)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleAdmin, "staff@example.com", "+998901000004")

	body := couponBody("BACKWARDS")
	body["valid_from"] = time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	body["valid_until"] = time.Now().Format(time.RFC3339)

	resp := webtest.DoJSON(t, svc, http.MethodPost, coupon.Path, body, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
