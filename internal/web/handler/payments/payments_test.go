package payments_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
	"github.com/GoMarket-Shop/GoMarket/internal/web"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/cart"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/order"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/payments"
	"github.com/GoMarket-Shop/GoMarket/internal/web/webtest"
)

// placeOrder fills the cart and checks out, returning the order id.
func placeOrder(t *testing.T, svc *web.Service, token string, productID uuid.UUID, quantity int) uuid.UUID {
	t.Helper()

	resp := webtest.DoJSON(t, svc, http.MethodPost, cart.Path+"/items", map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodPost, order.Path, map[string]any{
		"payment_method":       "card",
		"address_line_1":       "12 Amir Temur Avenue",
		"city":                 "Tashkent",
		"shipping_price_cents": 0,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uuid.UUID `json:"ID"`
	}
	webtest.Decode(t, resp, &created)

	return created.ID
}

type intentBody struct {
	OrderID      uuid.UUID `json:"order_id"`
	IntentID     string    `json:"intent_id"`
	ClientSecret string    `json:"client_secret"`
	Status       string    `json:"status"`
	AmountCents  int64     `json:"amount_cents"`
}

func TestCreateAndConfirmIntent(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Camera", 25000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	orderID := placeOrder(t, svc, token, product.ID, 2)

	resp := webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/create", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var intent intentBody
	webtest.Decode(t, resp, &intent)
	assert.Equal(t, orderID, intent.OrderID)
	assert.Equal(t, payment.StatusRequiresConfirmation, intent.Status)
	assert.Equal(t, int64(50000), intent.AmountCents)
	require.NotEmpty(t, intent.IntentID)
	assert.NotEmpty(t, intent.ClientSecret)

	resp = webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/confirm", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &intent)
	assert.Equal(t, payment.StatusSucceeded, intent.Status)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", orderID).Error)
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	assert.True(t, stored.Paid)
	assert.Equal(t, intent.IntentID, stored.TransactionID)

	// stock reduced by the ordered quantity
	var restocked models.Product
	require.NoError(t, db.First(&restocked, "id = ?", product.ID).Error)
	assert.Equal(t, 8, restocked.Quantity)

	// the cart is emptied after payment
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)

	// the confirmed order can not be paid again
	resp = webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/confirm", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateIntentRejectsNonPendingOrder(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Tripod", 4000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	orderID := placeOrder(t, svc, token, product.ID, 1)

	resp := webtest.DoJSON(t, svc, http.MethodPost, order.Path+"/"+orderID.String()+"/cancel", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/create", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestConfirmRequiresIntent(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Lens", 15000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	orderID := placeOrder(t, svc, token, product.ID, 1)

	// confirm before create: no transaction id yet
	resp := webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/confirm", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodGet, payments.Path+"/"+orderID.String()+"/status", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStatusReflectsGateway(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Mic", 9000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	orderID := placeOrder(t, svc, token, product.ID, 1)

	resp := webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/create", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodGet, payments.Path+"/"+orderID.String()+"/status", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var intent intentBody
	webtest.Decode(t, resp, &intent)
	assert.Equal(t, payment.StatusRequiresConfirmation, intent.Status)
}

func TestPaymentsAreScopedToOwner(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Drone", 30000, 10)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")
	orderID := placeOrder(t, svc, token, product.ID, 1)

	_, otherToken := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "other@example.com", "+998901000003")

	resp := webtest.DoJSON(t, svc, http.MethodPatch, payments.Path+"/"+orderID.String()+"/create", nil, otherToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
