package wishlist_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/wishlist"
	"github.com/GoMarket-Shop/GoMarket/internal/web/webtest"
)

func TestAddListRemove(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Lamp", 3000, 5)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")

	resp := webtest.DoJSON(t, svc, http.MethodPost, wishlist.Path, map[string]any{
		"product_id": product.ID,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// the same product twice is a no-op, not an error or a duplicate
	resp = webtest.DoJSON(t, svc, http.MethodPost, wishlist.Path, map[string]any{
		"product_id": product.ID,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodGet, wishlist.Path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		ProductID uuid.UUID `json:"ProductID"`
	}
	webtest.Decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)

	resp = webtest.DoJSON(t, svc, http.MethodDelete, wishlist.Path+"/"+product.ID.String(), nil, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodDelete, wishlist.Path+"/"+product.ID.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAddUnknownProduct(t *testing.T) {
	svc := webtest.NewService(t)

	_, token := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")

	resp := webtest.DoJSON(t, svc, http.MethodPost, wishlist.Path, map[string]any{
		"product_id": uuid.New(),
	}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListIsPerUser(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	product := webtest.CreateProduct(t, svc, seller, "Rug", 8000, 5)

	_, first := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "first@example.com", "+998901000002")
	_, second := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "second@example.com", "+998901000003")

	resp := webtest.DoJSON(t, svc, http.MethodPost, wishlist.Path, map[string]any{
		"product_id": product.ID,
	}, first)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = webtest.DoJSON(t, svc, http.MethodGet, wishlist.Path, nil, second)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		ProductID uuid.UUID `json:"ProductID"`
	}
	webtest.Decode(t, resp, &items)
	assert.Empty(t, items)
}
