package product_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/product"
	"github.com/GoMarket-Shop/GoMarket/internal/web/webtest"
)

type productBody struct {
	ID         uuid.UUID `json:"ID"`
	Title      string    `json:"Title"`
	PriceCents int64     `json:"PriceCents"`
	Quantity   int       `json:"Quantity"`
	Views      int       `json:"Views"`
}

type listBody struct {
	Items      []productBody `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
}

func TestListIsPublicAndFiltered(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	cheap := webtest.CreateProduct(t, svc, seller, "Cotton shirt", 2000, 5)
	webtest.CreateProduct(t, svc, seller, "Leather shirt", 9000, 5)
	webtest.CreateProduct(t, svc, seller, "Wool sweater", 7000, 5)

	// inactive products never show up
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", cheap.ID).
		UpdateColumn("active", false).Error)

	resp := webtest.DoJSON(t, svc, http.MethodGet, product.Path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list listBody
	webtest.Decode(t, resp, &list)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Len(t, list.Items, 2)

	resp = webtest.DoJSON(t, svc, http.MethodGet, product.Path+"?search=shirt", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Leather shirt", list.Items[0].Title)

	resp = webtest.DoJSON(t, svc, http.MethodGet, product.Path+"?min_price=8000", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(9000), list.Items[0].PriceCents)
}

func TestGetCountsViews(t *testing.T) {
	svc := webtest.NewService(t)

	seller, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")
	created := webtest.CreateProduct(t, svc, seller, "Watch", 50000, 3)

	var got productBody

	for i := 1; i <= 2; i++ {
		resp := webtest.DoJSON(t, svc, http.MethodGet, product.Path+"/"+created.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		webtest.Decode(t, resp, &got)
	}

	var stored models.Product
	require.NoError(t, svc.Deps().DB.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, 2, stored.Views)
}

func TestCreateRequiresSellerPermission(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	category := models.Category{Name: "Shoes", Active: true}
	require.NoError(t, db.Create(&category).Error)

	body := map[string]any{
		"title":       "Runners",
		"price_cents": 12000,
		"quantity":    4,
		"category_id": category.ID,
	}

	// buyers lack product.add_product
	_, buyerToken := webtest.CreateUser(t, svc, models.TradeRoleBuyer, "buyer@example.com", "+998901000002")

	resp := webtest.DoJSON(t, svc, http.MethodPost, product.Path, body, buyerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	seller, sellerToken := webtest.CreateUser(t, svc, models.TradeRoleSeller, "seller@example.com", "+998901000001")

	resp = webtest.DoJSON(t, svc, http.MethodPost, product.Path, body, sellerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created productBody
	webtest.Decode(t, resp, &created)
	assert.Equal(t, "Runners", created.Title)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, seller.ID, stored.SellerID)
}

func TestUpdateIsOwnerScoped(t *testing.T) {
	svc := webtest.NewService(t)

	owner, _ := webtest.CreateUser(t, svc, models.TradeRoleSeller, "owner@example.com", "+998901000001")
	created := webtest.CreateProduct(t, svc, owner, "Backpack", 6000, 8)

	body := map[string]any{
		"title":       "Backpack v2",
		"price_cents": 6500,
		"quantity":    8,
		"category_id": created.CategoryID,
	}

	// a different seller holds product.change_product but does not own it
	_, otherToken := webtest.CreateUser(t, svc, models.TradeRoleSeller, "other@example.com", "+998901000003")

	resp := webtest.DoJSON(t, svc, http.MethodPut, product.Path+"/"+created.ID.String(), body, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteSoftDeletes(t *testing.T) {
	svc := webtest.NewService(t)
	db := svc.Deps().DB

	owner, token := webtest.CreateUser(t, svc, models.TradeRoleSeller, "owner@example.com", "+998901000001")
	created := webtest.CreateProduct(t, svc, owner, "Tent", 20000, 2)

	resp := webtest.DoJSON(t, svc, http.MethodDelete, product.Path+"/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)

	// soft delete: the row is still there for old order lines
	require.NoError(t, db.Unscoped().Model(&models.Product{}).Where("id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
