// Package webtest provides fixtures for handler tests: a fully wired
// service on an in-memory database and key-value store, account helpers,
// and JSON request helpers.
package webtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoMarket-Shop/GoMarket/internal/config"
	"github.com/GoMarket-Shop/GoMarket/internal/daemon"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/kv"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
	"github.com/GoMarket-Shop/GoMarket/internal/web"
)

// Password is the fixed plaintext password of all fixture accounts.
const Password = "pass123"

// NewService builds a web service on an in-memory database with the seed
// data applied, the in-memory key-value store, and the fake payment
// gateway. The gateway is reachable via Deps().Payments.
func NewService(t *testing.T) *web.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Policy{},
		&models.Permission{},
		&models.UserGroup{},
		&models.UserPolicy{},
		&models.GroupPolicy{},
		&models.UserPermission{},
		&models.GroupPermission{},
		&models.PolicyPermission{},
		&models.Category{},
		&models.Color{},
		&models.Size{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.WishlistItem{},
		&models.Notification{},
	))

	require.NoError(t, daemon.Seed(db))

	cfg := &config.Config{
		JWT: config.JWT{
			Secret:          "test-secret",
			AccessLifetime:  config.Duration{Duration: 30 * time.Minute},
			RefreshLifetime: config.Duration{Duration: 7 * 24 * time.Hour},
		},
		OTP:       config.OTP{TTL: config.Duration{Duration: 2 * time.Minute}},
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080", DisableRecover: true},
	}

	return web.New(cfg, db, kv.NewMemoryStore(), payment.NewFakeGateway())
}

// CreateUser creates a verified, active account with the given trade role,
// attaches it to the matching seed group, and returns it with a fresh
// access token.
func CreateUser(t *testing.T, svc *web.Service, role models.TradeRole, email, phone string) (*models.User, string) {
	t.Helper()

	db := svc.Deps().DB

	user := models.User{
		Email:       email,
		PhoneNumber: phone,
		FirstName:   "Test",
		LastName:    "User",
		TradeRole:   role,
		Password:    models.HashPassword(Password),
		Active:      true,
		Verified:    true,
	}
	require.NoError(t, db.Create(&user).Error)

	var group models.Group
	require.NoError(t, db.Where("name = ?", string(role)).First(&group).Error)
	require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID}).Error)

	pair, err := svc.Deps().JWT.IssuePair(context.Background(), &user)
	require.NoError(t, err)

	return &user, pair.Access
}

// CreateProduct creates an active product with its own category for the
// given seller.
func CreateProduct(t *testing.T, svc *web.Service, seller *models.User, title string, priceCents int64, stock int) *models.Product {
	t.Helper()

	db := svc.Deps().DB

	category := models.Category{Name: title + " category", Active: true}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{
		SellerID:   seller.ID,
		CategoryID: category.ID,
		Title:      title,
		PriceCents: priceCents,
		Quantity:   stock,
		Active:     true,
	}
	require.NoError(t, db.Create(&product).Error)

	return &product
}

// DoJSON performs a request against the app with an optional JSON body and
// bearer token.
func DoJSON(t *testing.T, svc *web.Service, method, path string, body any, bearer string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := svc.App.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// Decode reads the response body into the target and closes it.
func Decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}
