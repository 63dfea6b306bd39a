// Package order provides checkout and order lifecycle endpoints. An order
// snapshots the cart at creation time, prices stay frozen afterwards.
package order

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
)

const (
	// Path is the base path of the order endpoints.
	Path = handler.RootPath + "/orders"
)

type createRequest struct {
	PaymentMethod       string `json:"payment_method"        validate:"required,oneof=click payme card paypal"`
	AddressLine1        string `json:"address_line_1"        validate:"required,max=255"`
	AddressLine2        string `json:"address_line_2"        validate:"omitempty,max=255"`
	City                string `json:"city"                  validate:"required,max=255"`
	StateProvinceRegion string `json:"state_province_region" validate:"omitempty,max=255"`
	PostalCode          string `json:"postal_code"           validate:"omitempty,max=20"`
	CountryRegion       string `json:"country_region"        validate:"omitempty,max=255"`
	TelephoneNumber     string `json:"telephone_number"      validate:"omitempty,max=255"`
	ShippingPriceCents  int64  `json:"shipping_price_cents"  validate:"gte=0"`
	CouponCode          string `json:"coupon_code"           validate:"omitempty,max=50"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid shipped delivered canceled"`
}

// transitions lists the allowed status moves. Cancellation is handled
// separately since it applies to every pre-paid state.
var transitions = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending: models.OrderStatusPaid,
	models.OrderStatusPaid:    models.OrderStatusShipped,
	models.OrderStatusShipped: models.OrderStatusDelivered,
}

// Service implements the order endpoints.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) {
	if app == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps
	s.validator = validator.New()

	requireAuth := auth.RequireAuth(deps.DB, deps.JWT)
	guard := auth.RequireModelPermission(deps.Auth, auth.ResourceOrder, nil)

	app.Get(Path, requireAuth, guard, s.List)
	app.Get(Path+"/:id", requireAuth, guard, s.Get)
	app.Post(Path, requireAuth, guard, s.Create)
	app.Post(Path+"/:id/cancel", requireAuth, guard, s.Cancel)
	app.Patch(Path+"/:id/status", requireAuth, guard, s.SetStatus)
}

// List returns the orders of the current user. Superusers may pass
// all=true to list every order.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	tx := s.deps.DB.Order("created_at DESC")

	if !(user.Superuser && c.QueryBool("all")) {
		tx = tx.Where("user_id = ?", user.ID)
	}

	var orders []models.Order
	if err := tx.Find(&orders).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(orders)
}

// orderWithItems carries the order row plus its lines for responses.
type orderWithItems struct {
	models.Order
	Items []models.OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// Get returns one order. Users only see their own, superusers see all.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	order, err := s.loadOwned(c, user)
	if err != nil {
		return handler.MapError(c, err)
	}

	var items []models.OrderItem
	if err := s.deps.DB.Preload("Product").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(orderWithItems{Order: *order, Items: items})
}

// Create builds an order from the current cart. Item prices are frozen at
// this point, the cart stays untouched until the payment is confirmed.
func (s *Service) Create(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	var cart models.Cart
	if err := s.deps.DB.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "cart is empty")
	}

	var items []models.CartItem
	if err := s.deps.DB.Preload("Product").Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		return handler.MapError(c, err)
	}

	if len(items) == 0 {
		return handler.Error(c, fiber.StatusBadRequest, "cart is empty")
	}

	var itemsTotal int64

	for i := range items {
		if items[i].Quantity > items[i].Product.Quantity {
			return handler.Error(c, fiber.StatusBadRequest, "requested quantity exceeds stock")
		}

		itemsTotal += items[i].TotalCents()
	}

	order := models.Order{
		UserID:              user.ID,
		Status:              models.OrderStatusPending,
		PaymentMethod:       models.PaymentProvider(req.PaymentMethod),
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		StateProvinceRegion: req.StateProvinceRegion,
		PostalCode:          req.PostalCode,
		CountryRegion:       req.CountryRegion,
		TelephoneNumber:     req.TelephoneNumber,
		ShippingPriceCents:  req.ShippingPriceCents,
		AmountCents:         itemsTotal + req.ShippingPriceCents,
	}

	err := s.deps.DB.Transaction(func(tx *gorm.DB) error {
		if req.CouponCode != "" {
			if err := applyCoupon(tx, &order, user.ID, req.CouponCode, itemsTotal); err != nil {
				return err
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			line := models.OrderItem{
				OrderID:    order.ID,
				ProductID:  items[i].ProductID,
				Quantity:   items[i].Quantity,
				PriceCents: items[i].Product.PriceCents,
			}

			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}

		note := models.Notification{
			UserID:  user.ID,
			Type:    models.NotificationOrderCreated,
			Message: "Your order has been created.",
		}

		return tx.Create(&note).Error
	})
	if err != nil {
		var cErr couponError
		if errors.As(err, &cErr) {
			return handler.Error(c, fiber.StatusBadRequest, cErr.Error())
		}

		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// couponError is a user-facing checkout failure, mapped to a 400.
type couponError struct{ msg string }

func (e couponError) Error() string { return e.msg }

// applyCoupon validates the code, discounts the item total, and records the
// redemption. Runs inside the checkout transaction.
func applyCoupon(tx *gorm.DB, order *models.Order, userID uuid.UUID, code string, itemsTotal int64) error {
	var coupon models.Coupon
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		return couponError{msg: "unknown coupon code"}
	}

	if !coupon.IsValid(time.Now()) {
		return couponError{msg: "coupon is not valid"}
	}

	var redeemed int64
	if err := tx.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&redeemed).Error; err != nil {
		return err
	}

	if redeemed > 0 {
		return couponError{msg: "coupon already redeemed"}
	}

	order.CouponID = &coupon.ID
	order.AmountCents = coupon.Apply(itemsTotal) + order.ShippingPriceCents

	redemption := models.CouponRedemption{CouponID: coupon.ID, UserID: userID}
	if err := tx.Create(&redemption).Error; err != nil {
		return err
	}

	return tx.Model(&coupon).UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

// Cancel moves a not-yet-paid order to canceled.
func (s *Service) Cancel(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	order, err := s.loadOwned(c, user)
	if err != nil {
		return handler.MapError(c, err)
	}

	if order.Status != models.OrderStatusPending {
		return handler.Error(c, fiber.StatusBadRequest, "only pending orders can be canceled")
	}

	order.Status = models.OrderStatusCanceled

	if err := s.deps.DB.Save(order).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

// SetStatus advances the order along the status machine. Meant for staff,
// the change permission is not part of the buyer or seller policies.
func (s *Service) SetStatus(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	var order models.Order
	if err := s.deps.DB.First(&order, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	next := models.OrderStatus(req.Status)

	switch {
	case next == models.OrderStatusCanceled:
		if order.Status == models.OrderStatusPaid ||
			order.Status == models.OrderStatusShipped ||
			order.Status == models.OrderStatusDelivered {
			return handler.Error(c, fiber.StatusBadRequest, "paid orders can not be canceled")
		}
	case transitions[order.Status] != next:
		return handler.Error(c, fiber.StatusBadRequest, "invalid status transition")
	}

	order.Status = next
	order.Paid = next == models.OrderStatusPaid ||
		next == models.OrderStatusShipped ||
		next == models.OrderStatusDelivered

	if err := s.deps.DB.Save(&order).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

// loadOwned fetches the order from the path id, restricted to the current
// user unless that user is a superuser.
func (s *Service) loadOwned(c *fiber.Ctx, user *models.User) (*models.Order, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	tx := s.deps.DB.Where("id = ?", id)
	if !user.Superuser {
		tx = tx.Where("user_id = ?", user.ID)
	}

	var order models.Order
	if err := tx.First(&order).Error; err != nil {
		return nil, err
	}

	return &order, nil
}
