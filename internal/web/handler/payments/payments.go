// Package payments drives card payments for pending orders through the
// payment gateway: create an intent, confirm it, read its status.
package payments

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
)

const (
	// Path is the base path of the payment endpoints.
	Path = handler.RootPath + "/payments"

	// Currency is the fixed settlement currency of the shop.
	Currency = "usd"
)

type intentResponse struct {
	OrderID      uuid.UUID `json:"order_id"`
	IntentID     string    `json:"intent_id"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Status       string    `json:"status"`
	AmountCents  int64     `json:"amount_cents"`
}

// Service implements the payment endpoints.
type Service struct {
	handler.Service
	deps *handler.Deps
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

	requireAuth := auth.RequireAuth(deps.DB, deps.JWT)

	// Paying an order belongs to placing it, not to staff order management,
	// so the PATCH routes require add_order instead of change_order.
	guard := auth.RequireModelPermission(deps.Auth, auth.ResourceOrder, auth.Overrides{
		"patch": "order.add_order",
	})

	app.Patch(Path+"/:id/create", requireAuth, guard, s.CreateIntent)
	app.Patch(Path+"/:id/confirm", requireAuth, guard, s.ConfirmIntent)
	app.Get(Path+"/:id/status", requireAuth, guard, s.Status)
}

// loadOrder fetches the order addressed by the path id, restricted to the
// current user unless that user is a superuser.
func (s *Service) loadOrder(c *fiber.Ctx, user *models.User) (*models.Order, error) {
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

// CreateIntent opens a payment intent at the gateway for a pending order
// and stores the transaction id on the order.
func (s *Service) CreateIntent(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	order, err := s.loadOrder(c, user)
	if err != nil {
		return handler.MapError(c, err)
	}

	if order.Status != models.OrderStatusPending {
		return handler.Error(c, fiber.StatusBadRequest, "order is not payable")
	}

	intent, err := s.deps.Payments.CreateIntent(c.Context(), order.AmountCents, Currency, map[string]string{
		"order_id": order.ID.String(),
		"user_id":  user.ID.String(),
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	order.TransactionID = intent.ID

	if err := s.deps.DB.Save(order).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(intentResponse{
		OrderID:      order.ID,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
		AmountCents:  intent.AmountCents,
	})
}

// ConfirmIntent confirms the intent at the gateway. On success the order is
// marked paid, product stock is reduced, and the cart is emptied.
func (s *Service) ConfirmIntent(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	order, err := s.loadOrder(c, user)
	if err != nil {
		return handler.MapError(c, err)
	}

	if order.Status != models.OrderStatusPending || order.TransactionID == "" {
		return handler.Error(c, fiber.StatusBadRequest, "order is not payable")
	}

	intent, err := s.deps.Payments.ConfirmIntent(c.Context(), order.TransactionID)
	if err != nil {
		return handler.MapError(c, err)
	}

	if intent.Status != payment.StatusSucceeded {
		return c.Status(fiber.StatusOK).JSON(intentResponse{
			OrderID:     order.ID,
			IntentID:    intent.ID,
			Status:      intent.Status,
			AmountCents: intent.AmountCents,
		})
	}

	err = s.deps.DB.Transaction(func(tx *gorm.DB) error {
		order.Status = models.OrderStatusPaid
		order.Paid = true

		if err := tx.Save(order).Error; err != nil {
			return err
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}

		for i := range items {
			err := tx.Model(&models.Product{}).
				Where("id = ?", items[i].ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", items[i].Quantity)).Error
			if err != nil {
				return err
			}
		}

		var cart models.Cart
		if err := tx.Where("user_id = ?", order.UserID).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}

		note := models.Notification{
			UserID:  order.UserID,
			Type:    models.NotificationPaymentCompleted,
			Message: "Your payment has been received.",
		}

		return tx.Create(&note).Error
	})
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(intentResponse{
		OrderID:     order.ID,
		IntentID:    intent.ID,
		Status:      intent.Status,
		AmountCents: intent.AmountCents,
	})
}

// Status reads the intent state from the gateway.
func (s *Service) Status(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	order, err := s.loadOrder(c, user)
	if err != nil {
		return handler.MapError(c, err)
	}

	if order.TransactionID == "" {
		return handler.Error(c, fiber.StatusBadRequest, "no payment intent for this order")
	}

	intent, err := s.deps.Payments.GetIntent(c.Context(), order.TransactionID)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(intentResponse{
		OrderID:     order.ID,
		IntentID:    intent.ID,
		Status:      intent.Status,
		AmountCents: intent.AmountCents,
	})
}
