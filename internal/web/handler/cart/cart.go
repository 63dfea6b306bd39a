// Package cart provides the per-user shopping cart. The cart itself is
// created on demand, items merge by product.
package cart

import (
	"errors"

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
	// Path is the base path of the cart endpoints.
	Path = handler.RootPath + "/cart"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,gt=0"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type cartResponse struct {
	ID         uuid.UUID         `json:"id"`
	Items      []models.CartItem `json:"items"`
	TotalCents int64             `json:"total_cents"`
}

// Service implements the cart endpoints.
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
	cartGuard := auth.RequireModelPermission(deps.Auth, auth.ResourceCart, nil)
	itemGuard := auth.RequireModelPermission(deps.Auth, auth.ResourceCartItem, nil)

	app.Get(Path, requireAuth, cartGuard, s.Get)
	app.Delete(Path, requireAuth, cartGuard, s.Empty)
	app.Post(Path+"/items", requireAuth, itemGuard, s.AddItem)
	app.Put(Path+"/items/:id", requireAuth, itemGuard, s.UpdateItem)
	app.Delete(Path+"/items/:id", requireAuth, itemGuard, s.RemoveItem)
}

// cartFor loads (or creates) the cart of the user.
func (s *Service) cartFor(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart

	err := s.deps.DB.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}

		if err := s.deps.DB.Create(&cart).Error; err != nil {
			return nil, err
		}

		return &cart, nil
	}

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (s *Service) respondCart(c *fiber.Ctx, cart *models.Cart) error {
	var items []models.CartItem

	err := s.deps.DB.
		Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	var total int64
	for i := range items {
		total += items[i].TotalCents()
	}

	return c.Status(fiber.StatusOK).JSON(cartResponse{
		ID:         cart.ID,
		Items:      items,
		TotalCents: total,
	})
}

// Get returns the cart with items and total.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	cart, err := s.cartFor(user.ID)
	if err != nil {
		return handler.MapError(c, err)
	}

	return s.respondCart(c, cart)
}

// AddItem puts a product into the cart, merging the quantity when the
// product is already present. The merged quantity may not exceed stock.
func (s *Service) AddItem(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	var product models.Product
	if err := s.deps.DB.Where("active = ?", true).First(&product, "id = ?", req.ProductID).Error; err != nil {
		return handler.MapError(c, err)
	}

	cart, err := s.cartFor(user.ID)
	if err != nil {
		return handler.MapError(c, err)
	}

	var item models.CartItem

	err = s.deps.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
		First(&item).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
		}
	case err != nil:
		return handler.MapError(c, err)
	default:
		item.Quantity += req.Quantity
	}

	if item.Quantity > product.Quantity {
		return handler.Error(c, fiber.StatusBadRequest, "requested quantity exceeds stock")
	}

	if err := s.deps.DB.Save(&item).Error; err != nil {
		return handler.MapError(c, err)
	}

	return s.respondCart(c, cart)
}

// UpdateItem sets the quantity of a cart item.
func (s *Service) UpdateItem(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	cart, err := s.cartFor(user.ID)
	if err != nil {
		return handler.MapError(c, err)
	}

	var item models.CartItem

	err = s.deps.DB.
		Preload("Product").
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		First(&item).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	if req.Quantity > item.Product.Quantity {
		return handler.Error(c, fiber.StatusBadRequest, "requested quantity exceeds stock")
	}

	item.Quantity = req.Quantity

	if err := s.deps.DB.Save(&item).Error; err != nil {
		return handler.MapError(c, err)
	}

	return s.respondCart(c, cart)
}

// RemoveItem deletes one cart item.
func (s *Service) RemoveItem(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	cart, err := s.cartFor(user.ID)
	if err != nil {
		return handler.MapError(c, err)
	}

	result := s.deps.DB.
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return handler.MapError(c, result.Error)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, "not found")
	}

	return s.respondCart(c, cart)
}

// Empty removes every item from the cart.
func (s *Service) Empty(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	cart, err := s.cartFor(user.ID)
	if err != nil {
		return handler.MapError(c, err)
	}

	if err := s.deps.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
