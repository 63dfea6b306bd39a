// Package wishlist lets users bookmark products. One entry per user and
// product.
package wishlist

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
	// Path is the base path of the wishlist endpoints.
	Path = handler.RootPath + "/wishlist"
)

type addRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// Service implements the wishlist endpoints.
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
	guard := auth.RequireModelPermission(deps.Auth, auth.ResourceWishlist, nil)

	app.Get(Path, requireAuth, guard, s.List)
	app.Post(Path, requireAuth, guard, s.Add)
	app.Delete(Path+"/:product_id", requireAuth, guard, s.Remove)
}

// List returns the wishlist of the current user.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var items []models.WishlistItem

	err := s.deps.DB.
		Preload("Product").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(items)
}

// Add bookmarks a product. Adding the same product twice is a no-op.
func (s *Service) Add(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	var product models.Product
	if err := s.deps.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return handler.MapError(c, err)
	}

	item := models.WishlistItem{UserID: user.ID, ProductID: product.ID}

	err := s.deps.DB.
		Where("user_id = ? AND product_id = ?", user.ID, product.ID).
		First(&models.WishlistItem{}).Error

	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(item)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return handler.MapError(c, err)
	}

	if err := s.deps.DB.Create(&item).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Remove deletes the bookmark for a product.
func (s *Service) Remove(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	productID, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid product_id")
	}

	result := s.deps.DB.
		Where("user_id = ? AND product_id = ?", user.ID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return handler.MapError(c, result.Error)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, "not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
