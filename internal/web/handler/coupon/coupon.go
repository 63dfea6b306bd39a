// Package coupon manages discount codes. All operations are gated by
// derived permissions, only the admin policy carries them.
package coupon

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
)

const (
	// Path is the base path of the coupon endpoints.
	Path = handler.RootPath + "/coupons"
)

type couponRequest struct {
	Code          string    `json:"code"           validate:"required,max=50"`
	DiscountType  string    `json:"discount_type"  validate:"required,oneof=percentage fixed"`
	DiscountValue int64     `json:"discount_value" validate:"required,gt=0"`
	ValidFrom     time.Time `json:"valid_from"     validate:"required"`
	ValidUntil    time.Time `json:"valid_until"    validate:"required,gtfield=ValidFrom"`
	MaxUses       int       `json:"max_uses"       validate:"required,gt=0"`
	Active        *bool     `json:"active"`
}

// Service implements the coupon endpoints.
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
	guard := auth.RequireModelPermission(deps.Auth, auth.ResourceCoupon, nil)

	app.Get(Path, requireAuth, guard, s.List)
	app.Get(Path+"/:id", requireAuth, guard, s.Get)
	app.Post(Path, requireAuth, guard, s.Create)
	app.Put(Path+"/:id", requireAuth, guard, s.Update)
	app.Delete(Path+"/:id", requireAuth, guard, s.Delete)
}

// List returns all coupons.
func (s *Service) List(c *fiber.Ctx) error {
	var coupons []models.Coupon
	if err := s.deps.DB.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(coupons)
}

// Get returns one coupon.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := s.deps.DB.First(&coupon, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(coupon)
}

// Create adds a coupon.
func (s *Service) Create(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	coupon := models.Coupon{
		Code:          req.Code,
		DiscountType:  models.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		MaxUses:       req.MaxUses,
		Active:        true,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := s.deps.DB.Create(&coupon).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// Update modifies a coupon.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := s.deps.DB.First(&coupon, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	coupon.Code = req.Code
	coupon.DiscountType = models.DiscountType(req.DiscountType)
	coupon.DiscountValue = req.DiscountValue
	coupon.ValidFrom = req.ValidFrom
	coupon.ValidUntil = req.ValidUntil
	coupon.MaxUses = req.MaxUses

	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := s.deps.DB.Save(&coupon).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(coupon)
}

// Delete removes a coupon.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	result := s.deps.DB.Delete(&models.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return handler.MapError(c, result.Error)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, "not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
