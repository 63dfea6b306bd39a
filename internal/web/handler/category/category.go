// Package category manages the product category tree.
package category

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
)

const (
	// Path is the base path of the category endpoints.
	Path = handler.RootPath + "/categories"
)

type categoryRequest struct {
	Name     string     `json:"name"      validate:"required,max=200"`
	ParentID *uuid.UUID `json:"parent_id" validate:"omitempty"`
	Active   *bool      `json:"active"`
}

// Service implements the category endpoints.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Reads are public, writes are gated by derived
// permissions.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) {
	if app == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps
	s.validator = validator.New()

	guard := []fiber.Handler{
		auth.RequireAuth(deps.DB, deps.JWT),
		auth.RequireModelPermission(deps.Auth, auth.ResourceCategory, nil),
	}

	app.Get(Path, s.List)
	app.Get(Path+"/:id", s.Get)
	app.Post(Path, append(guard, s.Create)...)
	app.Put(Path+"/:id", append(guard, s.Update)...)
	app.Delete(Path+"/:id", append(guard, s.Delete)...)
}

// List returns active categories, optionally restricted to one parent.
func (s *Service) List(c *fiber.Ctx) error {
	tx := s.deps.DB.Where("active = ?", true)

	if parent := c.Query("parent_id"); parent != "" {
		parentID, err := uuid.Parse(parent)
		if err != nil {
			return handler.Error(c, fiber.StatusBadRequest, "invalid parent_id")
		}

		tx = tx.Where("parent_id = ?", parentID)
	}

	var categories []models.Category
	if err := tx.Order("name").Find(&categories).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(categories)
}

// Get returns one category by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := s.deps.DB.First(&category, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(category)
}

// Create adds a category node.
func (s *Service) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	category := models.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
		Active:   true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := s.deps.DB.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
			return handler.MapError(c, err)
		}
	}

	if err := s.deps.DB.Create(&category).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// Update modifies a category node.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := s.deps.DB.First(&category, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	category.Name = req.Name
	category.ParentID = req.ParentID

	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := s.deps.DB.Save(&category).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(category)
}

// Delete removes a category node.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	result := s.deps.DB.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return handler.MapError(c, result.Error)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, "not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
