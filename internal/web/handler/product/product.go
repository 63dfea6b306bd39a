// Package product provides the catalog endpoints. Listings are public,
// write operations belong to sellers and are gated by derived permissions.
package product

import (
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
	// Path is the base path of the product endpoints.
	Path = handler.RootPath + "/products"

	// DefaultPageSize for catalog pagination.
	DefaultPageSize = 20
	// MaxPageSize caps client supplied page sizes.
	MaxPageSize = 100
)

type productRequest struct {
	Title       string    `json:"title"       validate:"required,max=250"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents" validate:"required,gt=0"`
	Quantity    int       `json:"quantity"    validate:"gte=0"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	ColorIDs    []uint    `json:"color_ids"`
	SizeIDs     []uint    `json:"size_ids"`
	Active      *bool     `json:"active"`
}

type listResponse struct {
	Items      []models.Product `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalCount int64            `json:"total_count"`
}

// Service implements the product endpoints.
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

	guard := []fiber.Handler{
		auth.RequireAuth(deps.DB, deps.JWT),
		auth.RequireModelPermission(deps.Auth, auth.ResourceProduct, nil),
	}

	app.Get(Path, s.List)
	app.Get(Path+"/:id", s.Get)
	app.Post(Path, append(guard, s.Create)...)
	app.Put(Path+"/:id", append(guard, s.Update)...)
	app.Delete(Path+"/:id", append(guard, s.Delete)...)
}

// List returns active products with search, category and price filters.
func (s *Service) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	tx := s.deps.DB.Model(&models.Product{}).Where("active = ?", true)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if category := c.Query("category_id"); category != "" {
		categoryID, err := uuid.Parse(category)
		if err != nil {
			return handler.Error(c, fiber.StatusBadRequest, "invalid category_id")
		}

		tx = tx.Where("category_id = ?", categoryID)
	}

	if minPrice := c.QueryInt("min_price", -1); minPrice >= 0 {
		tx = tx.Where("price_cents >= ?", minPrice)
	}

	if maxPrice := c.QueryInt("max_price", -1); maxPrice >= 0 {
		tx = tx.Where("price_cents <= ?", maxPrice)
	}

	var totalCount int64
	if err := tx.Count(&totalCount).Error; err != nil {
		return handler.MapError(c, err)
	}

	var products []models.Product

	err := tx.
		Preload("Colors").
		Preload("Sizes").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(listResponse{
		Items:      products,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	})
}

// Get returns one product and counts the view.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product

	err = s.deps.DB.
		Preload("Colors").
		Preload("Sizes").
		First(&product, "id = ?", id).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	// view counter, lost updates are acceptable here
	if err := s.deps.DB.Model(&product).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		log.Error().Err(err).Msg("increment product views failed")
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// Create lists a new product owned by the current user.
func (s *Service) Create(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	var category models.Category
	if err := s.deps.DB.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		return handler.MapError(c, err)
	}

	product := models.Product{
		SellerID:    user.ID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Quantity:    req.Quantity,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.deps.DB.Create(&product).Error; err != nil {
		return handler.MapError(c, err)
	}

	if err := s.replaceVariants(&product, req.ColorIDs, req.SizeIDs); err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// Update modifies an owned product. Admins may edit any product.
func (s *Service) Update(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := s.deps.DB.First(&product, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	if product.SellerID != user.ID && !user.Superuser {
		return handler.MapError(c, auth.ErrPermissionDenied)
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	product.Title = req.Title
	product.Description = req.Description
	product.PriceCents = req.PriceCents
	product.Quantity = req.Quantity
	product.CategoryID = req.CategoryID

	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.deps.DB.Save(&product).Error; err != nil {
		return handler.MapError(c, err)
	}

	if err := s.replaceVariants(&product, req.ColorIDs, req.SizeIDs); err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// Delete unlists an owned product (soft delete).
func (s *Service) Delete(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := s.deps.DB.First(&product, "id = ?", id).Error; err != nil {
		return handler.MapError(c, err)
	}

	if product.SellerID != user.ID && !user.Superuser {
		return handler.MapError(c, auth.ErrPermissionDenied)
	}

	if err := s.deps.DB.Delete(&product).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// replaceVariants sets the color and size associations from id lists.
func (s *Service) replaceVariants(product *models.Product, colorIDs, sizeIDs []uint) error {
	if colorIDs != nil {
		var colors []models.Color
		if err := s.deps.DB.Find(&colors, colorIDs).Error; err != nil {
			return err
		}

		if err := s.deps.DB.Model(product).Association("Colors").Replace(colors); err != nil {
			return err
		}
	}

	if sizeIDs != nil {
		var sizes []models.Size
		if err := s.deps.DB.Find(&sizes, sizeIDs).Error; err != nil {
			return err
		}

		if err := s.deps.DB.Model(product).Association("Sizes").Replace(sizes); err != nil {
			return err
		}
	}

	return nil
}
