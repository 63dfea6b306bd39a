// Package notification exposes the per-user notification feed. Entries are
// created internally on order and payment events.
package notification

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
)

const (
	// Path is the base path of the notification endpoints.
	Path = handler.RootPath + "/notifications"
)

type unreadResponse struct {
	Unread int64 `json:"unread"`
}

// Service implements the notification endpoints.
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
	guard := auth.RequireModelPermission(deps.Auth, auth.ResourceNotification, nil)

	app.Get(Path, requireAuth, guard, s.List)
	app.Get(Path+"/unread", requireAuth, guard, s.UnreadCount)
	app.Patch(Path+"/:id/read", requireAuth, guard, s.MarkRead)
}

// List returns the notifications of the current user, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var notes []models.Notification

	err := s.deps.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(notes)
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var unread int64

	err := s.deps.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&unread).Error
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(unreadResponse{Unread: unread})
}

// MarkRead marks one notification of the current user as read.
func (s *Service) MarkRead(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	result := s.deps.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("is_read", true)
	if result.Error != nil {
		return handler.MapError(c, result.Error)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, "not found")
	}

	return c.Status(fiber.StatusOK).JSON(handler.Detail{Detail: "marked read"})
}
