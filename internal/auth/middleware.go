package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/token"
)

// localsUserKey is the fiber.Locals slot holding the authenticated user.
const localsUserKey = "CurrentUser"

// localsTokenKey is the fiber.Locals slot holding the raw bearer token.
const localsTokenKey = "BearerToken"

const forbiddenDetail = "You do not have permission to perform this action."

// CurrentUser returns the authenticated user stored by the bearer
// middleware, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// BearerToken returns the raw access token of the current request.
func BearerToken(c *fiber.Ctx) string {
	tok, _ := c.Locals(localsTokenKey).(string)
	return tok
}

// RequireAuth is Fiber middleware that authenticates the request via a
// Bearer access token. The token must be well-signed, unexpired, of access
// kind, and still live under the tracked-set rule; the subject must resolve
// to an existing user. On success the user is stored in fiber.Locals.
func RequireAuth(db *gorm.DB, jwtManager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c)
		}

		raw := strings.TrimPrefix(header, "Bearer ")

		userID, err := jwtManager.Verify(c.Context(), raw, token.KindAccess)
		if err != nil {
			if errors.Is(err, ErrTokenSuperseded) {
				log.Warn().Str("path", c.Path()).Msg("superseded access token presented")
			}

			return unauthorized(c)
		}

		var user models.User
		if err = db.Where("id = ?", userID).First(&user).Error; err != nil {
			return unauthorized(c)
		}

		c.Locals(localsUserKey, &user)
		c.Locals(localsTokenKey, raw)

		return c.Next()
	}
}

// RequireModelPermission is Fiber middleware enforcing the dynamically
// derived permission for a resource route. The permission is resolved from
// the request method, the resource registry, and the optional overrides; an
// unresolvable permission denies by default. Superusers bypass the check.
func RequireModelPermission(authService *Service, resource Resource, overrides Overrides) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		required, ok := ResolveRequiredPermission(c.Method(), resource, "", overrides)
		if !ok {
			// Nothing derivable: deny unless the request is from a superuser.
			if user != nil && user.Superuser {
				return c.Next()
			}

			return forbidden(c)
		}

		authorized, err := authService.Authorize(user, required)
		if err != nil {
			log.Error().Err(err).Str("permission", required).Msg("failed to check permission")

			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"detail": "Internal Server Error"})
		}

		if !authorized {
			if user != nil {
				log.Warn().Str("user_id", user.ID.String()).Str("permission", required).
					Msg("user lacks required permission")
			}

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequirePermission is Fiber middleware that requires one fixed permission,
// bypassing derivation. Used by routes whose permission is not method-shaped.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		authorized, err := authService.Authorize(user, permission)
		if err != nil {
			log.Error().Err(err).Str("permission", permission).Msg("failed to check permission")

			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"detail": "Internal Server Error"})
		}

		if !authorized {
			return forbidden(c)
		}

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"detail": "Authentication credentials were not provided or are invalid."})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": forbiddenDetail})
}
