package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/otp"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
)

// Detail is the uniform error body of the API.
type Detail struct {
	Detail string `json:"detail"`
}

// ValidationDetail lists per-field validation failures.
type ValidationDetail struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

// Error writes a Detail body with the given status.
func Error(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(Detail{Detail: detail})
}

// MapError translates service errors into HTTP responses. Unknown errors
// become a generic 500, the cause goes to the log only.
func MapError(c *fiber.Ctx, err error) error {
	var (
		rateErr  *otp.RateLimitError
		validErr validator.ValidationErrors
	)

	switch {
	case errors.As(err, &rateErr):
		retry := int(rateErr.RetryAfter.Seconds())
		if retry < 1 {
			retry = 1
		}

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))

		return Error(c, fiber.StatusTooManyRequests, "try again later")
	case errors.As(err, &validErr):
		fields := make(map[string]string, len(validErr))
		for _, fe := range validErr {
			fields[fe.Field()] = fe.Tag()
		}

		return c.Status(fiber.StatusBadRequest).JSON(ValidationDetail{
			Detail: "validation failed",
			Fields: fields,
		})
	case errors.Is(err, otp.ErrInvalidOtp):
		return Error(c, fiber.StatusBadRequest, "invalid or expired code")
	case errors.Is(err, auth.ErrAuthenticationFailed),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenSuperseded):
		return Error(c, fiber.StatusUnauthorized, "authentication failed")
	case errors.Is(err, auth.ErrPermissionDenied):
		return Error(c, fiber.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, payment.ErrIntentNotFound):
		return Error(c, fiber.StatusNotFound, "not found")
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled handler error")

		return Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
