// Package handler holds the shared pieces of the API handlers: the
// dependency bundle every handler is initialized with and the error to
// HTTP status mapping.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/config"
	"github.com/GoMarket-Shop/GoMarket/internal/mailer"
	"github.com/GoMarket-Shop/GoMarket/internal/otp"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
	"github.com/GoMarket-Shop/GoMarket/internal/token"
)

// Deps bundles everything a handler may need. Built once in web.New and
// passed to every Init.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	JWT      *auth.JWTManager
	OTP      *otp.Service
	Tokens   *token.Service
	Mailer   mailer.Mailer
	Payments payment.Gateway
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps)
}
