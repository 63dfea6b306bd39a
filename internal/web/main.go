// Package web builds the fiber application: middleware, handler wiring,
// and the serve/shutdown lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/config"
	"github.com/GoMarket-Shop/GoMarket/internal/kv"
	accesslog "github.com/GoMarket-Shop/GoMarket/internal/logger/adapter/fiber"
	"github.com/GoMarket-Shop/GoMarket/internal/mailer"
	"github.com/GoMarket-Shop/GoMarket/internal/otp"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
	"github.com/GoMarket-Shop/GoMarket/internal/token"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/cart"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/category"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/coupon"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/notification"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/order"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/payments"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/product"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/users"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler/wishlist"
)

// CheckAlivePath is used by load balancers, it is excluded from the access
// log via config.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	deps         *handler.Deps
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// checkAlive reports readiness; it flips to 503 during graceful shutdown.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration. The KV store
// and the payment gateway are injected so tests can swap them out.
func New(cfg *config.Config, db *gorm.DB, store kv.Store, gateway payment.Gateway) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if store == nil {
		panic("kv store cannot be nil")
	}

	if gateway == nil {
		panic("payment gateway cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoMarket",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	tokens := token.NewService(store)
	authService := auth.NewService(db)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessLifetime.Duration, cfg.JWT.RefreshLifetime.Duration, tokens)

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Auth:     authService,
		JWT:      jwtManager,
		OTP:      otp.NewService(store),
		Tokens:   tokens,
		Mailer:   mailer.FromConfig(cfg),
		Payments: gateway,
	}

	// init web service
	service := &Service{
		cfg:  cfg,
		App:  app,
		db:   db,
		deps: deps,
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	users.Handler.Init(app, deps)
	category.Handler.Init(app, deps)
	product.Handler.Init(app, deps)
	cart.Handler.Init(app, deps)
	order.Handler.Init(app, deps)
	payments.Handler.Init(app, deps)
	coupon.Handler.Init(app, deps)
	wishlist.Handler.Init(app, deps)
	notification.Handler.Init(app, deps)

	app.Use(func(c *fiber.Ctx) error {
		return handler.Error(c, fiber.StatusNotFound, "not found")
	})

	return service
}

// Deps exposes the handler dependency bundle, tests reach services through
// it.
func (s *Service) Deps() *handler.Deps {
	return s.deps
}
