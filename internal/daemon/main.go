// Package daemon assembles the shop service: database, key-value store,
// payment gateway, seed data, and the web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/config"
	"github.com/GoMarket-Shop/GoMarket/internal/db/dsn"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/kv"
	"github.com/GoMarket-Shop/GoMarket/internal/payment"
	"github.com/GoMarket-Shop/GoMarket/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
// Dev mode swaps MySQL for a local SQLite file and Redis for the in-memory
// store, so the daemon runs without external services.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	var dialector gorm.Dialector
	if cfg.DevMode {
		dialector = sqlite.Open("gomarket-dev.db")

		log.Warn().Msg("dev mode enabled: using local sqlite database")
	} else {
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Policy{},
		&models.Permission{},
		&models.UserGroup{},
		&models.UserPolicy{},
		&models.GroupPolicy{},
		&models.UserPermission{},
		&models.GroupPermission{},
		&models.PolicyPermission{},
		&models.Category{},
		&models.Color{},
		&models.Size{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.WishlistItem{},
		&models.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	if err := Seed(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
		return nil
	}

	var store kv.Store
	if cfg.DevMode {
		store = kv.NewMemoryStore()

		log.Warn().Msg("dev mode enabled: using in-memory key-value store")
	} else {
		store, err = kv.NewRedisStore(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect key-value store")
			return nil
		}
	}

	var gateway payment.Gateway
	if cfg.Stripe.SecretKey == "" {
		gateway = payment.NewFakeGateway()

		log.Warn().Msg("no stripe key configured: using the fake payment gateway")
	} else {
		gateway = payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.BaseURL)
	}

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db, store, gateway),
	}
}
