package config

import (
	"time"

	"github.com/GoMarket-Shop/GoMarket/internal/logger"
)

const (
	defaultAccessLifetime  = 30 * time.Minute
	defaultRefreshLifetime = 7 * 24 * time.Hour
	defaultOtpTTL          = 2 * time.Minute
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Redis     Redis
	JWT       JWT
	OTP       OTP
	SMTP      SMTP
	Stripe    Stripe
	Log       logger.Log
	Webserver Webserver
}

// DB holds the database configuration settings.
type DB struct {
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Redis holds the key-value store connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// JWT holds the token signing settings.
type JWT struct {
	Secret          string
	AccessLifetime  Duration `toml:"accessLifetime"`
	RefreshLifetime Duration `toml:"refreshLifetime"`
}

// OTP holds one-time passcode settings.
type OTP struct {
	TTL Duration `toml:"ttl"`
}

// SMTP holds outbound mail settings. When Host is empty the daemon falls
// back to logging outbound mail instead of sending it.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Stripe holds the payment gateway settings.
type Stripe struct {
	SecretKey string `toml:"secretKey"`
	BaseURL   string `toml:"baseURL"`
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	DisableRecover bool   // disable recover middleware
}
