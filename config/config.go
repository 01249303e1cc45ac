package config

import (
	"time"

	"github.com/ardanlabs/conf/v3"
)

type Config struct {
	conf.Version
	Web         Web
	DB          DB
	Cors        Cors
	Session     Session
	Rate        Rate
	Slug        Slug
	Certificate Certificate
	Admin       Admin
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:catalog"`
	MaxIdleConns int    `conf:"default:3"`
	MaxOpenConns int    `conf:"default:10"`
	DisableTLS   bool   `conf:"default:true"`
	Migrate      bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

type Session struct {
	Lifetime     time.Duration `conf:"default:24h"`
	CookieSecure bool          `conf:"default:false"`
}

type Rate struct {
	Burst int `conf:"default:20"`
	// Minutes of inactivity after which a client's bucket is forgotten.
	Expiry   int     `conf:"default:10"`
	LimitRPS float64 `conf:"default:5"`
}

type Slug struct {
	MaxAttempts int `conf:"default:10"`
}

type Certificate struct {
	BaseURL string `conf:"default:https://certificates.example.com"`
}

// Admin is the administrator account ensured at startup. It is skipped when
// Email is empty.
type Admin struct {
	Email    string
	Password string `conf:"mask"`
}
