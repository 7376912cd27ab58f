// Package config loads per-service configuration from the environment.
// Signing secrets live here and are injected into constructors at startup;
// nothing in the codebase reads them from a process-wide singleton.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// AuthService configures the credential authority service.
type AuthService struct {
	AppName string `env:"APP_NAME" envDefault:"photostream auth"`
	Port    string `env:"PORT" envDefault:"3001"`
	Env     string `env:"ENV" envDefault:"DEV"`

	// Distinct secrets per credential class: a leaked access secret must
	// not forge refresh credentials, and vice versa.
	AccessSecret  string `env:"JWT_ACCESS_SECRET,notEmpty"`
	RefreshSecret string `env:"JWT_REFRESH_SECRET,notEmpty"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DBPath string `env:"AUTH_DB_PATH" envDefault:"./data/auth.db"`
}

// PhotoService configures the photo service. It carries only the access
// secret: verifying access credentials requires no call to the auth
// service, and the photo service can never mint credentials of any class.
type PhotoService struct {
	AppName string `env:"APP_NAME" envDefault:"photostream photos"`
	Port    string `env:"PORT" envDefault:"3002"`
	Env     string `env:"ENV" envDefault:"DEV"`

	AccessSecret string `env:"JWT_ACCESS_SECRET,notEmpty"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"1h"`

	DBPath string `env:"PHOTO_DB_PATH" envDefault:"./data/photos.db"`
}

// Gateway configures the pass-through reverse proxy.
type Gateway struct {
	AppName string `env:"APP_NAME" envDefault:"photostream gateway"`
	Port    string `env:"PORT" envDefault:"8000"`
	Env     string `env:"ENV" envDefault:"DEV"`

	AuthServiceURL  string `env:"AUTH_SERVICE_URL" envDefault:"http://127.0.0.1:3001"`
	PhotoServiceURL string `env:"PHOTO_SERVICE_URL" envDefault:"http://127.0.0.1:3002"`
}

func LoadAuthService() (AuthService, error) {
	var cfg AuthService
	if err := env.Parse(&cfg); err != nil {
		return AuthService{}, errors.Wrap(err, "config.LoadAuthService")
	}
	return cfg, nil
}

func LoadPhotoService() (PhotoService, error) {
	var cfg PhotoService
	if err := env.Parse(&cfg); err != nil {
		return PhotoService{}, errors.Wrap(err, "config.LoadPhotoService")
	}
	return cfg, nil
}

func LoadGateway() (Gateway, error) {
	var cfg Gateway
	if err := env.Parse(&cfg); err != nil {
		return Gateway{}, errors.Wrap(err, "config.LoadGateway")
	}
	return cfg, nil
}

// IsDev reports whether env names a development deployment. Error responses
// include underlying cause detail only in this mode.
func IsDev(envName string) bool {
	return envName == "DEV" || envName == "development"
}
