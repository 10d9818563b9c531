package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries everything cmd/web needs to wire the app. No package-level
// state: gateway credentials travel inside the struct to their constructor.
type Config struct {
	HTTPAddr string
	DBDSN    string

	JWTSecret []byte

	Midtrans MidtransConfig

	GatewayTimeout time.Duration
	StatusCacheTTL time.Duration
}

type MidtransConfig struct {
	ServerKey  string
	ClientKey  string
	Production bool
}

// Enabled reports whether real gateway credentials were configured.
// Without them cmd/web falls back to the in-process mock gateway.
func (m MidtransConfig) Enabled() bool { return m.ServerKey != "" }

func FromEnv() (Config, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return Config{}, fmt.Errorf("DB_DSN environment variable is required")
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return Config{}, fmt.Errorf("SECRET_KEY environment variable is required")
	}

	cfg := Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		DBDSN:    dsn,

		JWTSecret: []byte(secret),

		Midtrans: MidtransConfig{
			ServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
			ClientKey:  os.Getenv("MIDTRANS_CLIENT_KEY"),
			Production: os.Getenv("APP_ENV") == "production",
		},

		GatewayTimeout: durationOr("GATEWAY_TIMEOUT", 15*time.Second),
		StatusCacheTTL: durationOr("STATUS_CACHE_TTL", 5*time.Second),
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationOr(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
