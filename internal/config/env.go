package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN   string
	NATSURL string

	// DefaultRatePerKm applies when a trip carries no incentive rate of its own.
	DefaultRatePerKm float64

	JWTSecret string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	natsURL := strings.TrimSpace(os.Getenv("NATS_URL"))
	if natsURL == "" {
		natsURL = "nats://127.0.0.1:4222"
	}

	rate := 2.0
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_INCENTIVE_RATE")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			rate = v
		}
	}

	return Env{
		AppAddr:          appAddr,
		GinMode:          ginMode,
		DBDSN:            strings.TrimSpace(os.Getenv("DB_DSN")),
		NATSURL:          natsURL,
		DefaultRatePerKm: rate,
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}
}
