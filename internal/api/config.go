package api

import "time"

// Config holds the HTTP surface settings.
type Config struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":5000"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	SecureCookie    bool          `envconfig:"HTTP_SECURE_COOKIE" default:"false"`
}
