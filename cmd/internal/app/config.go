package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"agrigate/cmd/internal/auth/token"
)

// Config contains all runtime configuration, loaded from AGRI_-prefixed
// environment variables. Secrets (signing key, upstream API key) are
// runtime-only; nothing security-sensitive lives in source.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	MaxHeaderBytes    int           `env:"HTTP_MAX_HEADER_BYTES" envDefault:"1048576"`
	MaxBodyBytes      int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`

	// CORS admits the browser frontend, which is served from a different
	// origin. An empty allow-list admits any origin.
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	CORSMaxAgeSeconds    int      `env:"CORS_MAX_AGE_SECONDS" envDefault:"600"`

	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Gemini   Gemini   `envPrefix:"GEMINI_"`
}

// Database contains connection pool parameters.
type Database struct {
	DSN      string `env:"DSN,required"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"10"`
	MinConns int32  `env:"MIN_CONNS" envDefault:"0"`
}

// JWT contains token issuance parameters.
type JWT struct {
	Secret string        `env:"SECRET,required"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Gemini locates the text-generation upstream.
type Gemini struct {
	URL     string        `env:"URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// LoadConfig loads and validates Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "AGRI_"}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the startup security policy.
// Fail-fast is intentional: running with a weak signing secret in
// production is unacceptable.
func (c Config) Validate() error {
	if len(c.JWT.Secret) < token.MinSecretBytes {
		return fmt.Errorf(
			"security policy: AGRI_JWT_SECRET must be at least %d bytes", token.MinSecretBytes)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("AGRI_JWT_TTL must be positive")
	}
	return nil
}
