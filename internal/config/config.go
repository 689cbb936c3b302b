// Package config loads server settings from flags, the environment and .env files.
package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables; they override flags.
const (
	EnvPort        = "PORT"
	EnvJWTPassword = "JWT_PASSWORD"
	EnvDatabaseDSN = "DATABASE_DSN"
	EnvTokenTTL    = "TOKEN_TTL"
)

// Fallbacks used when neither a flag nor the environment sets a value.
// InsecureSecret is public knowledge and must never be used outside development.
const (
	DefaultPort    = "3000"
	InsecureSecret = "Secret"
)

// Config is the process-wide configuration, constructed once in main and passed down.
type Config struct {
	Addr            string
	DatabaseDSN     string // empty selects the in-memory store
	JWTSecret       string
	TokenTTL        time.Duration // <= 0 disables expiry
	LoginWindow     time.Duration
	LoginMaxFails   int
	LoginBlock      time.Duration
	ShutdownTimeout time.Duration
}

// UsesInsecureSecret reports whether the signing key is the built-in fallback.
func (c *Config) UsesInsecureSecret() bool { return c.JWTSecret == InsecureSecret }

// UsesMemoryStore reports whether no database is configured.
func (c *Config) UsesMemoryStore() bool { return c.DatabaseDSN == "" }

// LoadDotEnv loads .env and .env.local if present. Existing variables win.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load parses args (without the program name) and applies environment overrides.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("brainly", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", ":"+DefaultPort, "listen address")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", "", "PostgreSQL DSN (empty: in-memory store)")
	fs.StringVar(&cfg.JWTSecret, "jwt-key", InsecureSecret, "HS256 signing key")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 24*time.Hour, "session token TTL (0 disables expiry)")
	fs.DurationVar(&cfg.LoginWindow, "login-window", 15*time.Minute, "window for counting failed signins")
	fs.IntVar(&cfg.LoginMaxFails, "login-max-fails", 5, "failed signins before lockout")
	fs.DurationVar(&cfg.LoginBlock, "login-block", 15*time.Minute, "lockout duration")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 5*time.Second, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return nil, fmt.Errorf("config: bad %s %q", EnvPort, v)
		}
		host, _, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			host = ""
		}
		cfg.Addr = net.JoinHostPort(host, v)
	}
	applyEnv(EnvJWTPassword, &cfg.JWTSecret)
	applyEnv(EnvDatabaseDSN, &cfg.DatabaseDSN)
	if v, ok := os.LookupEnv(EnvTokenTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: bad %s: %w", EnvTokenTTL, err)
		}
		cfg.TokenTTL = d
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: empty signing key")
	}
	return cfg, nil
}

func applyEnv(key string, target *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}
