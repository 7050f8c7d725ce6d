package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Mode selects where records are kept.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Driver is the backend protocol implied by the backend URL.
type Driver string

const (
	DriverREST     Driver = "rest"
	DriverPostgres Driver = "postgres"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Control Financiero"`
		Port int    `envconfig:"PORT" default:"8080"`
		Mode Mode   `envconfig:"APP_MODE" default:"remote"`
	}

	Backend struct {
		URL     string        `envconfig:"SUPABASE_URL" required:"true"`
		Key     string        `envconfig:"SUPABASE_ANON_KEY" required:"true"`
		Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
		File  string `envconfig:"LOG_FILE" default:"controlfin.log"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	c.Backend.URL = strings.TrimSpace(c.Backend.URL)
	c.Backend.Key = strings.TrimSpace(c.Backend.Key)

	var errs []error

	if c.Backend.URL == "" {
		errs = append(errs, errors.New("SUPABASE_URL must not be blank"))
	}

	if c.Backend.Key == "" {
		errs = append(errs, errors.New("SUPABASE_ANON_KEY must not be blank"))
	}

	switch c.App.Mode {
	case ModeRemote, ModeLocal:
	default:
		errs = append(errs, fmt.Errorf("APP_MODE must be %q or %q, got %q", ModeRemote, ModeLocal, c.App.Mode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	if _, err := c.Driver(); err != nil {
		return err
	}

	return nil
}

// Driver reports which backend implementation serves the backend URL.
func (c *Config) Driver() (Driver, error) {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return "", fmt.Errorf("parsing SUPABASE_URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return DriverREST, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	}

	return "", fmt.Errorf("SUPABASE_URL: unsupported scheme %q", u.Scheme)
}
